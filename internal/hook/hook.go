package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shellgate/shellgate/internal/audit"
	"github.com/shellgate/shellgate/internal/config"
	"github.com/shellgate/shellgate/internal/constants"
	"github.com/shellgate/shellgate/internal/engine"
	"github.com/shellgate/shellgate/internal/logger"
)

// Process reads one hook invocation from r and returns whether it was
// auto-allowed along with the reason.
func Process(r io.Reader) (allowed bool, reason string) {
	result := ProcessWithResult(r)
	return result.Allowed, result.Reason
}

// ProcessWithResult reads one hook invocation from r and returns a Result
// with full details. Everything that is not provably covered by the allow
// rules defers: unreadable input, non-Bash tools, a disabled config, parse
// errors, deny matches, and unmatched commands all produce the same empty
// output.
func ProcessWithResult(r io.Reader) Result {
	startTime := time.Now()

	rawBytes, err := io.ReadAll(r)
	if err != nil {
		logger.Debug("failed to read input", "error", err)
		return Result{Reason: "failed to read input"}
	}

	var input Input
	if err := json.Unmarshal(rawBytes, &input); err != nil {
		logger.Debug("failed to decode input", "error", err)
		return Result{Reason: "invalid input"}
	}

	if input.ToolName != ToolNameBash {
		logger.Debug("not a Bash command", "tool", input.ToolName)
		return Result{Reason: "not a Bash command"}
	}

	cmd := input.ToolInput.Command
	logger.Debug("processing command", "command", cmd)

	if os.Getenv(constants.EnvDisabled) != "" {
		logger.Debug("shellgate disabled via environment, deferring")
		return Result{Command: cmd, Reason: "disabled"}
	}

	cfg := config.Get()
	if !cfg.Enabled {
		logger.Debug("shellgate disabled in config, deferring")
		return Result{Command: cmd, Reason: "disabled"}
	}

	set := config.PermissionSet(input.Cwd)

	var trace engine.Trace
	verdict := engine.EvaluateWithTrace(cmd, set, &trace)
	logTrace(&trace)

	durationMs := float64(time.Since(startTime).Microseconds()) / 1000.0
	result := Result{Command: cmd, Allowed: verdict.Allowed}

	switch {
	case verdict.Allowed:
		result.Reason = allowReason(&trace)
		result.Output = FormatAllow(result.Reason)
		logger.Debug("allowed", "reason", result.Reason)
	case verdict.Reason == engine.ReasonParseError:
		result.Reason = fmt.Sprintf("parse error: %v", verdict.Err)
		logger.Debug("deferring on parse error", "error", verdict.Err)
	case verdict.Reason == engine.ReasonDenied:
		result.Reason = fmt.Sprintf("%q matches deny rule %s", verdict.Command, verdict.Rule.Raw)
		logger.Debug("deferring on deny match", "command", verdict.Command, "rule", verdict.Rule.Raw)
	default:
		result.Reason = fmt.Sprintf("%q matches no allow rule", verdict.Command)
		logger.Debug("deferring on unmatched command", "command", verdict.Command)
	}

	logAudit(input, verdict, result, durationMs)
	return result
}

// allowReason summarizes which rule covered each command, for the decision
// reason string and the audit trail.
func allowReason(trace *engine.Trace) string {
	if len(trace.Matches) == 0 {
		return "no commands to check"
	}
	parts := make([]string, 0, len(trace.Matches))
	for _, m := range trace.Matches {
		parts = append(parts, m.Rule.Raw)
	}
	return strings.Join(parts, " | ")
}

// logTrace mirrors the engine's diagnostic trace to the debug log. The
// trace never influences the verdict.
func logTrace(trace *engine.Trace) {
	if !logger.IsVerbose() {
		return
	}
	logger.Debug("parse trace",
		"tokens", len(trace.Parse.Tokens),
		"segments", len(trace.Parse.Segments),
		"commands", trace.Parse.Commands)
	for _, step := range trace.Parse.Steps {
		logger.Debug("normalization step", "step", step)
	}
	for _, m := range trace.Matches {
		logger.Debug("rule match", "command", m.Command, "rule", m.Rule.Raw, "list", m.List)
	}
}

// logAudit writes the decision to the audit log.
func logAudit(input Input, verdict engine.Verdict, result Result, durationMs float64) {
	var configError string
	if err := config.InitError(); err != nil {
		configError = err.Error()
	}
	entry := audit.Entry{
		Version:     AuditVersion,
		SessionID:   input.SessionID,
		ToolUseID:   input.ToolUseID,
		Command:     result.Command,
		Commands:    verdict.Commands,
		Allowed:     result.Allowed,
		ReasonCode:  reasonCode(verdict.Reason),
		Reason:      result.Reason,
		DurationMs:  durationMs,
		Cwd:         input.Cwd,
		ConfigPath:  config.GetConfigPath(),
		ConfigError: configError,
	}
	if verdict.Reason == engine.ReasonDenied {
		entry.Rule = verdict.Rule.Raw
	}
	audit.Log(entry)
}

// reasonCode maps an engine verdict to the stable code written to the
// audit log.
func reasonCode(r engine.Reason) string {
	switch r {
	case engine.ReasonDenied:
		return audit.CodeDenyMatch
	case engine.ReasonNoMatch:
		return audit.CodeNoMatch
	case engine.ReasonParseError:
		return audit.CodeParseError
	default:
		return audit.CodeAllow
	}
}
