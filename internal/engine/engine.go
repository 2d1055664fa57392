// Package engine combines the shell parser and the rule matcher into a
// single permission decision per command invocation.
package engine

import (
	"github.com/shellgate/shellgate/internal/rules"
	"github.com/shellgate/shellgate/internal/shell"
)

// Reason identifies why a verdict deferred.
type Reason int

const (
	// ReasonNone marks an allowed verdict.
	ReasonNone Reason = iota
	// ReasonNoMatch: a command matched no allow rule.
	ReasonNoMatch
	// ReasonDenied: a command matched a deny rule.
	ReasonDenied
	// ReasonParseError: the input could not be parsed conservatively.
	ReasonParseError
)

// String returns the audit reason code for the verdict.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ALLOW"
	case ReasonNoMatch:
		return "NO_MATCH"
	case ReasonDenied:
		return "DENY_MATCH"
	case ReasonParseError:
		return "PARSE_ERROR"
	}
	return "UNKNOWN"
}

// Verdict is the engine's sole output: allow, or defer with a reason.
// Every defer variant maps to the same external outcome; the reason exists
// for diagnostics and audit only.
type Verdict struct {
	Allowed bool
	Reason  Reason
	// Command is the normalized command that triggered a NoMatch or Denied
	// reason.
	Command string
	// Rule is the deny rule that matched, for ReasonDenied.
	Rule rules.Rule
	// Err is the parse error, for ReasonParseError.
	Err error
	// Commands is the full normalized command list when parsing succeeded.
	Commands []string
}

// RuleMatch records which rule covered which command, for diagnostics.
type RuleMatch struct {
	Command string
	Rule    rules.Rule
	List    string // "allow" or "deny"
}

// Trace is the structured diagnostic side output of one evaluation. It
// never influences the verdict.
type Trace struct {
	Parse   shell.Trace
	Matches []RuleMatch
}

// Evaluate decides whether every command the input would execute is already
// covered by the allow rules and none is covered by a deny rule. Any parse
// failure defers; deny evaluation is exhaustive across all commands before
// any allow evaluation, so an explicit denial is always reported in
// preference to a mere non-match.
func Evaluate(raw string, set rules.Set) Verdict {
	return EvaluateWithTrace(raw, set, nil)
}

// EvaluateWithTrace is Evaluate with a diagnostic trace filled in.
func EvaluateWithTrace(raw string, set rules.Set, tr *Trace) Verdict {
	var ptr *shell.Trace
	if tr != nil {
		ptr = &tr.Parse
	}

	res, err := shell.ParseWithTrace(raw, ptr)
	if err != nil {
		return Verdict{Reason: ReasonParseError, Err: err}
	}

	// Deny pass first, over every command in the chain.
	for _, cmd := range res.Commands {
		if rule, ok := rules.MatchAny(cmd, set.Deny); ok {
			if tr != nil {
				tr.Matches = append(tr.Matches, RuleMatch{Command: cmd, Rule: rule, List: "deny"})
			}
			return Verdict{Reason: ReasonDenied, Command: cmd, Rule: rule, Commands: res.Commands}
		}
	}

	// Allow pass: every command must be covered. An empty command list
	// (assignment-only input) is vacuously allowed.
	for _, cmd := range res.Commands {
		rule, ok := rules.MatchAny(cmd, set.Allow)
		if !ok {
			return Verdict{Reason: ReasonNoMatch, Command: cmd, Commands: res.Commands}
		}
		if tr != nil {
			tr.Matches = append(tr.Matches, RuleMatch{Command: cmd, Rule: rule, List: "allow"})
		}
	}

	return Verdict{Allowed: true, Commands: res.Commands}
}
