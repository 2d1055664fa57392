// Package hook implements the PreToolUse transport for shellgate: JSON in
// on stdin, a permission decision out on stdout. The decision itself is
// made by the engine package; this layer only moves bytes and maps the
// verdict onto the hook protocol.
package hook

// Tool names
const ToolNameBash = "Bash"

// Hook event names
const EventPreToolUse = "PreToolUse"

// Permission decisions
const DecisionAllow = "allow"

// Audit log version
const AuditVersion = 1

// ToolInputData contains the command details from the Bash tool.
type ToolInputData struct {
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Timeout     int    `json:"timeout,omitempty"`
}

// Input represents the JSON input received from the PreToolUse hook.
type Input struct {
	SessionID      string        `json:"session_id"`
	TranscriptPath string        `json:"transcript_path"`
	Cwd            string        `json:"cwd"`
	PermissionMode string        `json:"permission_mode"`
	HookEventName  string        `json:"hook_event_name"`
	ToolName       string        `json:"tool_name"`
	ToolInput      ToolInputData `json:"tool_input"`
	ToolUseID      string        `json:"tool_use_id"`
}

// Output represents the JSON response written back to the hosting tool.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput contains the permission decision details.
type SpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// Result contains the outcome of processing one hook invocation. Output is
// empty whenever the verdict defers: deferring means staying silent so the
// normal approval flow takes over, identically for every defer reason.
type Result struct {
	Command string // the original command that was processed
	Allowed bool   // whether the command was auto-allowed
	Reason  string // human-readable reason, for logs and audit
	Output  string // JSON written to stdout; empty on defer
}
