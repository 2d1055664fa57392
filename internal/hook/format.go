package hook

import (
	"encoding/json"

	"github.com/shellgate/shellgate/internal/logger"
)

// FormatAllow returns the JSON allow output. Defer produces no output at
// all, so this is the only decision ever serialized.
func FormatAllow(reason string) string {
	output := Output{
		HookSpecificOutput: SpecificOutput{
			HookEventName:            EventPreToolUse,
			PermissionDecision:       DecisionAllow,
			PermissionDecisionReason: reason,
		},
	}
	data, err := json.Marshal(output)
	if err != nil {
		// Marshal of a flat struct cannot realistically fail; defer anyway.
		logger.Debug("failed to marshal allow output", "error", err)
		return ""
	}
	return string(data)
}
