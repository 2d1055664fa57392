// shellgate - Claude Code PreToolUse hook for Bash permission matching.
//
// Given the shell command a tool is about to run and the allow/deny rules
// from the user's settings files, shellgate decides whether the command is
// already covered by existing approvals:
//
//	WRAPPERS (env vars, export, timeout, time, nice, one level of bash -c)
//	are stripped, chains are split on && || ; |, and every resulting
//	command must match an allow rule with none matching a deny rule.
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "Bash",
//	    "hooks": [{"type": "command", "command": "shellgate"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Bash", "tool_input": {"command": "timeout 30 npm test"}}' | shellgate
package main

import (
	"os"

	"github.com/shellgate/shellgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
