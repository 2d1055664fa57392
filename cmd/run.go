package cmd

import (
	"fmt"
	"os"

	"github.com/shellgate/shellgate/internal/hook"
	"github.com/spf13/cobra"
)

// runHook is the default command that processes a hook request on stdin.
// An allow decision is written to stdout; any defer stays silent so the
// hosting tool falls back to its normal approval flow.
func runHook(cmd *cobra.Command, args []string) {
	result := hook.ProcessWithResult(os.Stdin)
	if result.Output != "" {
		fmt.Print(result.Output)
	}
}
