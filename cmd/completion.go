package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Completion support mostly matters for the inspection subcommands
// (check, validate); the hook itself is invoked by Claude Code, not
// typed by hand.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate a shell completion script",
	Long: `Generate a completion script for shellgate's subcommands.

The script is written to stdout. Load it directly, e.g.

  source <(shellgate completion bash)
  shellgate completion zsh > "${fpath[1]}/_shellgate"
  shellgate completion fish | source

or install it wherever your shell picks up completions.`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
