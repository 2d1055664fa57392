package cmd

import (
	"fmt"
	"os"

	"github.com/shellgate/shellgate/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and show the merged rule set",
	Long: `Validate checks the shellgate configuration and displays the merged
allow/deny rules from every settings source.

This is useful for:
- Checking that your config.toml syntax is correct
- Seeing which rules the hook will actually evaluate
- Debugging why a command is not being auto-allowed`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("failed to load configuration")
	}

	if path := config.GetConfigPath(); path != "" {
		fmt.Printf("Config: %s\n", path)
	} else {
		fmt.Println("Config: embedded defaults")
	}
	if err := config.InitError(); err != nil {
		fmt.Printf("Config error: %v\n", err)
	}
	fmt.Printf("Enabled: %v\n", cfg.Enabled)
	fmt.Println()

	cwd, _ := os.Getwd()
	set := config.PermissionSet(cwd)

	fmt.Printf("Deny rules: %d\n", len(set.Deny))
	for _, r := range set.Deny {
		fmt.Printf("  - %s\n", r.Raw)
	}
	fmt.Println()

	fmt.Printf("Allow rules: %d\n", len(set.Allow))
	for _, r := range set.Allow {
		fmt.Printf("  - %s\n", r.Raw)
	}

	return nil
}
