// Package cmd implements the CLI commands for shellgate.
package cmd

import (
	"os"

	"github.com/shellgate/shellgate/internal/audit"
	"github.com/shellgate/shellgate/internal/config"
	"github.com/shellgate/shellgate/internal/constants"
	"github.com/shellgate/shellgate/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configDir  string
	noAuditLog bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shellgate",
	Short: "Claude Code Bash permission hook",
	Long: `shellgate is a PreToolUse hook for Claude Code that auto-allows Bash
commands already covered by the permission rules in your settings files,
without ever widening what you approved.

When called without arguments, it reads a JSON hook request from stdin and
writes an allow decision to stdout when every command in the input matches
an allow rule and none matches a deny rule. Anything it cannot prove
allowed is silently deferred to the normal approval flow.

Usage in ~/.claude/settings.json:
  "hooks": {
    "PreToolUse": [{
      "matcher": "Bash",
      "hooks": [{"type": "command", "command": "shellgate"}]
    }]
  }`,
	// Run the hook by default when no subcommand is given
	Run: runHook,
	// Silence usage on errors
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initApp)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Config directory (or set SHELLGATE_CONFIG env var)")
	rootCmd.PersistentFlags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging")
}

// initApp initializes the application (logger, config, audit)
func initApp() {
	logger.Init(logger.Options{Verbose: verbose})

	if configDir != "" {
		os.Setenv(constants.EnvConfigDir, configDir)
	}

	config.Init()

	cfg := config.Get()
	audit.Init(cfg.AuditPath, cfg.AuditMaxSize, noAuditLog || cfg.AuditDisabled)
}
