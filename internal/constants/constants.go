// Package constants defines shared constants used across the shellgate codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const (
	EnvConfigDir = "SHELLGATE_CONFIG"
	EnvDisabled  = "SHELLGATE_DISABLE"
)

// Application paths
const (
	AppName             = "shellgate"
	XDGConfigSubdir     = ".config"
	ClaudeConfigDir     = ".claude"
	ClaudeSettingsFile  = "settings.json"
	ClaudeLocalSettings = "settings.local.json"
	ConfigFileName      = "config.toml"
	AuditLogFileName    = "audit.log"
)
