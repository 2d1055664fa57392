// Package testutil provides shared test utilities for shellgate tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shellgate/shellgate/internal/config"
	"github.com/shellgate/shellgate/internal/constants"
)

// SetupTestConfig points SHELLGATE_CONFIG at a temp directory holding the
// given config.toml content and re-initializes the config package. State is
// restored when the test finishes.
func SetupTestConfig(t *testing.T, configContent string) {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, tmpDir)

	if configContent != "" {
		path := filepath.Join(tmpDir, constants.ConfigFileName)
		if err := os.WriteFile(path, []byte(configContent), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}

	config.Reset()
	config.Init()
	t.Cleanup(config.Reset)
}

// SetupTestHome points HOME at a temp directory so settings-file lookups
// stay inside the test sandbox. Returns the temp home path.
func SetupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// WriteClaudeSettings writes a .claude/settings.json with the given
// permission rule literals under dir.
func WriteClaudeSettings(t *testing.T, dir string, allow, deny []string) {
	t.Helper()

	settingsDir := filepath.Join(dir, constants.ClaudeConfigDir)
	if err := os.MkdirAll(settingsDir, constants.DirMode); err != nil {
		t.Fatal(err)
	}

	settings := map[string]any{
		"permissions": map[string]any{
			"allow": allow,
			"deny":  deny,
		},
	}
	data, err := json.Marshal(settings)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(settingsDir, constants.ClaudeSettingsFile)
	if err := os.WriteFile(path, data, constants.FileMode); err != nil {
		t.Fatal(err)
	}
}

// MinimalTestConfig is a minimal config for testing.
const MinimalTestConfig = `
enabled = true

allow = ["Bash(ls:*)", "Bash(cat:*)", "Bash(echo:*)"]
deny = ["Bash(rm -rf:*)"]

[audit]
disabled = true
`
