package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/shellgate/shellgate/internal/constants"
	"github.com/shellgate/shellgate/internal/logger"
	"github.com/shellgate/shellgate/internal/rules"
)

// claudeSettings mirrors the permissions block of a Claude settings file.
// Only the allow/deny rule literals matter here; everything else in the
// file is someone else's concern.
type claudeSettings struct {
	Permissions struct {
		Allow []string `json:"allow"`
		Deny  []string `json:"deny"`
	} `json:"permissions"`
}

// settingsPaths returns the settings files in merge order: user settings,
// project settings, project local settings.
func settingsPaths(cwd string) []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, constants.ClaudeConfigDir, constants.ClaudeSettingsFile))
	}
	if cwd != "" {
		paths = append(paths,
			filepath.Join(cwd, constants.ClaudeConfigDir, constants.ClaudeSettingsFile),
			filepath.Join(cwd, constants.ClaudeConfigDir, constants.ClaudeLocalSettings),
		)
	}
	return paths
}

// readSettings loads one settings file. A missing file is not an error;
// an unreadable or malformed file is skipped with a debug log, since the
// engine fails closed on anything it cannot prove allowed anyway.
func readSettings(path string) (claudeSettings, bool) {
	var s claudeSettings
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("failed to read settings file", "path", path, "error", err)
		}
		return s, false
	}
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Debug("failed to parse settings file", "path", path, "error", err)
		return s, false
	}
	return s, true
}

// PermissionSet builds the immutable rule snapshot for one decision:
// rules from every settings file in merge order, then the extra rules from
// config.toml. The snapshot is read-only input scoped to one invocation.
func PermissionSet(cwd string) rules.Set {
	cfg := Get()

	var set rules.Set
	for _, path := range settingsPaths(cwd) {
		s, ok := readSettings(path)
		if !ok {
			continue
		}
		allow, skippedAllow := rules.ParseAll(s.Permissions.Allow)
		deny, skippedDeny := rules.ParseAll(s.Permissions.Deny)
		set.Allow = append(set.Allow, allow...)
		set.Deny = append(set.Deny, deny...)
		logger.Debug("loaded settings rules",
			"path", path,
			"allow", len(allow),
			"deny", len(deny),
			"skipped", len(skippedAllow)+len(skippedDeny))
	}

	set.Allow = append(set.Allow, cfg.ExtraAllow...)
	set.Deny = append(set.Deny, cfg.ExtraDeny...)
	return set
}
