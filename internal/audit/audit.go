// Package audit provides audit logging for shellgate permission decisions.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shellgate/shellgate/internal/constants"
	"github.com/shellgate/shellgate/internal/logger"
)

// Reason codes
const (
	CodeAllow      = "ALLOW"
	CodeDenyMatch  = "DENY_MATCH"
	CodeNoMatch    = "NO_MATCH"
	CodeParseError = "PARSE_ERROR"
)

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// DefaultMaxSize is the rotation threshold when none is configured.
const DefaultMaxSize = 4 << 20

// Entry represents a single audit log entry (v1 format).
type Entry struct {
	Version     int      `json:"version"`
	ToolUseID   string   `json:"tool_use_id"`
	SessionID   string   `json:"session_id"`
	Timestamp   string   `json:"timestamp"`
	DurationMs  float64  `json:"duration_ms"`
	Command     string   `json:"command"`
	Commands    []string `json:"commands,omitempty"`
	Allowed     bool     `json:"allowed"`
	ReasonCode  string   `json:"reason_code"`
	Reason      string   `json:"reason,omitempty"`
	Rule        string   `json:"rule,omitempty"`
	Cwd         string   `json:"cwd"`
	ConfigPath  string   `json:"config_path"`
	ConfigError string   `json:"config_error,omitempty"`
}

var (
	auditPath string
	maxSize   int64
	mu        sync.Mutex
	enabled   bool
)

// DefaultLogPath returns the default audit log path
// (~/.local/share/shellgate/audit.log).
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", constants.AppName, constants.AuditLogFileName), nil
}

// Init initializes the audit log. If path is empty, the default path is
// used; if maxBytes is zero, DefaultMaxSize applies. Pass disable=true to
// turn audit logging off.
func Init(path string, maxBytes int64, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to get default audit log path", "error", err)
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return err
	}

	auditPath = path
	maxSize = maxBytes
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	enabled = true
	logger.Debug("audit logging initialized", "path", path, "max_size", maxSize)
	return nil
}

// Log writes an entry to the audit log, rotating first if the log has
// outgrown its size threshold. If audit logging is not initialized or
// disabled, this is a no-op.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditPath == "" {
		return nil
	}

	if err := rotateIfNeeded(auditPath, maxSize); err != nil {
		logger.Debug("audit log rotation failed", "error", err)
		// Keep appending to the oversized log rather than dropping entries.
	}

	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}

	f, err := os.OpenFile(auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
		return err
	}

	return nil
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	auditPath = ""
	maxSize = 0
	enabled = false
}
