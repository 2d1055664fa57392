package audit

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func setupAuditLog(t *testing.T, maxBytes int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.log")
	Reset()
	if err := Init(path, maxBytes, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(Reset)
	return path
}

func TestLogWritesJSONL(t *testing.T) {
	path := setupAuditLog(t, 0)

	entries := []Entry{
		{
			Version:    1,
			ToolUseID:  "toolu_01",
			SessionID:  "sess_01",
			Command:    "npm test",
			Commands:   []string{"npm test"},
			Allowed:    true,
			ReasonCode: CodeAllow,
			Rule:       "Bash(npm test:*)",
			Cwd:        "/work",
		},
		{
			Version:    1,
			Command:    "rm -rf /",
			Allowed:    false,
			ReasonCode: CodeDenyMatch,
			Reason:     "denied by Bash(rm -rf:*)",
			Rule:       "Bash(rm -rf:*)",
		},
	}
	for _, e := range entries {
		if err := Log(e); err != nil {
			t.Fatalf("Log error: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var got []Entry
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line is not valid JSON: %v\n%s", err, scanner.Text())
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("audit log has %d entries, want 2", len(got))
	}
	if got[0].Command != "npm test" || !got[0].Allowed || got[0].ReasonCode != CodeAllow {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Allowed || got[1].ReasonCode != CodeDenyMatch || got[1].Rule != "Bash(rm -rf:*)" {
		t.Errorf("second entry = %+v", got[1])
	}
	if got[0].Timestamp == "" {
		t.Error("timestamp not stamped on write")
	}
}

func TestLogOmitsEmptyOptionalFields(t *testing.T) {
	path := setupAuditLog(t, 0)

	if err := Log(Entry{Version: 1, Command: "ls", Allowed: true, ReasonCode: CodeAllow}); err != nil {
		t.Fatalf("Log error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	for _, field := range []string{`"rule"`, `"reason"`, `"commands"`, `"config_error"`} {
		if strings.Contains(line, field) {
			t.Errorf("empty field %s should be omitted:\n%s", field, line)
		}
	}
}

func TestRotation(t *testing.T) {
	path := setupAuditLog(t, 64)

	// Pre-grow the log past the threshold so the next Log call rotates.
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 128)+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Log(Entry{Version: 1, Command: "ls", Allowed: true, ReasonCode: CodeAllow}); err != nil {
		t.Fatalf("Log error: %v", err)
	}

	archives, err := filepath.Glob(path + ".*.gz")
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) != 1 {
		t.Fatalf("found %d archives, want 1", len(archives))
	}

	// The archive holds the old contents.
	f, err := os.Open(archives[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("archive is not gzip: %v", err)
	}
	old, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(old), "xxxx") {
		t.Errorf("archive contents unexpected: %q", old[:min(16, len(old))])
	}

	// The fresh log holds only the new entry.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"command":"ls"`) || strings.Contains(string(data), "xxxx") {
		t.Errorf("fresh log contents unexpected:\n%s", data)
	}
}

func TestNoRotationUnderThreshold(t *testing.T) {
	path := setupAuditLog(t, DefaultMaxSize)

	if err := Log(Entry{Version: 1, Command: "ls", Allowed: true, ReasonCode: CodeAllow}); err != nil {
		t.Fatalf("Log error: %v", err)
	}
	archives, _ := filepath.Glob(path + ".*.gz")
	if len(archives) != 0 {
		t.Errorf("unexpected rotation: %q", archives)
	}
}

func TestDisabledIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	Reset()
	t.Cleanup(Reset)
	if err := Init(path, 0, true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if IsEnabled() {
		t.Error("IsEnabled = true after disabled Init")
	}
	if err := Log(Entry{Version: 1, Command: "ls"}); err != nil {
		t.Fatalf("Log error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled audit log wrote a file")
	}
}

func TestUninitializedIsNoOp(t *testing.T) {
	Reset()
	if err := Log(Entry{Version: 1, Command: "ls"}); err != nil {
		t.Fatalf("Log on uninitialized audit should be a no-op, got %v", err)
	}
}
