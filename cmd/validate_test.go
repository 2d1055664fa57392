package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/shellgate/shellgate/internal/config"
	"github.com/spf13/cobra"
)

// captureStdout runs fn and returns everything it printed to stdout.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()

	w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestRunValidateShowsRules(t *testing.T) {
	setupTestConfig(t)

	output := captureStdout(t, func() error {
		return runValidate(&cobra.Command{}, []string{})
	})

	if !strings.Contains(output, "Config:") {
		t.Errorf("output missing config path:\n%s", output)
	}
	if !strings.Contains(output, "Enabled: true") {
		t.Errorf("output missing enabled state:\n%s", output)
	}
	for _, rule := range []string{"Bash(ls:*)", "Bash(cat:*)", "Bash(echo:*)", "Bash(rm -rf:*)"} {
		if !strings.Contains(output, rule) {
			t.Errorf("output missing rule %s:\n%s", rule, output)
		}
	}
	if !strings.Contains(output, "Deny rules: 1") || !strings.Contains(output, "Allow rules: 3") {
		t.Errorf("output missing rule counts:\n%s", output)
	}
}

func TestRunValidateDisabledConfig(t *testing.T) {
	setupTestConfig(t)

	// Swap in a disabled config
	tmpDir := t.TempDir()
	t.Setenv("SHELLGATE_CONFIG", tmpDir)
	if err := os.WriteFile(tmpDir+"/config.toml", []byte("enabled = false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	config.Reset()
	config.Init()

	output := captureStdout(t, func() error {
		return runValidate(&cobra.Command{}, []string{})
	})

	if !strings.Contains(output, "Enabled: false") {
		t.Errorf("output missing disabled state:\n%s", output)
	}
}
