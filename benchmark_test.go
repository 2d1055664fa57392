package main

import (
	"strings"
	"testing"

	"github.com/shellgate/shellgate/internal/engine"
	"github.com/shellgate/shellgate/internal/hook"
	"github.com/shellgate/shellgate/internal/shell"
)

// BenchmarkParse benchmarks the tokenize/segment/normalize pipeline
func BenchmarkParse(b *testing.B) {
	benchmarks := []struct {
		name string
		raw  string
	}{
		{"simple", "git status"},
		{"chained", "git add . && git commit -m 'test' && git push"},
		{"piped", "cat file.txt | grep foo | wc -l"},
		{"wrapped", "VAR=value timeout 30 npm test -v && echo done"},
		{"redirects", "npm test > out.log 2>&1 &"},
		{"subshell", "bash -c 'npm test && git status'"},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = shell.Parse(bm.raw)
			}
		})
	}
}

// BenchmarkEvaluate benchmarks the full decision engine
func BenchmarkEvaluate(b *testing.B) {
	set := fuzzRuleSet()

	benchmarks := []struct {
		name string
		raw  string
	}{
		{"allowed_simple", "git status"},
		{"allowed_chain", "git add . && git status"},
		{"denied", "rm -rf /"},
		{"no_match", "cargo build"},
		{"parse_error", "echo $(whoami)"},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = engine.Evaluate(bm.raw, set)
			}
		})
	}
}

// BenchmarkProcess benchmarks the full hook transport
func BenchmarkProcess(b *testing.B) {
	benchmarks := []struct {
		name  string
		input string
	}{
		{"simple", `{"tool_name":"Bash","tool_input":{"command":"git status"}}`},
		{"chained", `{"tool_name":"Bash","tool_input":{"command":"git status && git log"}}`},
		{"with_wrapper", `{"tool_name":"Bash","tool_input":{"command":"timeout 30 npm test"}}`},
		{"non_bash", `{"tool_name":"Read","tool_input":{"file_path":"/tmp/test"}}`},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = hook.ProcessWithResult(strings.NewReader(bm.input))
			}
		})
	}
}

// BenchmarkRuleMatch benchmarks a single rule lookup over a realistic set
func BenchmarkRuleMatch(b *testing.B) {
	set := fuzzRuleSet()
	commands := []string{"git status", "npm test -v", "cargo build", "rm -rf /tmp"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cmd := commands[i%len(commands)]
		for _, r := range set.Allow {
			if r.Matches(cmd) {
				break
			}
		}
	}
}
