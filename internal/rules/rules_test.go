package rules

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		literal  string
		pattern  string
		wildcard bool
	}{
		{"Bash(npm test:*)", "npm test", true},
		{"Bash(git status)", "git status", false},
		{"Bash(rm -rf:*)", "rm -rf", true},
		{"Bash(echo hi there)", "echo hi there", false},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			r, err := Parse(tt.literal)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.literal, err)
			}
			if r.Pattern != tt.pattern || r.Wildcard != tt.wildcard {
				t.Errorf("Parse(%q) = {%q wildcard=%v}, want {%q wildcard=%v}",
					tt.literal, r.Pattern, r.Wildcard, tt.pattern, tt.wildcard)
			}
			if r.Raw != tt.literal {
				t.Errorf("Raw = %q, want %q", r.Raw, tt.literal)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	invalid := []string{
		"",
		"npm test",
		"Bash",
		"Bash()",
		"Bash(:*)",
		"Bash(npm test",
		"Read(/etc/passwd)",
		"WebFetch(domain:example.com)",
	}

	for _, literal := range invalid {
		if _, err := Parse(literal); !errors.Is(err, ErrInvalidRule) {
			t.Errorf("Parse(%q) error = %v, want %v", literal, err, ErrInvalidRule)
		}
	}
}

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		command string
		want    bool
	}{
		// Wildcard rules match at whitespace boundaries only
		{"wildcard exact", "Bash(npm test:*)", "npm test", true},
		{"wildcard with args", "Bash(npm test:*)", "npm test -- --watch", true},
		{"wildcard tab boundary", "Bash(npm test:*)", "npm test\t-v", true},
		{"wildcard no boundary", "Bash(npm test:*)", "npm testing", false},
		{"wildcard partial word", "Bash(git:*)", "github-cli auth", false},
		{"wildcard single word", "Bash(ls:*)", "ls -la", true},

		// Exact rules
		{"exact match", "Bash(git status)", "git status", true},
		{"exact rejects args", "Bash(git status)", "git status -sb", false},
		{"exact rejects prefix", "Bash(git status)", "git", false},

		// Case and whitespace sensitivity
		{"case sensitive", "Bash(ls:*)", "LS -la", false},
		{"no whitespace normalization", "Bash(npm test:*)", "npm  test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.literal)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.literal, err)
			}
			if got := r.Matches(tt.command); got != tt.want {
				t.Errorf("%s.Matches(%q) = %v, want %v", tt.literal, tt.command, got, tt.want)
			}
		})
	}
}

func TestMatchAny(t *testing.T) {
	list, skipped := ParseAll([]string{"Bash(git status)", "Bash(npm test:*)"})
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped rules: %q", skipped)
	}

	rule, ok := MatchAny("npm test -v", list)
	if !ok || rule.Raw != "Bash(npm test:*)" {
		t.Errorf("MatchAny = (%q, %v), want (Bash(npm test:*), true)", rule.Raw, ok)
	}

	if _, ok := MatchAny("cargo build", list); ok {
		t.Error("MatchAny matched a command no rule covers")
	}
}

func TestParseAllSkipsInvalid(t *testing.T) {
	parsed, skipped := ParseAll([]string{
		"Bash(ls:*)",
		"Read(/tmp)",
		"garbage",
		"Bash(cat:*)",
	})
	if len(parsed) != 2 {
		t.Errorf("parsed %d rules, want 2", len(parsed))
	}
	if len(skipped) != 2 {
		t.Errorf("skipped %d literals, want 2", len(skipped))
	}
}
