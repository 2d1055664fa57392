// Package rules parses and evaluates Bash permission rules of the literal
// form Bash(<pattern>:*) (prefix match) or Bash(<pattern>) (exact match).
package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ToolPrefix is the only tool whose rules this engine evaluates.
const ToolPrefix = "Bash"

// ErrInvalidRule is returned for rule literals outside the accepted shape.
var ErrInvalidRule = errors.New("invalid permission rule")

// Rule is a single parsed permission rule. Immutable once loaded.
type Rule struct {
	// Raw is the original literal, e.g. "Bash(npm test:*)".
	Raw string
	// Pattern is the command pattern inside the parentheses.
	Pattern string
	// Wildcard marks a :* prefix rule; otherwise the match is exact.
	Wildcard bool
}

// Parse parses a rule literal. Literals for other tools or with a malformed
// shape are rejected.
func Parse(literal string) (Rule, error) {
	inner, ok := strings.CutPrefix(literal, ToolPrefix+"(")
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q is not a %s rule", ErrInvalidRule, literal, ToolPrefix)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q missing closing parenthesis", ErrInvalidRule, literal)
	}

	rule := Rule{Raw: literal, Pattern: inner}
	if pattern, ok := strings.CutSuffix(inner, ":*"); ok {
		rule.Pattern = pattern
		rule.Wildcard = true
	}
	if rule.Pattern == "" {
		return Rule{}, fmt.Errorf("%w: %q has an empty pattern", ErrInvalidRule, literal)
	}
	return rule, nil
}

// Matches reports whether the rule covers the given normalized command.
// A wildcard rule matches the pattern itself or the pattern followed by a
// whitespace boundary, so Bash(npm test:*) covers "npm test -v" but never
// "npm testing". Matching is case-sensitive and does not normalize
// whitespace.
func (r Rule) Matches(command string) bool {
	if command == r.Pattern {
		return true
	}
	if !r.Wildcard {
		return false
	}
	if !strings.HasPrefix(command, r.Pattern) {
		return false
	}
	boundary := command[len(r.Pattern)]
	return boundary == ' ' || boundary == '\t'
}

// Set is an immutable allow/deny rule snapshot for one decision.
type Set struct {
	Allow []Rule
	Deny  []Rule
}

// MatchAny returns the first rule in the list that matches the command.
// The boolean result is a pure OR over the list; order only affects which
// rule is reported.
func MatchAny(command string, list []Rule) (Rule, bool) {
	for _, r := range list {
		if r.Matches(command) {
			return r, true
		}
	}
	return Rule{}, false
}

// ParseAll parses a list of rule literals, skipping invalid entries and
// entries for other tools. It reports the skipped literals so the caller
// can log them.
func ParseAll(literals []string) (parsed []Rule, skipped []string) {
	for _, lit := range literals {
		r, err := Parse(lit)
		if err != nil {
			skipped = append(skipped, lit)
			continue
		}
		parsed = append(parsed, r)
	}
	return parsed, skipped
}
