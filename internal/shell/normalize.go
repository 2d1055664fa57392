package shell

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxSubshellDepth caps bash -c / sh -c unwrapping. The outermost command
// is unwrapped once; a subshell nested inside the unwrapped script is left
// untouched as a literal command and must be allow-listed on its own. This
// cap is a security boundary against nested-indirection bypasses.
const MaxSubshellDepth = 1

// assignmentRe matches a leading IDENT= environment-variable assignment.
var assignmentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// durationRe matches the duration argument of timeout: 30, 30.5, 30s, 5m.
var durationRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?[smhd]?$`)

// reservedWords are shell keywords that introduce constructs outside the
// supported grammar subset.
var reservedWords = map[string]bool{
	"if": true, "then": true, "elif": true, "else": true, "fi": true,
	"for": true, "while": true, "until": true, "do": true, "done": true,
	"case": true, "esac": true, "function": true, "select": true,
	"coproc": true, "{": true, "}": true, "[[": true, "!": true,
}

// normalizeSegment reduces one segment to its core commands. src is the
// string the segment's tokens index into; remaining tokens are re-sliced
// from it so the normalized command keeps its original spacing and quoting.
// It returns zero commands for assignment-only statements, one command for
// an ordinary segment, or several when a bash -c script is unwrapped.
func normalizeSegment(src string, seg Segment, depth int, steps *[]string) ([]string, error) {
	toks := seg.Tokens
	strippedRedirect := false

	// Leading environment-variable assignments.
	for len(toks) > 0 && isAssignment(toks[0]) {
		record(steps, "strip assignment %s", toks[0].Text)
		toks = toks[1:]
	}

	// export: assignment-only statements contribute no command; anything
	// after the assignments is normalized as the command itself.
	if len(toks) > 0 && isBareWord(toks[0], "export") {
		record(steps, "strip export")
		toks = toks[1:]
		for len(toks) > 0 && isAssignment(toks[0]) {
			record(steps, "strip assignment %s", toks[0].Text)
			toks = toks[1:]
		}
	}

	// Benign wrappers, which may stack: timeout 30 nice -n 10 cmd.
	for len(toks) > 0 && toks[0].IsWord() && !toks[0].Quoted {
		var err error
		var rest []Token
		switch toks[0].Text {
		case "timeout":
			rest, err = stripTimeout(toks)
		case "nice":
			rest, err = stripNice(toks)
		case "time":
			rest, err = stripTime(toks)
		default:
			rest = nil
		}
		if err != nil {
			return nil, err
		}
		if rest == nil {
			break
		}
		record(steps, "strip wrapper %s", toks[0].Text)
		toks = rest
	}

	if len(toks) > 0 && toks[0].IsWord() && !toks[0].Quoted && reservedWords[toks[0].Text] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConstruct, toks[0].Text)
	}

	// Trailing redirection clauses, scanned strictly from the tail.
	for len(toks) > 0 {
		last := toks[len(toks)-1]
		if last.IsOp(OpRedirect) && isSelfContainedRedirect(last.Text) {
			record(steps, "strip redirect %s", last.Text)
			toks = toks[:len(toks)-1]
			strippedRedirect = true
			continue
		}
		if len(toks) >= 2 {
			prev := toks[len(toks)-2]
			if last.IsWord() && prev.IsOp(OpRedirect) && !isSelfContainedRedirect(prev.Text) {
				record(steps, "strip redirect %s %s", prev.Text, last.Text)
				toks = toks[:len(toks)-2]
				strippedRedirect = true
				continue
			}
		}
		if last.IsOp(OpRedirect) {
			return nil, fmt.Errorf("%w: redirection %q has no target", ErrAmbiguousSegment, last.Text)
		}
		break
	}

	if len(toks) == 0 {
		if strippedRedirect {
			// A bare redirection like "> file" still truncates the file.
			return nil, fmt.Errorf("%w: redirection with no command", ErrAmbiguousSegment)
		}
		// Pure assignment / export statement: nothing executes.
		return nil, nil
	}

	// Anything still carrying an operator is not a simple command.
	for _, t := range toks {
		if t.Kind == Operator {
			return nil, fmt.Errorf("%w: operator %q inside command", ErrAmbiguousSegment, t.Text)
		}
	}

	// One level of bash -c / sh -c indirection.
	if script, ok := subshellScript(toks); ok {
		if depth > 0 {
			record(steps, "unwrap %s -c", toks[0].Text)
			return parseDepth(script, depth-1, steps)
		}
		record(steps, "keep nested %s -c literal", toks[0].Text)
	}

	return []string{src[toks[0].Pos:toks[len(toks)-1].End]}, nil
}

// subshellScript reports whether the tokens have the exact shape
// bash -c '<script>' (or sh -c) and returns the unquoted script.
func subshellScript(toks []Token) (string, bool) {
	if len(toks) != 3 {
		return "", false
	}
	if !isBareWord(toks[0], "bash") && !isBareWord(toks[0], "sh") {
		return "", false
	}
	if !isBareWord(toks[1], "-c") {
		return "", false
	}
	return unquoteWord(toks[2])
}

// unquoteWord returns the contents of a fully-quoted word token. Words that
// are unquoted or only partially quoted do not qualify.
func unquoteWord(tok Token) (string, bool) {
	if !tok.IsWord() || !tok.Quoted || len(tok.Text) < 2 {
		return "", false
	}
	text := tok.Text
	switch text[0] {
	case '\'':
		if text[len(text)-1] != '\'' || strings.ContainsRune(text[1:len(text)-1], '\'') {
			return "", false
		}
		return text[1 : len(text)-1], true
	case '"':
		if text[len(text)-1] != '"' {
			return "", false
		}
		inner := text[1 : len(text)-1]
		// Reject words like "a"b"c" where the closing quote is not the
		// final one; a correct scan ends exactly at the token end.
		if end, err := scanDoubleQuoted(text, 0); err != nil || end != len(text) {
			return "", false
		}
		inner = strings.ReplaceAll(inner, `\"`, `"`)
		inner = strings.ReplaceAll(inner, `\\`, `\`)
		return inner, true
	}
	return "", false
}

// stripTimeout consumes timeout plus its flags and duration. It returns the
// remaining tokens, which must contain the wrapped command.
func stripTimeout(toks []Token) ([]Token, error) {
	i := 1
	for i < len(toks) && toks[i].IsWord() && strings.HasPrefix(toks[i].Text, "-") {
		flag := toks[i].Text
		i++
		// -k and -s take a separate argument unless written as -k5.
		if (flag == "-k" || flag == "-s" || flag == "--kill-after" || flag == "--signal") && i < len(toks) && toks[i].IsWord() {
			i++
		}
	}
	if i >= len(toks) || !toks[i].IsWord() || !durationRe.MatchString(toks[i].Text) {
		return nil, fmt.Errorf("%w: timeout requires a duration", ErrMalformedWrapper)
	}
	i++
	if i >= len(toks) {
		return nil, fmt.Errorf("%w: timeout requires a command", ErrMalformedWrapper)
	}
	return toks[i:], nil
}

// stripNice consumes nice plus its priority adjustment.
func stripNice(toks []Token) ([]Token, error) {
	i := 1
	for i < len(toks) && toks[i].IsWord() && strings.HasPrefix(toks[i].Text, "-") {
		flag := toks[i].Text
		i++
		if flag == "-n" || flag == "--adjustment" {
			if i >= len(toks) || !toks[i].IsWord() {
				return nil, fmt.Errorf("%w: nice %s requires a value", ErrMalformedWrapper, flag)
			}
			i++
		}
	}
	if i >= len(toks) {
		return nil, fmt.Errorf("%w: nice requires a command", ErrMalformedWrapper)
	}
	return toks[i:], nil
}

// stripTime consumes time plus its optional -p flag.
func stripTime(toks []Token) ([]Token, error) {
	i := 1
	if i < len(toks) && toks[i].IsWord() && toks[i].Text == "-p" {
		i++
	}
	if i >= len(toks) {
		return nil, fmt.Errorf("%w: time requires a command", ErrMalformedWrapper)
	}
	return toks[i:], nil
}

// isSelfContainedRedirect reports whether a redirection operator carries its
// target inside the operator itself (2>&1, >&2) rather than in a following
// word (> file, 2> file, &> file).
func isSelfContainedRedirect(text string) bool {
	i := strings.Index(text, ">&")
	if i < 0 {
		return false
	}
	rest := text[i+2:]
	if rest == "" {
		return false
	}
	for j := 0; j < len(rest); j++ {
		if !isDigit(rest[j]) {
			return false
		}
	}
	return true
}

func isAssignment(tok Token) bool {
	return tok.IsWord() && !tok.Quoted && assignmentRe.MatchString(tok.Text)
}

func isBareWord(tok Token, text string) bool {
	return tok.IsWord() && !tok.Quoted && tok.Text == text
}

func record(steps *[]string, format string, args ...any) {
	if steps != nil {
		*steps = append(*steps, fmt.Sprintf(format, args...))
	}
}
