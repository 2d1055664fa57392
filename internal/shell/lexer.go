package shell

import (
	"fmt"
	"strings"
)

// Tokenize converts a raw command string into a flat token sequence. It
// splits on unquoted whitespace, recognizes control and redirection
// operators at the top syntactic level, and absorbs quoted spans into
// single word tokens without performing any expansion. An unquoted
// newline terminates the command just as ';' does, so each line of a
// multi-line input becomes its own command.
func Tokenize(raw string) ([]Token, error) {
	// Command substitution is rejected wherever it appears, quoted or not.
	// The normalizer cannot see into substituted content, so any such input
	// must fall through to the normal approval flow.
	if i := strings.IndexAny(raw, "`"); i >= 0 {
		return nil, fmt.Errorf("%w: backtick at offset %d", ErrUnsupportedSubstitution, i)
	}
	if i := strings.Index(raw, "$("); i >= 0 {
		return nil, fmt.Errorf("%w: $( at offset %d", ErrUnsupportedSubstitution, i)
	}

	var tokens []Token
	i, n := 0, len(raw)
	for i < n {
		c := raw[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		start := i
		switch {
		case c == '\n' || c == '\r':
			i++
			if c == '\r' && i < n && raw[i] == '\n' {
				i++
			}
			if newlineSeparates(tokens) {
				tokens = append(tokens, Token{Kind: Operator, Op: OpSeq, Text: raw[start:i], Pos: start, End: i})
			}
		case c == '&':
			switch {
			case i+1 < n && raw[i+1] == '&':
				i += 2
				tokens = append(tokens, Token{Kind: Operator, Op: OpAnd, Text: "&&", Pos: start, End: i})
			case i+1 < n && raw[i+1] == '>':
				// &> and &>> redirect both streams to a target word.
				i += 2
				if i < n && raw[i] == '>' {
					i++
				}
				tokens = append(tokens, Token{Kind: Operator, Op: OpRedirect, Text: raw[start:i], Pos: start, End: i})
			default:
				i++
				tokens = append(tokens, Token{Kind: Operator, Op: OpBackground, Text: "&", Pos: start, End: i})
			}
		case c == '|':
			if i+1 < n && raw[i+1] == '|' {
				i += 2
				tokens = append(tokens, Token{Kind: Operator, Op: OpOr, Text: "||", Pos: start, End: i})
			} else {
				i++
				tokens = append(tokens, Token{Kind: Operator, Op: OpPipe, Text: "|", Pos: start, End: i})
			}
		case c == ';':
			if i+1 < n && raw[i+1] == ';' {
				return nil, fmt.Errorf("%w: case terminator ';;' at offset %d", ErrUnsupportedConstruct, i)
			}
			i++
			tokens = append(tokens, Token{Kind: Operator, Op: OpSeq, Text: ";", Pos: start, End: i})
		case c == '(' || c == ')':
			return nil, fmt.Errorf("%w: subshell grouping %q at offset %d", ErrUnsupportedConstruct, string(c), i)
		case c == '<':
			if i+1 < n && raw[i+1] == '<' {
				return nil, fmt.Errorf("%w: here-document at offset %d", ErrUnsupportedConstruct, i)
			}
			i++
			tokens = append(tokens, Token{Kind: Operator, Op: OpRedirect, Text: "<", Pos: start, End: i})
		case c == '>':
			i = lexOutputRedirect(raw, i)
			tokens = append(tokens, Token{Kind: Operator, Op: OpRedirect, Text: raw[start:i], Pos: start, End: i})
		case isDigit(c) && fdRedirectAt(raw, i):
			j := i
			for j < n && isDigit(raw[j]) {
				j++
			}
			if j < n && raw[j] == '<' {
				if j+1 < n && raw[j+1] == '<' {
					return nil, fmt.Errorf("%w: here-document at offset %d", ErrUnsupportedConstruct, j)
				}
				j++
			} else {
				j = lexOutputRedirect(raw, j)
			}
			i = j
			tokens = append(tokens, Token{Kind: Operator, Op: OpRedirect, Text: raw[start:i], Pos: start, End: i})
		default:
			tok, next, err := lexWord(raw, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		}
	}
	return tokens, nil
}

// lexOutputRedirect consumes >, >>, >&N starting at the '>' at offset i and
// returns the offset past the operator.
func lexOutputRedirect(raw string, i int) int {
	n := len(raw)
	i++ // consume '>'
	if i < n && raw[i] == '>' {
		i++
		return i
	}
	if i < n && raw[i] == '&' {
		i++
		for i < n && isDigit(raw[i]) {
			i++
		}
	}
	return i
}

// fdRedirectAt reports whether the digits starting at offset i form a file
// descriptor immediately followed by a redirection operator (2>, 2>>, 2>&1,
// 0<). Digits followed by anything else are an ordinary word.
func fdRedirectAt(raw string, i int) bool {
	n := len(raw)
	for i < n && isDigit(raw[i]) {
		i++
	}
	return i < n && (raw[i] == '>' || raw[i] == '<')
}

// lexWord consumes a single word starting at offset i, absorbing quoted
// spans. The returned token's Text is the raw source slice, quotes included.
func lexWord(raw string, i int) (Token, int, error) {
	n := len(raw)
	start := i
	quoted := raw[i] == '\'' || raw[i] == '"'
	for i < n {
		c := raw[i]
		if isSpace(c) || isMeta(c) {
			break
		}
		switch c {
		case '\'':
			j := strings.IndexByte(raw[i+1:], '\'')
			if j < 0 {
				return Token{}, 0, fmt.Errorf("%w: single quote opened at offset %d", ErrUnterminatedQuote, i)
			}
			i += j + 2
		case '"':
			j, err := scanDoubleQuoted(raw, i)
			if err != nil {
				return Token{}, 0, err
			}
			i = j
		case '\\':
			if i+1 < n {
				i += 2
			} else {
				i++
			}
		default:
			i++
		}
	}
	return Token{Kind: Word, Text: raw[start:i], Quoted: quoted, Pos: start, End: i}, i, nil
}

// scanDoubleQuoted scans a double-quoted span starting at the opening quote
// and returns the offset past the closing quote. Backslash escapes the next
// character inside double quotes.
func scanDoubleQuoted(raw string, i int) (int, error) {
	n := len(raw)
	open := i
	i++ // consume opening quote
	for i < n {
		switch raw[i] {
		case '\\':
			if i+1 < n {
				i += 2
			} else {
				i++
			}
		case '"':
			return i + 1, nil
		default:
			i++
		}
	}
	return 0, fmt.Errorf("%w: double quote opened at offset %d", ErrUnterminatedQuote, open)
}

// newlineSeparates reports whether an unquoted newline at the current
// position ends a command. A newline at the start of the input, after a
// separator that already ended one, or after a chain operator still
// waiting for its right-hand side is plain whitespace, the same way a
// shell reads it.
func newlineSeparates(tokens []Token) bool {
	if len(tokens) == 0 {
		return false
	}
	last := tokens[len(tokens)-1]
	if last.Kind != Operator {
		return true
	}
	switch last.Op {
	case OpAnd, OpOr, OpSeq, OpPipe, OpBackground:
		return false
	}
	// A trailing redirect operator is a dangling redirect; emit the
	// separator and let segmentation reject the broken command.
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isMeta(c byte) bool {
	switch c {
	case '&', '|', ';', '<', '>', '(', ')':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
