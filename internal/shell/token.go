// Package shell implements a conservative parser for a small subset of
// shell grammar. It decomposes a raw command string into its constituent
// simple commands, stripping syntactic wrappers that do not change what is
// executed. Every construct outside the supported subset is a parse error:
// the caller treats parse errors as "defer to the normal approval flow",
// so an unsupported input can never widen a permission decision.
package shell

import "errors"

// Parse error taxonomy. Every error returned by this package wraps one of
// these sentinels.
var (
	// ErrUnterminatedQuote is returned for an open quote with no matching close.
	ErrUnterminatedQuote = errors.New("unterminated quote")
	// ErrUnsupportedSubstitution is returned when a backtick or $( sequence
	// appears anywhere in the input. Substituted content could execute
	// arbitrary commands the normalizer cannot see into.
	ErrUnsupportedSubstitution = errors.New("unsupported command substitution")
	// ErrMalformedWrapper is returned when a recognized wrapper command
	// (timeout, nice, time) is missing its required argument or command.
	ErrMalformedWrapper = errors.New("malformed wrapper command")
	// ErrAmbiguousSegment is returned when a segment cannot be reduced to
	// zero or one simple command.
	ErrAmbiguousSegment = errors.New("ambiguous command segment")
	// ErrUnsupportedConstruct is returned for shell constructs outside the
	// supported subset: loops, conditionals, function definitions,
	// here-documents, subshell grouping.
	ErrUnsupportedConstruct = errors.New("unsupported shell construct")
	// ErrUnparseable is returned when the command is not valid shell syntax.
	ErrUnparseable = errors.New("unparseable command")
)

// TokenKind distinguishes word tokens from operator tokens.
type TokenKind int

const (
	// Word is a command word or argument, possibly quoted.
	Word TokenKind = iota
	// Operator is a control or redirection operator.
	Operator
)

// Op identifies the operator carried by an Operator token.
type Op int

const (
	// OpNone marks a non-operator token.
	OpNone Op = iota
	// OpAnd is &&.
	OpAnd
	// OpOr is ||.
	OpOr
	// OpSeq is ;.
	OpSeq
	// OpPipe is |.
	OpPipe
	// OpBackground is a bare &.
	OpBackground
	// OpRedirect covers >, >>, <, 2>, 2>>, &>, &>>, 2>&1, >&2 and similar.
	OpRedirect
)

// Token is a single lexical unit. Text is the raw source text including any
// quote characters; Pos and End are byte offsets into the source string so
// that normalized commands can be re-sliced with their original spacing and
// quoting intact.
type Token struct {
	Kind   TokenKind
	Op     Op
	Text   string
	Quoted bool // word began with a quote character
	Pos    int
	End    int
}

// IsWord reports whether the token is a word token.
func (t Token) IsWord() bool { return t.Kind == Word }

// IsOp reports whether the token is an operator token of the given kind.
func (t Token) IsOp(op Op) bool { return t.Kind == Operator && t.Op == op }
