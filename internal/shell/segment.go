package shell

import "fmt"

// ChainOp is the operator that followed a segment in the original command.
type ChainOp int

const (
	// ChainNone marks the final segment.
	ChainNone ChainOp = iota
	// ChainAnd is &&.
	ChainAnd
	// ChainOr is ||.
	ChainOr
	// ChainSeq is ; (or a non-trailing &, which also sequences two commands).
	ChainSeq
	// ChainPipe is |.
	ChainPipe
)

// String returns the source form of the chain operator.
func (c ChainOp) String() string {
	switch c {
	case ChainAnd:
		return "&&"
	case ChainOr:
		return "||"
	case ChainSeq:
		return ";"
	case ChainPipe:
		return "|"
	}
	return ""
}

// Segment is one simple command unit within a chain: an ordered token
// sequence bounded by top-level chain/pipe operators.
type Segment struct {
	Tokens []Token
	// Next is the operator that followed this segment, ChainNone for the last.
	Next ChainOp
	// Background is set when the segment carried a trailing & marker.
	Background bool
}

// Split groups a token sequence into segments, splitting at top-level
// occurrences of &&, ||, ;, |. A bare & at the very end of the stream is a
// background marker on the final segment, not a separator; a bare & anywhere
// else sequences two commands and is treated like ;. A chain operator with
// no command on either side is an error.
func Split(tokens []Token) ([]Segment, error) {
	var segments []Segment
	var current []Token

	flush := func(next ChainOp, opText string) error {
		if len(current) == 0 {
			return fmt.Errorf("%w: missing command before %q", ErrAmbiguousSegment, opText)
		}
		segments = append(segments, Segment{Tokens: current, Next: next})
		current = nil
		return nil
	}

	for i, tok := range tokens {
		if tok.Kind != Operator {
			current = append(current, tok)
			continue
		}
		switch tok.Op {
		case OpAnd:
			if err := flush(ChainAnd, tok.Text); err != nil {
				return nil, err
			}
		case OpOr:
			if err := flush(ChainOr, tok.Text); err != nil {
				return nil, err
			}
		case OpSeq:
			if err := flush(ChainSeq, tok.Text); err != nil {
				return nil, err
			}
		case OpPipe:
			if err := flush(ChainPipe, tok.Text); err != nil {
				return nil, err
			}
		case OpBackground:
			if i == len(tokens)-1 {
				if len(current) == 0 {
					return nil, fmt.Errorf("%w: missing command before %q", ErrAmbiguousSegment, tok.Text)
				}
				segments = append(segments, Segment{Tokens: current, Next: ChainNone, Background: true})
				current = nil
			} else if err := flush(ChainSeq, tok.Text); err != nil {
				return nil, err
			}
		default:
			// Redirection operators belong to the current segment.
			current = append(current, tok)
		}
	}

	if len(current) > 0 {
		segments = append(segments, Segment{Tokens: current, Next: ChainNone})
	} else if len(segments) > 0 {
		// A trailing ; or & is ordinary shell; a trailing &&, || or | leaves
		// the chain waiting for a command that never arrives.
		switch last := segments[len(segments)-1]; last.Next {
		case ChainAnd, ChainOr, ChainPipe:
			return nil, fmt.Errorf("%w: dangling %q at end of command", ErrAmbiguousSegment, last.Next.String())
		}
	}
	return segments, nil
}
