package shell

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// screen runs the raw command through a full shell parser and rejects
// constructs the conservative grammar must never be asked to normalize.
// The screen can only add rejections: the hand-rolled parser remains the
// sole authority for what is accepted, so a screen bug can narrow but
// never widen a permission decision.
func screen(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(raw), "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	var found error
	syntax.Walk(prog, func(node syntax.Node) bool {
		if found != nil {
			return false
		}
		switch n := node.(type) {
		case *syntax.CmdSubst:
			found = fmt.Errorf("%w: $(...)", ErrUnsupportedSubstitution)
		case *syntax.ProcSubst:
			found = fmt.Errorf("%w: process substitution", ErrUnsupportedSubstitution)
		case *syntax.IfClause:
			found = fmt.Errorf("%w: if clause", ErrUnsupportedConstruct)
		case *syntax.WhileClause:
			found = fmt.Errorf("%w: while loop", ErrUnsupportedConstruct)
		case *syntax.ForClause:
			found = fmt.Errorf("%w: for loop", ErrUnsupportedConstruct)
		case *syntax.CaseClause:
			found = fmt.Errorf("%w: case clause", ErrUnsupportedConstruct)
		case *syntax.FuncDecl:
			found = fmt.Errorf("%w: function definition", ErrUnsupportedConstruct)
		case *syntax.Subshell:
			found = fmt.Errorf("%w: subshell grouping", ErrUnsupportedConstruct)
		case *syntax.Block:
			found = fmt.Errorf("%w: command group", ErrUnsupportedConstruct)
		case *syntax.LetClause:
			found = fmt.Errorf("%w: let clause", ErrUnsupportedConstruct)
		case *syntax.ArithmCmd:
			found = fmt.Errorf("%w: arithmetic command", ErrUnsupportedConstruct)
		case *syntax.TestClause:
			found = fmt.Errorf("%w: test clause", ErrUnsupportedConstruct)
		case *syntax.CoprocClause:
			found = fmt.Errorf("%w: coproc clause", ErrUnsupportedConstruct)
		case *syntax.Redirect:
			if n.Op == syntax.Hdoc || n.Op == syntax.DashHdoc || n.Op == syntax.WordHdoc {
				found = fmt.Errorf("%w: here-document", ErrUnsupportedConstruct)
			}
		}
		return true
	})
	return found
}
