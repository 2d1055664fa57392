package shell

// Result is the outcome of parsing a raw command string: the ordered list
// of normalized core commands it will execute.
type Result struct {
	// Commands are the normalized core commands, in source order.
	Commands []string
	// Original is the raw input string.
	Original string
}

// Trace captures the intermediate parsing stages for diagnostics. It is a
// side output only and never influences the result.
type Trace struct {
	Tokens   []Token
	Segments []Segment
	Steps    []string
	Commands []string
}

// Parse decomposes a raw command string into its normalized core commands.
// Any error means the input could not be reduced to a trustworthy command
// list; callers must treat it as fail-closed.
func Parse(raw string) (Result, error) {
	return ParseWithTrace(raw, nil)
}

// ParseWithTrace is Parse with a diagnostic trace filled in. The trace
// reflects the top-level invocation; steps from unwrapped subshell scripts
// are appended to the same step list.
func ParseWithTrace(raw string, tr *Trace) (Result, error) {
	var steps *[]string
	if tr != nil {
		steps = &tr.Steps
	}

	tokens, err := Tokenize(raw)
	if err != nil {
		return Result{Original: raw}, err
	}
	if tr != nil {
		tr.Tokens = tokens
	}

	if err := screen(raw); err != nil {
		return Result{Original: raw}, err
	}

	segments, err := Split(tokens)
	if err != nil {
		return Result{Original: raw}, err
	}
	if tr != nil {
		tr.Segments = segments
	}

	var commands []string
	for _, seg := range segments {
		cmds, err := normalizeSegment(raw, seg, MaxSubshellDepth, steps)
		if err != nil {
			return Result{Original: raw}, err
		}
		commands = append(commands, cmds...)
	}
	if tr != nil {
		tr.Commands = commands
	}
	return Result{Commands: commands, Original: raw}, nil
}

// parseDepth re-parses an unwrapped subshell script with the remaining
// unwrap depth. The script was already screened as part of the outer
// input, but it is screened again on its own: it is about to be evaluated
// as a command list in its own right.
func parseDepth(script string, depth int, steps *[]string) ([]string, error) {
	tokens, err := Tokenize(script)
	if err != nil {
		return nil, err
	}
	if err := screen(script); err != nil {
		return nil, err
	}
	segments, err := Split(tokens)
	if err != nil {
		return nil, err
	}
	var commands []string
	for _, seg := range segments {
		cmds, err := normalizeSegment(script, seg, depth, steps)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmds...)
	}
	return commands, nil
}
