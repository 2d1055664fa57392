package cmd

import (
	"fmt"
	"os"

	"github.com/shellgate/shellgate/internal/config"
	"github.com/shellgate/shellgate/internal/engine"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <command>",
	Short: "Evaluate a command against the loaded rules",
	Long: `Check evaluates a literal shell command against the merged permission
rules and prints the verdict together with the full parse trace: the
tokens, the segments, each normalization step, the resulting command list,
and the rule (if any) that produced the decision.

The audit log is not written; this is a dry run.

Example:
  shellgate check "API_KEY=x timeout 30 npm test"`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cwd, _ := os.Getwd()
	set := config.PermissionSet(cwd)

	var trace engine.Trace
	verdict := engine.EvaluateWithTrace(args[0], set, &trace)

	fmt.Println("Tokens:")
	for _, tok := range trace.Parse.Tokens {
		fmt.Printf("  %q\n", tok.Text)
	}

	fmt.Println("Segments:")
	for _, seg := range trace.Parse.Segments {
		first, last := seg.Tokens[0], seg.Tokens[len(seg.Tokens)-1]
		fmt.Printf("  %q", args[0][first.Pos:last.End])
		if op := seg.Next.String(); op != "" {
			fmt.Printf("  (followed by %s)", op)
		}
		if seg.Background {
			fmt.Printf("  (background)")
		}
		fmt.Println()
	}

	if len(trace.Parse.Steps) > 0 {
		fmt.Println("Normalization:")
		for _, step := range trace.Parse.Steps {
			fmt.Printf("  %s\n", step)
		}
	}

	fmt.Println("Commands:")
	for _, c := range trace.Parse.Commands {
		fmt.Printf("  %q\n", c)
	}

	for _, m := range trace.Matches {
		fmt.Printf("Matched (%s): %q <- %s\n", m.List, m.Command, m.Rule.Raw)
	}

	switch {
	case verdict.Allowed:
		fmt.Println("Verdict: ALLOW")
	case verdict.Reason == engine.ReasonParseError:
		fmt.Printf("Verdict: DEFER (parse error: %v)\n", verdict.Err)
	case verdict.Reason == engine.ReasonDenied:
		fmt.Printf("Verdict: DEFER (%q denied by %s)\n", verdict.Command, verdict.Rule.Raw)
	default:
		fmt.Printf("Verdict: DEFER (%q matches no allow rule)\n", verdict.Command)
	}
	return nil
}
