package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
)

var scaleMeaning = map[string]string{
	"1": "equal importance",
	"3": "moderately more important",
	"5": "strongly more important",
	"7": "very strongly more important",
	"9": "extremely more important",
}

func newScaleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scale",
		Short: "Print the Saaty judgment scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, j := range codec.SaatyScale {
				fmt.Fprintf(out, "  %-4s %s\n", j, describeJudgment(j))
			}
			return nil
		},
	}
}

// describeJudgment explains a scale entry. Reciprocals read as "less
// important"; even values sit between their neighbours.
func describeJudgment(j string) string {
	if len(j) > 2 && j[:2] == "1/" {
		return "reciprocal: row is " + lessImportant(describeJudgment(j[2:]))
	}
	if m, ok := scaleMeaning[j]; ok {
		return m
	}
	return "intermediate value"
}

func lessImportant(s string) string {
	const more = "more important"
	if n := len(s) - len(more); n >= 0 && s[n:] == more {
		return s[:n] + "less important"
	}
	return s
}
