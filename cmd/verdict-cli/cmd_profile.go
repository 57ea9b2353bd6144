package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

// candidatesFile holds either attribute-ordered scores or, with --profile,
// per-candidate fields keyed by attribute name.
type candidatesFile struct {
	Attributes []string `json:"attributes,omitempty"`
	Candidates []struct {
		Name   string             `json:"name"`
		Scores []float64          `json:"scores,omitempty"`
		Fields map[string]float64 `json:"fields,omitempty"`
	} `json:"candidates"`
}

func newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile mean scoring",
	}
	cmd.AddCommand(newProfileScoreCommand())
	return cmd
}

func newProfileScoreCommand() *cobra.Command {
	var format, profile string
	cmd := &cobra.Command{
		Use:   "score <candidates.json>",
		Short: "Rank candidates by the mean of their attribute scores",
		Long: `Rank candidates by the unweighted mean of their attribute scores.

Without --profile the file lists "attributes" and each candidate's "scores"
in that order. With --profile scholarship or employee each candidate carries
"fields" keyed by attribute name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var cf candidatesFile
			if err := json.Unmarshal(data, &cf); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			attributes := cf.Attributes
			var ranked []scoring.ScoredCandidate
			if profile != "" {
				p, ok := scoring.LookupProfile(profile)
				if !ok {
					return fmt.Errorf("unknown profile %q: must be scholarship or employee", profile)
				}
				named := make([]scoring.NamedCandidate, len(cf.Candidates))
				for i, c := range cf.Candidates {
					named[i] = scoring.NamedCandidate{Name: c.Name, Fields: c.Fields}
				}
				attributes = p.Attributes
				ranked, err = p.Score(named)
			} else {
				records := make([]scoring.CandidateRecord, len(cf.Candidates))
				for i, c := range cf.Candidates {
					records[i] = scoring.CandidateRecord{Name: c.Name, Scores: c.Scores}
				}
				ranked, err = scoring.ScoreCandidates(records, len(cf.Attributes))
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, ranked)
			}
			printCandidatesTable(out, attributes, ranked)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Built-in profile: scholarship or employee")
	return cmd
}

func printCandidatesTable(w io.Writer, attributes []string, ranked []scoring.ScoredCandidate) {
	fmt.Fprintf(w, "  %-4s %-20s", "Rank", "Name")
	for _, a := range attributes {
		fmt.Fprintf(w, " %12s", a)
	}
	fmt.Fprintf(w, " %10s\n", "Mean")
	for _, c := range ranked {
		fmt.Fprintf(w, "  %-4d %-20s", c.Rank, c.Name)
		for _, s := range c.Scores {
			fmt.Fprintf(w, " %12.2f", s)
		}
		fmt.Fprintf(w, " %10.2f\n", c.Mean)
	}
}
