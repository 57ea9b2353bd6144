package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Verdict/internal/codec"
	"github.com/MikeSquared-Agency/Verdict/internal/evaluation"
	"github.com/MikeSquared-Agency/Verdict/internal/scoring"
)

func newAHPCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ahp",
		Short: "Analytic Hierarchy Process operations",
	}
	cmd.AddCommand(newAHPWeightsCommand(a))
	cmd.AddCommand(newAHPEvaluateCommand(a))
	cmd.AddCommand(newAHPImportCommand())
	return cmd
}

// matrixFile is the weights input: either a bare grid or an object holding
// one.
type matrixFile struct {
	Matrix        codec.Grid `json:"matrix"`
	UpperTriangle bool       `json:"upper_triangle,omitempty"`
}

func loadMatrixFile(path string) (*matrixFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var mf matrixFile
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		err = json.Unmarshal(data, &mf.Matrix)
	} else {
		err = json.Unmarshal(data, &mf)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &mf, nil
}

func newAHPWeightsCommand(a *app) *cobra.Command {
	var format, method string
	cmd := &cobra.Command{
		Use:   "weights <matrix.json>",
		Short: "Derive priority weights from one comparison matrix",
		Long: `Derive priority weights and the consistency ratio from one pairwise
comparison matrix.

The file holds either a bare grid or {"matrix": grid, "upper_triangle": bool}.
Judgments may be numbers or text such as "1/3".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			m, err := parseMethodFlag(method)
			if err != nil {
				return err
			}
			mf, err := loadMatrixFile(args[0])
			if err != nil {
				return err
			}

			var cm scoring.ComparisonMatrix
			if mf.UpperTriangle {
				cm, err = scoring.FromUpperTriangle(mf.Matrix.Floats())
			} else {
				cm, err = scoring.FromRows(mf.Matrix.Floats())
			}
			if err != nil {
				return err
			}
			if m == "" {
				m = a.svc.Method()
			}
			w, cr, err := a.svc.Weights(cm, m)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, map[string]interface{}{
					"method":      m,
					"weights":     w,
					"consistency": cr,
				})
			}
			printWeightsTable(out, w, cr)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().StringVarP(&method, "method", "m", "", "Weight method: row_average or eigenvector (default from config)")
	return cmd
}

func newAHPEvaluateCommand(a *app) *cobra.Command {
	var (
		format string
		method string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate <project.json>",
		Short: "Rank the alternatives of a project file",
		Long: `Evaluate a whole AHP hierarchy: criteria weights, alternative weights
under every criterion, and the final ranking.

With --strict the command exits 1 when any matrix has a consistency ratio
over the configured threshold. The ranking is printed either way.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			m, err := parseMethodFlag(method)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := codec.DecodeProject(f)
			if err != nil {
				return err
			}
			report, err := a.svc.Evaluate(doc, m)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				printReportTable(out, doc.Name, report)
			}

			if strict && !report.Consistent {
				return &InconsistencyError{MaxCR: report.MaxCR, Threshold: report.Threshold}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().StringVarP(&method, "method", "m", "", "Weight method: row_average or eigenvector (default from config)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any consistency ratio exceeds the threshold")
	return cmd
}

func newAHPImportCommand() *cobra.Command {
	var name, output string
	cmd := &cobra.Command{
		Use:   "import <table.csv>",
		Short: "Build a project file from a table of measurements",
		Long: `Build a project file from a CSV table: a header of criterion names and
one row per alternative with its measurement on each criterion.

Alternatives are compared by the ratio of their measurements, clamped to
the 1/9..9 scale. Criteria start equally important.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			tbl, err := codec.ReadTable(f)
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			doc, err := codec.ProjectFromTable(name, tbl)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return codec.EncodeProject(cmd.OutOrStdout(), doc)
			}
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := codec.EncodeProject(out, doc); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: file name)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the project file here instead of stdout")
	return cmd
}

func checkFormat(format string) error {
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", format)
	}
	return nil
}

func parseMethodFlag(s string) (scoring.Method, error) {
	if s == "" {
		return "", nil
	}
	return scoring.ParseMethod(s)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printWeightsTable(w io.Writer, weights scoring.WeightVector, cr scoring.ConsistencyReport) {
	fmt.Fprintf(w, "  %-10s %s\n", "Item", "Weight")
	for i, v := range weights {
		fmt.Fprintf(w, "  %-10d %.6f\n", i+1, v)
	}
	fmt.Fprintln(w)
	printConsistency(w, "", cr)
}

func printConsistency(w io.Writer, label string, cr scoring.ConsistencyReport) {
	verdict := "acceptable"
	if !cr.Acceptable {
		verdict = "INCONSISTENT"
	}
	if label != "" {
		label += ": "
	}
	fmt.Fprintf(w, "  %slambda_max=%.6f CI=%.6f RI=%.2f CR=%.6f (%s)\n",
		label, cr.LambdaMax, cr.CI, cr.RI, cr.CR, verdict)
}

func printReportTable(w io.Writer, name string, r *evaluation.Report) {
	if name == "" {
		name = "AHP evaluation"
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, " %s (%s)\n", strings.ToUpper(name), r.Evaluation.Method)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, " CRITERIA")
	for i, cw := range r.Evaluation.CriteriaWeights {
		fmt.Fprintf(w, "  %-28s %.6f\n", r.Criteria[i], cw)
	}
	printConsistency(w, "criteria", r.Evaluation.CriteriaConsistency)
	for i, cr := range r.Evaluation.AlternativeConsistency {
		printConsistency(w, r.Criteria[i], cr)
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w, " RANKING")
	for _, ra := range r.Ranking {
		fmt.Fprintf(w, "  %2d. %-24s %.6f\n", ra.Rank, ra.Name, ra.Score)
	}

	if len(r.Inconsistent) > 0 {
		fmt.Fprintln(w, strings.Repeat("-", 60))
		fmt.Fprintf(w, " Over threshold %.2f:\n", r.Threshold)
		for _, f := range r.Inconsistent {
			label := "criteria matrix"
			if f.Matrix == evaluation.MatrixAlternatives {
				label = fmt.Sprintf("%d. %s", f.Index+1, f.Name)
			}
			fmt.Fprintf(w, "  %-28s CR=%.6f\n", label, f.CR)
		}
	}
}
