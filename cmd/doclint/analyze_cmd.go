package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raphi011/doclint/internal/analyze"
)

var (
	statusColors = map[analyze.Status]*color.Color{
		analyze.StatusClean:  color.New(color.FgGreen, color.Bold),
		analyze.StatusIssues: color.New(color.FgYellow, color.Bold),
		analyze.StatusBinary: color.New(color.FgBlue, color.Bold),
	}
	ruleColor    = color.New(color.FgCyan)
	fixableColor = color.New(color.Faint)
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "analyze [file|-]",
		Short:   "Classify a single file or stdin",
		GroupID: GroupUtility,
		Args:    cobra.MaximumNArgs(1),
		Long: `Analyze one file, or stdin when the argument is "-" or missing, and
print its status (clean, issues or binary) followed by each finding.

The analysis cache is not used. Exits 1 when issues were found.`,
		Example: `  doclint analyze README.md
  git show HEAD:README.md | doclint analyze -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := effectiveConfig(ctx)
			if err != nil {
				return err
			}
			rules, err := analyze.Rules(cfg.AnalyzeOptions())
			if err != nil {
				return err
			}

			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			var in io.Reader = cmd.InOrStdin()
			if name != "-" {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			status, findings, err := analyze.ProcessLines(in, rules)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", name, err)
			}

			if jsonOut {
				err = writeAnalysisJSON(c.stdout, name, status, findings)
			} else {
				err = writeAnalysis(c.colorWriter(), name, status, findings)
			}
			if err != nil {
				return err
			}
			if status == analyze.StatusIssues {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}

func writeAnalysis(w io.Writer, name string, status analyze.Status, findings []analyze.Finding) error {
	statusText := status.String()
	if sc, ok := statusColors[status]; ok {
		statusText = sc.Sprint(statusText)
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", name, statusText); err != nil {
		return err
	}
	for _, f := range findings {
		line := fmt.Sprintf("  %d:%d %s: %s", f.Line, f.Column, ruleColor.Sprint(f.Rule), f.Message)
		if f.Fixable {
			line += " " + fixableColor.Sprint("(fixable)")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type analysisJSON struct {
	File     string            `json:"file"`
	Status   string            `json:"status"`
	Findings []analyze.Finding `json:"findings"`
}

func writeAnalysisJSON(w io.Writer, name string, status analyze.Status, findings []analyze.Finding) error {
	if findings == nil {
		findings = []analyze.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(analysisJSON{File: name, Status: status.String(), Findings: findings})
}
