// cmd/tools/assess-cli/assess.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"eb2niw-assessor/internal/common/validation"
	"eb2niw-assessor/internal/eligibility"
)

type assessOptions struct {
	file   string
	format string
}

func newAssessCmd(root *rootOptions) *cobra.Command {
	opts := &assessOptions{}

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a profile read from a JSON file",
		Long: `Reads a profile in the same JSON shape the API accepts and prints the
assessment. Use --file - to read from stdin.

Examples:
  assess-cli assess --file profile.json
  assess-cli assess --file profile.json --format text
  cat profile.json | assess-cli assess --file -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssess(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Profile JSON file, - for stdin")
	cmd.Flags().StringVarP(&opts.format, "format", "o", "json", "Output format: json or text")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runAssess(cmd *cobra.Command, root *rootOptions, opts *assessOptions) error {
	if opts.format != "json" && opts.format != "text" {
		return fmt.Errorf("unsupported format %q, want json or text", opts.format)
	}

	body, err := readProfile(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}

	if result := validation.ValidateAssessmentRequest(body); !result.Valid {
		return fmt.Errorf("profile rejected: %s", strings.Join(result.GetErrorMessages(), "; "))
	}

	var profile eligibility.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}

	engine, err := loadEngine(root.tablesPath)
	if err != nil {
		return err
	}

	assessment, err := engine.Evaluate(&profile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == "text" {
		printAssessment(out, assessment, root.verbose)
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(assessment)
}

func readProfile(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return body, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return body, nil
}

func loadEngine(tablesPath string) (*eligibility.Engine, error) {
	cfg, err := eligibility.LoadConfig(tablesPath)
	if err != nil {
		return nil, err
	}
	return eligibility.New(cfg)
}

func printAssessment(w io.Writer, a *eligibility.Assessment, verbose bool) {
	fmt.Fprintf(w, "Overall score:     %.2f\n", a.OverallScore)
	fmt.Fprintf(w, "Viability:         %s (%s)\n", a.ViabilityLevel, eligibility.LegacyViability(a.ViabilityLevel))
	fmt.Fprintf(w, "Recommended route: %s\n", a.Routes.RecommendedRoute)
	fmt.Fprintf(w, "NIW score:         %.2f\n", a.Waiver.Overall)
	fmt.Fprintf(w, "Processing months: %d\n", a.EstimatedProcessingMonths)
	fmt.Fprintf(w, "\n%s\n", a.Message)

	if verbose {
		fmt.Fprintf(w, "\nScores: education %.1f, experience %.1f, achievements %.1f, recognition %.1f\n",
			a.Scores.Education, a.Scores.Experience, a.Scores.Achievements, a.Scores.Recognition)
		fmt.Fprintf(w, "Exceptional ability criteria met: %d\n", a.Routes.CriteriaMet)
	}

	printFindings(w, "Strengths", a.Strengths)
	printFindings(w, "Weaknesses", a.Weaknesses)

	if len(a.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range a.Recommendations {
			fmt.Fprintf(w, "  %d. [%s] %s\n", r.Priority, r.Impact, r.Description)
		}
	}
	if len(a.NextSteps) > 0 {
		fmt.Fprintln(w, "\nNext steps:")
		for _, s := range a.NextSteps {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
}

func printFindings(w io.Writer, title string, findings []eligibility.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, f := range findings {
		fmt.Fprintf(w, "  - %s\n", f.Text)
	}
}
