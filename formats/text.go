package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/passgen/types"
)

// Text is the human-readable console format
var Text = &SummaryFormat{
	Name:   "text",
	Plan:   writeTextPlan,
	Report: writeTextReport,
}

func writeTextPlan(w io.Writer, plan *types.Plan) error {
	var b strings.Builder
	est := plan.Estimate

	b.WriteString("\n=== Password Generation Summary ===\n")
	fmt.Fprintf(&b, "Total combinations: %s\n", FormatBigCount(est.Total))
	fmt.Fprintf(&b, "Average password length: ~%d characters\n", est.RoundedAverage())
	fmt.Fprintf(&b, "Estimated output size: %s\n", FormatBigSize(est.Bytes))
	if plan.OutputPath != "" {
		fmt.Fprintf(&b, "Output file: %s\n", plan.OutputPath)
	}

	if exceedsThreshold(est.Bytes) {
		b.WriteString("\nWARNING: The estimated file size is very large!\n")
		b.WriteString("This may take a long time and consume significant disk space.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTextReport(w io.Writer, report *types.Report) error {
	var b strings.Builder

	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}
	fmt.Fprintf(&b, "\nGenerated %s passwords in %.2f seconds using %d workers\n",
		FormatCount(report.Count), report.Elapsed.Seconds(), report.Workers)
	if report.OutputPath != "" {
		fmt.Fprintf(&b, "Results saved to: %s (%s)\n", report.OutputPath, FormatSize(report.OutputBytes))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WritePositions writes one line per position, numbered from 1
func WritePositions(w io.Writer, rs *types.RuleSet) error {
	var b strings.Builder
	b.WriteString("\nRules array:\n")
	for i, p := range rs.Positions() {
		fmt.Fprintf(&b, "  Position %d: %s\n", i+1, p)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
