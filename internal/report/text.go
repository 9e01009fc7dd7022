// Package report renders energy reports for humans, CI, and editors. It
// builds solely on the Report contract; nothing here feeds back into
// analysis or scoring.
package report

import (
	"fmt"
	"strings"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

const banner = "============================================================"

// perCategoryCap limits how many issues each category section prints.
const perCategoryCap = 5

// Text produces the human-readable report. With dedupe set, repeated
// findings at the same (category, line, message) collapse to one entry.
func Text(r *energy.Report, dedupe bool) string {
	var b strings.Builder

	name := r.Filename
	if name == "" {
		name = "<string>"
	}

	fmt.Fprintf(&b, "%s\n", banner)
	fmt.Fprintf(&b, "GREENLINT - ENERGY ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "%s\n", banner)
	fmt.Fprintf(&b, "File: %s\n", name)
	fmt.Fprintf(&b, "Lines: %d\n", r.SourceLines)
	fmt.Fprintf(&b, "Energy Score: %d/100\n", r.Score)
	fmt.Fprintf(&b, "Energy Grade: %s - %s %s\n", r.Grade.Letter, r.Grade.Description, r.Grade.Icon)
	fmt.Fprintf(&b, "%s\n\n", banner)

	writeComponents(&b, r.Components)
	writeHotspot(&b, r)

	if dedupe {
		writeDedupedIssues(&b, DedupeIssues(r.Issues))
	} else {
		writeGroupedIssues(&b, r)
	}

	return b.String()
}

func writeComponents(b *strings.Builder, c energy.Components) {
	fmt.Fprintf(b, "Score Components:\n")
	fmt.Fprintf(b, "  • Raw Penalty: %g\n", c.TotalPenalty)
	fmt.Fprintf(b, "  • Energy Component: %g\n", c.EnergyComponent)
	fmt.Fprintf(b, "  • Issue Component: %g\n", c.IssueComponent)
	fmt.Fprintf(b, "  • Complexity Component: %g\n", c.ComplexityComponent)
	fmt.Fprintf(b, "  • Scaling Factor (S): %g\n", c.ScalingConstant)
	fmt.Fprintf(b, "  • Formula: %s\n\n", c.Formula)
}

func writeHotspot(b *strings.Builder, r *energy.Report) {
	if r.Hotspot == nil {
		return
	}
	h := r.Hotspot
	fmt.Fprintf(b, "🔥 HOTSPOT DETECTED - Most Inefficient Region:\n")
	fmt.Fprintf(b, "  • Type: %s\n", h.Type)
	fmt.Fprintf(b, "  • Lines: %d-%d\n", h.StartLine, h.EndLine)
	fmt.Fprintf(b, "  • Energy Impact: %.2f\n", h.TotalEnergy)
	fmt.Fprintf(b, "  • Energy/Line: %.2f\n\n", h.EnergyPerLine)
	fmt.Fprintf(b, "💡 TARGET THIS REGION FOR REFACTORING\n\n")
}

func writeGroupedIssues(b *strings.Builder, r *energy.Report) {
	if len(r.Issues) == 0 {
		fmt.Fprintf(b, "✅ No energy inefficiency issues detected!\n")
		return
	}

	fmt.Fprintf(b, "Issues Detected (%d total):\n", len(r.Issues))
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", 40))

	order, byCat := r.IssuesByCategory()
	for _, cat := range order {
		catIssues := byCat[cat]
		fmt.Fprintf(b, "\n[%s]\n", cat)
		for i, is := range catIssues {
			if i >= perCategoryCap {
				fmt.Fprintf(b, "  ... and %d more\n", len(catIssues)-perCategoryCap)
				break
			}
			fmt.Fprintf(b, "%s\n", issueLine(is))
		}
	}
}

func writeDedupedIssues(b *strings.Builder, issues []energy.Issue) {
	if len(issues) == 0 {
		fmt.Fprintf(b, "✅ No energy inefficiency issues detected!\n")
		return
	}
	fmt.Fprintf(b, "Issues Detected (%d unique):\n", len(issues))
	for _, is := range issues {
		fmt.Fprintf(b, "%s\n", issueLine(is))
	}
}

func issueLine(is energy.Issue) string {
	line := fmt.Sprintf("  • Line %d: %s", is.Line, is.Message)
	if is.Detail != "" {
		line += fmt.Sprintf(" (%s)", is.Detail)
	}
	if is.EstimatedImpact > 0 {
		line += fmt.Sprintf(" [impact: %.1f]", is.EstimatedImpact)
	}
	return line
}

// DedupeIssues collapses issues sharing (category, line, message),
// preserving first-seen order.
func DedupeIssues(issues []energy.Issue) []energy.Issue {
	type key struct {
		cat     energy.IssueCategory
		line    int
		message string
	}
	seen := make(map[key]bool, len(issues))
	out := make([]energy.Issue, 0, len(issues))
	for _, is := range issues {
		k := key{is.Category, is.Line, is.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, is)
	}
	return out
}
