package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// LSP diagnostic severities.
const (
	LSPError       = 1
	LSPWarning     = 2
	LSPInformation = 3
)

// relatedInfoCap limits related-information entries per diagnostic.
const relatedInfoCap = 5

// Position is an LSP position (0-based line and character).
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is an LSP range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// RelatedInfo points at an individual issue inside a grouped diagnostic.
type RelatedInfo struct {
	Location struct {
		Range Range `json:"range"`
	} `json:"location"`
	Message string `json:"message"`
}

// Diagnostic is one editor diagnostic: issues grouped per enclosing block.
type Diagnostic struct {
	Range              Range         `json:"range"`
	Severity           int           `json:"severity"`
	Source             string        `json:"source"`
	Message            string        `json:"message"`
	Code               string        `json:"code"`
	RelatedInformation []RelatedInfo `json:"relatedInformation"`
	RefactorTarget     bool          `json:"refactorTarget,omitempty"`
}

// Diagnostics groups the report's issues into per-block diagnostics for an
// editor, sorted by severity then start line, and derives a single
// refactor target from the hotspot (nil when there is none).
func Diagnostics(r *energy.Report) ([]Diagnostic, *Diagnostic) {
	type lineRange struct{ start, end int }

	// Candidate ranges: every non-module block.
	var blockRanges []lineRange
	for i := range r.Blocks {
		if r.Blocks[i].Type != energy.BlockModule {
			blockRanges = append(blockRanges, lineRange{r.Blocks[i].StartLine, r.Blocks[i].EndLine})
		}
	}

	// Assign each located issue to the smallest enclosing block range,
	// falling back to its own line.
	grouped := make(map[lineRange][]energy.Issue)
	var order []lineRange
	for _, is := range r.Issues {
		if is.Line == 0 {
			continue
		}
		best := lineRange{is.Line, is.Line}
		bestSize := -1
		for _, br := range blockRanges {
			if br.start <= is.Line && is.Line <= br.end {
				size := br.end - br.start
				if bestSize == -1 || size < bestSize {
					bestSize = size
					best = br
				}
			}
		}
		if _, ok := grouped[best]; !ok {
			order = append(order, best)
		}
		grouped[best] = append(grouped[best], is)
	}

	diagnostics := make([]Diagnostic, 0, len(order))
	for _, lr := range order {
		issues := grouped[lr]
		maxSeverity := 0
		for _, is := range issues {
			if is.Severity > maxSeverity {
				maxSeverity = is.Severity
			}
		}

		message := issues[0].Message
		if len(issues) > 1 {
			cats := uniqueCategories(issues)
			if len(cats) > 2 {
				cats = cats[:2]
			}
			message = fmt.Sprintf("%d energy issues detected (%s)", len(issues), strings.Join(cats, ", "))
		}

		diagnostics = append(diagnostics, Diagnostic{
			Range:              blockRange(lr.start, lr.end),
			Severity:           MapSeverityToLSP(maxSeverity),
			Source:             "greenlint",
			Message:            message,
			Code:               "energy-inefficiency",
			RelatedInformation: relatedInfo(issues),
		})
	}

	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].Severity != diagnostics[j].Severity {
			// Lower LSP severity value = more severe; most severe first.
			return diagnostics[i].Severity < diagnostics[j].Severity
		}
		return diagnostics[i].Range.Start.Line < diagnostics[j].Range.Start.Line
	})

	return diagnostics, refactorTarget(r)
}

// refactorTarget builds the single hotspot diagnostic, or nil.
func refactorTarget(r *energy.Report) *Diagnostic {
	if r.Hotspot == nil {
		return nil
	}

	var hotspotIssues []energy.Issue
	severity := 2
	for _, is := range r.Issues {
		if is.Line >= r.Hotspot.StartLine && is.Line <= r.Hotspot.EndLine {
			hotspotIssues = append(hotspotIssues, is)
		}
	}
	if len(hotspotIssues) > 0 {
		severity = 0
		for _, is := range hotspotIssues {
			if is.Severity > severity {
				severity = is.Severity
			}
		}
	}

	return &Diagnostic{
		Range:              blockRange(r.Hotspot.StartLine, r.Hotspot.EndLine),
		Severity:           MapSeverityToLSP(severity),
		Source:             "greenlint",
		Message:            fmt.Sprintf("🔥 Energy hotspot - %d issues (refactor recommended)", len(hotspotIssues)),
		Code:               "energy-hotspot",
		RelatedInformation: relatedInfo(hotspotIssues),
		RefactorTarget:     true,
	}
}

// MapSeverityToLSP converts an issue severity (1-3) to an LSP diagnostic
// severity: 3→Error, 2→Warning, 1→Information.
func MapSeverityToLSP(severity int) int {
	switch {
	case severity >= 3:
		return LSPError
	case severity >= 2:
		return LSPWarning
	default:
		return LSPInformation
	}
}

// blockRange converts 1-based inclusive source lines into an LSP range
// covering those lines.
func blockRange(startLine, endLine int) Range {
	return Range{
		Start: Position{Line: startLine - 1, Character: 0},
		End:   Position{Line: endLine, Character: 0},
	}
}

func relatedInfo(issues []energy.Issue) []RelatedInfo {
	out := make([]RelatedInfo, 0, relatedInfoCap)
	for _, is := range issues {
		if len(out) >= relatedInfoCap {
			break
		}
		if is.Line == 0 {
			continue
		}
		ri := RelatedInfo{Message: is.Message}
		ri.Location.Range = Range{
			Start: Position{Line: is.Line - 1, Character: is.Column},
			End:   Position{Line: is.Line - 1, Character: is.Column + 1},
		}
		out = append(out, ri)
	}
	return out
}

func uniqueCategories(issues []energy.Issue) []string {
	seen := make(map[energy.IssueCategory]bool)
	var out []string
	for _, is := range issues {
		if !seen[is.Category] {
			seen[is.Category] = true
			out = append(out, string(is.Category))
		}
	}
	return out
}
