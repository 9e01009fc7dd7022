package report

import (
	"encoding/json"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// Document is the JSON export shape for a single report, for CI and IDE
// integration. Issues are deduplicated for display.
type Document struct {
	Filename         string                 `json:"filename"`
	Score            int                    `json:"score"`
	Grade            string                 `json:"grade"`
	GradeDescription string                 `json:"gradeDescription"`
	GradeIcon        string                 `json:"gradeIcon"`
	SourceLines      int                    `json:"sourceLines"`
	Issues           []energy.Issue         `json:"issues"`
	IssuesCount      int                    `json:"issuesCount"`
	Components       energy.Components      `json:"components"`
	Blocks           []energy.BlockMetrics  `json:"blocks,omitempty"`
	BlocksCount      int                    `json:"blocksCount,omitempty"`
	Hotspot          *energy.BlockMetrics   `json:"hotspot,omitempty"`
	HotspotRange     []int                  `json:"hotspotRange,omitempty"`
	Diagnostics      []Diagnostic           `json:"diagnostics,omitempty"`
	RefactorTarget   *Diagnostic            `json:"refactorTarget,omitempty"`
}

// ToDocument converts a report into its JSON export shape.
func ToDocument(r *energy.Report) *Document {
	issues := DedupeIssues(r.Issues)
	doc := &Document{
		Filename:         r.Filename,
		Score:            r.Score,
		Grade:            r.Grade.Letter,
		GradeDescription: r.Grade.Description,
		GradeIcon:        r.Grade.Icon,
		SourceLines:      r.SourceLines,
		Issues:           issues,
		IssuesCount:      len(issues),
		Components:       r.Components,
	}
	if len(r.Blocks) > 0 {
		doc.Blocks = r.Blocks
		doc.BlocksCount = len(r.Blocks)
	}
	if r.Hotspot != nil {
		doc.Hotspot = r.Hotspot
		doc.HotspotRange = []int{r.Hotspot.StartLine, r.Hotspot.EndLine}
	}
	return doc
}

// JSON renders a single report as indented JSON.
func JSON(r *energy.Report) ([]byte, error) {
	return json.MarshalIndent(ToDocument(r), "", "  ")
}

// JSONAll renders multiple reports as a JSON array.
func JSONAll(reports []*energy.Report) ([]byte, error) {
	docs := make([]*Document, len(reports))
	for i, r := range reports {
		docs[i] = ToDocument(r)
	}
	return json.MarshalIndent(docs, "", "  ")
}
