// Package store persists per-file energy reports as a project energy
// map, so multi-file runs can be queried for the worst offenders later.
package store

import (
	"context"
	"io"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// Store is the interface for the project energy map backend.
// Implementations: KuzuStore (persistent), MemStore (testing, CGO-free).
type Store interface {
	io.Closer

	// Schema setup. Called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// PutReport records a file's report, replacing any previous record
	// for the same path.
	PutReport(ctx context.Context, path string, r *energy.Report) error

	// Read operations.
	GetFile(ctx context.Context, path string) (*FileRecord, error)
	WorstFiles(ctx context.Context, limit int) ([]FileRecord, error)
	ProjectHotspots(ctx context.Context, limit int) ([]HotspotRecord, error)

	// Stats.
	Stats(ctx context.Context) (*MapStats, error)
}

// FileRecord is the stored summary of one analyzed file.
type FileRecord struct {
	Path        string `json:"path"`
	Score       int    `json:"score"`
	Grade       string `json:"grade"`
	SourceLines int    `json:"sourceLines"`
	IssueCount  int    `json:"issuesCount"`
}

// HotspotRecord is a file's hotspot block, for project-wide ranking.
type HotspotRecord struct {
	Path          string  `json:"path"`
	BlockType     string  `json:"blockType"`
	StartLine     int     `json:"startLine"`
	EndLine       int     `json:"endLine"`
	TotalEnergy   float64 `json:"totalEnergy"`
	EnergyPerLine float64 `json:"energyPerLine"`
}

// MapStats summarizes the whole energy map.
type MapStats struct {
	FileCount    int     `json:"files"`
	BlockCount   int     `json:"blocks"`
	IssueCount   int     `json:"issues"`
	AverageScore float64 `json:"averageScore"`
}
