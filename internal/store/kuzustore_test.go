//go:build cgo

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// newTestKuzu creates a fresh in-memory KuzuStore with an initialized schema.
// It registers a cleanup function to close the store when the test finishes.
func newTestKuzu(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.InitSchema(context.Background()), "InitSchema should not fail")
	return s
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestKuzuStore_InitSchema(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()

	// First call creates the tables.
	require.NoError(t, s.InitSchema(ctx))

	// Second call should be idempotent (IF NOT EXISTS).
	require.NoError(t, s.InitSchema(ctx))
}

func TestKuzuStore_ReportRoundTrip(t *testing.T) {
	s := newTestKuzu(t)
	ctx := context.Background()

	require.NoError(t, s.PutReport(ctx, "a.py", reportWithScore(70, 2)))

	got, err := s.GetFile(ctx, "a.py")
	require.NoError(t, err)
	require.NotNil(t, got, "GetFile should return a non-nil result")

	assert.Equal(t, "a.py", got.Path)
	assert.Equal(t, 70, got.Score)
	assert.Equal(t, "C", got.Grade)
	assert.Equal(t, 10, got.SourceLines)
	assert.Equal(t, 1, got.IssueCount)
}

func TestKuzuStore_GetFile_NotFound(t *testing.T) {
	s := newTestKuzu(t)

	got, err := s.GetFile(context.Background(), "nonexistent.py")
	require.NoError(t, err)
	assert.Nil(t, got, "GetFile should return nil for a missing file")
}

func TestKuzuStore_PutReplaces(t *testing.T) {
	s := newTestKuzu(t)
	ctx := context.Background()

	require.NoError(t, s.PutReport(ctx, "a.py", reportWithScore(40, 2)))
	require.NoError(t, s.PutReport(ctx, "a.py", reportWithScore(90, 2)))

	got, err := s.GetFile(ctx, "a.py")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 90, got.Score)

	// Replacing must not leave orphaned blocks or issues behind.
	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FileCount)
	assert.Equal(t, 1, stats.BlockCount)
	assert.Equal(t, 1, stats.IssueCount)
}

func TestKuzuStore_WorstFiles(t *testing.T) {
	s := newTestKuzu(t)
	ctx := context.Background()

	require.NoError(t, s.PutReport(ctx, "good.py", reportWithScore(95, 1)))
	require.NoError(t, s.PutReport(ctx, "bad.py", reportWithScore(30, 5)))
	require.NoError(t, s.PutReport(ctx, "meh.py", reportWithScore(60, 3)))

	worst, err := s.WorstFiles(ctx, 2)
	require.NoError(t, err)
	require.Len(t, worst, 2)
	assert.Equal(t, "bad.py", worst[0].Path)
	assert.Equal(t, "meh.py", worst[1].Path)

	all, err := s.WorstFiles(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit falls back to the default of 10")
}

func TestKuzuStore_ProjectHotspots(t *testing.T) {
	s := newTestKuzu(t)
	ctx := context.Background()

	require.NoError(t, s.PutReport(ctx, "cool.py", reportWithScore(90, 1)))
	require.NoError(t, s.PutReport(ctx, "hot.py", reportWithScore(40, 9)))

	hotspots, err := s.ProjectHotspots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hotspots, 2)
	assert.Equal(t, "hot.py", hotspots[0].Path, "densest hotspot ranks first")
	assert.Equal(t, "loop", hotspots[0].BlockType)
	assert.Equal(t, 2, hotspots[0].StartLine)
	assert.Equal(t, 5, hotspots[0].EndLine)
	assert.InDelta(t, 9.0, hotspots[0].EnergyPerLine, 1e-9)
}

func TestKuzuStore_StandaloneHotspot(t *testing.T) {
	s := newTestKuzu(t)
	ctx := context.Background()

	// A hotspot that does not alias into the report's block slice is still
	// persisted as its own block node.
	hot := energy.BlockMetrics{
		Type: energy.BlockLoop, StartLine: 4, EndLine: 8,
		TotalEnergy: 12, EnergyPerLine: 2.4,
	}
	r := &energy.Report{Score: 55, Grade: energy.GradeForScore(55), Hotspot: &hot}
	require.NoError(t, s.PutReport(ctx, "detached.py", r))

	hotspots, err := s.ProjectHotspots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hotspots, 1)
	assert.Equal(t, "detached.py", hotspots[0].Path)
	assert.Equal(t, 4, hotspots[0].StartLine)
	assert.InDelta(t, 2.4, hotspots[0].EnergyPerLine, 1e-9)
}

func TestKuzuStore_HotspotRemovedOnCleanReport(t *testing.T) {
	s := newTestKuzu(t)
	ctx := context.Background()

	require.NoError(t, s.PutReport(ctx, "a.py", reportWithScore(40, 5)))

	clean := &energy.Report{Score: 100, Grade: energy.GradeForScore(100)}
	require.NoError(t, s.PutReport(ctx, "a.py", clean))

	hotspots, err := s.ProjectHotspots(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, hotspots)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FileCount)
	assert.Equal(t, 0, stats.BlockCount)
	assert.Equal(t, 0, stats.IssueCount)
}

func TestKuzuStore_Stats(t *testing.T) {
	s := newTestKuzu(t)
	ctx := context.Background()

	// Start with an empty map.
	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FileCount)
	assert.Equal(t, 0, stats.BlockCount)
	assert.Equal(t, 0, stats.IssueCount)
	assert.Zero(t, stats.AverageScore)

	require.NoError(t, s.PutReport(ctx, "a.py", reportWithScore(40, 2)))
	require.NoError(t, s.PutReport(ctx, "b.py", reportWithScore(80, 2)))

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)
	assert.Equal(t, 2, stats.BlockCount)
	assert.Equal(t, 2, stats.IssueCount)
	assert.InDelta(t, 60.0, stats.AverageScore, 1e-9)
}

func TestKuzuStore_Close(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)

	// Close should succeed without error.
	require.NoError(t, s.Close())
}
