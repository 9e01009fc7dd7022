package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// reportWithScore builds a minimal report carrying a hotspot.
func reportWithScore(score int, epl float64) *energy.Report {
	blocks := []energy.BlockMetrics{
		{Type: energy.BlockLoop, StartLine: 2, EndLine: 5, TotalEnergy: epl * 4, EnergyPerLine: epl},
	}
	return &energy.Report{
		Score:       score,
		Grade:       energy.GradeForScore(score),
		SourceLines: 10,
		Blocks:      blocks,
		Hotspot:     &blocks[0],
		Issues: []energy.Issue{
			{Category: energy.CategoryNestedLoops, Message: "Nested loops detected", Line: 3, Severity: 2},
		},
	}
}

func TestMemStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()
	require.NoError(t, st.InitSchema(ctx))
	defer st.Close()

	require.NoError(t, st.PutReport(ctx, "a.py", reportWithScore(70, 2)))

	rec, err := st.GetFile(ctx, "a.py")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 70, rec.Score)
	assert.Equal(t, "C", rec.Grade)
	assert.Equal(t, 1, rec.IssueCount)

	missing, err := st.GetFile(ctx, "nope.py")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	require.NoError(t, st.PutReport(ctx, "a.py", reportWithScore(40, 2)))
	require.NoError(t, st.PutReport(ctx, "a.py", reportWithScore(90, 2)))

	rec, err := st.GetFile(ctx, "a.py")
	require.NoError(t, err)
	assert.Equal(t, 90, rec.Score)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FileCount, "replacing a report must not duplicate the file")
}

func TestMemStore_WorstFiles(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	require.NoError(t, st.PutReport(ctx, "good.py", reportWithScore(95, 1)))
	require.NoError(t, st.PutReport(ctx, "bad.py", reportWithScore(30, 5)))
	require.NoError(t, st.PutReport(ctx, "meh.py", reportWithScore(60, 3)))

	worst, err := st.WorstFiles(ctx, 2)
	require.NoError(t, err)
	require.Len(t, worst, 2)
	assert.Equal(t, "bad.py", worst[0].Path)
	assert.Equal(t, "meh.py", worst[1].Path)

	all, err := st.WorstFiles(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit returns everything")
}

func TestMemStore_ProjectHotspots(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	require.NoError(t, st.PutReport(ctx, "cool.py", reportWithScore(90, 1)))
	require.NoError(t, st.PutReport(ctx, "hot.py", reportWithScore(40, 9)))

	hotspots, err := st.ProjectHotspots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, hotspots, 2)
	assert.Equal(t, "hot.py", hotspots[0].Path, "densest hotspot ranks first")
	assert.Equal(t, "loop", hotspots[0].BlockType)
	assert.Equal(t, 2, hotspots[0].StartLine)
}

func TestMemStore_HotspotRemovedOnCleanReport(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	require.NoError(t, st.PutReport(ctx, "a.py", reportWithScore(40, 5)))

	clean := &energy.Report{Score: 100, Grade: energy.GradeForScore(100)}
	require.NoError(t, st.PutReport(ctx, "a.py", clean))

	hotspots, err := st.ProjectHotspots(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, hotspots)
}

func TestMemStore_Stats(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	empty, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.FileCount)
	assert.Zero(t, empty.AverageScore)

	require.NoError(t, st.PutReport(ctx, "a.py", reportWithScore(40, 2)))
	require.NoError(t, st.PutReport(ctx, "b.py", reportWithScore(80, 2)))

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)
	assert.Equal(t, 2, stats.BlockCount)
	assert.Equal(t, 2, stats.IssueCount)
	assert.InDelta(t, 60.0, stats.AverageScore, 1e-9)
}
