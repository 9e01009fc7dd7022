package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu       sync.RWMutex
	files    map[string]FileRecord
	blocks   map[string][]energy.BlockMetrics
	issues   map[string][]energy.Issue
	hotspots map[string]HotspotRecord
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		files:    make(map[string]FileRecord),
		blocks:   make(map[string][]energy.BlockMetrics),
		issues:   make(map[string][]energy.Issue),
		hotspots: make(map[string]HotspotRecord),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// PutReport stores the report keyed by path, replacing any prior record.
func (m *MemStore) PutReport(_ context.Context, path string, r *energy.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = FileRecord{
		Path:        path,
		Score:       r.Score,
		Grade:       r.Grade.Letter,
		SourceLines: r.SourceLines,
		IssueCount:  len(r.Issues),
	}
	m.blocks[path] = append([]energy.BlockMetrics(nil), r.Blocks...)
	m.issues[path] = append([]energy.Issue(nil), r.Issues...)

	if r.Hotspot != nil {
		m.hotspots[path] = HotspotRecord{
			Path:          path,
			BlockType:     string(r.Hotspot.Type),
			StartLine:     r.Hotspot.StartLine,
			EndLine:       r.Hotspot.EndLine,
			TotalEnergy:   r.Hotspot.TotalEnergy,
			EnergyPerLine: r.Hotspot.EnergyPerLine,
		}
	} else {
		delete(m.hotspots, path)
	}
	return nil
}

// GetFile returns the record for the given path, or nil if not found.
func (m *MemStore) GetFile(_ context.Context, path string) (*FileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// WorstFiles returns files sorted by ascending score, up to limit.
// A limit <= 0 returns all files.
func (m *MemStore) WorstFiles(_ context.Context, limit int) ([]FileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]FileRecord, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ProjectHotspots returns hotspots sorted by descending energy density,
// up to limit. A limit <= 0 returns all hotspots.
func (m *MemStore) ProjectHotspots(_ context.Context, limit int) ([]HotspotRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]HotspotRecord, 0, len(m.hotspots))
	for _, h := range m.hotspots {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EnergyPerLine != out[j].EnergyPerLine {
			return out[i].EnergyPerLine > out[j].EnergyPerLine
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats returns counts and the average score over all stored files.
func (m *MemStore) Stats(_ context.Context) (*MapStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &MapStats{FileCount: len(m.files)}
	total := 0
	for _, f := range m.files {
		total += f.Score
	}
	for _, bs := range m.blocks {
		stats.BlockCount += len(bs)
	}
	for _, is := range m.issues {
		stats.IssueCount += len(is)
	}
	if stats.FileCount > 0 {
		stats.AverageScore = float64(total) / float64(stats.FileCount)
	}
	return stats, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
