//go:build !cgo

package store

import (
	"context"
	"errors"

	"github.com/ritikaseth1003/GreenLint/internal/energy"
)

// ErrKuzuUnavailable is returned when the binary was built without CGO,
// which the KuzuDB driver requires.
var ErrKuzuUnavailable = errors.New("kuzu store requires a CGO-enabled build")

// KuzuStore is unavailable without CGO. The stub satisfies Store so
// callers compile either way; the constructors always fail.
type KuzuStore struct{}

var _ Store = (*KuzuStore)(nil)

// NewKuzuStore fails without CGO.
func NewKuzuStore() (*KuzuStore, error) {
	return nil, ErrKuzuUnavailable
}

// NewKuzuFileStore fails without CGO.
func NewKuzuFileStore(string) (*KuzuStore, error) {
	return nil, ErrKuzuUnavailable
}

func (s *KuzuStore) Close() error                             { return nil }
func (s *KuzuStore) InitSchema(context.Context) error         { return ErrKuzuUnavailable }
func (s *KuzuStore) PutReport(context.Context, string, *energy.Report) error {
	return ErrKuzuUnavailable
}
func (s *KuzuStore) GetFile(context.Context, string) (*FileRecord, error) {
	return nil, ErrKuzuUnavailable
}
func (s *KuzuStore) WorstFiles(context.Context, int) ([]FileRecord, error) {
	return nil, ErrKuzuUnavailable
}
func (s *KuzuStore) ProjectHotspots(context.Context, int) ([]HotspotRecord, error) {
	return nil, ErrKuzuUnavailable
}
func (s *KuzuStore) Stats(context.Context) (*MapStats, error) {
	return nil, ErrKuzuUnavailable
}
