package recorder

import (
	"context"

	"PatternScout/pkg/errors"
)

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ context.Context, _ *Run) error { return nil }
func (n *NoopRecorder) LastRun(_ context.Context, watch string) (*Run, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "run of %q", watch)
}
func (n *NoopRecorder) Close() error { return nil }
