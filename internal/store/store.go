// Package store persists estimation runs and their R_t series.
package store

import (
	"context"

	"github.com/epitrack/rt-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Source string          `json:"source,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for estimation runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string, params model.SerialIntervalParams) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Estimates
	SaveEstimates(ctx context.Context, runID string, estimates model.EstimateSeries) error
	GetEstimates(ctx context.Context, runID string) (model.EstimateSeries, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
