package db

import "context"

// RunStore defines the interface for the allocation run ledger
type RunStore interface {
	InsertRun(ctx context.Context, run *Run) error
	InsertPlacements(ctx context.Context, placements []Placement) error
	GetRuns(ctx context.Context) ([]Run, error)
}
