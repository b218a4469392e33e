package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/danyan90/TA/pkg/db"
)

// InsertRun inserts a run record
func (d *DB) InsertRun(ctx context.Context, run *db.Run) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO allocation_run (
			id, column_name, source_column, created_at, seed,
			items, placed, failures, collisions, repeat_pairings, skipped
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		run.ID, run.ColumnName, run.SourceColumn, run.CreatedAt.UTC(), run.Seed,
		run.Items, run.Placed, run.Failures, run.Collisions, run.RepeatPairings, run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// InsertPlacements bulk-loads the placements of a run
func (d *DB) InsertPlacements(ctx context.Context, placements []db.Placement) error {
	if len(placements) == 0 {
		return nil
	}

	_, err := d.pool.CopyFrom(
		ctx,
		pgx.Identifier{"allocation_placement"},
		[]string{"run_id", "row_index", "previous_station", "station", "collision"},
		pgx.CopyFromSlice(len(placements), func(i int) ([]any, error) {
			p := placements[i]
			runID, err := uuid.Parse(p.RunID)
			if err != nil {
				return nil, fmt.Errorf("invalid run id %q: %w", p.RunID, err)
			}
			return []any{runID, int32(p.Row), int16(p.PreviousStation), int16(p.Station), p.Collision}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert placements: %w", err)
	}
	return nil
}

// GetRuns retrieves all run records, oldest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, column_name, source_column, created_at, seed,
			items, placed, failures, collisions, repeat_pairings, skipped
		FROM allocation_run
		ORDER BY created_at, column_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		var r db.Run
		if err := rows.Scan(
			&r.ID, &r.ColumnName, &r.SourceColumn, &r.CreatedAt, &r.Seed,
			&r.Items, &r.Placed, &r.Failures, &r.Collisions, &r.RepeatPairings, &r.Skipped,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
