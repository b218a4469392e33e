package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danyan90/TA/internal/config"
	"github.com/danyan90/TA/pkg/core/allocator"
	"github.com/danyan90/TA/pkg/core/codec"
	"github.com/danyan90/TA/pkg/db"
)

// TableStore is the roster a run reads from and writes to
type TableStore interface {
	ColumnCount() int
	RowCount() int
	ColumnNames() []string
	ColumnByIndex(index int) ([]any, error)
	SetColumn(name string, values []int) error
}

// ColumnResult describes one generated column
type ColumnResult struct {
	Name           string
	SourceColumn   string
	RunID          string
	Outcome        *allocator.AllocationOutcome
	Warnings       []codec.DecodeWarning
	RepeatPairings int
}

// AddColumnsResult represents the result of an AddColumns run
type AddColumnsResult struct {
	Seed    int64
	Columns []ColumnResult
}

// Failures returns the total number of items that could not be placed
func (r *AddColumnsResult) Failures() int {
	total := 0
	for _, c := range r.Columns {
		total += len(c.Outcome.Failures)
	}
	return total
}

// AddColumns appends cfg.Columns.Count new station columns to the table.
// Each column is allocated from the table's last column at the time, so successive
// columns chain. When runs is non-nil every column is recorded in the run ledger.
func AddColumns(
	ctx context.Context,
	store TableStore,
	runs db.RunStore,
	cfg *config.Config,
	logger *zap.Logger,
	seed int64,
) (*AddColumnsResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mode, err := codec.ParseDecodeMode(cfg.Allocation.DecodeMode)
	if err != nil {
		return nil, err
	}

	if store.ColumnCount() == 0 {
		return nil, fmt.Errorf("table has no columns to allocate from")
	}

	names, err := ColumnNames(cfg.Columns, store.ColumnNames(), cfg.Columns.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to name new columns: %w", err)
	}

	logger.Info("Adding columns",
		zap.Strings("columns", names),
		zap.Int("rows", store.RowCount()),
		zap.Int64("seed", seed))

	rng := rand.New(rand.NewSource(seed))
	allocConfig := allocator.AllocationConfig{
		Stations:             cfg.Allocation.Stations,
		Capacity:             cfg.Allocation.Capacity,
		MaxAvoidanceAttempts: attemptsOrDefault(cfg.Allocation.AvoidanceAttempts, allocator.DefaultMaxAvoidanceAttempts),
		MaxRandomAttempts:    attemptsOrDefault(cfg.Allocation.RandomAttempts, allocator.DefaultMaxRandomAttempts),
		Rand:                 rng,
		Logger:               logger,
	}

	result := &AddColumnsResult{Seed: seed, Columns: make([]ColumnResult, 0, len(names))}

	for _, name := range names {
		sourceIndex := store.ColumnCount() - 1
		sourceName := store.ColumnNames()[sourceIndex]

		column, err := store.ColumnByIndex(sourceIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to read column %q: %w", sourceName, err)
		}

		previous, warnings, err := codec.Decode(column, codec.DecodeOptions{
			Stations: cfg.Allocation.Stations,
			Mode:     mode,
			Logger:   logger.With(zap.String("column", sourceName)),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to decode column %q: %w", sourceName, err)
		}

		outcome, err := allocator.Allocate(previous, allocConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate column %q: %w", name, err)
		}

		values, err := codec.Encode(outcome.State, store.RowCount())
		if err != nil {
			return nil, fmt.Errorf("failed to encode column %q: %w", name, err)
		}

		if err := store.SetColumn(name, values); err != nil {
			return nil, fmt.Errorf("failed to write column %q: %w", name, err)
		}

		columnResult := ColumnResult{
			Name:           name,
			SourceColumn:   sourceName,
			Outcome:        outcome,
			Warnings:       warnings,
			RepeatPairings: allocator.CountRepeatPairings(previous, outcome.State),
		}

		for _, failure := range outcome.Failures {
			logger.Error("Item could not be placed",
				zap.String("column", name),
				zap.Int("row", int(failure.Item)),
				zap.Error(failure.Err))
		}

		if runs != nil {
			runID, err := recordRun(ctx, runs, &columnResult, previous, seed, mode)
			if err != nil {
				return nil, err
			}
			columnResult.RunID = runID
		}

		logger.Info("Column added",
			zap.String("column", name),
			zap.String("source", sourceName),
			zap.Int("placed", len(outcome.Placements)),
			zap.Int("failures", len(outcome.Failures)),
			zap.Int("collisions", len(outcome.Collisions)),
			zap.Int("repeat_pairings", columnResult.RepeatPairings))

		result.Columns = append(result.Columns, columnResult)
	}

	return result, nil
}

func attemptsOrDefault(attempts *int, fallback int) int {
	if attempts == nil {
		return fallback
	}
	return *attempts
}

func recordRun(
	ctx context.Context,
	runs db.RunStore,
	c *ColumnResult,
	previous allocator.Grouping,
	seed int64,
	mode codec.DecodeMode,
) (string, error) {
	skipped := 0
	if mode == codec.DecodeSkip {
		skipped = len(c.Warnings)
	}

	run := &db.Run{
		ID:             uuid.New().String(),
		ColumnName:     c.Name,
		SourceColumn:   c.SourceColumn,
		CreatedAt:      time.Now(),
		Seed:           seed,
		Items:          previous.ItemCount(),
		Placed:         len(c.Outcome.Placements),
		Failures:       len(c.Outcome.Failures),
		Collisions:     len(c.Outcome.Collisions),
		RepeatPairings: c.RepeatPairings,
		Skipped:        skipped,
	}

	if err := runs.InsertRun(ctx, run); err != nil {
		return "", fmt.Errorf("failed to record run for column %q: %w", c.Name, err)
	}

	placements := make([]db.Placement, 0, len(c.Outcome.Placements))
	for _, p := range c.Outcome.Placements {
		placements = append(placements, db.Placement{
			RunID:           run.ID,
			Row:             int(p.Item),
			PreviousStation: int(p.Group),
			Station:         int(p.Station),
			Collision:       p.Collision,
		})
	}

	if err := runs.InsertPlacements(ctx, placements); err != nil {
		return "", fmt.Errorf("failed to record placements for column %q: %w", c.Name, err)
	}

	return run.ID, nil
}
