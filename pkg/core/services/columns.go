package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/danyan90/TA/internal/config"
	"github.com/danyan90/TA/pkg/core/allocator"
	"github.com/danyan90/TA/pkg/core/codec"
)

// maxScheduleOccurrences bounds the walk over an unbounded recurrence rule
const maxScheduleOccurrences = 10000

// ColumnNames returns the names of the next count columns.
//
// Without a schedule names are prefix + index, starting at cfg.StartIndex or, when that is 0,
// one past the highest existing prefix + index column. A generated name that already
// exists is an error.
//
// With a schedule names are prefix + YYYY-MM-DD for each occurrence of the recurrence rule.
// Occurrences that already have a column are skipped.
func ColumnNames(cfg config.ColumnsConfig, existing []string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("column count must be positive, got %d", count)
	}

	if cfg.Schedule != "" {
		return scheduledColumnNames(cfg, existing, count)
	}

	start := cfg.StartIndex
	if start == 0 {
		start = highestIndex(cfg.Prefix, existing) + 1
	}

	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name := cfg.Prefix + strconv.Itoa(start+i)
		if slices.Contains(existing, name) {
			return nil, fmt.Errorf("column %q already exists", name)
		}
		names = append(names, name)
	}

	return names, nil
}

func scheduledColumnNames(cfg config.ColumnsConfig, existing []string, count int) ([]string, error) {
	r, err := rrule.StrToRRule(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}
	if cfg.ScheduleStart != "" {
		start, err := time.Parse("2006-01-02", cfg.ScheduleStart)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule start: %w", err)
		}
		r.DTStart(start)
	}

	names := make([]string, 0, count)
	next := r.Iterator()
	for i := 0; i < maxScheduleOccurrences && len(names) < count; i++ {
		occurrence, ok := next()
		if !ok {
			break
		}
		name := cfg.Prefix + occurrence.Format("2006-01-02")
		if slices.Contains(existing, name) || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}

	if len(names) < count {
		return nil, fmt.Errorf("schedule has only %d new sessions, %d requested", len(names), count)
	}

	return names, nil
}

// highestIndex returns the largest N among columns named prefix + N, or 0
func highestIndex(prefix string, existing []string) int {
	highest := 0
	for _, name := range existing {
		suffix, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest
}

// ColumnSummary is the decoded grouping of one column
type ColumnSummary struct {
	Name     string
	Index    int
	Grouping allocator.Grouping
	Warnings []codec.DecodeWarning
}

// DescribeColumn decodes a column. A negative index selects the last column.
func DescribeColumn(store TableStore, index int, opts codec.DecodeOptions, logger *zap.Logger) (*ColumnSummary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if index < 0 {
		index = store.ColumnCount() - 1
	}
	if index < 0 || index >= store.ColumnCount() {
		return nil, fmt.Errorf("column index %d out of range (table has %d columns)", index, store.ColumnCount())
	}

	name := store.ColumnNames()[index]
	column, err := store.ColumnByIndex(index)
	if err != nil {
		return nil, fmt.Errorf("failed to read column %q: %w", name, err)
	}

	if opts.Logger == nil {
		opts.Logger = logger.With(zap.String("column", name))
	}

	grouping, warnings, err := codec.Decode(column, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to decode column %q: %w", name, err)
	}

	logger.Debug("Column described",
		zap.String("column", name),
		zap.Int("items", grouping.ItemCount()),
		zap.Int("warnings", len(warnings)))

	return &ColumnSummary{Name: name, Index: index, Grouping: grouping, Warnings: warnings}, nil
}
