// Package codec converts between a roster column of station labels and the
// allocator's grouping of row indices by station.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/danyan90/TA/pkg/core/allocator"
)

var (
	// ErrMalformedValue is returned in strict mode for a cell that is not a station label
	ErrMalformedValue = errors.New("malformed station value")

	// ErrItemOutOfRange is returned by Encode for an item index outside the table
	ErrItemOutOfRange = errors.New("item index out of range")
)

// DecodeMode controls what happens to a cell that is not a valid station label
type DecodeMode string

const (
	// DecodeSkip drops the item from the grouping and logs a warning
	DecodeSkip DecodeMode = "skip"

	// DecodeZero assigns the item to the unassigned group and logs a warning
	DecodeZero DecodeMode = "zero"

	// DecodeStrict fails the decode
	DecodeStrict DecodeMode = "strict"
)

// ParseDecodeMode parses a mode name. An empty name means DecodeSkip.
func ParseDecodeMode(name string) (DecodeMode, error) {
	switch DecodeMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", DecodeSkip:
		return DecodeSkip, nil
	case DecodeZero:
		return DecodeZero, nil
	case DecodeStrict:
		return DecodeStrict, nil
	default:
		return "", fmt.Errorf("unknown decode mode %q (expected skip, zero or strict)", name)
	}
}

// DecodeOptions configures Decode
type DecodeOptions struct {
	// Stations is the highest valid label. Defaults to allocator.DefaultStations.
	Stations int

	// Mode defaults to DecodeSkip
	Mode DecodeMode

	// Logger receives warnings for malformed values. Nil disables logging.
	Logger *zap.Logger
}

// DecodeWarning describes a cell that was not a valid station label
type DecodeWarning struct {
	Row   int
	Value any
	// Reason is a short human-readable explanation
	Reason string
}

// Decode builds a PreviousState from a column of raw cell values.
//
// Missing values (nil, empty strings) and 0 go to group 0; integers in
// [1, Stations] go to that group. Anything else is malformed and handled
// according to opts.Mode. Decode only returns an error in DecodeStrict mode.
func Decode(column []any, opts DecodeOptions) (allocator.Grouping, []DecodeWarning, error) {
	stations := opts.Stations
	if stations <= 0 {
		stations = allocator.DefaultStations
	}
	mode := opts.Mode
	if mode == "" {
		mode = DecodeSkip
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	previous := allocator.NewPreviousState(stations)
	warnings := []DecodeWarning{}

	for row, value := range column {
		station, reason := parseStation(value, stations)
		if reason == "" {
			previous.Add(station, allocator.Item(row))
			continue
		}

		warning := DecodeWarning{Row: row, Value: value, Reason: reason}

		switch mode {
		case DecodeStrict:
			return nil, nil, fmt.Errorf("%w: row %d value %v: %s", ErrMalformedValue, row, value, reason)
		case DecodeZero:
			previous.Add(allocator.UnassignedStation, allocator.Item(row))
			logger.Warn("Malformed station value, treating as unassigned",
				zap.Int("row", row),
				zap.Any("value", value),
				zap.String("reason", reason))
		default:
			logger.Warn("Malformed station value, skipping row",
				zap.Int("row", row),
				zap.Any("value", value),
				zap.String("reason", reason))
		}

		warnings = append(warnings, warning)
	}

	for _, station := range previous.Keys() {
		if len(previous[station]) > 0 {
			logger.Debug("Decoded group",
				zap.Int("station", int(station)),
				zap.Int("items", len(previous[station])))
		}
	}

	return previous, warnings, nil
}

// parseStation interprets a cell as a station label.
// A non-empty reason means the value is malformed.
func parseStation(value any, stations int) (allocator.Station, string) {
	var n float64

	switch v := value.(type) {
	case nil:
		return allocator.UnassignedStation, ""
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "nan") {
			return allocator.UnassignedStation, ""
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, "not a number"
		}
		n = parsed
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		if math.IsNaN(v) {
			return allocator.UnassignedStation, ""
		}
		n = v
	default:
		return 0, fmt.Sprintf("unsupported cell type %T", value)
	}

	if n != math.Trunc(n) {
		return 0, "not an integer"
	}
	if n < 0 || n > float64(stations) {
		return 0, fmt.Sprintf("outside station range 0..%d", stations)
	}

	return allocator.Station(n), ""
}

// Encode produces one label per row: the station of the item at that row, or 0 if unplaced.
// If an item appears under two stations the later station in ascending order wins.
func Encode(state allocator.Grouping, totalRows int) ([]int, error) {
	if totalRows < 0 {
		return nil, fmt.Errorf("total rows must not be negative, got %d", totalRows)
	}

	column := make([]int, totalRows)
	for _, station := range state.Keys() {
		if station < 0 {
			return nil, fmt.Errorf("%w: station %d is negative", ErrItemOutOfRange, station)
		}
		for _, item := range state[station] {
			if int(item) < 0 || int(item) >= totalRows {
				return nil, fmt.Errorf("%w: item %d at station %d, table has %d rows", ErrItemOutOfRange, item, station, totalRows)
			}
			column[item] = int(station)
		}
	}

	return column, nil
}
