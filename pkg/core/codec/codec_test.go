package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danyan90/TA/pkg/core/allocator"
)

func TestDecode_SkipsMalformedValues(t *testing.T) {
	column := []any{1, "abc", 0, 9, nil, 3}

	previous, warnings, err := Decode(column, DecodeOptions{})
	require.NoError(t, err)

	assert.Len(t, previous, 9, "groups 0..8 should all be present")
	assert.Equal(t, []allocator.Item{0}, previous[1])
	assert.Equal(t, []allocator.Item{2, 4}, previous[0])
	assert.Equal(t, []allocator.Item{5}, previous[3])

	for _, item := range []allocator.Item{1, 3} {
		_, found := previous.StationOf(item)
		assert.False(t, found, "item %d should be dropped", item)
	}

	require.Len(t, warnings, 2)
	assert.Equal(t, 1, warnings[0].Row)
	assert.Equal(t, "not a number", warnings[0].Reason)
	assert.Equal(t, 3, warnings[1].Row)
	assert.Contains(t, warnings[1].Reason, "outside station range")
}

func TestDecode_StringCells(t *testing.T) {
	column := []any{"2", " 8 ", "", "3.0", "nan", "0", "-1", "2.5"}

	previous, warnings, err := Decode(column, DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []allocator.Item{0}, previous[2])
	assert.Equal(t, []allocator.Item{1}, previous[8])
	assert.Equal(t, []allocator.Item{3}, previous[3])
	assert.Equal(t, []allocator.Item{2, 4, 5}, previous[0])

	require.Len(t, warnings, 2)
	assert.Equal(t, 6, warnings[0].Row)
	assert.Equal(t, 7, warnings[1].Row)
	assert.Equal(t, "not an integer", warnings[1].Reason)
}

func TestDecode_NumericCells(t *testing.T) {
	column := []any{int64(4), 4.0, math.NaN(), true}

	previous, warnings, err := Decode(column, DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []allocator.Item{0, 1}, previous[4])
	assert.Equal(t, []allocator.Item{2}, previous[0])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, "unsupported cell type")
}

func TestDecode_ZeroMode(t *testing.T) {
	column := []any{"x", 5, 12}

	previous, warnings, err := Decode(column, DecodeOptions{Mode: DecodeZero})
	require.NoError(t, err)

	assert.Equal(t, []allocator.Item{0, 2}, previous[0])
	assert.Equal(t, []allocator.Item{1}, previous[5])
	assert.Len(t, warnings, 2)
}

func TestDecode_StrictMode(t *testing.T) {
	column := []any{1, 2, "oops"}

	_, _, err := Decode(column, DecodeOptions{Mode: DecodeStrict})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedValue)
	assert.Contains(t, err.Error(), "row 2")
}

func TestDecode_CustomStationCount(t *testing.T) {
	column := []any{4, 5}

	previous, warnings, err := Decode(column, DecodeOptions{Stations: 4})
	require.NoError(t, err)

	assert.Len(t, previous, 5)
	assert.Equal(t, []allocator.Item{0}, previous[4])
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Row)
}

func TestDecode_EmptyColumn(t *testing.T) {
	previous, warnings, err := Decode(nil, DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, previous.ItemCount())
	assert.Empty(t, warnings)
}

func TestEncode(t *testing.T) {
	state := allocator.Grouping{
		1: {0, 2},
		2: {1},
	}

	column, err := Encode(state, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1, 0}, column)
}

func TestEncode_LastWriterWins(t *testing.T) {
	state := allocator.Grouping{
		1: {0},
		6: {0},
	}

	column, err := Encode(state, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, column)
}

func TestEncode_ItemOutOfRange(t *testing.T) {
	state := allocator.Grouping{3: {4}}

	_, err := Encode(state, 4)
	assert.ErrorIs(t, err, ErrItemOutOfRange)

	_, err = Encode(allocator.Grouping{3: {-1}}, 4)
	assert.ErrorIs(t, err, ErrItemOutOfRange)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	state := allocator.NewState(allocator.DefaultStations)
	state.Add(3, 0)
	state.Add(3, 4)
	state.Add(7, 2)

	column, err := Encode(state, 5)
	require.NoError(t, err)

	cells := make([]any, len(column))
	for i, v := range column {
		cells[i] = v
	}

	previous, warnings, err := Decode(cells, DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, []allocator.Item{0, 4}, previous[3])
	assert.Equal(t, []allocator.Item{2}, previous[7])
	assert.Equal(t, []allocator.Item{1, 3}, previous[0], "unplaced rows decode as unassigned")
}

func TestParseDecodeMode(t *testing.T) {
	tests := []struct {
		input    string
		expected DecodeMode
		wantErr  bool
	}{
		{"", DecodeSkip, false},
		{"skip", DecodeSkip, false},
		{"ZERO", DecodeZero, false},
		{" strict ", DecodeStrict, false},
		{"lenient", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseDecodeMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}
