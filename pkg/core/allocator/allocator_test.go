package allocator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// previousFromGroups builds a PreviousState with keys 0..8 from the given groups
func previousFromGroups(groups map[Station][]Item) Grouping {
	previous := NewPreviousState(DefaultStations)
	for s, items := range groups {
		for _, item := range items {
			previous.Add(s, item)
		}
	}
	return previous
}

// fullClassPrevious returns 24 items spread 3 per station
func fullClassPrevious() Grouping {
	previous := NewPreviousState(DefaultStations)
	item := Item(0)
	for s := 1; s <= DefaultStations; s++ {
		for i := 0; i < DefaultCapacity; i++ {
			previous.Add(Station(s), item)
			item++
		}
	}
	return previous
}

func TestAllocate_SingleGroupSpreadAcrossStations(t *testing.T) {
	previous := previousFromGroups(map[Station][]Item{1: {0, 1, 2}})

	for seed := int64(0); seed < 100; seed++ {
		outcome, err := Allocate(previous, DefaultConfig(seeded(seed)))
		require.NoError(t, err)

		assert.Empty(t, outcome.Failures, "seed %d", seed)
		assert.Empty(t, outcome.Collisions, "seed %d", seed)
		assert.True(t, outcome.Success, "seed %d", seed)

		stations := make(map[Station]bool)
		for _, item := range []Item{0, 1, 2} {
			s, ok := outcome.State.StationOf(item)
			require.True(t, ok, "seed %d: item %d not placed", seed, item)
			stations[s] = true
		}
		assert.Len(t, stations, 3, "seed %d: items should land in three different stations", seed)
	}
}

func TestAllocate_FullClassConservesItems(t *testing.T) {
	previous := fullClassPrevious()

	for seed := int64(0); seed < 100; seed++ {
		outcome, err := Allocate(previous, DefaultConfig(seeded(seed)))
		require.NoError(t, err)

		assert.Empty(t, outcome.Failures, "seed %d", seed)
		assert.Empty(t, outcome.ValidationErrors, "seed %d", seed)
		assert.Equal(t, 24, outcome.State.ItemCount(), "seed %d", seed)
		assert.Len(t, outcome.Placements, 24, "seed %d", seed)

		for _, s := range outcome.State.Keys() {
			assert.LessOrEqual(t, outcome.State.Size(s), DefaultCapacity, "seed %d station %d", seed, s)
		}
	}
}

func TestAllocate_CapacityHoldsAfterEveryPlacement(t *testing.T) {
	previous := previousFromGroups(map[Station][]Item{
		0: {0, 1, 2, 3, 4, 5},
		2: {6, 7, 8},
		3: {9, 10, 11},
		5: {12, 13},
		8: {14, 15, 16},
	})

	for seed := int64(0); seed < 50; seed++ {
		outcome, err := Allocate(previous, DefaultConfig(seeded(seed)))
		require.NoError(t, err)

		replay := NewState(DefaultStations)
		for _, p := range outcome.Placements {
			replay.Add(p.Station, p.Item)
			assert.LessOrEqual(t, replay.Size(p.Station), DefaultCapacity,
				"seed %d: station %d over capacity after placing item %d", seed, p.Station, p.Item)
		}
		assert.Equal(t, previous.ItemCount(), outcome.State.ItemCount())
	}
}

func TestAllocate_UnassignedGroupPlacedLast(t *testing.T) {
	previous := previousFromGroups(map[Station][]Item{
		0: {0, 1, 2},
		1: {3, 4, 5},
		4: {6, 7},
	})

	outcome, err := Allocate(previous, DefaultConfig(seeded(7)))
	require.NoError(t, err)
	require.Len(t, outcome.Placements, 8)

	groups := make([]Station, len(outcome.Placements))
	for i, p := range outcome.Placements {
		groups[i] = p.Group
	}
	assert.Equal(t, []Station{1, 1, 1, 4, 4, 0, 0, 0}, groups)
}

func TestAllocate_OverflowReportsCapacityExhausted(t *testing.T) {
	previous := fullClassPrevious()
	previous.Add(UnassignedStation, 24)

	outcome, err := Allocate(previous, DefaultConfig(seeded(1)))
	require.NoError(t, err, "per-item failures should not abort the run")

	require.Len(t, outcome.Failures, 1)
	failure := outcome.Failures[0]
	assert.Equal(t, Item(24), failure.Item)
	assert.True(t, errors.Is(failure, ErrCapacityExhausted))
	assert.True(t, errors.Is(failure, ErrAllStationsFull))

	assert.Equal(t, 24, outcome.State.ItemCount())
	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err(), ErrCapacityExhausted)
}

func TestAllocate_OverflowInConstrainedGroupContinues(t *testing.T) {
	// 25 constrained items: the last one cannot be placed, nothing else is lost
	previous := fullClassPrevious()
	previous.Add(8, 24)

	outcome, err := Allocate(previous, DefaultConfig(seeded(3)))
	require.NoError(t, err)

	require.Len(t, outcome.Failures, 1)
	assert.ErrorIs(t, outcome.Failures[0], ErrCapacityExhausted)
	assert.Equal(t, Station(8), outcome.Failures[0].Group)
	assert.Equal(t, 24, outcome.State.ItemCount())
}

func TestAllocate_ForcedCollisionRecorded(t *testing.T) {
	// Two stations cannot separate four group-mates
	previous := NewPreviousState(2)
	for _, item := range []Item{0, 1, 2, 3} {
		previous.Add(1, item)
	}

	config := DefaultConfig(seeded(11))
	config.Stations = 2

	outcome, err := Allocate(previous, config)
	require.NoError(t, err)

	assert.Empty(t, outcome.Failures)
	assert.Len(t, outcome.Collisions, 2)
	for _, c := range outcome.Collisions {
		assert.True(t, c.Collision)
	}
	assert.GreaterOrEqual(t, CountRepeatPairings(previous, outcome.State), 2)
	assert.True(t, outcome.Success, "collisions are best-effort, not failures")
}

func TestAllocate_SameSeedSameResult(t *testing.T) {
	previous := fullClassPrevious()

	first, err := Allocate(previous, DefaultConfig(seeded(99)))
	require.NoError(t, err)
	second, err := Allocate(previous, DefaultConfig(seeded(99)))
	require.NoError(t, err)

	assert.Equal(t, first.State, second.State)
}

func TestAllocate_EmptyPrevious(t *testing.T) {
	outcome, err := Allocate(NewPreviousState(DefaultStations), DefaultConfig(seeded(1)))
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.State.ItemCount())
	assert.Len(t, outcome.State, DefaultStations)
	assert.True(t, outcome.Success)
	assert.NoError(t, outcome.Err())
}

func TestAllocate_InvalidConfig(t *testing.T) {
	previous := NewPreviousState(DefaultStations)

	_, err := Allocate(nil, DefaultConfig(seeded(1)))
	assert.Error(t, err)

	config := DefaultConfig(nil)
	_, err = Allocate(previous, config)
	assert.Error(t, err)

	config = DefaultConfig(seeded(1))
	config.Capacity = 0
	_, err = Allocate(previous, config)
	assert.Error(t, err)

	config = DefaultConfig(seeded(1))
	config.Stations = -1
	_, err = Allocate(previous, config)
	assert.Error(t, err)

	config = DefaultConfig(seeded(1))
	config.MaxAvoidanceAttempts = -1
	_, err = Allocate(previous, config)
	assert.Error(t, err)
}

func TestAllocate_DoesNotMutatePrevious(t *testing.T) {
	previous := previousFromGroups(map[Station][]Item{0: {3}, 1: {0, 1, 2}})

	_, err := Allocate(previous, DefaultConfig(seeded(5)))
	require.NoError(t, err)

	assert.Equal(t, []Item{0, 1, 2}, previous[1])
	assert.Equal(t, []Item{3}, previous[0])
	assert.Empty(t, previous[2])
}
