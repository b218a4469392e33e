package allocator

import "fmt"

// FindRandomAvailable picks a station in 1..stations with fewer than capacity items.
// Up to maxAttempts uniform random draws are tried before falling back to an
// ascending scan, so the search always terminates.
func FindRandomAvailable(state Grouping, stations, capacity int, rng Rand, maxAttempts int) (Station, error) {
	if !hasCapacity(state, stations, capacity) {
		return 0, ErrAllStationsFull
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := randomStation(rng, stations)
		if state.Size(candidate) < capacity {
			return candidate, nil
		}
	}

	for s := 1; s <= stations; s++ {
		if state.Size(Station(s)) < capacity {
			return Station(s), nil
		}
	}

	// Unreachable: hasCapacity found a station above
	return 0, ErrAllStationsFull
}

// FindStation picks a station for an item whose previous group-mates should be avoided.
//
// Search order:
//  1. up to maxAttempts uniform draws, accepted when the station has capacity and
//     holds none of the avoided items
//  2. ascending scan for a station satisfying both conditions
//  3. FindRandomAvailable with fallbackAttempts, ignoring avoidance (Collision is set)
//
// An empty avoid set goes straight to FindRandomAvailable.
func FindStation(state Grouping, stations, capacity int, avoid []Item, rng Rand, maxAttempts, fallbackAttempts int) (Placement, error) {
	if len(avoid) == 0 {
		station, err := FindRandomAvailable(state, stations, capacity, rng, fallbackAttempts)
		if err != nil {
			return Placement{}, err
		}
		return Placement{Station: station}, nil
	}

	if !hasCapacity(state, stations, capacity) {
		return Placement{}, ErrAllStationsFull
	}

	acceptable := func(s Station) bool {
		return state.Size(s) < capacity && !state.Contains(s, avoid...)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := randomStation(rng, stations)
		if acceptable(candidate) {
			return Placement{Station: candidate}, nil
		}
	}

	for s := 1; s <= stations; s++ {
		if acceptable(Station(s)) {
			return Placement{Station: Station(s)}, nil
		}
	}

	station, err := FindRandomAvailable(state, stations, capacity, rng, fallbackAttempts)
	if err != nil {
		return Placement{}, err
	}
	return Placement{Station: station, Collision: true}, nil
}

// randomStation draws uniformly from 1..stations
func randomStation(rng Rand, stations int) Station {
	return Station(rng.Intn(stations) + 1)
}

func hasCapacity(state Grouping, stations, capacity int) bool {
	for s := 1; s <= stations; s++ {
		if state.Size(Station(s)) < capacity {
			return true
		}
	}
	return false
}

// checkSearchArgs rejects configurations the search cannot work with
func checkSearchArgs(stations, capacity int, rng Rand) error {
	if stations <= 0 {
		return fmt.Errorf("stations must be positive, got %d", stations)
	}
	if capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	return nil
}
