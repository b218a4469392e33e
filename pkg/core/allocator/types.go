package allocator

import (
	"slices"
)

// Defaults for a lab session: 8 stations of 3 students each
const (
	DefaultStations             = 8
	DefaultCapacity             = 3
	DefaultMaxAvoidanceAttempts = 15
	DefaultMaxRandomAttempts    = 8
)

// UnassignedStation is the PreviousState group for items with no previous station.
// It is never a placement target.
const UnassignedStation Station = 0

// Item identifies a student by its row index in the roster table
type Item int

// Station is a station label. Placement targets are 1..stations.
type Station int

// Grouping maps a station to the items placed there, in insertion order.
// An item appears under at most one station.
type Grouping map[Station][]Item

// NewPreviousState returns an empty grouping with keys 0..stations (0 holds unassigned items)
func NewPreviousState(stations int) Grouping {
	g := make(Grouping, stations+1)
	for s := 0; s <= stations; s++ {
		g[Station(s)] = []Item{}
	}
	return g
}

// NewState returns an empty grouping with keys 1..stations
func NewState(stations int) Grouping {
	g := make(Grouping, stations)
	for s := 1; s <= stations; s++ {
		g[Station(s)] = []Item{}
	}
	return g
}

// Size returns the number of items currently at the station
func (g Grouping) Size(s Station) int {
	return len(g[s])
}

// Add appends an item to the station
func (g Grouping) Add(s Station, item Item) {
	g[s] = append(g[s], item)
}

// Contains returns true if any of the given items is at the station
func (g Grouping) Contains(s Station, items ...Item) bool {
	for _, item := range items {
		if slices.Contains(g[s], item) {
			return true
		}
	}
	return false
}

// ItemCount returns the total number of items across all stations
func (g Grouping) ItemCount() int {
	count := 0
	for _, items := range g {
		count += len(items)
	}
	return count
}

// Keys returns the stations of the grouping in ascending order
func (g Grouping) Keys() []Station {
	keys := make([]Station, 0, len(g))
	for s := range g {
		keys = append(keys, s)
	}
	slices.Sort(keys)
	return keys
}

// StationOf returns the station holding the item
func (g Grouping) StationOf(item Item) (Station, bool) {
	for s, items := range g {
		if slices.Contains(items, item) {
			return s, true
		}
	}
	return 0, false
}

// Rand is the random source used for station sampling.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Placement is the result of placing a single item
type Placement struct {
	Item    Item
	Group   Station
	Station Station

	// Collision is set when the item was placed alongside a member of its previous group
	// because no collision-free station had capacity
	Collision bool
}

// ValidationError describes a problem found in a finished allocation
type ValidationError struct {
	Station     Station
	Item        Item
	Check       string
	Description string
}
