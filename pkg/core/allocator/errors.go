package allocator

import (
	"errors"
	"fmt"
)

var (
	// ErrAllStationsFull is returned by the station search when no station has capacity left
	ErrAllStationsFull = errors.New("all stations are at capacity")

	// ErrCapacityExhausted is recorded for an item that could not be placed
	ErrCapacityExhausted = errors.New("station capacity exhausted")
)

// PlacementError records a failed placement for a single item
type PlacementError struct {
	Item  Item
	Group Station
	Err   error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("failed to place item %d from group %d: %v", e.Item, e.Group, e.Err)
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}
