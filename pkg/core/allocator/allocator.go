package allocator

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Allocator places the items of one allocation run into stations
type Allocator struct {
	config   AllocationConfig
	previous Grouping
	state    Grouping
	logger   *zap.Logger
}

// AllocationConfig contains the configuration for an allocation run
type AllocationConfig struct {
	// Stations is the number of placement targets (labelled 1..Stations)
	Stations int

	// Capacity is the maximum number of items per station
	Capacity int

	// MaxAvoidanceAttempts bounds the random draws spent looking for a station
	// free of the item's previous group-mates
	MaxAvoidanceAttempts int

	// MaxRandomAttempts bounds the random draws spent looking for any station with capacity
	// before scanning in ascending order
	MaxRandomAttempts int

	// Rand is the random source. Required.
	Rand Rand

	// Logger receives placement diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns the 8 stations x 3 seats configuration with the given random source
func DefaultConfig(rng Rand) AllocationConfig {
	return AllocationConfig{
		Stations:             DefaultStations,
		Capacity:             DefaultCapacity,
		MaxAvoidanceAttempts: DefaultMaxAvoidanceAttempts,
		MaxRandomAttempts:    DefaultMaxRandomAttempts,
		Rand:                 rng,
	}
}

// AllocationOutcome represents the result of an allocation run
type AllocationOutcome struct {
	// State is the new grouping (stations 1..Stations)
	State Grouping

	// Placements lists every successful placement in the order it happened
	Placements []Placement

	// Failures lists items that could not be placed
	Failures []*PlacementError

	// Collisions lists placements that share a station with a previous group-mate
	Collisions []Placement

	// ValidationErrors contains any problems found in the final state
	ValidationErrors []ValidationError

	// Success indicates every item was placed and the final state is valid
	Success bool
}

// Err joins the per-item placement failures, or returns nil if there were none
func (o *AllocationOutcome) Err() error {
	errs := make([]error, 0, len(o.Failures))
	for _, failure := range o.Failures {
		errs = append(errs, failure)
	}
	return errors.Join(errs...)
}

// Allocate builds a new grouping from the previous one.
//
// Nonzero previous groups are placed first, in ascending station order, each item
// avoiding the stations already holding its group-mates. Group 0 is placed last
// with no avoidance, filling whatever capacity remains. A placement that finds
// every station full is recorded in Failures and the run moves on to the next item.
func Allocate(previous Grouping, config AllocationConfig) (*AllocationOutcome, error) {
	allocator, err := newAllocator(previous, config)
	if err != nil {
		return nil, err
	}

	outcome := &AllocationOutcome{
		State:            allocator.state,
		Placements:       []Placement{},
		Failures:         []*PlacementError{},
		Collisions:       []Placement{},
		ValidationErrors: []ValidationError{},
	}

	for _, group := range previous.Keys() {
		if group == UnassignedStation {
			continue
		}
		allocator.placeGroup(group, outcome)
	}
	allocator.placeGroup(UnassignedStation, outcome)

	return allocator.buildOutcome(outcome), nil
}

func newAllocator(previous Grouping, config AllocationConfig) (*Allocator, error) {
	if previous == nil {
		return nil, fmt.Errorf("previous grouping is required")
	}
	if err := checkSearchArgs(config.Stations, config.Capacity, config.Rand); err != nil {
		return nil, fmt.Errorf("invalid allocation config: %w", err)
	}
	if config.MaxAvoidanceAttempts < 0 || config.MaxRandomAttempts < 0 {
		return nil, fmt.Errorf("invalid allocation config: attempt bounds must not be negative")
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Allocator{
		config:   config,
		previous: previous,
		state:    NewState(config.Stations),
		logger:   logger,
	}, nil
}

// placeGroup places every item of a previous group, one at a time
func (a *Allocator) placeGroup(group Station, outcome *AllocationOutcome) {
	items := a.previous[group]
	if len(items) == 0 {
		return
	}

	a.logger.Debug("Placing group", zap.Int("group", int(group)), zap.Ints("items", itemsToInts(items)))

	for _, item := range items {
		placement, err := a.placeItem(item, group, items)
		if err != nil {
			failure := &PlacementError{Item: item, Group: group, Err: fmt.Errorf("%w: %w", ErrCapacityExhausted, err)}
			outcome.Failures = append(outcome.Failures, failure)
			a.logger.Error("Failed to place item",
				zap.Int("item", int(item)),
				zap.Int("group", int(group)),
				zap.Error(err))
			continue
		}

		outcome.Placements = append(outcome.Placements, placement)
		if placement.Collision {
			outcome.Collisions = append(outcome.Collisions, placement)
			a.logger.Warn("Placed item alongside a previous group-mate",
				zap.Int("item", int(item)),
				zap.Int("group", int(group)),
				zap.Int("station", int(placement.Station)))
		} else {
			a.logger.Debug("Placed item",
				zap.Int("item", int(item)),
				zap.Int("station", int(placement.Station)))
		}
	}
}

// placeItem finds a station for the item and records it in the new state
func (a *Allocator) placeItem(item Item, group Station, groupItems []Item) (Placement, error) {
	var placement Placement

	if group == UnassignedStation {
		station, err := FindRandomAvailable(a.state, a.config.Stations, a.config.Capacity, a.config.Rand, a.config.MaxRandomAttempts)
		if err != nil {
			return Placement{}, err
		}
		placement = Placement{Station: station}
	} else {
		var err error
		placement, err = FindStation(
			a.state,
			a.config.Stations,
			a.config.Capacity,
			withoutItem(groupItems, item),
			a.config.Rand,
			a.config.MaxAvoidanceAttempts,
			a.config.MaxRandomAttempts,
		)
		if err != nil {
			return Placement{}, err
		}
	}

	placement.Item = item
	placement.Group = group
	a.state.Add(placement.Station, item)

	return placement, nil
}

// buildOutcome validates the final state and fills in the success flag
func (a *Allocator) buildOutcome(outcome *AllocationOutcome) *AllocationOutcome {
	outcome.ValidationErrors = ValidateState(a.previous, a.state, a.config.Capacity)
	outcome.Success = len(outcome.Failures) == 0 && len(outcome.ValidationErrors) == 0

	a.logger.Debug("Allocation finished",
		zap.Int("placed", len(outcome.Placements)),
		zap.Int("failures", len(outcome.Failures)),
		zap.Int("collisions", len(outcome.Collisions)))

	return outcome
}

func withoutItem(items []Item, item Item) []Item {
	others := make([]Item, 0, len(items))
	for _, other := range items {
		if other != item {
			others = append(others, other)
		}
	}
	return others
}

func itemsToInts(items []Item) []int {
	ints := make([]int, len(items))
	for i, item := range items {
		ints[i] = int(item)
	}
	return ints
}
