package allocator

import "fmt"

// Validation check names
const (
	CheckCapacity     = "Capacity"
	CheckUniqueness   = "Uniqueness"
	CheckConservation = "Conservation"
)

// ValidateState checks a finished allocation against the previous grouping.
//
// Checks:
//   - no station in next holds more than capacity items
//   - no item appears more than once in next
//   - every item of previous appears in next, and nothing else does
func ValidateState(previous, next Grouping, capacity int) []ValidationError {
	var errors []ValidationError

	seen := make(map[Item]Station)
	for _, station := range next.Keys() {
		items := next[station]
		if len(items) > capacity {
			errors = append(errors, ValidationError{
				Station:     station,
				Item:        -1,
				Check:       CheckCapacity,
				Description: fmt.Sprintf("Station %d holds %d items but capacity is %d", station, len(items), capacity),
			})
		}

		for _, item := range items {
			if first, ok := seen[item]; ok {
				errors = append(errors, ValidationError{
					Station:     station,
					Item:        item,
					Check:       CheckUniqueness,
					Description: fmt.Sprintf("Item %d placed in both station %d and station %d", item, first, station),
				})
				continue
			}
			seen[item] = station
		}
	}

	expected := make(map[Item]bool)
	for _, group := range previous.Keys() {
		for _, item := range previous[group] {
			expected[item] = true
			if _, ok := seen[item]; !ok {
				errors = append(errors, ValidationError{
					Station:     group,
					Item:        item,
					Check:       CheckConservation,
					Description: fmt.Sprintf("Item %d from group %d was not placed", item, group),
				})
			}
		}
	}

	for _, station := range next.Keys() {
		for _, item := range next[station] {
			if !expected[item] {
				errors = append(errors, ValidationError{
					Station:     station,
					Item:        item,
					Check:       CheckConservation,
					Description: fmt.Sprintf("Item %d in station %d was not in the previous grouping", item, station),
				})
			}
		}
	}

	return errors
}

// CountRepeatPairings returns the number of item pairs that share a station in both
// groupings. Group 0 of previous is ignored since those items had no station.
func CountRepeatPairings(previous, next Grouping) int {
	count := 0
	for _, group := range previous.Keys() {
		if group == UnassignedStation {
			continue
		}
		items := previous[group]
		for i := 0; i < len(items); i++ {
			si, ok := next.StationOf(items[i])
			if !ok {
				continue
			}
			for j := i + 1; j < len(items); j++ {
				if sj, ok := next.StationOf(items[j]); ok && sj == si {
					count++
				}
			}
		}
	}
	return count
}
