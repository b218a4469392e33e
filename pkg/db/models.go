package db

import "time"

// Run records one generated column
type Run struct {
	ID             string
	ColumnName     string
	SourceColumn   string
	CreatedAt      time.Time
	Seed           int64
	Items          int
	Placed         int
	Failures       int
	Collisions     int
	RepeatPairings int
	Skipped        int
}

// Placement records where one row was placed during a run
type Placement struct {
	RunID           string
	Row             int
	PreviousStation int
	Station         int
	Collision       bool
}
