package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidChaosLevel = goerr.New("chaos level out of range")
	ErrInvalidCapacity   = goerr.New("invalid table capacity")
)

type EventID string

// NewEventID generates a new unique EventID
func NewEventID() EventID {
	return EventID(uuid.New().String())
}

const (
	ChaosMin = 0.0
	ChaosMax = 10.0
)

// ChaosLevel tunes how seating should favor similarity (low) versus
// opposition (high) between paired attendees. Canonical range is 0-10.
type ChaosLevel float64

type Strategy string

const (
	// StrategyHarmony seeks attendees with similar facts and opinions
	StrategyHarmony Strategy = "harmony"
	// StrategyDiversity seeks moderately different attendees
	StrategyDiversity Strategy = "diversity"
	// StrategyOpposition seeks attendees with opposing facts and opinions
	StrategyOpposition Strategy = "opposition"
)

// Strategy maps the chaos level to a search strategy. Band boundaries
// are inclusive on the low side: [0,3] harmony, (3,6] diversity,
// (6,10] opposition.
func (c ChaosLevel) Strategy() Strategy {
	switch {
	case c <= 3:
		return StrategyHarmony
	case c <= 6:
		return StrategyDiversity
	default:
		return StrategyOpposition
	}
}

// Clamp forces the level into the canonical 0-10 range
func (c ChaosLevel) Clamp() ChaosLevel {
	if c < ChaosMin {
		return ChaosMin
	}
	if c > ChaosMax {
		return ChaosMax
	}
	return c
}

// Validate checks if the chaos level is within the canonical range
func (c ChaosLevel) Validate() error {
	if c < ChaosMin || c > ChaosMax {
		return goerr.Wrap(ErrInvalidChaosLevel, "", goerr.V("chaos", float64(c)))
	}
	return nil
}

type Event struct {
	ID            EventID
	Name          string
	TotalTables   int
	SeatsPerTable int
	ChaosLevel    ChaosLevel
	CreatedAt     time.Time
}

// Capacity returns the total number of seats available at the event
func (e *Event) Capacity() int {
	return e.TotalTables * e.SeatsPerTable
}

// Validate checks event fields required before allocation can run
func (e *Event) Validate() error {
	if e.TotalTables <= 0 || e.SeatsPerTable <= 0 {
		return goerr.Wrap(ErrInvalidCapacity, "",
			goerr.V("total_tables", e.TotalTables),
			goerr.V("seats_per_table", e.SeatsPerTable))
	}
	return e.ChaosLevel.Validate()
}
