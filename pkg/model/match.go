package model

// MatchResult is the outcome of one match decision for a focal
// attendee. An empty AttendeeID means no match was found, which is a
// normal terminal outcome rather than an error.
type MatchResult struct {
	AttendeeID AttendeeID
	Rationale  string
	Confidence float64
}

// Matched reports whether a real partner was selected
func (m *MatchResult) Matched() bool {
	return m.AttendeeID != ""
}

// Pair is an unordered pair of two distinct attendees committed to sit
// together. Neither member may appear in any other pair of the same
// allocation run.
type Pair struct {
	A AttendeeID
	B AttendeeID
}

// Contains reports whether the pair includes the given attendee
func (p Pair) Contains(id AttendeeID) bool {
	return p.A == id || p.B == id
}

// SeatAssignment places one attendee at a zero-based table/seat
// coordinate.
type SeatAssignment struct {
	AttendeeID AttendeeID
	TableNo    int
	SeatNo     int
}
