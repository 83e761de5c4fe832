package model

import (
	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

type AttendeeID string

// NewAttendeeID generates a new unique AttendeeID
func NewAttendeeID() AttendeeID {
	return AttendeeID(uuid.New().String())
}

type Attendee struct {
	ID      AttendeeID
	EventID EventID
	Name    string
	Phone   string
	Email   string
	RSVP    bool
	Going   bool

	// Seat coordinates are nil until the allocator has placed the
	// attendee. Both are zero-based.
	TableNo *int
	SeatNo  *int
}

type FactID string

// NewFactID generates a new unique FactID
func NewFactID() FactID {
	return FactID(uuid.New().String())
}

// Fact is a short free-text statement about an attendee, with its
// embedding vector precomputed at ingest time. EventID is denormalized
// so vector searches can be scoped to one event without a join.
type Fact struct {
	ID         FactID
	AttendeeID AttendeeID
	EventID    EventID
	Text       string
	Embedding  firestore.Vector32
}

type OpinionID string

// NewOpinionID generates a new unique OpinionID
func NewOpinionID() OpinionID {
	return OpinionID(uuid.New().String())
}

// Opinion is a question/answer pair collected from an attendee
type Opinion struct {
	ID         OpinionID
	AttendeeID AttendeeID
	EventID    EventID
	Question   string
	Answer     string
	Embedding  firestore.Vector32
}

// FactText renders the opinion as a single statement for embedding and
// search queries.
func (o *Opinion) FactText() string {
	return o.Question + ": " + o.Answer
}
