package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
)

var (
	ErrEventNotFound    = goerr.New("event not found")
	ErrAttendeeNotFound = goerr.New("attendee not found")
)

// SearchMode selects the ordering of a fact vector search
type SearchMode string

const (
	// SearchNearest orders results by ascending cosine distance
	SearchNearest SearchMode = "nearest"
	// SearchFarthest orders results by descending cosine distance
	SearchFarthest SearchMode = "farthest"
)

// SearchFactsInput contains parameters for a fact vector search
type SearchFactsInput struct {
	EventID model.EventID
	Vector  firestore.Vector32
	Mode    SearchMode
	Exclude []model.AttendeeID
	Limit   int
}

// FactHit is one result of a fact vector search
type FactHit struct {
	AttendeeID model.AttendeeID
	Text       string
	Distance   float64
}

// Repository defines the interface for event data persistence
type Repository interface {
	// PutEvent saves an event to the repository
	PutEvent(ctx context.Context, event *model.Event) error

	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, id model.EventID) (*model.Event, error)

	// ListEvents retrieves all events
	ListEvents(ctx context.Context) ([]*model.Event, error)

	// PutAttendee saves an attendee to the repository
	PutAttendee(ctx context.Context, attendee *model.Attendee) error

	// GetAttendee retrieves an attendee by ID
	GetAttendee(ctx context.Context, id model.AttendeeID) (*model.Attendee, error)

	// ListAttendees retrieves attendees of an event. If goingOnly is
	// true, only attendees confirmed as going are returned.
	ListAttendees(ctx context.Context, eventID model.EventID, goingOnly bool) ([]*model.Attendee, error)

	// PutFact saves a fact with its embedding
	PutFact(ctx context.Context, fact *model.Fact) error

	// ListFacts retrieves all facts of an attendee
	ListFacts(ctx context.Context, attendeeID model.AttendeeID) ([]*model.Fact, error)

	// PutOpinion saves an opinion with its embedding
	PutOpinion(ctx context.Context, opinion *model.Opinion) error

	// ListOpinions retrieves all opinions of an attendee
	ListOpinions(ctx context.Context, attendeeID model.AttendeeID) ([]*model.Opinion, error)

	// SearchFacts performs a vector search over the facts of one event
	SearchFacts(ctx context.Context, input *SearchFactsInput) ([]*FactHit, error)

	// ReplaceSeatAssignments clears all seat assignments of an event
	// and writes the given batch in one pass. Re-running allocation
	// must not leave stale placements behind.
	ReplaceSeatAssignments(ctx context.Context, eventID model.EventID, assignments []model.SeatAssignment) error
}
