package event

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/adapter"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/repository"
)

// UseCase provides event and attendee management operations
type UseCase struct {
	repo   repository.Repository
	gemini adapter.Gemini
}

// New creates a new event UseCase instance
func New(repo repository.Repository, gemini adapter.Gemini) *UseCase {
	return &UseCase{
		repo:   repo,
		gemini: gemini,
	}
}

// CreateEventInput contains parameters for creating a new event
type CreateEventInput struct {
	Name          string
	TotalTables   int
	SeatsPerTable int
	ChaosLevel    float64
}

// CreateEvent creates a new event
func (u *UseCase) CreateEvent(ctx context.Context, input *CreateEventInput) (*model.Event, error) {
	if input.Name == "" {
		return nil, goerr.New("event name is required")
	}

	event := &model.Event{
		ID:            model.NewEventID(),
		Name:          input.Name,
		TotalTables:   input.TotalTables,
		SeatsPerTable: input.SeatsPerTable,
		ChaosLevel:    model.ChaosLevel(input.ChaosLevel),
		CreatedAt:     time.Now(),
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := u.repo.PutEvent(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// ListEvents retrieves all events
func (u *UseCase) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return u.repo.ListEvents(ctx)
}

// AddAttendeeInput contains parameters for adding an attendee
type AddAttendeeInput struct {
	EventID model.EventID
	Name    string
	Phone   string
	Email   string
	RSVP    bool
	Going   bool
}

// AddAttendee registers a new attendee to an event
func (u *UseCase) AddAttendee(ctx context.Context, input *AddAttendeeInput) (*model.Attendee, error) {
	if input.Name == "" {
		return nil, goerr.New("attendee name is required")
	}

	// Reject unknown events early
	if _, err := u.repo.GetEvent(ctx, input.EventID); err != nil {
		return nil, err
	}

	attendee := &model.Attendee{
		ID:      model.NewAttendeeID(),
		EventID: input.EventID,
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		RSVP:    input.RSVP,
		Going:   input.Going,
	}

	if err := u.repo.PutAttendee(ctx, attendee); err != nil {
		return nil, err
	}

	return attendee, nil
}

// ListAttendees retrieves attendees of an event
func (u *UseCase) ListAttendees(ctx context.Context, eventID model.EventID) ([]*model.Attendee, error) {
	return u.repo.ListAttendees(ctx, eventID, false)
}
