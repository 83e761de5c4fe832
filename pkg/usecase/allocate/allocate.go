package allocate

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/adapter"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/repository"
	"github.com/m-mizutani/seatwise/pkg/service/search"
	"github.com/m-mizutani/seatwise/pkg/utils/logging"
)

var (
	ErrNotEnoughAttendees = goerr.New("need at least 2 going attendees for pairing")
	ErrRunInFlight        = goerr.New("allocation already running for this event")
)

// UseCase runs the full matching and seat allocation process for an
// event. Runs for different events may proceed concurrently; a second
// run for the same event is rejected while one is in flight.
type UseCase struct {
	repo     repository.Repository
	searcher search.Searcher
	gemini   adapter.Gemini

	mu       sync.Mutex
	inflight map[model.EventID]bool
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithGemini enables the optional LLM-written seating summary
func WithGemini(gemini adapter.Gemini) Option {
	return func(u *UseCase) {
		u.gemini = gemini
	}
}

// New creates a new allocation UseCase instance
func New(repo repository.Repository, searcher search.Searcher, opts ...Option) *UseCase {
	u := &UseCase{
		repo:     repo,
		searcher: searcher,
		inflight: make(map[model.EventID]bool),
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Result describes one completed allocation run
type Result struct {
	EventID       model.EventID
	EventName     string
	AttendeeCount int
	PairsCreated  int
	SeatedCount   int

	// UnallocatedIDs lists attendees that ended the run without a
	// pair. They still receive seats after all paired attendees,
	// capacity permitting.
	UnallocatedIDs []model.AttendeeID

	// Overflow lists attendees that could not be seated because the
	// event ran out of capacity. Non-fatal.
	Overflow []model.AttendeeID

	Tables []TableSeating
}

// Run executes pairing and seat allocation for the event. Seat
// assignments are written as a single batch at the end, overwriting
// any assignments from a previous run.
func (u *UseCase) Run(ctx context.Context, eventID model.EventID) (*Result, error) {
	if err := u.acquire(eventID); err != nil {
		return nil, err
	}
	defer u.release(eventID)

	logger := logging.From(ctx)

	event, err := u.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	attendees, err := u.repo.ListAttendees(ctx, eventID, true)
	if err != nil {
		return nil, err
	}
	if len(attendees) < 2 {
		return nil, goerr.Wrap(ErrNotEnoughAttendees, "",
			goerr.V("event_id", eventID), goerr.V("going", len(attendees)))
	}

	logger.Info("starting allocation",
		"event_id", eventID, "event", event.Name,
		"attendees", len(attendees), "chaos", float64(event.ChaosLevel),
		"capacity", event.Capacity())

	pairing, err := u.pairAttendees(ctx, event, attendees)
	if err != nil {
		return nil, err
	}

	plan := placeSeats(pairing, event.TotalTables, event.SeatsPerTable)
	if len(plan.Overflow) > 0 {
		logger.Warn("not enough seats for all attendees",
			"event_id", eventID, "capacity", event.Capacity(),
			"overflow", len(plan.Overflow))
	}

	if err := u.repo.ReplaceSeatAssignments(ctx, eventID, plan.Assignments); err != nil {
		return nil, goerr.Wrap(err, "failed to write seat assignments", goerr.V("event_id", eventID))
	}

	return &Result{
		EventID:        eventID,
		EventName:      event.Name,
		AttendeeCount:  len(attendees),
		PairsCreated:   len(pairing.Pairs),
		SeatedCount:    len(plan.Assignments),
		UnallocatedIDs: pairing.Unallocated,
		Overflow:       plan.Overflow,
		Tables:         plan.Tables,
	}, nil
}

func (u *UseCase) acquire(eventID model.EventID) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.inflight[eventID] {
		return goerr.Wrap(ErrRunInFlight, "", goerr.V("event_id", eventID))
	}
	u.inflight[eventID] = true
	return nil
}

func (u *UseCase) release(eventID model.EventID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inflight, eventID)
}
