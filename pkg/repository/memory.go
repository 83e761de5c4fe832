package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
)

// Memory implements Repository with in-process maps. It backs tests
// and local runs without a Firestore project.
type Memory struct {
	mu        sync.RWMutex
	events    map[model.EventID]*model.Event
	attendees map[model.AttendeeID]*model.Attendee
	facts     map[model.FactID]*model.Fact
	opinions  map[model.OpinionID]*model.Opinion
}

// NewMemory creates a new in-memory repository
func NewMemory() *Memory {
	return &Memory{
		events:    make(map[model.EventID]*model.Event),
		attendees: make(map[model.AttendeeID]*model.Attendee),
		facts:     make(map[model.FactID]*model.Fact),
		opinions:  make(map[model.OpinionID]*model.Opinion),
	}
}

func (r *Memory) PutEvent(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *Memory) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, goerr.Wrap(ErrEventNotFound, "", goerr.V("event_id", id))
	}
	copied := *event
	return &copied, nil
}

func (r *Memory) ListEvents(ctx context.Context) ([]*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]*model.Event, 0, len(r.events))
	for _, event := range r.events {
		copied := *event
		events = append(events, &copied)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (r *Memory) PutAttendee(ctx context.Context, attendee *model.Attendee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *attendee
	r.attendees[attendee.ID] = &copied
	return nil
}

func (r *Memory) GetAttendee(ctx context.Context, id model.AttendeeID) (*model.Attendee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attendee, ok := r.attendees[id]
	if !ok {
		return nil, goerr.Wrap(ErrAttendeeNotFound, "", goerr.V("attendee_id", id))
	}
	copied := *attendee
	return &copied, nil
}

func (r *Memory) ListAttendees(ctx context.Context, eventID model.EventID, goingOnly bool) ([]*model.Attendee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var attendees []*model.Attendee
	for _, attendee := range r.attendees {
		if attendee.EventID != eventID {
			continue
		}
		if goingOnly && !attendee.Going {
			continue
		}
		copied := *attendee
		attendees = append(attendees, &copied)
	}
	sort.Slice(attendees, func(i, j int) bool {
		return attendees[i].ID < attendees[j].ID
	})
	return attendees, nil
}

func (r *Memory) PutFact(ctx context.Context, fact *model.Fact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *fact
	r.facts[fact.ID] = &copied
	return nil
}

func (r *Memory) ListFacts(ctx context.Context, attendeeID model.AttendeeID) ([]*model.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var facts []*model.Fact
	for _, fact := range r.facts {
		if fact.AttendeeID != attendeeID {
			continue
		}
		copied := *fact
		facts = append(facts, &copied)
	}
	sort.Slice(facts, func(i, j int) bool { return facts[i].ID < facts[j].ID })
	return facts, nil
}

func (r *Memory) PutOpinion(ctx context.Context, opinion *model.Opinion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *opinion
	r.opinions[opinion.ID] = &copied
	return nil
}

func (r *Memory) ListOpinions(ctx context.Context, attendeeID model.AttendeeID) ([]*model.Opinion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var opinions []*model.Opinion
	for _, opinion := range r.opinions {
		if opinion.AttendeeID != attendeeID {
			continue
		}
		copied := *opinion
		opinions = append(opinions, &copied)
	}
	sort.Slice(opinions, func(i, j int) bool { return opinions[i].ID < opinions[j].ID })
	return opinions, nil
}

func (r *Memory) SearchFacts(ctx context.Context, input *SearchFactsInput) ([]*FactHit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	excluded := excludeSet(input.Exclude)
	var hits []*FactHit

	appendHit := func(attendeeID model.AttendeeID, eventID model.EventID, text string, embedding []float32) {
		if eventID != input.EventID || excluded[attendeeID] {
			return
		}
		hits = append(hits, &FactHit{
			AttendeeID: attendeeID,
			Text:       text,
			Distance:   cosineDistance(input.Vector, embedding),
		})
	}

	for _, fact := range r.facts {
		appendHit(fact.AttendeeID, fact.EventID, fact.Text, fact.Embedding)
	}
	for _, opinion := range r.opinions {
		appendHit(opinion.AttendeeID, opinion.EventID, opinion.FactText(), opinion.Embedding)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			if input.Mode == SearchFarthest {
				return hits[i].Distance > hits[j].Distance
			}
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].AttendeeID < hits[j].AttendeeID
	})

	if len(hits) > input.Limit {
		hits = hits[:input.Limit]
	}
	return hits, nil
}

func (r *Memory) ReplaceSeatAssignments(ctx context.Context, eventID model.EventID, assignments []model.SeatAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seats := make(map[model.AttendeeID]model.SeatAssignment, len(assignments))
	for _, a := range assignments {
		seats[a.AttendeeID] = a
	}

	for _, attendee := range r.attendees {
		if attendee.EventID != eventID {
			continue
		}
		if seat, ok := seats[attendee.ID]; ok {
			tableNo, seatNo := seat.TableNo, seat.SeatNo
			attendee.TableNo = &tableNo
			attendee.SeatNo = &seatNo
		} else {
			attendee.TableNo = nil
			attendee.SeatNo = nil
		}
	}

	return nil
}
