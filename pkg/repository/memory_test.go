package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/repository"
)

func TestMemoryEventCRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	event := &model.Event{
		ID:            model.NewEventID(),
		Name:          "Summer Mixer",
		TotalTables:   2,
		SeatsPerTable: 4,
		ChaosLevel:    5,
		CreatedAt:     time.Now(),
	}
	gt.NoError(t, repo.PutEvent(ctx, event))

	got, err := repo.GetEvent(ctx, event.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Name, "Summer Mixer")

	_, err = repo.GetEvent(ctx, model.NewEventID())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrEventNotFound))

	events, err := repo.ListEvents(ctx)
	gt.NoError(t, err)
	gt.A(t, events).Length(1)
}

func TestMemoryListAttendeesGoingOnly(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	eventID := model.NewEventID()

	going := &model.Attendee{ID: model.NewAttendeeID(), EventID: eventID, Name: "Ava", Going: true}
	notGoing := &model.Attendee{ID: model.NewAttendeeID(), EventID: eventID, Name: "Ben", Going: false}
	otherEvent := &model.Attendee{ID: model.NewAttendeeID(), EventID: model.NewEventID(), Name: "Cam", Going: true}
	gt.NoError(t, repo.PutAttendee(ctx, going))
	gt.NoError(t, repo.PutAttendee(ctx, notGoing))
	gt.NoError(t, repo.PutAttendee(ctx, otherEvent))

	all, err := repo.ListAttendees(ctx, eventID, false)
	gt.NoError(t, err)
	gt.A(t, all).Length(2)

	confirmed, err := repo.ListAttendees(ctx, eventID, true)
	gt.NoError(t, err)
	gt.A(t, confirmed).Length(1)
	gt.Equal(t, confirmed[0].Name, "Ava")
}

func TestMemorySearchFacts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	eventID := model.NewEventID()

	near := model.NewAttendeeID()
	mid := model.NewAttendeeID()
	far := model.NewAttendeeID()

	putFact := func(attendeeID model.AttendeeID, text string, embedding firestore.Vector32) {
		gt.NoError(t, repo.PutFact(ctx, &model.Fact{
			ID:         model.NewFactID(),
			AttendeeID: attendeeID,
			EventID:    eventID,
			Text:       text,
			Embedding:  embedding,
		}))
	}
	putFact(near, "loves hiking", firestore.Vector32{1, 0, 0})
	putFact(mid, "enjoys cooking", firestore.Vector32{0.7, 0.7, 0})
	putFact(far, "collects stamps", firestore.Vector32{-1, 0, 0})

	query := firestore.Vector32{1, 0, 0}

	nearest, err := repo.SearchFacts(ctx, &repository.SearchFactsInput{
		EventID: eventID,
		Vector:  query,
		Mode:    repository.SearchNearest,
		Limit:   3,
	})
	gt.NoError(t, err)
	gt.A(t, nearest).Length(3)
	gt.Equal(t, nearest[0].AttendeeID, near)
	gt.Equal(t, nearest[2].AttendeeID, far)

	farthest, err := repo.SearchFacts(ctx, &repository.SearchFactsInput{
		EventID: eventID,
		Vector:  query,
		Mode:    repository.SearchFarthest,
		Limit:   3,
	})
	gt.NoError(t, err)
	gt.Equal(t, farthest[0].AttendeeID, far)
	gt.Equal(t, farthest[2].AttendeeID, near)

	excluded, err := repo.SearchFacts(ctx, &repository.SearchFactsInput{
		EventID: eventID,
		Vector:  query,
		Mode:    repository.SearchNearest,
		Exclude: []model.AttendeeID{near},
		Limit:   3,
	})
	gt.NoError(t, err)
	gt.A(t, excluded).Length(2)
	gt.Equal(t, excluded[0].AttendeeID, mid)
}

func TestMemorySearchFactsIncludesOpinions(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	eventID := model.NewEventID()
	attendeeID := model.NewAttendeeID()

	gt.NoError(t, repo.PutOpinion(ctx, &model.Opinion{
		ID:         model.NewOpinionID(),
		AttendeeID: attendeeID,
		EventID:    eventID,
		Question:   "Window or aisle?",
		Answer:     "Window, always",
		Embedding:  firestore.Vector32{0, 1, 0},
	}))

	hits, err := repo.SearchFacts(ctx, &repository.SearchFactsInput{
		EventID: eventID,
		Vector:  firestore.Vector32{0, 1, 0},
		Mode:    repository.SearchNearest,
		Limit:   5,
	})
	gt.NoError(t, err)
	gt.A(t, hits).Length(1)
	gt.Equal(t, hits[0].Text, "Window or aisle?: Window, always")
}

func TestMemoryReplaceSeatAssignments(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	eventID := model.NewEventID()

	a := &model.Attendee{ID: model.NewAttendeeID(), EventID: eventID, Name: "Ava", Going: true}
	b := &model.Attendee{ID: model.NewAttendeeID(), EventID: eventID, Name: "Ben", Going: true}
	gt.NoError(t, repo.PutAttendee(ctx, a))
	gt.NoError(t, repo.PutAttendee(ctx, b))

	gt.NoError(t, repo.ReplaceSeatAssignments(ctx, eventID, []model.SeatAssignment{
		{AttendeeID: a.ID, TableNo: 0, SeatNo: 1},
		{AttendeeID: b.ID, TableNo: 1, SeatNo: 0},
	}))

	gotA, err := repo.GetAttendee(ctx, a.ID)
	gt.NoError(t, err)
	gt.V(t, gotA.TableNo).NotNil()
	gt.Equal(t, *gotA.TableNo, 0)
	gt.Equal(t, *gotA.SeatNo, 1)

	// Re-run with only one assignment: the other attendee's seat is cleared.
	gt.NoError(t, repo.ReplaceSeatAssignments(ctx, eventID, []model.SeatAssignment{
		{AttendeeID: a.ID, TableNo: 0, SeatNo: 0},
	}))
	gotB, err := repo.GetAttendee(ctx, b.ID)
	gt.NoError(t, err)
	gt.Nil(t, gotB.TableNo)
	gt.Nil(t, gotB.SeatNo)
}
