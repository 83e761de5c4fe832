package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)

	return repo
}

func TestFirestoreEventRoundTrip(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	event := &model.Event{
		ID:            model.NewEventID(),
		Name:          "Integration Dinner",
		TotalTables:   2,
		SeatsPerTable: 4,
		ChaosLevel:    5,
	}
	gt.NoError(t, repo.PutEvent(ctx, event))

	got, err := repo.GetEvent(ctx, event.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Name, event.Name)
	gt.Equal(t, got.ChaosLevel, event.ChaosLevel)
}

// Excluded attendees can own many fact documents each, so the vectors
// nearest to the query may all belong to them. The search must still
// surface eligible attendees instead of returning an empty result.
func TestFirestoreSearchNearestCrowdedExclusion(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()
	eventID := model.NewEventID()

	// Query vector and a near-identical cluster for the excluded crowd.
	query := make(firestore.Vector32, 768)
	query[0] = 1

	var exclude []model.AttendeeID
	for i := 0; i < 8; i++ {
		attendeeID := model.NewAttendeeID()
		exclude = append(exclude, attendeeID)
		for j := 0; j < 5; j++ {
			embedding := make(firestore.Vector32, 768)
			embedding[0] = 1
			embedding[1] = float32(i*5+j) * 0.001
			gt.NoError(t, repo.PutFact(ctx, &model.Fact{
				ID:         model.NewFactID(),
				AttendeeID: attendeeID,
				EventID:    eventID,
				Text:       fmt.Sprintf("excluded fact %d-%d", i, j),
				Embedding:  embedding,
			}))
		}
	}

	// Two eligible attendees whose facts sit farther from the query
	// than every excluded fact.
	eligible := []model.AttendeeID{model.NewAttendeeID(), model.NewAttendeeID()}
	for i, attendeeID := range eligible {
		embedding := make(firestore.Vector32, 768)
		embedding[0] = 1
		embedding[2] = float32(i+1) * 0.5
		gt.NoError(t, repo.PutFact(ctx, &model.Fact{
			ID:         model.NewFactID(),
			AttendeeID: attendeeID,
			EventID:    eventID,
			Text:       fmt.Sprintf("eligible fact %d", i),
			Embedding:  embedding,
		}))
	}

	// limit+len(exclude) = 18 < 40 excluded facts: a single padded
	// fetch would return only excluded hits.
	hits, err := repo.SearchFacts(ctx, &repository.SearchFactsInput{
		EventID: eventID,
		Vector:  query,
		Mode:    repository.SearchNearest,
		Exclude: exclude,
		Limit:   10,
	})
	gt.NoError(t, err)
	gt.A(t, hits).Length(2)
	for _, hit := range hits {
		gt.S(t, hit.Text).Contains("eligible fact")
	}
}
