package event_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seatwise/pkg/adapter"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/repository"
	"github.com/m-mizutani/seatwise/pkg/usecase/event"
	"google.golang.org/genai"
)

type geminiMock struct {
	embedded []string
}

func (m *geminiMock) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return &genai.GenerateContentResponse{}, nil
}

func (m *geminiMock) Embedding(ctx context.Context, text string, task adapter.EmbeddingTask) ([]float32, error) {
	m.embedded = append(m.embedded, text)
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	uc := event.New(repository.NewMemory(), &geminiMock{})

	created, err := uc.CreateEvent(ctx, &event.CreateEventInput{
		Name:          "Book Club",
		TotalTables:   2,
		SeatsPerTable: 4,
		ChaosLevel:    7,
	})
	gt.NoError(t, err)
	gt.Equal(t, created.ChaosLevel.Strategy(), model.StrategyOpposition)

	_, err = uc.CreateEvent(ctx, &event.CreateEventInput{
		Name:          "Bad Chaos",
		TotalTables:   2,
		SeatsPerTable: 4,
		ChaosLevel:    11,
	})
	gt.Error(t, err)

	_, err = uc.CreateEvent(ctx, &event.CreateEventInput{
		TotalTables:   2,
		SeatsPerTable: 4,
	})
	gt.Error(t, err)
}

func TestAddAttendeeUnknownEvent(t *testing.T) {
	ctx := context.Background()
	uc := event.New(repository.NewMemory(), &geminiMock{})

	_, err := uc.AddAttendee(ctx, &event.AddAttendeeInput{
		EventID: model.NewEventID(),
		Name:    "Nobody",
	})
	gt.Error(t, err)
}

func TestAddFactEmbedsText(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	gemini := &geminiMock{}
	uc := event.New(repo, gemini)

	created, err := uc.CreateEvent(ctx, &event.CreateEventInput{
		Name:          "Dinner",
		TotalTables:   1,
		SeatsPerTable: 4,
		ChaosLevel:    3,
	})
	gt.NoError(t, err)

	attendee, err := uc.AddAttendee(ctx, &event.AddAttendeeInput{
		EventID: created.ID,
		Name:    "Ava",
		Going:   true,
	})
	gt.NoError(t, err)

	fact, err := uc.AddFact(ctx, attendee.ID, "keeps bees")
	gt.NoError(t, err)
	gt.Equal(t, fact.EventID, created.ID)
	gt.A(t, gemini.embedded).Length(1)
	gt.Equal(t, gemini.embedded[0], "keeps bees")

	opinion, err := uc.AddOpinion(ctx, attendee.ID, "Cats or dogs?", "Cats")
	gt.NoError(t, err)
	gt.Equal(t, opinion.FactText(), "Cats or dogs?: Cats")
	gt.Equal(t, gemini.embedded[1], "Cats or dogs?: Cats")

	_, err = uc.AddFact(ctx, attendee.ID, "")
	gt.Error(t, err)
}

func TestSeed(t *testing.T) {
	seedYAML := `name: Office Party
total_tables: 2
seats_per_table: 4
chaos_level: 5
attendees:
  - name: Ava
    email: ava@example.com
    rsvp: true
    going: true
    facts:
      - keeps bees
      - runs marathons
    opinions:
      - question: Morning person?
        answer: Absolutely
  - name: Ben
    going: true
    facts:
      - collects vinyl
`
	path := filepath.Join(t.TempDir(), "seed.yml")
	gt.NoError(t, os.WriteFile(path, []byte(seedYAML), 0600))

	ctx := context.Background()
	repo := repository.NewMemory()
	uc := event.New(repo, &geminiMock{})

	result, err := uc.Seed(ctx, path)
	gt.NoError(t, err)
	gt.Equal(t, result.Attendees, 2)
	gt.Equal(t, result.Facts, 3)
	gt.Equal(t, result.Opinions, 1)
	gt.Equal(t, result.Event.Name, "Office Party")

	attendees, err := uc.ListAttendees(ctx, result.Event.ID)
	gt.NoError(t, err)
	gt.A(t, attendees).Length(2)
}

func TestSeedMissingFile(t *testing.T) {
	uc := event.New(repository.NewMemory(), &geminiMock{})
	_, err := uc.Seed(context.Background(), "/no/such/file.yml")
	gt.Error(t, err)
}
