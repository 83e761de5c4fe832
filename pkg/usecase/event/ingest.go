package event

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/adapter"
	"github.com/m-mizutani/seatwise/pkg/model"
)

// AddFact stores a fact about an attendee. The statement is embedded
// via Gemini at write time so the allocation engine only ever reads
// precomputed vectors.
func (u *UseCase) AddFact(ctx context.Context, attendeeID model.AttendeeID, text string) (*model.Fact, error) {
	if text == "" {
		return nil, goerr.New("fact text is required")
	}

	attendee, err := u.repo.GetAttendee(ctx, attendeeID)
	if err != nil {
		return nil, err
	}

	embedding, err := u.gemini.Embedding(ctx, text, adapter.EmbeddingTaskDocument)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed fact", goerr.V("attendee_id", attendeeID))
	}

	fact := &model.Fact{
		ID:         model.NewFactID(),
		AttendeeID: attendeeID,
		EventID:    attendee.EventID,
		Text:       text,
		Embedding:  firestore.Vector32(embedding),
	}

	if err := u.repo.PutFact(ctx, fact); err != nil {
		return nil, err
	}

	return fact, nil
}

// AddOpinion stores a question/answer opinion for an attendee,
// embedding its rendered statement form.
func (u *UseCase) AddOpinion(ctx context.Context, attendeeID model.AttendeeID, question, answer string) (*model.Opinion, error) {
	if question == "" || answer == "" {
		return nil, goerr.New("opinion question and answer are required")
	}

	attendee, err := u.repo.GetAttendee(ctx, attendeeID)
	if err != nil {
		return nil, err
	}

	opinion := &model.Opinion{
		ID:         model.NewOpinionID(),
		AttendeeID: attendeeID,
		EventID:    attendee.EventID,
		Question:   question,
		Answer:     answer,
	}

	embedding, err := u.gemini.Embedding(ctx, opinion.FactText(), adapter.EmbeddingTaskDocument)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed opinion", goerr.V("attendee_id", attendeeID))
	}
	opinion.Embedding = firestore.Vector32(embedding)

	if err := u.repo.PutOpinion(ctx, opinion); err != nil {
		return nil, err
	}

	return opinion, nil
}
