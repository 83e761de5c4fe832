package search

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/adapter"
	"github.com/m-mizutani/seatwise/pkg/repository"
)

const defaultLimit = 10

// Service implements Searcher on top of the repository's fact vector
// search. Query text is embedded through the Gemini adapter; the
// engine itself never computes embeddings.
type Service struct {
	repo   repository.Repository
	gemini adapter.Gemini
}

// New creates a new vector search service
func New(repo repository.Repository, gemini adapter.Gemini) *Service {
	return &Service{
		repo:   repo,
		gemini: gemini,
	}
}

func (s *Service) Search(ctx context.Context, q *Query) ([]*Candidate, error) {
	if q.Text == "" {
		return nil, goerr.New("search query text is empty")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	vector, err := s.gemini.Embedding(ctx, q.Text, adapter.EmbeddingTaskQuery)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed search query")
	}

	mode := repository.SearchNearest
	if q.Mode == ModeOpposite {
		mode = repository.SearchFarthest
	}

	hits, err := s.repo.SearchFacts(ctx, &repository.SearchFactsInput{
		EventID: q.EventID,
		Vector:  firestore.Vector32(vector),
		Mode:    mode,
		Exclude: q.Exclude,
		Limit:   limit,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search facts", goerr.V("event_id", q.EventID))
	}

	candidates := make([]*Candidate, 0, len(hits))
	for _, hit := range hits {
		score := 1.0 - hit.Distance // cosine similarity
		if q.Mode == ModeOpposite {
			score = hit.Distance
		}
		candidates = append(candidates, &Candidate{
			AttendeeID: hit.AttendeeID,
			SourceText: hit.Text,
			Score:      score,
		})
	}

	return candidates, nil
}
