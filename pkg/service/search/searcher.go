package search

import (
	"context"

	"github.com/m-mizutani/seatwise/pkg/model"
)

// Mode selects whether a search looks for agreeing or opposing
// attendees.
type Mode string

const (
	// ModeSimilar ranks candidates by descending similarity
	ModeSimilar Mode = "similar"
	// ModeOpposite ranks candidates by descending dissimilarity.
	// Dissimilarity is negative affinity, not vector negation: the
	// stored vectors are ranked far-to-near instead of reconstructing
	// and re-embedding a negated query.
	ModeOpposite Mode = "opposite"
)

// Query describes one similarity search within an event
type Query struct {
	EventID model.EventID
	Text    string
	Mode    Mode
	Exclude []model.AttendeeID
	Limit   int
}

// Candidate is a provisionally retrieved possible match. SourceText is
// the fact or opinion statement that produced the hit. Score is
// similarity for ModeSimilar and dissimilarity for ModeOpposite; in
// both cases higher means a better fit for the requested mode.
type Candidate struct {
	AttendeeID model.AttendeeID
	SourceText string
	Score      float64
}

// Searcher is the similarity search capability consumed by the match
// decision policy.
type Searcher interface {
	Search(ctx context.Context, q *Query) ([]*Candidate, error)
}
