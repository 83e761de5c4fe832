package allocate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/service/search"
	"github.com/m-mizutani/seatwise/pkg/utils/logging"
)

// maxSearchAttempts caps the number of queries per focal attendee. The
// cap is enforced here before issuing another query, independent of
// any caller's judgment about whether to keep searching.
const maxSearchAttempts = 3

const searchLimit = 10

type policyState int

const (
	stateSearching policyState = iota
	stateFinalized
)

// Policy decides one match for a focal attendee. It runs a bounded
// retry loop against the searcher, pooling candidates across attempts,
// and always produces exactly one MatchResult.
type Policy struct {
	searcher search.Searcher
}

// NewPolicy creates a new match decision policy
func NewPolicy(searcher search.Searcher) *Policy {
	return &Policy{searcher: searcher}
}

// DecideInput contains everything one match decision needs. Exclude
// must hold exactly the attendees already committed to a pair.
type DecideInput struct {
	Focal    model.AttendeeID
	EventID  model.EventID
	Material []string
	Chaos    model.ChaosLevel
	Exclude  []model.AttendeeID
}

// Decide finds the best partner for the focal attendee. A no-match
// outcome is returned as a sentinel result, never as an error.
func (p *Policy) Decide(ctx context.Context, input *DecideInput) *model.MatchResult {
	logger := logging.From(ctx)

	if len(input.Material) == 0 {
		return &model.MatchResult{
			Rationale:  "attendee has no facts or opinions to search with",
			Confidence: 0,
		}
	}

	strategy := input.Chaos.Clamp().Strategy()
	mode := search.ModeSimilar
	if strategy == model.StrategyOpposition {
		mode = search.ModeOpposite
	}

	exclude := append([]model.AttendeeID{input.Focal}, input.Exclude...)

	var pool []*search.Candidate
	attempts := 0

	for state := stateSearching; state == stateSearching; {
		if attempts >= maxSearchAttempts {
			state = stateFinalized
			continue
		}

		query := queryText(attempts, input.Material)
		attempts++

		candidates, err := p.searcher.Search(ctx, &search.Query{
			EventID: input.EventID,
			Text:    query,
			Mode:    mode,
			Exclude: exclude,
			Limit:   searchLimit,
		})
		if err != nil {
			// A search fault counts as a zero-candidate attempt and
			// never aborts the loop.
			logger.Warn("search attempt failed",
				"focal", input.Focal, "attempt", attempts, "error", err)
			candidates = nil
		}

		pool = append(pool, candidates...)
		logger.Debug("search attempt done",
			"focal", input.Focal, "attempt", attempts,
			"returned", len(candidates), "pool", len(pool))

		if len(pool) > 0 {
			state = stateFinalized
		}
	}

	return finalize(input, strategy, pool, attempts)
}

// queryText varies the query per attempt: the most prominent
// statement first, then a different one, then a broadened query over
// all material. The three attempts never repeat a query verbatim.
func queryText(attempt int, material []string) string {
	joined := strings.Join(material, "; ")

	switch attempt {
	case 0:
		return material[0]
	case 1:
		if len(material) > 1 {
			return material[1]
		}
		return "someone who would say: " + joined
	default:
		return "general interests and opinions: " + joined
	}
}

// finalize selects one candidate from the pool, or emits the sentinel
// no-match result when the pool is empty after all attempts.
func finalize(input *DecideInput, strategy model.Strategy, pool []*search.Candidate, attempts int) *model.MatchResult {
	eligible := rankCandidates(pool, input.Focal, input.Exclude)

	if len(eligible) == 0 {
		return &model.MatchResult{
			Rationale:  fmt.Sprintf("no suitable match found after %d search attempts", attempts),
			Confidence: 0,
		}
	}

	// The diversity strategy picks the median-ranked candidate: close
	// enough for some common ground, far enough for friction.
	idx := 0
	if strategy == model.StrategyDiversity {
		idx = (len(eligible) - 1) / 2
	}
	chosen := eligible[idx]

	confidence := chosen.Score
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	return &model.MatchResult{
		AttendeeID: chosen.AttendeeID,
		Rationale:  fmt.Sprintf("%s strategy matched on %q (score %.3f)", strategy, chosen.SourceText, chosen.Score),
		Confidence: confidence,
	}
}

// rankCandidates dedupes the pool per attendee keeping the best score,
// drops the focal attendee and excluded ids, and orders by descending
// score with ascending attendee id as the tie-break.
func rankCandidates(pool []*search.Candidate, focal model.AttendeeID, exclude []model.AttendeeID) []*search.Candidate {
	excluded := make(map[model.AttendeeID]bool, len(exclude)+1)
	excluded[focal] = true
	for _, id := range exclude {
		excluded[id] = true
	}

	best := make(map[model.AttendeeID]*search.Candidate, len(pool))
	for _, c := range pool {
		if excluded[c.AttendeeID] {
			continue
		}
		if prev, ok := best[c.AttendeeID]; !ok || c.Score > prev.Score {
			best[c.AttendeeID] = c
		}
	}

	ranked := make([]*search.Candidate, 0, len(best))
	for _, c := range best {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].AttendeeID < ranked[j].AttendeeID
	})

	return ranked
}
