package allocate

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/utils/logging"
)

// PairingResult holds the outcome of one pairing run: finalized pairs
// in orchestration order plus the unallocated remainder.
type PairingResult struct {
	Pairs       []model.Pair
	Unallocated []model.AttendeeID
}

// pairAttendees drives the match decision policy across all going
// attendees, maintaining the exclusion invariant: the exclusion set
// passed to each policy call equals exactly the attendees already
// committed to a pair.
func (u *UseCase) pairAttendees(ctx context.Context, event *model.Event, attendees []*model.Attendee) (*PairingResult, error) {
	logger := logging.From(ctx)

	allIDs := make([]model.AttendeeID, 0, len(attendees))
	unallocated := make(map[model.AttendeeID]bool, len(attendees))
	for _, a := range attendees {
		allIDs = append(allIDs, a.ID)
		unallocated[a.ID] = true
	}

	policy := NewPolicy(u.searcher)
	result := &PairingResult{}

	for len(unallocated) >= 2 {
		// Abortable between iterations, never mid-query
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "pairing canceled", goerr.V("event_id", event.ID))
		}

		focal := lowestID(unallocated)
		excluded := excludedIDs(allIDs, unallocated)

		material, err := u.matchMaterial(ctx, focal)
		if err != nil {
			return nil, err
		}
		if len(material) == 0 {
			logger.Warn("attendee has no facts or opinions, skipping", "attendee_id", focal)
			delete(unallocated, focal)
			result.Unallocated = append(result.Unallocated, focal)
			continue
		}

		match := policy.Decide(ctx, &DecideInput{
			Focal:    focal,
			EventID:  event.ID,
			Material: material,
			Chaos:    event.ChaosLevel,
			Exclude:  excluded,
		})

		if !match.Matched() {
			logger.Info("no match found", "attendee_id", focal, "rationale", match.Rationale)
			delete(unallocated, focal)
			result.Unallocated = append(result.Unallocated, focal)
			continue
		}

		// Contract check: a match outside the unallocated set would
		// corrupt the exclusion invariant, so discard it instead.
		if !unallocated[match.AttendeeID] || match.AttendeeID == focal {
			logger.Error("policy returned invalid match",
				"attendee_id", focal, "matched_id", match.AttendeeID)
			delete(unallocated, focal)
			result.Unallocated = append(result.Unallocated, focal)
			continue
		}

		logger.Info("matched pair",
			"attendee_id", focal, "matched_id", match.AttendeeID,
			"confidence", match.Confidence, "rationale", match.Rationale)

		result.Pairs = append(result.Pairs, model.Pair{A: focal, B: match.AttendeeID})
		delete(unallocated, focal)
		delete(unallocated, match.AttendeeID)
	}

	for id := range unallocated {
		result.Unallocated = append(result.Unallocated, id)
	}
	sort.Slice(result.Unallocated, func(i, j int) bool {
		return result.Unallocated[i] < result.Unallocated[j]
	})

	logger.Info("pairing complete",
		"event_id", event.ID,
		"pairs", len(result.Pairs),
		"unallocated", len(result.Unallocated))

	return result, nil
}

// matchMaterial collects the focal attendee's facts and opinions as
// ordered query material, facts first.
func (u *UseCase) matchMaterial(ctx context.Context, id model.AttendeeID) ([]string, error) {
	facts, err := u.repo.ListFacts(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load facts", goerr.V("attendee_id", id))
	}
	opinions, err := u.repo.ListOpinions(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load opinions", goerr.V("attendee_id", id))
	}

	material := make([]string, 0, len(facts)+len(opinions))
	for _, f := range facts {
		material = append(material, f.Text)
	}
	for _, o := range opinions {
		material = append(material, o.FactText())
	}

	return material, nil
}

// lowestID returns the smallest id in the set for a deterministic,
// stable focal order.
func lowestID(unallocated map[model.AttendeeID]bool) model.AttendeeID {
	var lowest model.AttendeeID
	for id := range unallocated {
		if lowest == "" || id < lowest {
			lowest = id
		}
	}
	return lowest
}

// excludedIDs computes allIDs minus the unallocated set: everyone
// already committed to a pair.
func excludedIDs(allIDs []model.AttendeeID, unallocated map[model.AttendeeID]bool) []model.AttendeeID {
	var excluded []model.AttendeeID
	for _, id := range allIDs {
		if !unallocated[id] {
			excluded = append(excluded, id)
		}
	}
	return excluded
}
