package repository

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestNextNearestFetch(t *testing.T) {
	// Enough eligible hits: done.
	gt.Equal(t, nextNearestFetch(10, 19, 19, 10), 0)

	// Short page: the event has no more facts, done with what we have.
	gt.Equal(t, nextNearestFetch(3, 12, 19, 10), 0)

	// Full page but every hit belonged to an excluded attendee: the
	// fetch must grow rather than report a false zero-candidate result.
	gt.Equal(t, nextNearestFetch(0, 19, 19, 10), 38)

	// Partially crowded out: still grow until the limit is satisfied.
	gt.Equal(t, nextNearestFetch(4, 38, 38, 10), 76)

	// At the FindNearest ceiling the caller falls back to a scan.
	gt.True(t, nextNearestFetch(4, maxVectorFetch, maxVectorFetch, 10) > maxVectorFetch)
}
