package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionEvents    = "events"
	collectionAttendees = "attendees"
	collectionFacts     = "facts"

	distanceField = "distance"
)

// Firestore implements Repository using Cloud Firestore. Facts carry
// their embedding as a vector field so nearest-neighbor search can run
// server side via FindNearest.
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying Firestore client
func (r *Firestore) Close() error {
	return r.client.Close()
}

type eventDoc struct {
	Name          string    `firestore:"name"`
	TotalTables   int       `firestore:"total_tables"`
	SeatsPerTable int       `firestore:"seats_per_table"`
	ChaosLevel    float64   `firestore:"chaos_level"`
	CreatedAt     time.Time `firestore:"created_at"`
}

type attendeeDoc struct {
	EventID string `firestore:"event_id"`
	Name    string `firestore:"name"`
	Phone   string `firestore:"phone"`
	Email   string `firestore:"email"`
	RSVP    bool   `firestore:"rsvp"`
	Going   bool   `firestore:"going"`
	TableNo *int   `firestore:"table_no"`
	SeatNo  *int   `firestore:"seat_no"`
}

// factDoc holds both facts and opinion answers. Opinions are stored as
// their rendered statement with the question/answer kept for display.
type factDoc struct {
	AttendeeID string             `firestore:"attendee_id"`
	EventID    string             `firestore:"event_id"`
	Text       string             `firestore:"text"`
	Question   string             `firestore:"question,omitempty"`
	Answer     string             `firestore:"answer,omitempty"`
	Embedding  firestore.Vector32 `firestore:"embedding"`
}

func (r *Firestore) PutEvent(ctx context.Context, event *model.Event) error {
	doc := &eventDoc{
		Name:          event.Name,
		TotalTables:   event.TotalTables,
		SeatsPerTable: event.SeatsPerTable,
		ChaosLevel:    float64(event.ChaosLevel),
		CreatedAt:     event.CreatedAt,
	}

	if _, err := r.client.Collection(collectionEvents).Doc(string(event.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put event", goerr.V("event_id", event.ID))
	}
	return nil
}

func (r *Firestore) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	snap, err := r.client.Collection(collectionEvents).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrEventNotFound, "", goerr.V("event_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get event", goerr.V("event_id", id))
	}

	var doc eventDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode event", goerr.V("event_id", id))
	}

	return &model.Event{
		ID:            id,
		Name:          doc.Name,
		TotalTables:   doc.TotalTables,
		SeatsPerTable: doc.SeatsPerTable,
		ChaosLevel:    model.ChaosLevel(doc.ChaosLevel),
		CreatedAt:     doc.CreatedAt,
	}, nil
}

func (r *Firestore) ListEvents(ctx context.Context) ([]*model.Event, error) {
	snaps, err := r.client.Collection(collectionEvents).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list events")
	}

	events := make([]*model.Event, 0, len(snaps))
	for _, snap := range snaps {
		var doc eventDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode event", goerr.V("doc_id", snap.Ref.ID))
		}
		events = append(events, &model.Event{
			ID:            model.EventID(snap.Ref.ID),
			Name:          doc.Name,
			TotalTables:   doc.TotalTables,
			SeatsPerTable: doc.SeatsPerTable,
			ChaosLevel:    model.ChaosLevel(doc.ChaosLevel),
			CreatedAt:     doc.CreatedAt,
		})
	}

	return events, nil
}

func (r *Firestore) PutAttendee(ctx context.Context, attendee *model.Attendee) error {
	doc := &attendeeDoc{
		EventID: string(attendee.EventID),
		Name:    attendee.Name,
		Phone:   attendee.Phone,
		Email:   attendee.Email,
		RSVP:    attendee.RSVP,
		Going:   attendee.Going,
		TableNo: attendee.TableNo,
		SeatNo:  attendee.SeatNo,
	}

	if _, err := r.client.Collection(collectionAttendees).Doc(string(attendee.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put attendee", goerr.V("attendee_id", attendee.ID))
	}
	return nil
}

func (r *Firestore) GetAttendee(ctx context.Context, id model.AttendeeID) (*model.Attendee, error) {
	snap, err := r.client.Collection(collectionAttendees).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrAttendeeNotFound, "", goerr.V("attendee_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get attendee", goerr.V("attendee_id", id))
	}

	return attendeeFromSnap(snap)
}

func (r *Firestore) ListAttendees(ctx context.Context, eventID model.EventID, goingOnly bool) ([]*model.Attendee, error) {
	q := r.client.Collection(collectionAttendees).Where("event_id", "==", string(eventID))
	if goingOnly {
		q = q.Where("going", "==", true)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list attendees", goerr.V("event_id", eventID))
	}

	attendees := make([]*model.Attendee, 0, len(snaps))
	for _, snap := range snaps {
		attendee, err := attendeeFromSnap(snap)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, attendee)
	}

	// Firestore has no stable secondary ordering here; sort by id so
	// callers get a deterministic sequence.
	sort.Slice(attendees, func(i, j int) bool {
		return attendees[i].ID < attendees[j].ID
	})

	return attendees, nil
}

func attendeeFromSnap(snap *firestore.DocumentSnapshot) (*model.Attendee, error) {
	var doc attendeeDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode attendee", goerr.V("doc_id", snap.Ref.ID))
	}

	return &model.Attendee{
		ID:      model.AttendeeID(snap.Ref.ID),
		EventID: model.EventID(doc.EventID),
		Name:    doc.Name,
		Phone:   doc.Phone,
		Email:   doc.Email,
		RSVP:    doc.RSVP,
		Going:   doc.Going,
		TableNo: doc.TableNo,
		SeatNo:  doc.SeatNo,
	}, nil
}

func (r *Firestore) PutFact(ctx context.Context, fact *model.Fact) error {
	doc := &factDoc{
		AttendeeID: string(fact.AttendeeID),
		EventID:    string(fact.EventID),
		Text:       fact.Text,
		Embedding:  fact.Embedding,
	}

	if _, err := r.client.Collection(collectionFacts).Doc(string(fact.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put fact", goerr.V("fact_id", fact.ID))
	}
	return nil
}

func (r *Firestore) ListFacts(ctx context.Context, attendeeID model.AttendeeID) ([]*model.Fact, error) {
	snaps, err := r.client.Collection(collectionFacts).
		Where("attendee_id", "==", string(attendeeID)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list facts", goerr.V("attendee_id", attendeeID))
	}

	facts := make([]*model.Fact, 0, len(snaps))
	for _, snap := range snaps {
		var doc factDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode fact", goerr.V("doc_id", snap.Ref.ID))
		}
		if doc.Question != "" {
			continue // opinions live in the same collection
		}
		facts = append(facts, &model.Fact{
			ID:         model.FactID(snap.Ref.ID),
			AttendeeID: model.AttendeeID(doc.AttendeeID),
			EventID:    model.EventID(doc.EventID),
			Text:       doc.Text,
			Embedding:  doc.Embedding,
		})
	}

	sort.Slice(facts, func(i, j int) bool { return facts[i].ID < facts[j].ID })
	return facts, nil
}

func (r *Firestore) PutOpinion(ctx context.Context, opinion *model.Opinion) error {
	doc := &factDoc{
		AttendeeID: string(opinion.AttendeeID),
		EventID:    string(opinion.EventID),
		Text:       opinion.FactText(),
		Question:   opinion.Question,
		Answer:     opinion.Answer,
		Embedding:  opinion.Embedding,
	}

	if _, err := r.client.Collection(collectionFacts).Doc(string(opinion.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put opinion", goerr.V("opinion_id", opinion.ID))
	}
	return nil
}

func (r *Firestore) ListOpinions(ctx context.Context, attendeeID model.AttendeeID) ([]*model.Opinion, error) {
	snaps, err := r.client.Collection(collectionFacts).
		Where("attendee_id", "==", string(attendeeID)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list opinions", goerr.V("attendee_id", attendeeID))
	}

	opinions := make([]*model.Opinion, 0, len(snaps))
	for _, snap := range snaps {
		var doc factDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode opinion", goerr.V("doc_id", snap.Ref.ID))
		}
		if doc.Question == "" {
			continue
		}
		opinions = append(opinions, &model.Opinion{
			ID:         model.OpinionID(snap.Ref.ID),
			AttendeeID: model.AttendeeID(doc.AttendeeID),
			EventID:    model.EventID(doc.EventID),
			Question:   doc.Question,
			Answer:     doc.Answer,
			Embedding:  doc.Embedding,
		})
	}

	sort.Slice(opinions, func(i, j int) bool { return opinions[i].ID < opinions[j].ID })
	return opinions, nil
}

func (r *Firestore) SearchFacts(ctx context.Context, input *SearchFactsInput) ([]*FactHit, error) {
	switch input.Mode {
	case SearchNearest:
		return r.searchNearest(ctx, input)
	case SearchFarthest:
		return r.searchFarthest(ctx, input)
	default:
		return nil, goerr.New("unknown search mode", goerr.V("mode", input.Mode))
	}
}

// maxVectorFetch is the FindNearest limit ceiling imposed by Firestore.
const maxVectorFetch = 1000

func (r *Firestore) searchNearest(ctx context.Context, input *SearchFactsInput) ([]*FactHit, error) {
	// Excluded attendees are filtered after the query: FindNearest
	// cannot take a not-in clause over an unbounded id set. A fixed pad
	// is not enough because each excluded attendee can own many fact
	// documents; late in a pairing run the nearest vectors may all
	// belong to already-paired attendees. The fetch grows until enough
	// eligible hits surface or the event's facts are exhausted.
	excluded := excludeSet(input.Exclude)
	fetchLimit := input.Limit + len(input.Exclude)

	for {
		if fetchLimit > maxVectorFetch {
			fetchLimit = maxVectorFetch
		}

		vq := r.client.Collection(collectionFacts).
			Where("event_id", "==", string(input.EventID)).
			FindNearest("embedding", input.Vector, fetchLimit,
				firestore.DistanceMeasureCosine,
				&firestore.FindNearestOptions{DistanceResultField: distanceField})

		snaps, err := vq.Documents(ctx).GetAll()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to run vector search", goerr.V("event_id", input.EventID))
		}

		hits := make([]*FactHit, 0, input.Limit)
		for _, snap := range snaps {
			var doc factDoc
			if err := snap.DataTo(&doc); err != nil {
				return nil, goerr.Wrap(err, "failed to decode fact hit", goerr.V("doc_id", snap.Ref.ID))
			}
			if excluded[model.AttendeeID(doc.AttendeeID)] {
				continue
			}

			distance := 2.0
			if v, ok := snap.Data()[distanceField].(float64); ok {
				distance = v
			}

			hits = append(hits, &FactHit{
				AttendeeID: model.AttendeeID(doc.AttendeeID),
				Text:       doc.Text,
				Distance:   distance,
			})
			if len(hits) >= input.Limit {
				break
			}
		}

		next := nextNearestFetch(len(hits), len(snaps), fetchLimit, input.Limit)
		if next == 0 {
			return hits, nil
		}
		if next > maxVectorFetch {
			// Even the widest fetch is crowded out by excluded facts;
			// rank the event's facts in process instead.
			return r.scanFacts(ctx, input, false)
		}
		fetchLimit = next
	}
}

// nextNearestFetch returns the grown fetch size for another FindNearest
// round, or 0 when the collected hits are final. A short page means
// every fact of the event has already been seen; a result above
// maxVectorFetch tells the caller to fall back to an in-process scan.
func nextNearestFetch(eligible, fetched, fetchLimit, want int) int {
	if eligible >= want || fetched < fetchLimit {
		return 0
	}
	return fetchLimit * 2
}

// searchFarthest ranks the event's facts by descending cosine distance
// in process. FindNearest only orders near-to-far, and one event holds
// at most a few hundred fact vectors.
func (r *Firestore) searchFarthest(ctx context.Context, input *SearchFactsInput) ([]*FactHit, error) {
	return r.scanFacts(ctx, input, true)
}

// scanFacts fetches all facts of the event and ranks them by cosine
// distance in process, descending when farthest is set.
func (r *Firestore) scanFacts(ctx context.Context, input *SearchFactsInput, farthest bool) ([]*FactHit, error) {
	snaps, err := r.client.Collection(collectionFacts).
		Where("event_id", "==", string(input.EventID)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch event facts", goerr.V("event_id", input.EventID))
	}

	excluded := excludeSet(input.Exclude)
	hits := make([]*FactHit, 0, len(snaps))
	for _, snap := range snaps {
		var doc factDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode fact", goerr.V("doc_id", snap.Ref.ID))
		}
		if excluded[model.AttendeeID(doc.AttendeeID)] {
			continue
		}

		hits = append(hits, &FactHit{
			AttendeeID: model.AttendeeID(doc.AttendeeID),
			Text:       doc.Text,
			Distance:   cosineDistance(input.Vector, doc.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if farthest {
			return hits[i].Distance > hits[j].Distance
		}
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > input.Limit {
		hits = hits[:input.Limit]
	}

	return hits, nil
}

func (r *Firestore) ReplaceSeatAssignments(ctx context.Context, eventID model.EventID, assignments []model.SeatAssignment) error {
	snaps, err := r.client.Collection(collectionAttendees).
		Where("event_id", "==", string(eventID)).
		Documents(ctx).GetAll()
	if err != nil {
		return goerr.Wrap(err, "failed to list attendees for seat update", goerr.V("event_id", eventID))
	}

	seats := make(map[model.AttendeeID]model.SeatAssignment, len(assignments))
	for _, a := range assignments {
		seats[a.AttendeeID] = a
	}

	bw := r.client.BulkWriter(ctx)
	for _, snap := range snaps {
		updates := []firestore.Update{
			{Path: "table_no", Value: nil},
			{Path: "seat_no", Value: nil},
		}
		if seat, ok := seats[model.AttendeeID(snap.Ref.ID)]; ok {
			updates = []firestore.Update{
				{Path: "table_no", Value: seat.TableNo},
				{Path: "seat_no", Value: seat.SeatNo},
			}
		}
		if _, err := bw.Update(snap.Ref, updates); err != nil {
			return goerr.Wrap(err, "failed to queue seat update", goerr.V("attendee_id", snap.Ref.ID))
		}
	}
	bw.End()

	return nil
}

func excludeSet(ids []model.AttendeeID) map[model.AttendeeID]bool {
	set := make(map[model.AttendeeID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
