package event

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/utils/logging"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML definition of an event with its attendees,
// used for fixtures and demos.
type seedFile struct {
	Name          string         `yaml:"name"`
	TotalTables   int            `yaml:"total_tables"`
	SeatsPerTable int            `yaml:"seats_per_table"`
	ChaosLevel    float64        `yaml:"chaos_level"`
	Attendees     []seedAttendee `yaml:"attendees"`
}

type seedAttendee struct {
	Name     string        `yaml:"name"`
	Phone    string        `yaml:"phone"`
	Email    string        `yaml:"email"`
	RSVP     bool          `yaml:"rsvp"`
	Going    bool          `yaml:"going"`
	Facts    []string      `yaml:"facts"`
	Opinions []seedOpinion `yaml:"opinions"`
}

type seedOpinion struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// SeedResult summarizes what a seed run created
type SeedResult struct {
	Event     *model.Event
	Attendees int
	Facts     int
	Opinions  int
}

// Seed creates an event with attendees, facts, and opinions from a
// YAML definition file in one shot.
func (u *UseCase) Seed(ctx context.Context, path string) (*SeedResult, error) {
	logger := logging.From(ctx)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
	}

	var def seedFile
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed file", goerr.V("path", path))
	}

	if len(def.Attendees) == 0 {
		return nil, goerr.New("seed file has no attendees", goerr.V("path", path))
	}

	event, err := u.CreateEvent(ctx, &CreateEventInput{
		Name:          def.Name,
		TotalTables:   def.TotalTables,
		SeatsPerTable: def.SeatsPerTable,
		ChaosLevel:    def.ChaosLevel,
	})
	if err != nil {
		return nil, err
	}

	result := &SeedResult{Event: event}
	for _, a := range def.Attendees {
		attendee, err := u.AddAttendee(ctx, &AddAttendeeInput{
			EventID: event.ID,
			Name:    a.Name,
			Phone:   a.Phone,
			Email:   a.Email,
			RSVP:    a.RSVP,
			Going:   a.Going,
		})
		if err != nil {
			return nil, err
		}
		result.Attendees++

		for _, fact := range a.Facts {
			if _, err := u.AddFact(ctx, attendee.ID, fact); err != nil {
				return nil, err
			}
			result.Facts++
		}
		for _, op := range a.Opinions {
			if _, err := u.AddOpinion(ctx, attendee.ID, op.Question, op.Answer); err != nil {
				return nil, err
			}
			result.Opinions++
		}

		logger.Debug("seeded attendee", "name", a.Name,
			"facts", len(a.Facts), "opinions", len(a.Opinions))
	}

	logger.Info("seed complete", "event_id", event.ID,
		"attendees", result.Attendees, "facts", result.Facts, "opinions", result.Opinions)

	return result, nil
}
