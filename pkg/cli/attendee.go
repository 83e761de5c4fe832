package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/usecase/event"
	"github.com/urfave/cli/v3"
)

func attendeeCommand() *cli.Command {
	return &cli.Command{
		Name:  "attendee",
		Usage: "Manage event attendees",
		Commands: []*cli.Command{
			attendeeAddCommand(),
			attendeeListCommand(),
			attendeeFactCommand(),
			attendeeOpinionCommand(),
		},
	}
}

func attendeeAddCommand() *cli.Command {
	var (
		cfg     config
		eventID string
		name    string
		phone   string
		email   string
		rsvp    bool
		going   bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "event-id",
			Aliases:     []string{"e"},
			Usage:       "Event ID",
			Required:    true,
			Sources:     cli.EnvVars("SEATWISE_EVENT_ID"),
			Destination: &eventID,
		},
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Attendee name",
			Required:    true,
			Destination: &name,
		},
		&cli.StringFlag{
			Name:        "phone",
			Usage:       "Attendee phone number",
			Destination: &phone,
		},
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Attendee email address",
			Destination: &email,
		},
		&cli.BoolFlag{
			Name:        "rsvp",
			Usage:       "Attendee has responded to the invitation",
			Destination: &rsvp,
		},
		&cli.BoolFlag{
			Name:        "going",
			Usage:       "Attendee confirmed as going",
			Value:       true,
			Destination: &going,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "add",
		Usage: "Add an attendee to an event",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := event.New(repo, nil)
			attendee, err := uc.AddAttendee(ctx, &event.AddAttendeeInput{
				EventID: model.EventID(eventID),
				Name:    name,
				Phone:   phone,
				Email:   email,
				RSVP:    rsvp,
				Going:   going,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to add attendee")
			}

			fmt.Fprintf(c.Root().Writer, "Added attendee %s (%s)\n", attendee.ID, attendee.Name)
			return nil
		},
	}
}

func attendeeListCommand() *cli.Command {
	var (
		cfg     config
		eventID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "event-id",
			Aliases:     []string{"e"},
			Usage:       "Event ID",
			Required:    true,
			Sources:     cli.EnvVars("SEATWISE_EVENT_ID"),
			Destination: &eventID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List attendees of an event",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := event.New(repo, nil)
			attendees, err := uc.ListAttendees(ctx, model.EventID(eventID))
			if err != nil {
				return goerr.Wrap(err, "failed to list attendees")
			}

			for _, a := range attendees {
				seat := "-"
				if a.TableNo != nil && a.SeatNo != nil {
					seat = fmt.Sprintf("table %d seat %d", *a.TableNo, *a.SeatNo)
				}
				status := "invited"
				if a.Going {
					status = "going"
				} else if a.RSVP {
					status = "declined"
				}
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n", a.ID, a.Name, status, seat)
			}
			return nil
		},
	}
}

func attendeeFactCommand() *cli.Command {
	var (
		cfg        config
		attendeeID string
		text       string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "attendee-id",
			Aliases:     []string{"i"},
			Usage:       "Attendee ID",
			Required:    true,
			Destination: &attendeeID,
		},
		&cli.StringFlag{
			Name:        "text",
			Aliases:     []string{"t"},
			Usage:       "Fact statement",
			Required:    true,
			Destination: &text,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "fact",
		Usage: "Record a fact about an attendee",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			uc := event.New(repo, gemini)
			fact, err := uc.AddFact(ctx, model.AttendeeID(attendeeID), text)
			if err != nil {
				return goerr.Wrap(err, "failed to add fact")
			}

			fmt.Fprintf(c.Root().Writer, "Recorded fact %s\n", fact.ID)
			return nil
		},
	}
}

func attendeeOpinionCommand() *cli.Command {
	var (
		cfg        config
		attendeeID string
		question   string
		answer     string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "attendee-id",
			Aliases:     []string{"i"},
			Usage:       "Attendee ID",
			Required:    true,
			Destination: &attendeeID,
		},
		&cli.StringFlag{
			Name:        "question",
			Aliases:     []string{"q"},
			Usage:       "Opinion question",
			Required:    true,
			Destination: &question,
		},
		&cli.StringFlag{
			Name:        "answer",
			Aliases:     []string{"a"},
			Usage:       "Attendee's answer",
			Required:    true,
			Destination: &answer,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "opinion",
		Usage: "Record a question/answer opinion for an attendee",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			uc := event.New(repo, gemini)
			opinion, err := uc.AddOpinion(ctx, model.AttendeeID(attendeeID), question, answer)
			if err != nil {
				return goerr.Wrap(err, "failed to add opinion")
			}

			fmt.Fprintf(c.Root().Writer, "Recorded opinion %s\n", opinion.ID)
			return nil
		},
	}
}
