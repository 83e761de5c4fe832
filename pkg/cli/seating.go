package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/urfave/cli/v3"
)

func seatingCommand() *cli.Command {
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
		Name:  "seating",
		Usage: "Show the current seating chart of an event",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			event, err := repo.GetEvent(ctx, model.EventID(eventID))
			if err != nil {
				return goerr.Wrap(err, "failed to get event")
			}
			attendees, err := repo.ListAttendees(ctx, event.ID, false)
			if err != nil {
				return goerr.Wrap(err, "failed to list attendees")
			}

			seated := make(map[int][]*model.Attendee)
			var unseated []*model.Attendee
			for _, a := range attendees {
				if a.TableNo == nil || a.SeatNo == nil {
					unseated = append(unseated, a)
					continue
				}
				seated[*a.TableNo] = append(seated[*a.TableNo], a)
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "%s (%d tables x %d seats, chaos %.1f)\n",
				event.Name, event.TotalTables, event.SeatsPerTable, float64(event.ChaosLevel))

			tables := make([]int, 0, len(seated))
			for tableNo := range seated {
				tables = append(tables, tableNo)
			}
			sort.Ints(tables)

			for _, tableNo := range tables {
				group := seated[tableNo]
				sort.Slice(group, func(i, j int) bool { return *group[i].SeatNo < *group[j].SeatNo })
				fmt.Fprintf(w, "Table %d:\n", tableNo)
				for _, a := range group {
					fmt.Fprintf(w, "  seat %d: %s\n", *a.SeatNo, a.Name)
				}
			}

			if len(unseated) > 0 {
				fmt.Fprintf(w, "Unseated:\n")
				for _, a := range unseated {
					fmt.Fprintf(w, "  %s\n", a.Name)
				}
			}

			return nil
		},
	}
}
