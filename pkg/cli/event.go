package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/usecase/event"
	"github.com/urfave/cli/v3"
)

func eventCommand() *cli.Command {
	return &cli.Command{
		Name:  "event",
		Usage: "Manage events",
		Commands: []*cli.Command{
			eventNewCommand(),
			eventListCommand(),
		},
	}
}

func eventNewCommand() *cli.Command {
	var (
		cfg    config
		name   string
		tables int64
		seats  int64
		chaos  float64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Event name",
			Required:    true,
			Destination: &name,
		},
		&cli.IntFlag{
			Name:        "tables",
			Aliases:     []string{"t"},
			Usage:       "Number of tables",
			Required:    true,
			Destination: &tables,
		},
		&cli.IntFlag{
			Name:        "seats",
			Aliases:     []string{"s"},
			Usage:       "Seats per table",
			Required:    true,
			Destination: &seats,
		},
		&cli.FloatFlag{
			Name:        "chaos",
			Aliases:     []string{"c"},
			Usage:       "Chaos level (0 = harmony, 10 = maximum opposition)",
			Value:       0,
			Destination: &chaos,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "new",
		Usage: "Create a new event",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := event.New(repo, nil)
			created, err := uc.CreateEvent(ctx, &event.CreateEventInput{
				Name:          name,
				TotalTables:   int(tables),
				SeatsPerTable: int(seats),
				ChaosLevel:    chaos,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create event")
			}

			fmt.Fprintf(c.Root().Writer, "Created event %s (%s)\n", created.ID, created.Name)
			fmt.Fprintf(c.Root().Writer, "  %d tables x %d seats, chaos %.1f/10\n",
				created.TotalTables, created.SeatsPerTable, float64(created.ChaosLevel))
			return nil
		},
	}
}

func eventListCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List all events",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := event.New(repo, nil)
			events, err := uc.ListEvents(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list events")
			}

			for _, e := range events {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%dx%d seats\tchaos %.1f\n",
					e.ID, e.Name, e.TotalTables, e.SeatsPerTable, float64(e.ChaosLevel))
			}
			return nil
		},
	}
}
