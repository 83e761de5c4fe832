package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/usecase/event"
	"github.com/urfave/cli/v3"
)

func seedCommand() *cli.Command {
	var (
		cfg  config
		path string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to YAML event definition",
			Required:    true,
			Destination: &path,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Create an event with attendees from a YAML definition",
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
			result, err := uc.Seed(ctx, path)
			if err != nil {
				return goerr.Wrap(err, "failed to seed event")
			}

			fmt.Fprintf(c.Root().Writer, "Seeded event %s (%s)\n", result.Event.ID, result.Event.Name)
			fmt.Fprintf(c.Root().Writer, "  %d attendees, %d facts, %d opinions\n",
				result.Attendees, result.Facts, result.Opinions)
			return nil
		},
	}
}
