package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
	"github.com/m-mizutani/seatwise/pkg/service/search"
	"github.com/m-mizutani/seatwise/pkg/usecase/allocate"
	"github.com/urfave/cli/v3"
)

func allocateCommand() *cli.Command {
	var (
		cfg       config
		eventID   string
		chaos     float64
		verbose   bool
		bucket    string
		summarize bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "event-id",
			Aliases:     []string{"e"},
			Usage:       "Event ID to allocate",
			Required:    true,
			Sources:     cli.EnvVars("SEATWISE_EVENT_ID"),
			Destination: &eventID,
		},
		&cli.FloatFlag{
			Name:        "chaos",
			Aliases:     []string{"c"},
			Usage:       "Override the event's chaos level (0-10) before allocating",
			Destination: &chaos,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "Show per-attendee matching diagnostics (does not change outcomes)",
			Destination: &verbose,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket to archive the allocation result",
			Sources:     cli.EnvVars("SEATWISE_RESULT_BUCKET"),
			Destination: &bucket,
		},
		&cli.BoolFlag{
			Name:        "summarize",
			Usage:       "Generate an LLM-written summary of the seating plan",
			Destination: &summarize,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "allocate",
		Usage: "Pair attendees and allocate seats for an event",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if verbose {
				cfg.logLevel = "debug"
			}
			ctx = cfg.withLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			if c.IsSet("chaos") {
				level := model.ChaosLevel(chaos)
				if err := level.Validate(); err != nil {
					return err
				}
				event, err := repo.GetEvent(ctx, model.EventID(eventID))
				if err != nil {
					return err
				}
				event.ChaosLevel = level
				if err := repo.PutEvent(ctx, event); err != nil {
					return goerr.Wrap(err, "failed to update chaos level")
				}
			}

			searcher := search.New(repo, gemini)
			uc := allocate.New(repo, searcher, allocate.WithGemini(gemini))

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " pairing attendees..."
			if !verbose {
				sp.Start()
			}
			result, err := uc.Run(ctx, model.EventID(eventID))
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "allocation failed")
			}

			printResult(c, result)

			if bucket != "" {
				if err := archiveResult(ctx, &cfg, bucket, result); err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "Archived result to gs://%s\n", bucket)
			}

			if summarize {
				event, err := repo.GetEvent(ctx, result.EventID)
				if err != nil {
					return err
				}
				attendees, err := repo.ListAttendees(ctx, result.EventID, false)
				if err != nil {
					return err
				}
				names := make(map[model.AttendeeID]string, len(attendees))
				for _, a := range attendees {
					names[a.ID] = a.Name
				}

				summary, err := uc.Summarize(ctx, event, result, names)
				if err != nil {
					return goerr.Wrap(err, "failed to summarize seating")
				}
				fmt.Fprintf(c.Root().Writer, "\n%s\n", summary)
			}

			return nil
		},
	}
}

func printResult(c *cli.Command, result *allocate.Result) {
	w := c.Root().Writer
	fmt.Fprintf(w, "Allocation complete for %s (%s)\n", result.EventName, result.EventID)
	fmt.Fprintf(w, "  Attendees: %d\n", result.AttendeeCount)
	fmt.Fprintf(w, "  Pairs created: %d\n", result.PairsCreated)
	fmt.Fprintf(w, "  Seated: %d\n", result.SeatedCount)

	if len(result.UnallocatedIDs) > 0 {
		fmt.Fprintf(w, "  Unpaired: %d\n", len(result.UnallocatedIDs))
	}
	if len(result.Overflow) > 0 {
		fmt.Fprintf(w, "  Not seated (capacity): %d\n", len(result.Overflow))
		for _, id := range result.Overflow {
			fmt.Fprintf(w, "    %s\n", id)
		}
	}

	for _, table := range result.Tables {
		fmt.Fprintf(w, "  Table %d:\n", table.TableNo)
		for _, seat := range table.Seats {
			fmt.Fprintf(w, "    seat %d: %s\n", seat.SeatNo, seat.AttendeeID)
		}
	}
}

// archiveResult writes the allocation result as JSON to Cloud Storage
func archiveResult(ctx context.Context, cfg *config, bucket string, result *allocate.Result) error {
	storage, err := cfg.newStorage(ctx, bucket)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("allocations/%s/%s.json", result.EventID, time.Now().UTC().Format("20060102T150405Z"))
	w, err := storage.Put(ctx, key)
	if err != nil {
		return goerr.Wrap(err, "failed to open archive writer", goerr.V("key", key))
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to encode allocation result", goerr.V("key", key))
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize archive", goerr.V("key", key))
	}

	return nil
}
