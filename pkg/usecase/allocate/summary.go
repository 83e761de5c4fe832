package allocate

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/seatwise/pkg/model"
	"google.golang.org/genai"
)

const summaryPrompt = `You are a seating arrangement assistant. Write a short, friendly summary of the seating plan below: one sentence on the overall mood the chaos level aims for, then one sentence per table about who sits there. Do not invent attendees or tables.`

// Summarize generates an LLM-written description of a completed
// allocation. Purely diagnostic: it never changes the allocation
// outcome, and it requires the Gemini adapter to be configured.
func (u *UseCase) Summarize(ctx context.Context, event *model.Event, result *Result, names map[model.AttendeeID]string) (string, error) {
	if u.gemini == nil {
		return "", goerr.New("summary requires a configured Gemini adapter")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Event: %s\nChaos level: %.1f/10\n", event.Name, float64(event.ChaosLevel))
	for _, table := range result.Tables {
		fmt.Fprintf(&sb, "Table %d:", table.TableNo)
		for _, seat := range table.Seats {
			name := names[seat.AttendeeID]
			if name == "" {
				name = string(seat.AttendeeID)
			}
			fmt.Fprintf(&sb, " %s (seat %d)", name, seat.SeatNo)
		}
		sb.WriteString("\n")
	}
	if len(result.Overflow) > 0 {
		fmt.Fprintf(&sb, "Unseated due to capacity: %d attendees\n", len(result.Overflow))
	}

	contents := []*genai.Content{
		genai.NewContentFromText(sb.String(), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(summaryPrompt, ""),
	}

	resp, err := u.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate seating summary")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("empty summary response")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}

	return out.String(), nil
}
