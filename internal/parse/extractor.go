package parse

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/claude/liftsheet/internal/llm"
	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/workbook"
)

//go:embed prompt.md
var promptText string

var promptTmpl = template.Must(template.New("extract").Parse(promptText))

// extractAttempts is the total call budget per sheet, not the retry count:
// three rate-limited responses in a row exhaust it.
const extractAttempts = 3

// retryBaseDelay doubles per retry (2s, 4s). A variable so tests can shrink
// the backoff.
var retryBaseDelay = 2 * time.Second

// Extractor turns one sheet grid into a RawPhase via the completion service.
type Extractor struct {
	client llm.Client
	log    *slog.Logger
}

// NewExtractor creates an Extractor using the given completion client.
func NewExtractor(client llm.Client, log *slog.Logger) *Extractor {
	return &Extractor{client: client, log: log}
}

// ExtractSheet sends the sheet to the completion service and decodes the
// response. Only rate limiting is retried (exponential backoff from a 2s
// base); any other failure, including a body that is not valid JSON, is
// terminal for the sheet. A valid response missing workoutDays yields an
// empty phase named after the sheet rather than an error.
func (e *Extractor) ExtractSheet(ctx context.Context, sheet workbook.Sheet, phaseNumber int) (models.RawPhase, error) {
	prompt, err := buildPrompt(sheet, phaseNumber)
	if err != nil {
		return models.RawPhase{}, fmt.Errorf("sheet %q: building prompt: %w", sheet.Name, err)
	}

	var content string
	for attempt := 1; ; attempt++ {
		content, err = e.client.Complete(ctx, prompt)
		if err == nil {
			break
		}
		if !llm.IsRateLimited(err) {
			return models.RawPhase{}, fmt.Errorf("sheet %q: extraction failed: %w", sheet.Name, err)
		}
		if attempt == extractAttempts {
			return models.RawPhase{}, fmt.Errorf("sheet %q: rate limited after %d attempts: %w", sheet.Name, extractAttempts, err)
		}

		delay := retryBaseDelay << (attempt - 1)
		e.log.Warn("rate limited, backing off",
			"sheet", sheet.Name, "attempt", attempt, "delay", delay.String())
		select {
		case <-ctx.Done():
			return models.RawPhase{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	var raw models.RawPhase
	if err := json.Unmarshal([]byte(stripFences(content)), &raw); err != nil {
		return models.RawPhase{}, fmt.Errorf("sheet %q: response is not valid JSON: %w", sheet.Name, err)
	}

	if raw.WorkoutDays == nil {
		e.log.Warn("response has no workoutDays, sheet contributes an empty phase", "sheet", sheet.Name)
		return models.RawPhase{PhaseName: sheet.Name, WorkoutDays: []models.RawWorkoutDay{}}, nil
	}
	return raw, nil
}

type promptData struct {
	SheetName   string
	PhaseNumber int
	Grid        string
}

func buildPrompt(sheet workbook.Sheet, phaseNumber int) (string, error) {
	var grid strings.Builder
	for _, row := range sheet.Rows {
		grid.WriteString(strings.Join(row, "\t"))
		grid.WriteByte('\n')
	}

	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, promptData{
		SheetName:   sheet.Name,
		PhaseNumber: phaseNumber,
		Grid:        grid.String(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stripFences removes a markdown code fence some models wrap around JSON
// even when a JSON response format was requested.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
