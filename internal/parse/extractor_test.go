package parse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/claude/liftsheet/internal/llm"
	"github.com/claude/liftsheet/internal/workbook"
)

// fakeClient scripts completion responses per call.
type fakeClient struct {
	mu      sync.Mutex
	calls   int
	respond func(prompt string, call int) (string, error)
}

func (f *fakeClient) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.respond(prompt, call)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastBackoff(t *testing.T) {
	t.Helper()
	old := retryBaseDelay
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = old })
}

var testSheet = workbook.Sheet{
	Name: "Base Hypertrophy",
	Rows: [][]string{
		{"Exercise", "Sets", "Reps", "RPE"},
		{"Squat", "3", "8-10", "8"},
	},
}

func rateLimitErr() error {
	return &llm.StatusError{Code: http.StatusTooManyRequests, Body: "rate limit"}
}

func TestExtractSheetSuccess(t *testing.T) {
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		return `{"phaseName":"Base","workoutDays":[{"dayName":"Day 1","exercises":[]}]}`, nil
	}}

	raw, err := NewExtractor(client, testLogger()).ExtractSheet(context.Background(), testSheet, 1)
	if err != nil {
		t.Fatalf("ExtractSheet error: %v", err)
	}
	if raw.PhaseName != "Base" {
		t.Errorf("PhaseName = %q", raw.PhaseName)
	}
	if len(raw.WorkoutDays) != 1 {
		t.Errorf("workout days = %d, want 1", len(raw.WorkoutDays))
	}
	if client.callCount() != 1 {
		t.Errorf("calls = %d, want 1", client.callCount())
	}
}

func TestExtractSheetPromptContents(t *testing.T) {
	var captured string
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		captured = prompt
		return `{"phaseName":"P","workoutDays":[]}`, nil
	}}

	if _, err := NewExtractor(client, testLogger()).ExtractSheet(context.Background(), testSheet, 2); err != nil {
		t.Fatalf("ExtractSheet error: %v", err)
	}

	for _, want := range []string{
		"Base Hypertrophy",  // sheet name
		"phase number 2",    // 1-based hint
		"Squat\t3\t8-10\t8", // serialized grid row
		"supersetGroup",     // schema field
		"44624",             // date-serial warning example
	} {
		if !strings.Contains(captured, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

// TestExtractSheetRetriesRateLimit: two rate limits then success uses all
// three attempts and succeeds.
func TestExtractSheetRetriesRateLimit(t *testing.T) {
	fastBackoff(t)
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		if call < 3 {
			return "", rateLimitErr()
		}
		return `{"phaseName":"P","workoutDays":[]}`, nil
	}}

	_, err := NewExtractor(client, testLogger()).ExtractSheet(context.Background(), testSheet, 1)
	if err != nil {
		t.Fatalf("ExtractSheet error: %v", err)
	}
	if client.callCount() != 3 {
		t.Errorf("calls = %d, want 3", client.callCount())
	}
}

// TestExtractSheetRetryCeiling: three consecutive rate limits exhaust the
// budget; a hypothetical 4th call that would succeed never happens.
func TestExtractSheetRetryCeiling(t *testing.T) {
	fastBackoff(t)
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		if call <= 3 {
			return "", rateLimitErr()
		}
		return `{"phaseName":"P","workoutDays":[]}`, nil
	}}

	_, err := NewExtractor(client, testLogger()).ExtractSheet(context.Background(), testSheet, 1)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if client.callCount() != 3 {
		t.Errorf("calls = %d, want exactly 3", client.callCount())
	}
	var se *llm.StatusError
	if !errors.As(err, &se) {
		t.Errorf("err = %v, want wrapped StatusError", err)
	}
}

// TestExtractSheetNonRetryableError: anything other than a rate limit fails
// immediately without a second call.
func TestExtractSheetNonRetryableError(t *testing.T) {
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		return "", &llm.StatusError{Code: http.StatusUnauthorized, Body: "bad key"}
	}}

	_, err := NewExtractor(client, testLogger()).ExtractSheet(context.Background(), testSheet, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if client.callCount() != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", client.callCount())
	}
}

func TestExtractSheetInvalidJSON(t *testing.T) {
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		return "here is your program: squats on monday", nil
	}}

	_, err := NewExtractor(client, testLogger()).ExtractSheet(context.Background(), testSheet, 1)
	if err == nil {
		t.Fatal("expected error for non-JSON body")
	}
	if client.callCount() != 1 {
		t.Errorf("calls = %d, want 1 (JSON failure is terminal)", client.callCount())
	}
}

func TestExtractSheetStripsCodeFence(t *testing.T) {
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		return "```json\n{\"phaseName\":\"P\",\"workoutDays\":[]}\n```", nil
	}}

	raw, err := NewExtractor(client, testLogger()).ExtractSheet(context.Background(), testSheet, 1)
	if err != nil {
		t.Fatalf("ExtractSheet error: %v", err)
	}
	if raw.PhaseName != "P" {
		t.Errorf("PhaseName = %q", raw.PhaseName)
	}
}

// TestExtractSheetMissingWorkoutDays: valid JSON without workoutDays is not
// an error — the sheet contributes an empty phase named after itself.
func TestExtractSheetMissingWorkoutDays(t *testing.T) {
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		return `{"phaseName":"whatever the model said"}`, nil
	}}

	raw, err := NewExtractor(client, testLogger()).ExtractSheet(context.Background(), testSheet, 1)
	if err != nil {
		t.Fatalf("ExtractSheet error: %v", err)
	}
	if raw.PhaseName != "Base Hypertrophy" {
		t.Errorf("PhaseName = %q, want sheet name", raw.PhaseName)
	}
	if raw.WorkoutDays == nil || len(raw.WorkoutDays) != 0 {
		t.Errorf("WorkoutDays = %v, want empty non-nil", raw.WorkoutDays)
	}
}

func TestExtractSheetContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		cancel()
		return "", rateLimitErr()
	}}

	_, err := NewExtractor(client, testLogger()).ExtractSheet(ctx, testSheet, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
