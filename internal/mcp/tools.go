package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List all parsed training programs with their phase and exercise counts."),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Retrieve a full training program: every phase, workout day, and exercise with sets, reps, load, RPE, and rest times."),
	mcp.WithString("program_id", mcp.Required(), mcp.Description("Program UUID (from list_programs)")),
)

var toolGetWorkoutDay = mcp.NewTool("get_workout_day",
	mcp.WithDescription("Retrieve a single workout day from a program, located by phase number, week number, and day number."),
	mcp.WithString("program_id", mcp.Required(), mcp.Description("Program UUID (from list_programs)")),
	mcp.WithNumber("phase", mcp.Required(), mcp.Description("Phase number (1-based)")),
	mcp.WithNumber("week", mcp.Description("Week number within the phase. Defaults to 1.")),
	mcp.WithNumber("day", mcp.Required(), mcp.Description("Day number within the week (1-based)")),
)

var toolFindExercise = mcp.NewTool("find_exercise",
	mcp.WithDescription("Search for an exercise by name across all programs (partial match, case-insensitive). Returns each occurrence with its program, phase, day, and prescription."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name to search for (e.g. 'bench press')")),
)

// --- Tool handlers ---

func (h *handlers) listPrograms(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(programs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	program, result := h.fetchProgram(ctx, req)
	if result != nil {
		return result, nil
	}

	out, err := mcp.NewToolResultJSON(program)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return out, nil
}

func (h *handlers) getWorkoutDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	program, result := h.fetchProgram(ctx, req)
	if result != nil {
		return result, nil
	}

	phaseNum, err := req.RequireInt("phase")
	if err != nil {
		return mcp.NewToolResultError("phase parameter is required"), nil
	}
	dayNum, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	weekNum := req.GetInt("week", 1)

	for _, phase := range program.Phases {
		if phase.PhaseNumber != phaseNum {
			continue
		}
		for _, day := range phase.WorkoutDays {
			if day.WeekNumber == weekNum && day.DayNumber == dayNum {
				out, err := mcp.NewToolResultJSON(map[string]any{
					"program_name": program.Name,
					"phase_name":   phase.PhaseName,
					"workout_day":  day,
				})
				if err != nil {
					return mcp.NewToolResultError("serialization failed"), nil
				}
				return out, nil
			}
		}
		return mcp.NewToolResultError("no workout day matches week and day in that phase"), nil
	}
	return mcp.NewToolResultError("program has no such phase"), nil
}

// exerciseMatch is one find_exercise hit with enough context to locate it.
type exerciseMatch struct {
	ProgramID   uuid.UUID             `json:"program_id"`
	ProgramName string                `json:"program_name"`
	PhaseNumber int                   `json:"phase_number"`
	PhaseName   string                `json:"phase_name"`
	WeekNumber  int                   `json:"week_number"`
	DayNumber   int                   `json:"day_number"`
	DayName     string                `json:"day_name"`
	Exercise    models.ParsedExercise `json:"exercise"`
}

func (h *handlers) findExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	needle := strings.ToLower(name)

	summaries, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp find_exercise", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var matches []exerciseMatch
	for _, summary := range summaries {
		program, err := h.ds.GetProgram(ctx, summary.ID)
		if err != nil {
			h.log.Warn("find_exercise: program fetch failed", "program_id", summary.ID, "error", err)
			continue
		}
		matches = append(matches, matchExercises(program, needle)...)
	}

	out, err := mcp.NewToolResultJSON(matches)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return out, nil
}

// matchExercises collects exercises in program whose name contains needle
// (needle must already be lowercased).
func matchExercises(program *models.StoredProgram, needle string) []exerciseMatch {
	var matches []exerciseMatch
	for _, phase := range program.Phases {
		for _, day := range phase.WorkoutDays {
			for _, ex := range day.Exercises {
				if !strings.Contains(strings.ToLower(ex.ExerciseName), needle) {
					continue
				}
				matches = append(matches, exerciseMatch{
					ProgramID:   program.ID,
					ProgramName: program.Name,
					PhaseNumber: phase.PhaseNumber,
					PhaseName:   phase.PhaseName,
					WeekNumber:  day.WeekNumber,
					DayNumber:   day.DayNumber,
					DayName:     day.DayName,
					Exercise:    ex,
				})
			}
		}
	}
	return matches
}

// fetchProgram resolves the program_id parameter and loads the program.
// On failure the second return value is a ready error result.
func (h *handlers) fetchProgram(ctx context.Context, req mcp.CallToolRequest) (*models.StoredProgram, *mcp.CallToolResult) {
	idStr, err := req.RequireString("program_id")
	if err != nil {
		return nil, mcp.NewToolResultError("program_id parameter is required")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, mcp.NewToolResultError("invalid program_id: " + err.Error())
	}

	program, err := h.ds.GetProgram(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, mcp.NewToolResultError("program not found")
		}
		h.log.Error("mcp program fetch", "program_id", id, "error", err)
		return nil, mcp.NewToolResultError("query failed: " + err.Error())
	}
	return program, nil
}
