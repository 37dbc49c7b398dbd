package parse

import (
	"strings"

	"github.com/claude/liftsheet/internal/models"
)

// assemblePhase runs the repairer and the superset pass over every workout
// day of one extracted sheet. PhaseNumber is left zero; the pipeline assigns
// it from sheet position after the join.
func assemblePhase(sheetName string, raw models.RawPhase) models.ParsedPhase {
	phase := models.ParsedPhase{
		PhaseName:   strings.TrimSpace(raw.PhaseName),
		Description: strings.TrimSpace(raw.Description),
	}
	if phase.PhaseName == "" {
		phase.PhaseName = sheetName
	}

	phase.WorkoutDays = make([]models.ParsedWorkoutDay, 0, len(raw.WorkoutDays))
	for i, rawDay := range raw.WorkoutDays {
		day := models.ParsedWorkoutDay{
			DayName:    strings.TrimSpace(rawDay.DayName),
			DayNumber:  intOr(rawDay.DayNumber, i+1),
			IsRestDay:  rawDay.IsRestDay,
			WeekNumber: intOr(rawDay.WeekNumber, 1),
			Exercises:  []models.ParsedExercise{},
		}

		// Rest days stay empty even when the model attached exercises.
		if !rawDay.IsRestDay {
			repaired := make([]models.ParsedExercise, 0, len(rawDay.Exercises))
			for _, rawEx := range rawDay.Exercises {
				repaired = append(repaired, RepairExercise(rawEx))
			}
			day.Exercises = ApplySupersets(repaired)
		}

		phase.WorkoutDays = append(phase.WorkoutDays, day)
	}
	return phase
}

// intOr reads a loose numeric value, falling back when it is absent or
// non-positive.
func intOr(v any, fallback int) int {
	n, ok := asNumber(v)
	if !ok || n < 1 {
		return fallback
	}
	return int(n)
}
