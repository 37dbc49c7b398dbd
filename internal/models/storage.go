package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgramRow is a row ready for insertion into the programs table.
type ProgramRow struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProgramSummary is a listing entry for the programs index endpoint.
type ProgramSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PhaseCount    int       `json:"phase_count"`
	ExerciseCount int       `json:"exercise_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// StoredProgram is a full program hierarchy as persisted, returned by
// program detail queries. The nested structure mirrors ParsedProgram with
// generated identifiers attached.
type StoredProgram struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Phases      []StoredPhase `json:"phases"`
}

// StoredPhase is a persisted phase with its workout days.
type StoredPhase struct {
	ID          uuid.UUID          `json:"id"`
	PhaseName   string             `json:"phase_name"`
	PhaseNumber int                `json:"phase_number"`
	Description string             `json:"description,omitempty"`
	WorkoutDays []StoredWorkoutDay `json:"workout_days"`
}

// StoredWorkoutDay is a persisted workout day with its exercises.
type StoredWorkoutDay struct {
	ID         uuid.UUID        `json:"id"`
	DayName    string           `json:"day_name"`
	DayNumber  int              `json:"day_number"`
	IsRestDay  bool             `json:"is_rest_day"`
	WeekNumber int              `json:"week_number"`
	Exercises  []ParsedExercise `json:"exercises"`
}
