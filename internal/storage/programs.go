package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftsheet/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a requested program does not exist.
var ErrNotFound = errors.New("program not found")

// InsertProgram persists a parsed program hierarchy in a single transaction
// and returns the generated program ID. ExerciseOrder and SupersetGroup are
// written exactly as computed by the parsing pipeline.
func (db *DB) InsertProgram(ctx context.Context, program *models.ParsedProgram) (uuid.UUID, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	programID := uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO programs (id, name, description, created_at) VALUES ($1,$2,$3,$4)`,
		programID, program.ProgramName, program.Description, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting program: %w", err)
	}

	for _, phase := range program.Phases {
		phaseID := uuid.New()
		_, err = tx.Exec(ctx,
			`INSERT INTO phases (id, program_id, name, phase_number, description)
			 VALUES ($1,$2,$3,$4,$5)`,
			phaseID, programID, phase.PhaseName, phase.PhaseNumber, phase.Description)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inserting phase %d: %w", phase.PhaseNumber, err)
		}

		for _, day := range phase.WorkoutDays {
			dayID := uuid.New()
			_, err = tx.Exec(ctx,
				`INSERT INTO workout_days (id, phase_id, name, day_number, week_number, is_rest_day)
				 VALUES ($1,$2,$3,$4,$5,$6)`,
				dayID, phaseID, day.DayName, day.DayNumber, day.WeekNumber, day.IsRestDay)
			if err != nil {
				return uuid.Nil, fmt.Errorf("inserting day %q: %w", day.DayName, err)
			}

			for _, ex := range day.Exercises {
				_, err = tx.Exec(ctx,
					`INSERT INTO exercises (id, workout_day_id, name, warmup_sets, working_sets,
					 reps, load, rpe, rest_timer, substitution_option_1, substitution_option_2,
					 notes, superset_group, exercise_order)
					 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
					uuid.New(), dayID, ex.ExerciseName, ex.WarmupSets, ex.WorkingSets,
					ex.Reps, ex.Load, ex.RPE, ex.RestTimer, ex.SubstitutionOption1,
					ex.SubstitutionOption2, ex.Notes, ex.SupersetGroup, ex.ExerciseOrder)
				if err != nil {
					return uuid.Nil, fmt.Errorf("inserting exercise %q: %w", ex.ExerciseName, err)
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing program: %w", err)
	}
	return programID, nil
}

// ListPrograms returns program summaries, newest first.
func (db *DB) ListPrograms(ctx context.Context) ([]models.ProgramSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT p.id, p.name, p.description, p.created_at,
		        COUNT(DISTINCT ph.id) AS phase_count,
		        COUNT(e.id) AS exercise_count
		 FROM programs p
		 LEFT JOIN phases ph ON ph.program_id = p.id
		 LEFT JOIN workout_days wd ON wd.phase_id = ph.id
		 LEFT JOIN exercises e ON e.workout_day_id = wd.id
		 GROUP BY p.id
		 ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var out []models.ProgramSummary
	for rows.Next() {
		var s models.ProgramSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt,
			&s.PhaseCount, &s.ExerciseCount); err != nil {
			return nil, fmt.Errorf("scanning program summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetProgram retrieves a full program hierarchy by ID.
func (db *DB) GetProgram(ctx context.Context, programID uuid.UUID) (*models.StoredProgram, error) {
	var p models.StoredProgram
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM programs WHERE id = $1`,
		programID).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying program: %w", err)
	}

	phases, err := db.queryPhases(ctx, programID)
	if err != nil {
		return nil, err
	}
	p.Phases = phases
	return &p, nil
}

func (db *DB) queryPhases(ctx context.Context, programID uuid.UUID) ([]models.StoredPhase, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, phase_number, description
		 FROM phases WHERE program_id = $1 ORDER BY phase_number`,
		programID)
	if err != nil {
		return nil, fmt.Errorf("querying phases: %w", err)
	}
	defer rows.Close()

	phases := []models.StoredPhase{}
	for rows.Next() {
		var ph models.StoredPhase
		if err := rows.Scan(&ph.ID, &ph.PhaseName, &ph.PhaseNumber, &ph.Description); err != nil {
			return nil, fmt.Errorf("scanning phase: %w", err)
		}
		phases = append(phases, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range phases {
		days, err := db.queryWorkoutDays(ctx, phases[i].ID)
		if err != nil {
			return nil, err
		}
		phases[i].WorkoutDays = days
	}
	return phases, nil
}

func (db *DB) queryWorkoutDays(ctx context.Context, phaseID uuid.UUID) ([]models.StoredWorkoutDay, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, day_number, week_number, is_rest_day
		 FROM workout_days WHERE phase_id = $1 ORDER BY week_number, day_number`,
		phaseID)
	if err != nil {
		return nil, fmt.Errorf("querying workout days: %w", err)
	}
	defer rows.Close()

	days := []models.StoredWorkoutDay{}
	for rows.Next() {
		var d models.StoredWorkoutDay
		if err := rows.Scan(&d.ID, &d.DayName, &d.DayNumber, &d.WeekNumber, &d.IsRestDay); err != nil {
			return nil, fmt.Errorf("scanning workout day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		exercises, err := db.queryExercises(ctx, days[i].ID)
		if err != nil {
			return nil, err
		}
		days[i].Exercises = exercises
	}
	return days, nil
}

func (db *DB) queryExercises(ctx context.Context, dayID uuid.UUID) ([]models.ParsedExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT name, warmup_sets, working_sets, reps, load, rpe, rest_timer,
		        substitution_option_1, substitution_option_2, notes, superset_group, exercise_order
		 FROM exercises WHERE workout_day_id = $1 ORDER BY exercise_order`,
		dayID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	exercises := []models.ParsedExercise{}
	for rows.Next() {
		var e models.ParsedExercise
		if err := rows.Scan(&e.ExerciseName, &e.WarmupSets, &e.WorkingSets, &e.Reps,
			&e.Load, &e.RPE, &e.RestTimer, &e.SubstitutionOption1, &e.SubstitutionOption2,
			&e.Notes, &e.SupersetGroup, &e.ExerciseOrder); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// DeleteProgram removes a program and, via FK cascade, its phases, days
// and exercises. Returns ErrNotFound if no row matched.
func (db *DB) DeleteProgram(ctx context.Context, programID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, programID)
	if err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
