package models

// RawPhase is the shape the completion service is asked to return for one
// sheet. Everything in it is untrusted: numeric fields arrive as whatever
// JSON type the model felt like emitting, so they are typed `any` and must
// pass through the repairer before anything downstream touches them.
type RawPhase struct {
	PhaseName   string          `json:"phaseName"`
	PhaseNumber any             `json:"phaseNumber"`
	Description string          `json:"description"`
	WorkoutDays []RawWorkoutDay `json:"workoutDays"`
}

// RawWorkoutDay is one workout or rest day as proposed by the model.
type RawWorkoutDay struct {
	DayName    string        `json:"dayName"`
	DayNumber  any           `json:"dayNumber"`
	IsRestDay  bool          `json:"isRestDay"`
	WeekNumber any           `json:"weekNumber"`
	Exercises  []RawExercise `json:"exercises"`
}

// RawExercise is one exercise row as proposed by the model. Set counts and
// RPE routinely come back as spreadsheet date serials (five-digit integers) or
// free text, hence the loose typing.
type RawExercise struct {
	ExerciseName        string `json:"exerciseName"`
	WarmupSets          any    `json:"warmupSets"`
	WorkingSets         any    `json:"workingSets"`
	Reps                any    `json:"reps"`
	Load                any    `json:"load"`
	RPE                 any    `json:"rpe"`
	RestTimer           any    `json:"restTimer"`
	SubstitutionOption1 string `json:"substitutionOption1"`
	SubstitutionOption2 string `json:"substitutionOption2"`
	Notes               string `json:"notes"`
	SupersetGroup       string `json:"supersetGroup"`
	ExerciseOrder       any    `json:"exerciseOrder"`
}

// ParsedProgram is the validated root structure handed to persistence.
type ParsedProgram struct {
	ProgramName string        `json:"program_name"`
	Description string        `json:"description,omitempty"`
	Phases      []ParsedPhase `json:"phases"`
}

// ParsedPhase is one training block, corresponding to one sheet.
// PhaseNumber is assigned from sheet position, never from model output.
type ParsedPhase struct {
	PhaseName   string             `json:"phase_name"`
	PhaseNumber int                `json:"phase_number"`
	Description string             `json:"description,omitempty"`
	WorkoutDays []ParsedWorkoutDay `json:"workout_days"`
}

// ParsedWorkoutDay is one training session or rest day within a phase.
// Rest days always carry an empty exercise list.
type ParsedWorkoutDay struct {
	DayName    string           `json:"day_name"`
	DayNumber  int              `json:"day_number"`
	IsRestDay  bool             `json:"is_rest_day"`
	WeekNumber int              `json:"week_number"`
	Exercises  []ParsedExercise `json:"exercises"`
}

// ParsedExercise is one validated exercise. After repair, WarmupSets is in
// [0,5], WorkingSets is in [1,10], and RPE is either a decimal string in
// [1,10], "N/A", or a pass-through "see notes"-style string. ExerciseOrder
// values within a day are always a dense 1..N run.
type ParsedExercise struct {
	ExerciseName        string `json:"exercise_name"`
	WarmupSets          int    `json:"warmup_sets"`
	WorkingSets         int    `json:"working_sets"`
	Reps                string `json:"reps"`
	Load                string `json:"load,omitempty"`
	RPE                 string `json:"rpe"`
	RestTimer           string `json:"rest_timer,omitempty"`
	SubstitutionOption1 string `json:"substitution_option_1,omitempty"`
	SubstitutionOption2 string `json:"substitution_option_2,omitempty"`
	Notes               string `json:"notes,omitempty"`
	SupersetGroup       string `json:"superset_group,omitempty"`
	ExerciseOrder       int    `json:"exercise_order"`
}
