package parse

import (
	"testing"

	"github.com/claude/liftsheet/internal/models"
)

// TestRepairDateSerialArtifacts covers the classic corruption: a cell
// auto-formatted as a date leaks its five-digit serial into set counts and
// RPE.
func TestRepairDateSerialArtifacts(t *testing.T) {
	got := RepairExercise(models.RawExercise{
		ExerciseName: "Bench Press",
		WarmupSets:   float64(44624),
		WorkingSets:  float64(3),
		RPE:          "44782",
	})

	if got.WarmupSets != 2 {
		t.Errorf("WarmupSets = %d, want 2 (date serial discarded)", got.WarmupSets)
	}
	if got.WorkingSets != 3 {
		t.Errorf("WorkingSets = %d, want 3", got.WorkingSets)
	}
	if got.RPE != "8" {
		t.Errorf("RPE = %q, want \"8\"", got.RPE)
	}
}

func TestRepairWarmupSets(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"missing", nil, 0},
		{"non-numeric", "a few", 0},
		{"negative", float64(-2), 0},
		{"in range", float64(3), 3},
		{"numeric string", "4", 4},
		{"above range", float64(7), 5},
		{"date serial", float64(44624), 2},
	}
	for _, tc := range cases {
		got := RepairExercise(models.RawExercise{WarmupSets: tc.in})
		if got.WarmupSets != tc.want {
			t.Errorf("%s: WarmupSets = %d, want %d", tc.name, got.WarmupSets, tc.want)
		}
		if got.WarmupSets < 0 || got.WarmupSets > 5 {
			t.Errorf("%s: WarmupSets = %d out of [0,5]", tc.name, got.WarmupSets)
		}
	}
}

func TestRepairWorkingSets(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"missing", nil, 3},
		{"non-numeric", "many", 3},
		{"zero", float64(0), 1},
		{"negative", float64(-1), 1},
		{"in range", float64(5), 5},
		{"above range", float64(12), 10},
		{"date serial", float64(45000), 3},
	}
	for _, tc := range cases {
		got := RepairExercise(models.RawExercise{WorkingSets: tc.in})
		if got.WorkingSets != tc.want {
			t.Errorf("%s: WorkingSets = %d, want %d", tc.name, got.WorkingSets, tc.want)
		}
		if got.WorkingSets < 1 || got.WorkingSets > 10 {
			t.Errorf("%s: WorkingSets = %d out of [1,10]", tc.name, got.WorkingSets)
		}
	}
}

func TestRepairRPE(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"missing", nil, "N/A"},
		{"empty string", "", "N/A"},
		{"numeric zero", float64(0), "N/A"},
		{"see notes passthrough", "See Notes", "See Notes"},
		{"see note lowercase", "see note below", "see note below"},
		{"na passthrough", "N/A", "N/A"},
		{"numeric in range", float64(9), "9"},
		{"decimal in range", float64(8.5), "8.5"},
		{"string with number", "RPE 7.5", "7.5"},
		{"plain numeric string", "6", "6"},
		{"above range", float64(12), "8"},
		{"below range", "0.5", "8"},
		{"date serial", float64(44782), "8"},
		{"unparseable", "hard", "8"},
	}
	for _, tc := range cases {
		got := RepairExercise(models.RawExercise{RPE: tc.in})
		if got.RPE != tc.want {
			t.Errorf("%s: RPE = %q, want %q", tc.name, got.RPE, tc.want)
		}
	}
}

func TestRepairPreservesFreeFormFields(t *testing.T) {
	got := RepairExercise(models.RawExercise{
		ExerciseName: "  Goblet Squat ",
		Reps:         "30s HOLD",
		Load:         float64(102.5),
		RestTimer:    "~3-4 min",
		Notes:        "pause at bottom",
	})

	if got.ExerciseName != "Goblet Squat" {
		t.Errorf("ExerciseName = %q", got.ExerciseName)
	}
	if got.Reps != "30s HOLD" {
		t.Errorf("Reps = %q, want verbatim text", got.Reps)
	}
	if got.Load != "102.5" {
		t.Errorf("Load = %q, want 102.5", got.Load)
	}
	if got.RestTimer != "~3-4 min" {
		t.Errorf("RestTimer = %q", got.RestTimer)
	}
	if got.Notes != "pause at bottom" {
		t.Errorf("Notes = %q", got.Notes)
	}
}

// TestRepairIdempotent verifies that re-running the repairer over an
// already-repaired record changes nothing.
func TestRepairIdempotent(t *testing.T) {
	first := RepairExercise(models.RawExercise{
		ExerciseName: "Deadlift",
		WarmupSets:   float64(44624),
		WorkingSets:  "not a number",
		Reps:         float64(5),
		RPE:          "44782",
		Load:         "180 kg",
	})

	second := RepairExercise(models.RawExercise{
		ExerciseName:        first.ExerciseName,
		WarmupSets:          float64(first.WarmupSets),
		WorkingSets:         float64(first.WorkingSets),
		Reps:                first.Reps,
		Load:                first.Load,
		RPE:                 first.RPE,
		RestTimer:           first.RestTimer,
		SubstitutionOption1: first.SubstitutionOption1,
		SubstitutionOption2: first.SubstitutionOption2,
		Notes:               first.Notes,
		SupersetGroup:       first.SupersetGroup,
	})

	if second != first {
		t.Errorf("repair not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}
