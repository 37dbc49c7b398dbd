package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/liftsheet/internal/models"
)

// The completion service sometimes echoes a spreadsheet's underlying date
// serial (a five-digit day count like 44624) instead of recognizing it as a
// formatting artifact. No real warmup/working-set/RPE value approaches 100,
// so anything above the threshold is treated as an artifact. The threshold
// and the substituted defaults are behavioral constants, not domain limits;
// tune with care.
const (
	dateSerialThreshold = 100

	minWarmupSets     = 0
	maxWarmupSets     = 5
	defaultWarmupSets = 2

	minWorkingSets     = 1
	maxWorkingSets     = 10
	defaultWorkingSets = 3

	minRPE     = 1.0
	maxRPE     = 10.0
	defaultRPE = "8"
)

var decimalRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// RepairExercise converts one untrusted exercise record into a ParsedExercise
// with every numeric field inside its valid range. It never fails: a bad cell
// gets a documented default instead of sinking the whole record. Repairing an
// already-repaired record is a no-op.
func RepairExercise(raw models.RawExercise) models.ParsedExercise {
	return models.ParsedExercise{
		ExerciseName:        strings.TrimSpace(raw.ExerciseName),
		WarmupSets:          repairWarmupSets(raw.WarmupSets),
		WorkingSets:         repairWorkingSets(raw.WorkingSets),
		Reps:                asString(raw.Reps),
		Load:                asString(raw.Load),
		RPE:                 repairRPE(raw.RPE),
		RestTimer:           asString(raw.RestTimer),
		SubstitutionOption1: strings.TrimSpace(raw.SubstitutionOption1),
		SubstitutionOption2: strings.TrimSpace(raw.SubstitutionOption2),
		Notes:               strings.TrimSpace(raw.Notes),
		SupersetGroup:       strings.TrimSpace(raw.SupersetGroup),
	}
}

func repairWarmupSets(v any) int {
	n, ok := asNumber(v)
	if !ok {
		return minWarmupSets
	}
	if n > dateSerialThreshold {
		return defaultWarmupSets
	}
	return clamp(int(n), minWarmupSets, maxWarmupSets)
}

func repairWorkingSets(v any) int {
	n, ok := asNumber(v)
	if !ok {
		return defaultWorkingSets
	}
	if n > dateSerialThreshold {
		return defaultWorkingSets
	}
	return clamp(int(n), minWorkingSets, maxWorkingSets)
}

// repairRPE yields a decimal string in [1,10], "N/A" for absent values, or
// the original text when it reads like a "see notes" / "n/a" annotation.
func repairRPE(v any) string {
	if v == nil {
		return "N/A"
	}

	if f, ok := v.(float64); ok {
		if f == 0 {
			return "N/A"
		}
		if f > dateSerialThreshold || f < minRPE || f > maxRPE {
			return defaultRPE
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strings.TrimSpace(asString(v))
	if s == "" {
		return "N/A"
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "see note") || strings.Contains(lower, "n/a") {
		return s
	}

	m := decimalRe.FindString(s)
	if m == "" {
		return defaultRPE
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || f > dateSerialThreshold || f < minRPE || f > maxRPE {
		return defaultRPE
	}
	return m
}

// asNumber extracts a float from the loose JSON types the model emits.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asString renders a loose JSON value as display text. Numbers keep their
// shortest decimal form so a model emitting reps as 8 round-trips to "8".
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
