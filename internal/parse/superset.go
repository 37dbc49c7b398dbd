package parse

import (
	"strings"

	"github.com/claude/liftsheet/internal/models"
)

// stretchMarker identifies the second half of a stretch pairing. The model
// is asked to tag supersets itself but is unreliable about the stretch
// half, so the labels are corrected deterministically here.
const stretchMarker = "Static Stretch"

// ApplySupersets corrects superset labels and assigns dense 1-based
// exercise order over one workout day's exercise list. Order of exercises
// is preserved; only SupersetGroup and ExerciseOrder change.
func ApplySupersets(exercises []models.ParsedExercise) []models.ParsedExercise {
	out := make([]models.ParsedExercise, len(exercises))
	copy(out, exercises)

	for i := range out {
		switch {
		case strings.Contains(out[i].ExerciseName, stretchMarker):
			// Second half of a pairing: force the "2" suffix whatever the
			// model proposed.
			out[i].SupersetGroup = groupLetter(out[i].SupersetGroup) + "2"
		case i+1 < len(out) && strings.Contains(out[i+1].ExerciseName, stretchMarker):
			// Followed by a stretch: this is the first half. Only fill in
			// the label when the model left it empty or a bare letter.
			if g := out[i].SupersetGroup; g == "" || isBareLetter(g) {
				out[i].SupersetGroup = groupLetter(g) + "1"
			}
		}
		out[i].ExerciseOrder = i + 1
	}
	return out
}

// groupLetter picks the group letter out of a proposed label, defaulting
// to "A" when there is nothing usable.
func groupLetter(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "A"
	}
	c := label[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return "A"
	}
	return string(c)
}

func isBareLetter(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
