package parse

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// workbookWithSheets builds an in-memory xlsx whose sheets appear in the
// given order.
func workbookWithSheets(t *testing.T, sheetNames ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range sheetNames {
		if i == 0 {
			f.SetSheetName("Sheet1", name)
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		if err := f.SetCellValue(name, "A1", "Exercise"); err != nil {
			t.Fatalf("SetCellValue: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return buf.Bytes()
}

// sheetNameFromPrompt recovers which sheet a completion call is for, so
// fakes can script per-sheet behavior.
func sheetNameFromPrompt(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, "Sheet name: "); ok {
			return rest
		}
	}
	return ""
}

// TestParseFileOrderWins: sheets named out of alphabetical order still
// produce phases in file order with dense 1-based numbering, ignoring the
// phase numbers the model proposes.
func TestParseFileOrderWins(t *testing.T) {
	data := workbookWithSheets(t, "Phase B", "Phase A")
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		switch sheetNameFromPrompt(prompt) {
		case "Phase B":
			return `{"phaseName":"Phase B","phaseNumber":9,"workoutDays":[]}`, nil
		case "Phase A":
			return `{"phaseName":"Phase A","phaseNumber":1,"workoutDays":[]}`, nil
		}
		return "", nil
	}}

	res, err := New(client, testLogger()).Parse(context.Background(), data, "prog.xlsx")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	phases := res.Program.Phases
	if len(phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(phases))
	}
	if phases[0].PhaseName != "Phase B" || phases[0].PhaseNumber != 1 {
		t.Errorf("phases[0] = (%q, %d), want (Phase B, 1)", phases[0].PhaseName, phases[0].PhaseNumber)
	}
	if phases[1].PhaseName != "Phase A" || phases[1].PhaseNumber != 2 {
		t.Errorf("phases[1] = (%q, %d), want (Phase A, 2)", phases[1].PhaseName, phases[1].PhaseNumber)
	}
}

// TestParsePartialFailure: a terminally failing sheet is dropped and the
// survivors are renumbered densely; the upload still succeeds.
func TestParsePartialFailure(t *testing.T) {
	data := workbookWithSheets(t, "Block 1", "Block 2", "Block 3")
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		if sheetNameFromPrompt(prompt) == "Block 2" {
			return "not json at all", nil
		}
		return `{"phaseName":"ok","workoutDays":[]}`, nil
	}}

	res, err := New(client, testLogger()).Parse(context.Background(), data, "prog.xlsx")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if res.SheetsTotal != 3 {
		t.Errorf("SheetsTotal = %d, want 3", res.SheetsTotal)
	}
	if len(res.FailedSheets) != 1 || res.FailedSheets[0] != "Block 2" {
		t.Errorf("FailedSheets = %v, want [Block 2]", res.FailedSheets)
	}

	phases := res.Program.Phases
	if len(phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(phases))
	}
	for i, ph := range phases {
		if ph.PhaseNumber != i+1 {
			t.Errorf("phase %d number = %d, want dense %d", i, ph.PhaseNumber, i+1)
		}
	}
}

func TestParseAllSheetsFailed(t *testing.T) {
	data := workbookWithSheets(t, "Only Sheet")
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		return "garbage", nil
	}}

	_, err := New(client, testLogger()).Parse(context.Background(), data, "prog.xlsx")
	if err == nil {
		t.Fatal("expected error when every sheet fails")
	}
}

func TestParseUnreadableWorkbook(t *testing.T) {
	client := &fakeClient{respond: func(prompt string, call int) (string, error) {
		t.Fatal("completion service must not be called for unreadable workbooks")
		return "", nil
	}}

	_, err := New(client, testLogger()).Parse(context.Background(), []byte("junk"), "prog.xlsx")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestProgramNameFromDisplayName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My_Strength_Program.xlsx", "My Strength Program"},
		{"plain.xlsx", "plain"},
		{"no extension", "no extension"},
		{"dir/Nested_Name.xlsx", "Nested Name"},
		{"trailing_.xlsx", "trailing"},
	}
	for _, tc := range cases {
		if got := ProgramNameFromDisplayName(tc.in); got != tc.want {
			t.Errorf("ProgramNameFromDisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
