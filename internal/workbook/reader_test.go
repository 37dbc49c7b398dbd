package workbook

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes an in-memory xlsx with the given sheets. Cell values
// are laid out row-major starting at A1.
func buildWorkbook(t *testing.T, sheets map[string][][]string, order []string) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			f.SetSheetName("Sheet1", name)
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("NewSheet(%q): %v", name, err)
			}
		}
		for r, row := range sheets[name] {
			for c, val := range row {
				if val == "" {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				if err := f.SetCellValue(name, cell, val); err != nil {
					t.Fatalf("SetCellValue: %v", err)
				}
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return buf.Bytes()
}

func TestReadPreservesSheetOrder(t *testing.T) {
	data := buildWorkbook(t, map[string][][]string{
		"Phase B": {{"Exercise", "Sets"}},
		"Phase A": {{"Exercise", "Sets"}},
	}, []string{"Phase B", "Phase A"})

	sheets, err := Read(data)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("sheets = %d, want 2", len(sheets))
	}
	if sheets[0].Name != "Phase B" || sheets[1].Name != "Phase A" {
		t.Errorf("order = [%q, %q], want file order [Phase B, Phase A]",
			sheets[0].Name, sheets[1].Name)
	}
}

func TestReadSquaresOffRaggedRows(t *testing.T) {
	data := buildWorkbook(t, map[string][][]string{
		"Week 1": {
			{"Exercise", "Sets", "Reps", "RPE"},
			{"Squat", "3"},
			{"Bench", "", "8-10"},
		},
	}, []string{"Week 1"})

	sheets, err := Read(data)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	rows := sheets[0].Rows
	for i, row := range rows {
		if len(row) != 4 {
			t.Errorf("row %d width = %d, want 4", i, len(row))
		}
	}
	if rows[1][0] != "Squat" || rows[1][2] != "" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][2] != "8-10" {
		t.Errorf("rows[2][2] = %q, want 8-10", rows[2][2])
	}
}

func TestReadTruncatesLongSheets(t *testing.T) {
	long := make([][]string, 150)
	for i := range long {
		long[i] = []string{fmt.Sprintf("row %d", i)}
	}
	data := buildWorkbook(t, map[string][][]string{"Big": long}, []string{"Big"})

	sheets, err := Read(data)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(sheets[0].Rows) != maxSheetRows {
		t.Errorf("rows = %d, want %d", len(sheets[0].Rows), maxSheetRows)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read([]byte("not a zip archive")); err == nil {
		t.Fatal("expected error for non-xlsx bytes")
	}
}
