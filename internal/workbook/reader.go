package workbook

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// maxSheetRows bounds how much of a sheet is handed to the completion
// service. The service has an input-size ceiling and rows past the first
// hundred are never schema-relevant for a single phase.
const maxSheetRows = 100

// Sheet is one worksheet converted to a rectangular row-major grid.
// Empty cells are empty strings; every row has the same width.
type Sheet struct {
	Name string
	Rows [][]string
}

// Read opens a workbook from raw bytes and returns its sheets in file
// order, each truncated to maxSheetRows rows.
func Read(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		if len(rows) > maxSheetRows {
			rows = rows[:maxSheetRows]
		}
		sheets = append(sheets, Sheet{Name: name, Rows: squareOff(rows)})
	}
	return sheets, nil
}

// squareOff pads ragged rows to a uniform width. excelize trims trailing
// empty cells per row, which would otherwise shift the column layout the
// extraction prompt relies on.
func squareOff(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, width)
		copy(row, r)
		out[i] = row
	}
	return out
}
