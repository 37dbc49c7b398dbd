package parse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/claude/liftsheet/internal/llm"
	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/workbook"
)

// Pipeline is the spreadsheet-to-program orchestrator. It fans one
// extraction job out per sheet and joins the results in sheet order.
type Pipeline struct {
	extractor *Extractor
	log       *slog.Logger
}

// New creates a Pipeline using the given completion client.
func New(client llm.Client, log *slog.Logger) *Pipeline {
	return &Pipeline{extractor: NewExtractor(client, log), log: log}
}

// Result is the outcome of parsing one workbook. Sheets whose extraction
// failed terminally are listed in FailedSheets and omitted from the program.
type Result struct {
	Program      *models.ParsedProgram `json:"program"`
	SheetsTotal  int                   `json:"sheets_total"`
	FailedSheets []string              `json:"failed_sheets,omitempty"`
}

// Parse converts workbook bytes into a validated program. All sheets are
// extracted concurrently and every job settles before assembly, so one slow
// or failing sheet never discards a sibling's finished work. Parse fails
// only when the workbook is unreadable or every sheet fails extraction.
// Phase numbers are assigned densely in sheet order here and override
// whatever the model proposed.
func (p *Pipeline) Parse(ctx context.Context, workbookBytes []byte, displayName string) (*Result, error) {
	sheets, err := workbook.Read(workbookBytes)
	if err != nil {
		return nil, err
	}

	type sheetResult struct {
		phase models.ParsedPhase
		err   error
	}

	// Results are indexed by sheet position, not completion order: the
	// phases list must follow the workbook's on-disk sheet order.
	results := make([]sheetResult, len(sheets))
	var wg sync.WaitGroup
	for i, sheet := range sheets {
		wg.Add(1)
		go func(i int, sheet workbook.Sheet) {
			defer wg.Done()
			raw, err := p.extractor.ExtractSheet(ctx, sheet, i+1)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].phase = assemblePhase(sheet.Name, raw)
		}(i, sheet)
	}
	wg.Wait()

	program := &models.ParsedProgram{
		ProgramName: ProgramNameFromDisplayName(displayName),
	}
	res := &Result{Program: program, SheetsTotal: len(sheets)}

	var errs []error
	for i, sr := range results {
		if sr.err != nil {
			p.log.Warn("sheet dropped from program", "sheet", sheets[i].Name, "error", sr.err)
			res.FailedSheets = append(res.FailedSheets, sheets[i].Name)
			errs = append(errs, sr.err)
			continue
		}
		phase := sr.phase
		phase.PhaseNumber = len(program.Phases) + 1
		program.Phases = append(program.Phases, phase)
	}

	if len(program.Phases) == 0 {
		return nil, fmt.Errorf("all %d sheets failed extraction: %w", len(sheets), errors.Join(errs...))
	}
	return res, nil
}

// ProgramNameFromDisplayName derives a program name from an uploaded file's
// display name: extension stripped, underscores replaced with spaces.
func ProgramNameFromDisplayName(displayName string) string {
	name := filepath.Base(displayName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}
