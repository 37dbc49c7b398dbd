package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/parse"
	"github.com/google/uuid"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	PhasesInserted    int
	ExercisesInserted int
	SheetsFailed      int
}

// Parser converts workbook bytes into a parsed program.
// Satisfied by *parse.Pipeline.
type Parser interface {
	Parse(ctx context.Context, workbookBytes []byte, displayName string) (*parse.Result, error)
}

// Store persists parsed programs.
// Satisfied by *storage.DB.
type Store interface {
	InsertProgram(ctx context.Context, program *models.ParsedProgram) (uuid.UUID, error)
}

// Importer reads .xlsx workbooks from a directory, parses each one, and
// inserts the resulting programs directly into the database. Unlike the
// upload client it talks to the parse pipeline and storage in-process,
// so it needs LLM credentials and a database connection but no running server.
type Importer struct {
	store  Store
	parser Parser
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(store Store, parser Parser, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, parser: parser, log: log, dryRun: dryRun}
}

// Import processes all .xlsx workbooks under dir.
// Per-file failures are logged and counted; processing continues.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := findWorkbooks(dir)
	if err != nil {
		return &imp.stats, fmt.Errorf("scanning %s: %w", dir, err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}

		data, err := os.ReadFile(f)
		if err != nil {
			imp.log.Warn("read failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		result, err := imp.parser.Parse(ctx, data, filepath.Base(f))
		if err != nil {
			imp.log.Warn("parse failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		imp.stats.SheetsFailed += len(result.FailedSheets)

		if imp.dryRun {
			imp.log.Info("dry-run: would insert program",
				"file", f,
				"program", result.Program.ProgramName,
				"phases", len(result.Program.Phases),
			)
			imp.stats.FilesSkipped++
			continue
		}

		id, err := imp.store.InsertProgram(ctx, result.Program)
		if err != nil {
			imp.log.Warn("insert failed", "file", f, "program", result.Program.ProgramName, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		imp.stats.FilesProcessed++
		imp.stats.PhasesInserted += len(result.Program.Phases)
		imp.stats.ExercisesInserted += countExercises(result.Program)

		imp.log.Info("imported program",
			"file", f,
			"program", result.Program.ProgramName,
			"id", id,
			"phases", len(result.Program.Phases),
			"failed_sheets", len(result.FailedSheets),
		)
	}

	return &imp.stats, nil
}

func countExercises(program *models.ParsedProgram) int {
	n := 0
	for _, phase := range program.Phases {
		for _, day := range phase.WorkoutDays {
			n += len(day.Exercises)
		}
	}
	return n
}

// findWorkbooks lists .xlsx files under dir, recursing into subdirectories.
// Excel lock files (~$ prefix) are ignored.
func findWorkbooks(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "~$") {
			return nil
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
