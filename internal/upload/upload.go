package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	PhasesCreated    int
	ExercisesCreated int
	SheetsFailed     int
}

// Sender posts a single workbook to the server.
type Sender interface {
	SendWorkbook(filename string, data []byte) (*UploadResult, error)
}

// Uploader walks a directory of .xlsx workbooks and POSTs each new one to the
// LiftSheet server, using the state database to skip files already sent.
type Uploader struct {
	client Sender
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client Sender, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline.
func (u *Uploader) Run() (*Stats, error) {
	files, err := findWorkbooks(u.dir)
	if err != nil {
		return &u.stats, fmt.Errorf("scanning %s: %w", u.dir, err)
	}

	for _, f := range files {
		u.stats.FilesTotal++

		relPath, _ := filepath.Rel(u.dir, f)
		info, err := os.Stat(f)
		if err != nil {
			u.log.Warn("stat failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		hash, err := HashFile(f)
		if err != nil {
			u.log.Warn("hash failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
		if err != nil {
			u.log.Warn("state check failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if uploaded {
			u.stats.FilesSkipped++
			continue
		}

		if u.dryRun {
			u.log.Info("dry-run: would upload", "file", relPath, "bytes", info.Size())
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			u.log.Warn("read failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		result, err := u.client.SendWorkbook(filepath.Base(f), data)
		if err != nil {
			u.log.Warn("upload failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}

		if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
			u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
		}

		u.stats.FilesUploaded++
		u.stats.PhasesCreated += result.Phases
		u.stats.ExercisesCreated += result.Exercises
		u.stats.SheetsFailed += len(result.FailedSheets)

		u.log.Info("uploaded program",
			"file", relPath,
			"program", result.ProgramName,
			"phases", result.Phases,
			"failed_sheets", len(result.FailedSheets),
		)
	}

	return &u.stats, nil
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
