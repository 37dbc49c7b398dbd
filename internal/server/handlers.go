package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxUploadBytes bounds uploaded workbook size. Real training spreadsheets
// are well under a megabyte; 20 MiB leaves room for embedded images.
const maxUploadBytes = 20 << 20

// uploadSummary is the response body for a successful program upload.
type uploadSummary struct {
	ID           uuid.UUID `json:"id"`
	ProgramName  string    `json:"program_name"`
	Phases       int       `json:"phases"`
	WorkoutDays  int       `json:"workout_days"`
	Exercises    int       `json:"exercises"`
	SheetsTotal  int       `json:"sheets_total"`
	FailedSheets []string  `json:"failed_sheets,omitempty"`
}

func (s *Server) handleUploadProgram(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file field required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading upload: " + err.Error()})
		return
	}

	displayName := r.FormValue("name")
	if displayName == "" {
		displayName = header.Filename
	}

	result, err := s.parser.Parse(r.Context(), data, displayName)
	if err != nil {
		s.log.Error("parse error", "file", header.Filename, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	id, err := s.store.InsertProgram(r.Context(), result.Program)
	if err != nil {
		s.log.Error("persist error", "program", result.Program.ProgramName, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	summary := uploadSummary{
		ID:           id,
		ProgramName:  result.Program.ProgramName,
		Phases:       len(result.Program.Phases),
		SheetsTotal:  result.SheetsTotal,
		FailedSheets: result.FailedSheets,
	}
	for _, ph := range result.Program.Phases {
		summary.WorkoutDays += len(ph.WorkoutDays)
		for _, day := range ph.WorkoutDays {
			summary.Exercises += len(day.Exercises)
		}
	}

	s.log.Info("program imported",
		"id", id, "name", result.Program.ProgramName,
		"phases", summary.Phases, "exercises", summary.Exercises,
		"failed_sheets", len(result.FailedSheets))
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.store.ListPrograms(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if programs == nil {
		programs = []models.ProgramSummary{}
	}
	writeJSON(w, http.StatusOK, programs)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}

	program, err := s.store.GetProgram(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}

	err = s.store.DeleteProgram(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already sent; nothing useful left to do.
		return
	}
}
