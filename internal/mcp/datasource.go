package mcp

import (
	"context"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListPrograms(ctx context.Context) ([]models.ProgramSummary, error)
	GetProgram(ctx context.Context, programID uuid.UUID) (*models.StoredProgram, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
