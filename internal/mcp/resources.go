package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// recentProgramLimit caps the recent_programs resource payload.
const recentProgramLimit = 10

func (h *handlers) recentPrograms(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}

	// ListPrograms returns newest first.
	if len(programs) > recentProgramLimit {
		programs = programs[:recentProgramLimit]
	}

	data, err := json.Marshal(programs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
