package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the LiftSheet REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, storage.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListPrograms(ctx context.Context) ([]models.ProgramSummary, error) {
	body, err := c.get(ctx, "/api/v1/programs")
	if err != nil {
		return nil, err
	}

	var programs []models.ProgramSummary
	if err := json.Unmarshal(body, &programs); err != nil {
		return nil, fmt.Errorf("httpclient: decode programs: %w", err)
	}
	return programs, nil
}

func (c *HTTPClient) GetProgram(ctx context.Context, programID uuid.UUID) (*models.StoredProgram, error) {
	body, err := c.get(ctx, "/api/v1/programs/"+programID.String())
	if err != nil {
		return nil, err
	}

	var program models.StoredProgram
	if err := json.Unmarshal(body, &program); err != nil {
		return nil, fmt.Errorf("httpclient: decode program: %w", err)
	}
	return &program, nil
}
