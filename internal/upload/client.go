package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// UploadResult is the server's summary of a persisted program.
type UploadResult struct {
	ID           string   `json:"id"`
	ProgramName  string   `json:"program_name"`
	Phases       int      `json:"phases"`
	WorkoutDays  int      `json:"workout_days"`
	Exercises    int      `json:"exercises"`
	SheetsTotal  int      `json:"sheets_total"`
	FailedSheets []string `json:"failed_sheets,omitempty"`
}

// Client sends workbooks to the LiftSheet server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the LiftSheet server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			// Parsing a workbook runs one LLM call per sheet, so uploads
			// can take several minutes on large programs.
			Timeout: 10 * time.Minute,
		},
	}
}

// SendWorkbook POSTs a workbook to the server's program upload endpoint.
// Retries up to 3 times with exponential backoff on failure.
func (c *Client) SendWorkbook(filename string, data []byte) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("writing workbook to form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart form: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/programs", bytes.NewReader(body.Bytes()))
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			var result UploadResult
			if err := json.Unmarshal(respBody, &result); err != nil {
				return nil, fmt.Errorf("decoding upload response: %w", err)
			}
			return &result, nil
		}

		// Auth and parse failures will not improve on retry.
		if resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden ||
			resp.StatusCode == http.StatusUnprocessableEntity {
			return nil, fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, respBody)
		}
		lastErr = fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, respBody)
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
