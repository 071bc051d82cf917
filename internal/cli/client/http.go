package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envAPIKey = "LANEWISE_API_KEY"
	envAPIURL = "LANEWISE_API_URL"

	defaultAPIURL = "http://localhost:8080"
)

type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAPIClientWithCmd creates an APIClient with config cascade: flag → env → default.
func NewAPIClientWithCmd(cmd *cobra.Command) (*APIClient, error) {
	_ = godotenv.Load()

	var apiKey, baseURL string

	if cmd != nil {
		if flagKey, err := cmd.Flags().GetString("api-key"); err == nil && flagKey != "" {
			apiKey = flagKey
		}
		if flagURL, err := cmd.Flags().GetString("api-url"); err == nil && flagURL != "" {
			baseURL = flagURL
		}
	}

	if apiKey == "" {
		apiKey = os.Getenv(envAPIKey)
	}
	if baseURL == "" {
		baseURL = os.Getenv(envAPIURL)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("%s not set", envAPIKey)
	}
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	return &APIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		// No client-level timeout: per-request deadlines arrive via
		// context so the session controller stays in charge.
		httpClient: &http.Client{},
	}, nil
}

// APIResponse represents the standard API response format.
type APIResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// APIError represents an error from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Get performs a GET request.
func (c *APIClient) Get(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *APIClient) Post(ctx context.Context, path string, body interface{}) (*APIResponse, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Delete performs a DELETE request.
func (c *APIClient) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}) (*APIResponse, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp APIResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &apiResp); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	if resp.StatusCode >= 400 {
		message := apiResp.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	return &apiResp, nil
}
