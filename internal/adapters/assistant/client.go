// Package assistant provides the HTTP adapter for the external AI job runner.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/hearthhq/dealdesk/internal/core"
	"github.com/hearthhq/dealdesk/internal/domain/model"
)

// maxResponseBodyBytes caps error-body reads to avoid logging huge payloads.
const maxResponseBodyBytes = 4 * 1024

const defaultRequestTimeout = 15 * time.Second

// ClientOptions configures the assistant runner client.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	// OAuth2 client-credentials settings. When TokenURL is empty the client
	// sends unauthenticated requests (local development runner).
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Client talks to the assistant job runner's REST API. It implements the
// core.JobRunner port.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ core.JobRunner = (*Client)(nil)

// NewClient constructs a runner client, wiring OAuth2 client-credentials
// authentication when a token URL is configured.
func NewClient(opts ClientOptions) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("assistant base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid assistant base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	if strings.TrimSpace(opts.TokenURL) != "" {
		cc := &clientcredentials.Config{
			TokenURL:     opts.TokenURL,
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
		}
		// Route token requests through the configured transport.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = cc.Client(ctx)
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "assistant_client")
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		logger:  logger,
	}, nil
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

// Submit enqueues a job with the runner and returns the runner-assigned id.
func (c *Client) Submit(ctx context.Context, req *model.SubmitAIJobRequest) (string, error) {
	if req == nil {
		return "", errors.New("submit job request is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal submit request: %w", err)
	}

	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/v1/jobs", body, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.JobID) == "" {
		return "", errors.New("runner returned empty job id")
	}
	return resp.JobID, nil
}

// GetStatus performs a point read of a job's current state.
func (c *Client) GetStatus(ctx context.Context, jobID string) (*model.AIJob, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.New("job id is required")
	}

	var job model.AIJob
	path := "/v1/jobs/" + url.PathEscape(jobID)
	if err := c.do(ctx, http.MethodGet, path, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// RequestCancel asks the runner to stop a job. The runner acknowledges the
// request; the definitive terminal status still arrives via polling or push.
func (c *Client) RequestCancel(ctx context.Context, jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return errors.New("job id is required")
	}

	path := "/v1/jobs/" + url.PathEscape(jobID) + "/cancel"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build runner request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("runner request %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
		if c.logger != nil {
			c.logger.Debug("runner request failed",
				"method", method, "path", path,
				"status", resp.StatusCode, "body", string(snippet))
		}
		return fmt.Errorf("runner %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode runner response: %w", err)
	}
	return nil
}
