// Package analyze runs layout analysis on source PDFs and caches the
// markdown text and layout JSON it produces.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// APIVersion is the Document Intelligence REST API version used.
	APIVersion = "2024-11-30"
	layoutPath = "/documentintelligence/documentModels/prebuilt-layout:analyze"
)

// Result is a completed layout analysis.
type Result struct {
	// Markdown is the document content rendered as markdown.
	Markdown string
	// Layout is the raw analyzeResult object.
	Layout json.RawMessage
}

// Client calls the Document Intelligence prebuilt-layout model.
type Client struct {
	endpoint     string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval sets the delay between status requests.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.pollInterval = d }
}

// NewClient creates a client for the resource at endpoint.
func NewClient(endpoint, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		pollInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type operationStatus struct {
	Status        string          `json:"status"`
	AnalyzeResult json.RawMessage `json:"analyzeResult"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeLayout submits pdf and waits for the analysis to finish.
func (c *Client) AnalyzeLayout(ctx context.Context, pdf []byte) (*Result, error) {
	if len(pdf) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	url := fmt.Sprintf("%s%s?api-version=%s&outputContentFormat=markdown", c.endpoint, layoutPath, APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(pdf))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analyze request returned status %d: %s", resp.StatusCode, string(body))
	}
	operation := resp.Header.Get("Operation-Location")
	if operation == "" {
		return nil, fmt.Errorf("analyze response has no Operation-Location header")
	}

	return c.poll(ctx, operation)
}

func (c *Client) poll(ctx context.Context, operation string) (*Result, error) {
	for {
		status, err := c.status(ctx, operation)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case "succeeded":
			return decodeResult(status.AnalyzeResult)
		case "failed", "canceled":
			msg := status.Status
			if status.Error != nil {
				msg = fmt.Sprintf("%s: %s %s", status.Status, status.Error.Code, status.Error.Message)
			}
			return nil, fmt.Errorf("layout analysis %s", msg)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) status(ctx context.Context, operation string) (*operationStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operation, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request returned status %d: %s", resp.StatusCode, string(body))
	}

	var status operationStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}

func decodeResult(raw json.RawMessage) (*Result, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("layout analysis succeeded without a result")
	}
	var content struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("failed to decode analyze result: %w", err)
	}
	return &Result{Markdown: content.Content, Layout: raw}, nil
}
