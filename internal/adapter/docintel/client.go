package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Result is the output of the document-intelligence extraction service:
// plain text plus optional structured key-value hints. The hints are a
// supplement for metadata extraction, never a hard dependency.
type Result struct {
	Text      string            `json:"text"`
	KeyValues map[string]string `json:"key_values,omitempty"`
	Pages     int               `json:"pages,omitempty"`
}

// Extractor turns raw document bytes into text. Two implementations exist:
// Client (remote service) and LocalExtractor (plain-text fallback), selected
// at construction time.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (Result, error)
}

// New selects the implementation: the remote client when a service URL is
// configured, the local fallback otherwise.
func New(baseURL string) Extractor {
	if baseURL == "" {
		slog.Info("no document-intelligence service configured, using local text extraction")
		return &LocalExtractor{}
	}
	return NewClient(baseURL)
}

// Client calls the remote document-intelligence service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (c *Client) Extract(ctx context.Context, data []byte, contentType string) (Result, error) {
	url := c.baseURL + "/v1/extract"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("document extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("document extraction failed: status %d: %s", resp.StatusCode, body)
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("document extraction response decode: %w", err)
	}
	return out, nil
}

// LocalExtractor is the fallback used when no extraction service is
// available: it treats the payload as UTF-8 text and offers no structured
// hints.
type LocalExtractor struct{}

func (l *LocalExtractor) Extract(ctx context.Context, data []byte, contentType string) (Result, error) {
	return Result{Text: string(data)}, nil
}
