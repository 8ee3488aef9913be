package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shortsfactory/internal/script"
	"shortsfactory/pkg/httputil"
)

// Client talks to the render server, which bundles the Remotion project and
// renders the final MP4.
type Client struct {
	baseURL string
	http    *httputil.RetryClient
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		// Rendering a short video takes minutes, not seconds.
		httpClient = &http.Client{Timeout: 15 * time.Minute}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httputil.NewRetryClient(httpClient, httputil.DefaultRetryConfig()),
	}
}

type renderRequest struct {
	Script *script.VideoScript `json:"script"`
	Title  string              `json:"title"`
}

type renderError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Render submits s and streams the resulting MP4 into w.
func (c *Client) Render(ctx context.Context, s *script.VideoScript, title string, w io.Writer) error {
	body, err := json.Marshal(renderRequest{Script: s, Title: title})
	if err != nil {
		return fmt.Errorf("marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render-video", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call render server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var re renderError
		if json.NewDecoder(resp.Body).Decode(&re) == nil && re.Error != "" {
			return fmt.Errorf("render server: %s: %s", re.Error, re.Message)
		}
		return fmt.Errorf("render server: unexpected status %d", resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download rendered video: %w", err)
	}
	return nil
}

// Health checks that the render server is up.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call render server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("render server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
