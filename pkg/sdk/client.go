package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stackmesh/aossindex/internal/version"
)

const defaultTimeout = 30 * time.Second

// Client is the aossindex SDK entry point.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	hc        *http.Client
}

// New creates a Client for the registry API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("aossindex: base URL required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("aossindex: invalid base URL %q", baseURL)
	}

	cfg := &clientConfig{
		timeout:   defaultTimeout,
		userAgent: "aossindex-sdk/" + version.Version,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    cfg.apiKey,
		userAgent: cfg.userAgent,
		hc:        hc,
	}, nil
}

// do performs one API request. out may be nil for responses without a body.
// Returns the response headers for callers that need ETag or checksum.
func (c *Client) do(
	ctx context.Context, method, path string, headers map[string]string, body, out any,
) (http.Header, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("aossindex: encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("aossindex: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aossindex: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("aossindex: decode response: %w", err)
		}
	}
	return resp.Header, nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code            string `json:"code"`
		Message         string `json:"message"`
		CurrentRevision int    `json:"current_revision"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.CurrentRevision = body.CurrentRevision
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}

	apiErr.sentinel = sentinelForCode(apiErr.Code, resp.StatusCode)
	return apiErr
}

func revisionFromETag(h http.Header) int {
	etag := strings.Trim(strings.TrimPrefix(h.Get("ETag"), "W/"), `"`)
	var rev int
	_, _ = fmt.Sscanf(etag, "%d", &rev)
	return rev
}
