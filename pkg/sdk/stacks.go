package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// Synth renders a template without persisting it.
func (c *Client) Synth(ctx context.Context, req SynthRequest) (SynthResult, error) {
	var res SynthResult
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/synth", nil, req, &res); err != nil {
		return SynthResult{}, err
	}
	return res, nil
}

// CreateStack synthesizes and persists a named stack.
func (c *Client) CreateStack(ctx context.Context, name string, req SynthRequest) (Stack, error) {
	body := struct {
		Name string `json:"name"`
		SynthRequest
	}{Name: name, SynthRequest: req}

	var st Stack
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/stacks", nil, body, &st); err != nil {
		return Stack{}, err
	}
	return st, nil
}

// GetStack retrieves stack metadata by name.
func (c *Client) GetStack(ctx context.Context, name string) (Stack, error) {
	var st Stack
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/stacks/"+url.PathEscape(name), nil, nil, &st); err != nil {
		return Stack{}, err
	}
	return st, nil
}

// GetTemplate retrieves the stored template body of a stack.
func (c *Client) GetTemplate(ctx context.Context, name string) (Template, error) {
	path := "/api/v1/stacks/" + url.PathEscape(name) + "/template"

	var body json.RawMessage
	h, err := c.do(ctx, http.MethodGet, path, nil, nil, &body)
	if err != nil {
		return Template{}, err
	}
	return Template{
		Body:     body,
		Checksum: h.Get("X-Template-Checksum"),
		Revision: revisionFromETag(h),
	}, nil
}

// ListStacks retrieves one page of stacks. Pass the previous page's
// NextCursor to continue; limit 0 uses the server default.
func (c *Client) ListStacks(ctx context.Context, cursor string, limit int) (StackList, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/stacks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list StackList
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &list); err != nil {
		return StackList{}, err
	}
	return list, nil
}

// ReplaceStack re-synthesizes a stack at the given revision.
// Fails with ErrRevisionConflict when the stack changed since that revision.
func (c *Client) ReplaceStack(ctx context.Context, name string, revision int, req SynthRequest) (Stack, error) {
	headers := map[string]string{"If-Match": strconv.Quote(strconv.Itoa(revision))}

	var st Stack
	path := "/api/v1/stacks/" + url.PathEscape(name)
	if _, err := c.do(ctx, http.MethodPut, path, headers, req, &st); err != nil {
		return Stack{}, err
	}
	return st, nil
}

// DeleteStack removes a stack from the registry.
func (c *Client) DeleteStack(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/stacks/"+url.PathEscape(name), nil, nil, nil)
	return err
}

// Health checks the health of the service and its dependencies.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	if _, err := c.do(ctx, http.MethodGet, "/health", nil, nil, &hs); err != nil {
		return HealthStatus{}, err
	}
	return hs, nil
}
