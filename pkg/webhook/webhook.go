// Package webhook posts scoring reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ccollicutt/bifinder/pkg/output"
)

// DefaultTimeout bounds one delivery when SendOptions.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxReplySize caps how much of the endpoint's reply is kept.
const maxReplySize = 1024 * 1024

// Client delivers report payloads.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a webhook client.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// SendOptions addresses one delivery.
type SendOptions struct {
	URL     string
	Token   string // sent as a bearer token when set
	Timeout time.Duration
}

func (o SendOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// Response is the outcome of one delivery.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success reports whether the endpoint accepted the payload with a 2xx status.
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts report wrapped in a Payload. Failures are reported in the
// Response, never returned, so one bad endpoint cannot fail a run.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := c.deliver(ctx, NewPayload(report), opts)
	resp.Duration = time.Since(start)
	return resp
}

func (c *Client) deliver(ctx context.Context, payload *Payload, opts SendOptions) *Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Response{Error: fmt.Errorf("encoding payload for run %s: %w", payload.RunID, err)}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(body))
	if err != nil {
		return &Response{Error: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "bifinder-webhook")
	req.Header.Set("X-Bifinder-Event", payload.Event)
	req.Header.Set("X-Bifinder-Run", payload.RunID)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return &Response{Error: fmt.Errorf("posting run %s: %w", payload.RunID, err)}
	}
	defer httpResp.Body.Close()

	resp := &Response{StatusCode: httpResp.StatusCode}
	reply, err := io.ReadAll(io.LimitReader(httpResp.Body, maxReplySize))
	resp.Body = string(reply)
	switch {
	case err != nil:
		resp.Error = fmt.Errorf("reading reply: %w", err)
	case resp.StatusCode >= 400:
		resp.Error = fmt.Errorf("endpoint rejected run %s with status %d", payload.RunID, resp.StatusCode)
	}
	return resp
}
