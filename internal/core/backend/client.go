// Package backend is the HTTP transport shared by the analysis and auth
// clients. It speaks JSON, retries transient failures and attaches the
// session token and request id to outgoing requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/colonyops/briefly/internal/core/logging"
)

const maxBodyBytes = 4 << 20

// TokenSource supplies the bearer token for outgoing requests. An empty
// token sends no Authorization header.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
}

// Client posts JSON to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	retry   retry.Config
	tokens  TokenSource
}

// New creates a Client from opts.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		tokens:  opts.Tokens,
		retry: retry.Config{
			MaxAttempts:   max(opts.Retries, 0) + 1,
			InitialDelay:  opts.RetryDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

type response struct {
	status int
	body   []byte
}

// PostJSON sends in as JSON to path and decodes the 2xx response into out
// (which may be nil). Network errors and 5xx/429 answers are retried;
// other non-2xx answers fail immediately with a *StatusError.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := c.baseURL + path
	r := retry.New[*response](c.retry)
	resp, err := r.Do(ctx, func(ctx context.Context) (*response, error) {
		resp, err := c.do(ctx, url, payload)
		if err != nil {
			return nil, err
		}
		if se := statusError(resp); se != nil && se.Temporary() {
			return nil, se
		}
		return resp, nil
	})
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}

	if se := statusError(resp); se != nil {
		return se
	}

	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// Ping checks that the backend answers HTTP. Any status code counts as
// reachable; only transport failures are returned. Ping is not retried.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *Client) do(ctx context.Context, url string, payload []byte) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if id := logging.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &response{status: res.StatusCode, body: body}, nil
}

func statusError(r *response) *StatusError {
	if r.status >= 200 && r.status < 300 {
		return nil
	}
	return &StatusError{Code: r.status, Body: strings.TrimSpace(string(r.body))}
}
