// Package primal talks to the custodial Primal wallet API.
package primal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/ratelimit"

	"github.com/goodnatureofminers/walletmigrate-backend/pkg/retry"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
	Doer interface {
		Do(req *http.Request) (*http.Response, error)
	}
)

// APIError is a non-2xx answer of the wallet API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("primal api status %d", e.StatusCode)
	}
	return fmt.Sprintf("primal api status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether repeating the request may succeed.
func (e *APIError) Temporary() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RPS limits outgoing requests; zero disables the limit.
	RPS int
}

// Client implements the custodial ledger on top of the Primal HTTP API.
type Client struct {
	baseURL *url.URL
	token   string
	http    Doer
	limiter ratelimit.Limiter
	metrics Metrics
}

func NewClient(cfg Config, metrics Metrics) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClientWithDoer(cfg, &http.Client{Timeout: timeout}, metrics)
}

func NewClientWithDoer(cfg Config, doer Doer, metrics Metrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("primal api url is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse primal api url: %w", err)
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    doer,
		limiter: limiter,
		metrics: metrics,
	}, nil
}

func (c *Client) endpoint(query url.Values, elem ...string) string {
	u := c.baseURL.JoinPath(elem...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// call sends body as JSON, if any, and decodes the answer into result, if any.
// Client errors other than timeouts and throttling are marked permanent.
func (c *Client) call(ctx context.Context, operation, method, endpoint string, body, result any) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, err, started)
	}()

	var payload io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err = json.NewEncoder(buf).Encode(body); err != nil {
			return retry.Permanent(fmt.Errorf("encode %s request: %w", operation, err))
		}
		payload = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return retry.Permanent(fmt.Errorf("create %s request: %w", operation, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.limiter.Take()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", operation, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
		err = fmt.Errorf("%s: %w", operation, apiErr)
		if !apiErr.Temporary() {
			err = retry.Permanent(err)
		}
		return err
	}

	if result == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func readMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 1024))
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return string(bytes.TrimSpace(raw))
}
