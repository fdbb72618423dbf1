// Package api is the HTTP Room Data Gateway: one operation per backend
// resource, each returning a typed result or a classified *core.Failure.
// The gateway never retries; callers own the retry decision.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/core"
)

var validate = validator.New()

var (
	_ core.RoomGateway = (*Client)(nil)
	_ core.AuthGateway = (*Client)(nil)
)

// TokenSource yields the current bearer credential, empty when the
// client is unauthenticated.
type TokenSource func() string

type Client struct {
	base  string
	http  *http.Client
	token TokenSource
}

func NewClient(baseURL string, timeout time.Duration, token TokenSource) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{Timeout: timeout},
		token: token,
	}
}

type errBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("module", "adapters.api").Str("op", op).Msg("request never reached server")
		return &core.Failure{Kind: core.FailureNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classify(op, resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

func (c *Client) classify(op string, resp *http.Response) error {
	var eb errBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)
	reason := eb.Code
	if reason == "" {
		reason = eb.Detail
	}

	f := &core.Failure{Op: op, Status: resp.StatusCode, Reason: reason}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		f.Kind = core.FailureAuth
	case resp.StatusCode == http.StatusForbidden:
		f.Kind = core.FailurePermission
	case resp.StatusCode == http.StatusNotFound:
		f.Kind = core.FailureNotFound
	case resp.StatusCode >= 500:
		f.Kind = core.FailureServer
	default:
		f.Kind = core.FailureClient
	}

	log.Warn().
		Str("module", "adapters.api").
		Str("op", op).
		Int("status", resp.StatusCode).
		Str("kind", f.Kind.String()).
		Str("reason", reason).
		Msg("gateway call failed")
	return f
}
