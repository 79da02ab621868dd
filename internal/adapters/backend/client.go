// Package backend is the REST client for the marketplace API.
// Every failure leaving this package is an *errors.AppError.
package backend

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

	apperrors "github.com/dietiestates/estates-web/internal/errors"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Config configures the marketplace client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
}

// Client talks JSON to the marketplace backend.
type Client struct {
	base   *url.URL
	client *http.Client
	logger *slog.Logger
}

// NewClient builds a backend client. The base URL must be absolute.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("backend base url is required")
	}
	base, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("backend base url must be absolute http(s): %q", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{base: base, client: hc, logger: logger.With("component", "backend")}, nil
}

// request describes one backend call.
type request struct {
	method string
	path   string
	token  string
	query  url.Values
	body   any
	// op names the operation in error messages, e.g. "search properties".
	op string
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimSuffix(c.base.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do performs r and decodes a successful JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: encode request", r.op)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: create request", r.op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed", "op", r.op, "error", err)
		return apperrors.FromContext(err, r.op+": backend unreachable")
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "backend request",
		"op", r.op,
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(r.op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Network(err, r.op+": malformed response")
	}
	return nil
}

// errorBody covers the error shapes the backend produces.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) handleErrorResponse(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	msg := strings.TrimSpace(eb.Message)
	if msg == "" {
		msg = strings.TrimSpace(eb.Error)
	}
	if msg == "" && !json.Valid(data) {
		msg = strings.TrimSpace(string(data))
	}

	return translateStatus(op, resp.StatusCode, msg, eb.Errors)
}

// translateStatus maps an HTTP status to the client error taxonomy.
func translateStatus(op string, status int, msg string, fields map[string]string) error {
	orDefault := func(def string) string {
		if msg != "" {
			return msg
		}
		return def
	}

	switch {
	case status == http.StatusUnauthorized:
		return apperrors.Authentication(orDefault("invalid credentials"))
	case status == http.StatusForbidden:
		return apperrors.Authorization(orDefault("not allowed"))
	case status == http.StatusNotFound:
		return apperrors.NotFound(orDefault(op + ": not found"))
	case status == http.StatusConflict:
		return apperrors.Conflict(orDefault(op + ": already exists"))
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		if len(fields) > 0 {
			return apperrors.ValidationFields(fields)
		}
		return apperrors.Validation(orDefault(op + ": invalid request"))
	default:
		return apperrors.Network(fmt.Errorf("status %d", status), orDefault(op+": backend error"))
	}
}
