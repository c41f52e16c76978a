// Package remote talks to the timetable service over HTTP and provides a
// mock of that service for local runs and tests.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/kilianp07/timetable/core/model"
	"github.com/kilianp07/timetable/infra/logger"
)

// RequestIDHeader carries the identifier logged with every remote call.
const RequestIDHeader = "X-Request-ID"

// StatusError is returned when the service answers with a non-success
// status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client calls the timetable service endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a client for cfg. A nil httpClient gets one with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		log:        logger.New("remote-client"),
	}
}

// Generate asks the service to compute a draft timetable for program.
func (c *Client) Generate(ctx context.Context, program string) error {
	return c.do(ctx, http.MethodPost, "/timetable/generate/"+url.PathEscape(program), nil)
}

// Negotiate asks the service to resolve conflicts in the draft.
func (c *Client) Negotiate(ctx context.Context, program string) error {
	return c.do(ctx, http.MethodPost, "/timetable/negotiate/"+url.PathEscape(program), nil)
}

type timetableResponse struct {
	Timetable *[]model.ScheduleEntry `json:"timetable"`
}

// FetchSchedule retrieves the schedule entries of program. The result is
// absent when the response has no timetable field.
func (c *Client) FetchSchedule(ctx context.Context, program string) (model.Optional[[]model.ScheduleEntry], error) {
	var body timetableResponse
	if err := c.do(ctx, http.MethodGet, "/timetable/timetable/"+url.PathEscape(program), &body); err != nil {
		return model.None[[]model.ScheduleEntry](), err
	}
	if body.Timetable == nil {
		return model.None[[]model.ScheduleEntry](), nil
	}
	return model.Some(*body.Timetable), nil
}

// FetchFaculty retrieves the faculty roster. The result is absent when the
// body is null.
func (c *Client) FetchFaculty(ctx context.Context) (model.Optional[[]model.FacultyRecord], error) {
	var body *[]model.FacultyRecord
	if err := c.do(ctx, http.MethodGet, "/timetable/faculty", &body); err != nil {
		return model.None[[]model.FacultyRecord](), err
	}
	if body == nil {
		return model.None[[]model.FacultyRecord](), nil
	}
	return model.Some(*body), nil
}

// do performs the request and decodes a successful body into out. A nil out
// discards the body.
func (c *Client) do(ctx context.Context, method, path string, out any) error {
	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s (request %s): %w", method, path, reqID, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warnf("close body: %v", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s (request %s): %w", path, reqID, err)
	}
	c.log.Debugw("remote call", map[string]any{"method": method, "path": path, "request_id": reqID, "status": resp.StatusCode})
	return nil
}
