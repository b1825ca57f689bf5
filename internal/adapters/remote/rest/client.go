package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evanschultz/todomirror/internal/app"
	"github.com/evanschultz/todomirror/internal/domain"
)

// DefaultCollectionPath is the collection route served by the reference backend.
const DefaultCollectionPath = "/todos/"

// requestIDHeader carries the per-request correlation id.
const requestIDHeader = "X-Request-ID"

// Client talks to one remote task collection over JSON/HTTP.
type Client struct {
	base       *url.URL
	collection string
	http       *http.Client
	logger     app.Logger
	newID      func() string
	clock      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithCollectionPath overrides the collection route.
func WithCollectionPath(path string) Option {
	return func(c *Client) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
		c.collection = path
	}
}

// WithLogger routes per-request debug events to logger.
func WithLogger(logger app.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(newID func() string) Option {
	return func(c *Client) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// New constructs a client for the collection rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("remote base url is required")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote base url %q must use http or https", baseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("remote base url %q has no host", baseURL)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	c := &Client{
		base:       base,
		collection: DefaultCollectionPath,
		// No client timeout: the caller's context bounds every request.
		http:   &http.Client{},
		logger: nopLogger{},
		newID:  uuid.NewString,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListTasks fetches the whole collection in server order.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	body, err := c.do(ctx, http.MethodGet, c.collection, nil)
	if err != nil {
		return nil, err
	}
	var records []wireTask
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: decode task list: %w", app.ErrRemoteMalformed, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: task list is null", app.ErrRemoteMalformed)
	}
	tasks := make([]domain.Task, 0, len(records))
	for idx, record := range records {
		task, err := record.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: task list entry %d: %w", app.ErrRemoteMalformed, idx, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// CreateTask submits draft and returns the server-assigned record.
func (c *Client) CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	body, err := c.do(ctx, http.MethodPost, c.collection, draft)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(body)
}

// UpdateTask replaces the record with task's id and returns the server result.
func (c *Client) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.ID <= 0 {
		return domain.Task{}, domain.ErrInvalidID
	}
	body, err := c.do(ctx, http.MethodPut, c.itemPath(task.ID), task)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(body)
}

// DeleteTask removes the record with id. Any 2xx response is success.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	_, err := c.do(ctx, http.MethodDelete, c.itemPath(id), nil)
	return err
}

// itemPath returns the route for one record.
func (c *Client) itemPath(id int64) string {
	return c.collection + strconv.FormatInt(id, 10)
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	target := *c.base
	target.Path = c.base.Path + path
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	requestID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := c.clock()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("remote request failed", "method", method, "path", path, "request_id", requestID, "duration", c.clock().Sub(started), "err", err)
		return nil, fmt.Errorf("%w: %s %s: %w", app.ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.logger.Debug("remote request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID, "duration", c.clock().Sub(started))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s response: %w", app.ErrRemoteUnavailable, method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     detailFromBody(body),
		}
	}
	return body, nil
}

// wireTask keeps field presence so incomplete records can be rejected.
type wireTask struct {
	ID        *int64  `json:"id"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (w wireTask) toDomain() (domain.Task, error) {
	switch {
	case w.ID == nil:
		return domain.Task{}, errors.New("missing id")
	case *w.ID <= 0:
		return domain.Task{}, fmt.Errorf("invalid id %d", *w.ID)
	case w.Title == nil:
		return domain.Task{}, errors.New("missing title")
	case w.Completed == nil:
		return domain.Task{}, errors.New("missing completed")
	}
	return domain.Task{ID: *w.ID, Title: *w.Title, Completed: *w.Completed}, nil
}

func decodeTask(body []byte) (domain.Task, error) {
	var record wireTask
	if err := json.Unmarshal(body, &record); err != nil {
		return domain.Task{}, fmt.Errorf("%w: decode task: %w", app.ErrRemoteMalformed, err)
	}
	task, err := record.toDomain()
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: %w", app.ErrRemoteMalformed, err)
	}
	return task, nil
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}
func (nopLogger) Error(any, ...any) {}

var _ app.TaskRemote = (*Client)(nil)
