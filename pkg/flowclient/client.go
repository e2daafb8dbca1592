package flowclient

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// DefaultBaseURL is used when no backend address is configured.
const DefaultBaseURL = "http://localhost:8080"

// RequestIDHeader carries a per-request id for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the pipeline-control backend. It makes exactly one attempt
// per call and never retries.
type Client struct {
	baseURL      string
	client       *http.Client
	logger       *slog.Logger
	newRequestID func() string
}

// New constructs a client for the given base URL.
func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, 0)
}

// NewWithTimeout constructs a client for the given base URL with a request timeout.
// A zero timeout leaves deadlines to the caller's context.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: timeout},
		logger:       slog.New(slog.DiscardHandler),
		newRequestID: uuid.NewString,
	}
}

// WithLogger sets the logger used for request diagnostics.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// BaseURL returns the resolved backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status reads the current run status.
func (c *Client) Status(ctx context.Context) (RunStatus, error) {
	var res RunStatus
	err := c.getJSON(ctx, "/api/status", &res)
	return res, err
}

// Steps reads the pipeline step list.
func (c *Client) Steps(ctx context.Context) (StepList, error) {
	var res StepList
	err := c.getJSON(ctx, "/api/steps", &res)
	return res, err
}

// Logs reads the current log tail.
func (c *Client) Logs(ctx context.Context) (LogTail, error) {
	var res LogTail
	err := c.getJSON(ctx, "/api/logs", &res)
	return res, err
}

// List reads the entries of one named list.
func (c *Client) List(ctx context.Context, listType string) (ListEntries, error) {
	res := ListEntries{Type: listType}
	err := c.getJSON(ctx, "/api/list?type="+url.QueryEscape(listType), &res)
	return res, err
}

// AppendURL appends one entry to a named list.
func (c *Client) AppendURL(ctx context.Context, req AppendRequest) (AppendResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return AppendResponse{}, err
	}
	body, status, err := c.send(ctx, http.MethodPost, "/api/url", "application/json", bytes.NewReader(payload))
	if err != nil {
		return AppendResponse{}, err
	}
	var res AppendResponse
	if len(bytes.TrimSpace(body)) == 0 {
		return res, nil
	}
	// The entry is stored once the backend answers 2xx, so an unreadable
	// confirmation only loses the message.
	if err := json.Unmarshal(body, &res); err != nil {
		c.logger.Debug("append confirmation not decoded", "status", status, "error", err)
		return AppendResponse{}, nil
	}
	return res, nil
}

// Run asks the backend to start a flow run.
func (c *Client) Run(ctx context.Context, req RunRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, _, err = c.send(ctx, http.MethodPost, "/api/run", "application/json", bytes.NewReader(payload))
	return err
}

// Upload sends a list file as multipart form data. The backend stores it as
// the named list.
func (c *Client) Upload(ctx context.Context, listType, filename string, content io.Reader) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("list_type", listType); err != nil {
		return err
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}
	_, _, err = c.send(ctx, http.MethodPost, "/api/upload", form.FormDataContentType(), &buf)
	return err
}

// getJSON performs a GET and decodes the structured body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, status, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return decodeError(http.MethodGet, path, status, err)
	}
	return nil
}

// send issues one request and classifies the outcome. Non-2xx answers become
// protocol errors carrying the body text.
func (c *Client) send(ctx context.Context, method, path, contentType string, payload io.Reader) ([]byte, int, error) {
	requestID := c.newRequestID()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, 0, networkError(method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(RequestIDHeader, requestID)

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, 0, networkError(method, path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, networkError(method, path, err)
	}
	c.logger.Debug("request finished",
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp.StatusCode, protocolError(method, path, resp.StatusCode, body)
	}
	return body, resp.StatusCode, nil
}
