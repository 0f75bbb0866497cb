package memobird

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "http://open.memobird.cn/home"
	bindEndpoint     = "/setuserbind"
	printEndpoint    = "/printpaper"
	printURLEndpoint = "/printpaperFromUrl"
	statusEndpoint   = "/getprintstatus"
	timestampLayout  = "2006-01-02 15:04:05"
	successCode      = 1
)

// Timeouts bounds each kind of request. Zero fields fall back to the
// defaults.
type Timeouts struct {
	// Default applies to binding and status queries.
	Default time.Duration
	// Print applies to content submission.
	Print time.Duration
	// PrintURL applies to URL submission, which waits for the service to
	// fetch the page.
	PrintURL time.Duration
}

// DefaultTimeouts returns the timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Default:  15 * time.Second,
		Print:    20 * time.Second,
		PrintURL: 30 * time.Second,
	}
}

// Client represents a Memobird API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	ak         string
	timeouts   Timeouts
	logger     *slog.Logger
	now        func() time.Time
}

// Option is a function that configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger used by the client and the devices and
// payloads created through it.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeouts overrides the per-request timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) {
		d := DefaultTimeouts()
		if t.Default <= 0 {
			t.Default = d.Default
		}
		if t.Print <= 0 {
			t.Print = d.Print
		}
		if t.PrintURL <= 0 {
			t.PrintURL = d.PrintURL
		}
		c.timeouts = t
	}
}

// ErrMissingAccessKey is returned by New when the access key is empty.
var ErrMissingAccessKey = errors.New("memobird API key (ak) cannot be empty")

// New creates a new Memobird client for the given access key.
func New(ak string, opts ...Option) (*Client, error) {
	if ak == "" {
		return nil, ErrMissingAccessKey
	}

	c := &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		ak:         ak,
		timeouts:   DefaultTimeouts(),
		logger:     slog.Default(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.logger.Debug("memobird client initialized", "base_url", c.baseURL)
	return c, nil
}

// NewPayload creates an empty payload that logs through the client's logger.
func (c *Client) NewPayload() *Payload {
	return newPayload(c.logger)
}

// timestamp returns the current time in the format the API requires.
func (c *Client) timestamp() string {
	return c.now().Format(timestampLayout)
}

// doRequest performs a single HTTP request bounded by timeout. GET requests
// carry query, POST requests carry body as JSON.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query url.Values, body any, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, &NetworkError{Err: fmt.Errorf("marshaling request body: %w", err)}
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		cancel()
		return nil, nil, &NetworkError{Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending request", "method", method, "endpoint", endpoint, "timeout", timeout)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, &NetworkError{Err: err}
	}

	return resp, cancel, nil
}

// Response is the envelope shared by every API response.
type Response struct {
	ResCode  *int   `json:"showapi_res_code"`
	ResError string `json:"showapi_res_error,omitempty"`
}

func (r *Response) envelope() *Response { return r }

// Code returns showapi_res_code, or CodeMissing when it was absent.
func (r *Response) Code() int {
	if r.ResCode == nil {
		return CodeMissing
	}
	return *r.ResCode
}

type apiResponse interface {
	envelope() *Response
}

// parseResponse reads the API response into v and checks the result code.
func parseResponse(resp *http.Response, v apiResponse) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{
			StatusCode: resp.StatusCode,
			Body:       excerpt(body, maxNetworkExcerpt),
			Err:        fmt.Errorf("request failed with status %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &APIError{
			Code:       CodeInvalidJSON,
			Message:    fmt.Sprintf("failed to decode JSON response: %v. Response text: %s", err, excerpt(body, maxJSONExcerpt)),
			HTTPStatus: resp.StatusCode,
		}
	}

	env := v.envelope()
	if env.Code() != successCode {
		msg := env.ResError
		if msg == "" {
			msg = "unknown API error"
		}
		return &APIError{Code: env.Code(), Message: msg, HTTPStatus: resp.StatusCode}
	}

	return nil
}

// call runs doRequest and parseResponse as one step.
func (c *Client) call(ctx context.Context, method, endpoint string, query url.Values, body any, timeout time.Duration, v apiResponse) error {
	resp, cancel, err := c.doRequest(ctx, method, endpoint, query, body, timeout)
	if err != nil {
		return err
	}
	defer cancel()

	return parseResponse(resp, v)
}

// rawString reads a field the API sends either as a string or a number.
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// rawInt reads an integer sent as a JSON number or a numeric string.
func rawInt(raw json.RawMessage) (int64, bool) {
	s := rawString(raw)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// rawNumberIs reports whether raw is a JSON number equal to want. Strings
// never match.
func rawNumberIs(raw json.RawMessage, want float64) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	f, err := n.Float64()
	return err == nil && f == want
}
