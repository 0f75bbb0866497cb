package memobird

import (
	"context"
	"errors"
	"fmt"
	"net"
	"unicode/utf8"
)

// ErrMemobird matches every error produced by this package via errors.Is.
var ErrMemobird = errors.New("memobird")

// API result codes that are not sent by the service itself.
const (
	CodeMissing       = -1 // showapi_res_code absent from the response
	CodeInvalidJSON   = -2 // response body was not JSON
	maxNetworkExcerpt = 200
	maxJSONExcerpt    = 100
)

// APIError is returned when the service answered but reported a failure,
// the answer could not be decoded, or a required field was missing.
type APIError struct {
	// Code is showapi_res_code, or one of the Code* constants.
	Code int
	// Message is showapi_res_error or a locally generated description.
	Message string
	// HTTPStatus is the HTTP status code, zero when unknown.
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (http status %d, api code %d): %s", e.HTTPStatus, e.Code, e.Message)
}

// Is reports whether target is ErrMemobird.
func (e *APIError) Is(target error) bool { return target == ErrMemobird }

// NetworkError is returned for transport failures and non-2xx responses.
type NetworkError struct {
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// Body holds at most 200 bytes of the response body.
	Body string
	Err  error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("http error: status %d: %s", e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("http error: status %d", e.StatusCode)
	case e.Err != nil:
		return "network request failed: " + e.Err.Error()
	}
	return "network request failed"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMemobird.
func (e *NetworkError) Is(target error) bool { return target == ErrMemobird }

// Timeout reports whether the request failed because its deadline expired.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ContentError is returned when content could not be prepared for printing.
type ContentError struct {
	Op  string
	Err error
}

func (e *ContentError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ContentError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMemobird.
func (e *ContentError) Is(target error) bool { return target == ErrMemobird }

// ErrEmptyContent is wrapped by the ContentError returned for an empty payload.
var ErrEmptyContent = errors.New("cannot print empty content")

// excerpt returns at most n bytes of b, cut on a rune boundary.
func excerpt(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return string(b[:n]) + "..."
}
