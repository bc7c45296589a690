package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Error describes a failed exchange. StatusCode is zero when no HTTP
// response was received at all (DNS, TLS, connect, timeout, cancellation).
type Error struct {
	StatusCode int
	StatusText string
	Body       string
	Headers    http.Header
	RequestID  string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "transport: request failed"
	}
	if !e.HasResponse() {
		if e.StatusText == "" {
			return "transport: request failed"
		}
		return fmt.Sprintf("transport: request failed: %s", e.StatusText)
	}
	if e.Body == "" {
		return fmt.Sprintf("transport: api error status=%d text=%q", e.StatusCode, e.StatusText)
	}
	return fmt.Sprintf("transport: api error status=%d text=%q body=%q", e.StatusCode, e.StatusText, e.Body)
}

// Unwrap returns the lower-level cause of a failure without a response.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HasResponse reports whether the server answered with an HTTP status.
func (e *Error) HasResponse() bool {
	return e != nil && e.StatusCode != 0
}

// NewError builds Error from HTTP response and consumes response body.
func NewError(resp *http.Response, maxBodyBytes int64) *Error {
	if resp == nil {
		return &Error{}
	}

	bodyBytes, _ := ReadBodyLimited(resp.Body, maxBodyBytes)
	reqID := resp.Header.Get("X-Request-Id")
	if reqID == "" {
		reqID = resp.Header.Get("X-Trace-Id")
	}

	return &Error{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Body:       string(bodyBytes),
		Headers:    resp.Header.Clone(),
		RequestID:  reqID,
	}
}

// statusText extracts the reason phrase: "409 Conflict" -> "Conflict".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
