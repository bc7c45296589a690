package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultErrorBodyLimit int64 = 4096

	// ContentTypeForm is sent on GET requests even though they carry no body.
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Credentials are sent with every request as Basic authentication.
type Credentials struct {
	Username string
	Password string
}

// HeaderValue returns the Authorization header value for c.
func (c Credentials) HeaderValue() string {
	raw := c.Username + ":" + c.Password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// Request describes a single API exchange. Body is kept as bytes so callers
// can send the same payload again on a later attempt.
type Request struct {
	Method      string
	URL         string
	Credentials Credentials
	ContentType string
	Body        []byte
}

// Client performs one authenticated HTTP exchange per Do call. It holds no
// credentials of its own and is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	logger         logrus.FieldLogger
	baseHeaders    http.Header
	errorBodyLimit int64
}

// Option mutates Client behavior.
type Option func(*Client)

// New creates a transport client with sane defaults.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		baseHeaders:    http.Header{},
		errorBodyLimit: defaultErrorBodyLimit,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.baseHeaders == nil {
		c.baseHeaders = http.Header{}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.errorBodyLimit <= 0 {
		c.errorBodyLimit = defaultErrorBodyLimit
	}
	if c.logger == nil {
		c.logger = DiscardLogger()
	}

	return c
}

// WithHTTPClient injects custom HTTP client instance.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets a client-level timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout <= 0 {
			return
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithLogger configures request logging.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBaseHeaders applies headers to every request unless already present.
func WithBaseHeaders(headers http.Header) Option {
	return func(c *Client) {
		if len(headers) == 0 {
			return
		}
		if c.baseHeaders == nil {
			c.baseHeaders = http.Header{}
		}
		for key, values := range headers {
			for _, value := range values {
				c.baseHeaders.Add(key, value)
			}
		}
	}
}

// WithErrorBodyLimit changes max amount of response body captured in Error.
func WithErrorBodyLimit(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.errorBodyLimit = limit
		}
	}
}

// Do sends r once and returns the response body of a 2xx response.
// Every failure is reported as *Error.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	if c == nil {
		return nil, errors.New("transport: client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, &Error{StatusText: err.Error(), Err: fmt.Errorf("transport: create request: %w", err)}
	}

	contentType := r.ContentType
	if contentType == "" && method == http.MethodGet {
		contentType = ContentTypeForm
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", r.Credentials.HeaderValue())
	c.applyBaseHeaders(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Debugf("transport: %s %s failed", method, req.URL.Redacted())
		return nil, &Error{StatusText: err.Error(), Err: err}
	}
	defer drainAndClose(resp.Body)

	c.logger.Debugf("transport: %s %s -> %d", method, req.URL.Redacted(), resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewError(resp, c.errorBodyLimit)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{StatusText: err.Error(), Err: fmt.Errorf("transport: read response body: %w", err)}
	}
	return data, nil
}

func (c *Client) applyBaseHeaders(headers http.Header) {
	for key, values := range c.baseHeaders {
		if headers.Get(key) != "" {
			continue
		}
		for _, value := range values {
			headers.Add(key, value)
		}
	}
}
