package donedone

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SeniorPomidorro/donedone-go-kit/pkg/formdata"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/result"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/retry"
	"github.com/SeniorPomidorro/donedone-go-kit/pkg/transport"
)

const apiPrefix = "issuetracker/api/v2/"

// Option configures DoneDone client.
type Option func(*config)

type config struct {
	transport *transport.Client
	retry     *retry.Policy
	logger    logrus.FieldLogger
	metrics   *Metrics
}

// Client is DoneDone issue tracker API client. It keeps no per-account
// state: base URL and credentials travel with each call.
type Client struct {
	transport *transport.Client
	retry     retry.Policy
	logger    logrus.FieldLogger
	metrics   *Metrics

	projects *ProjectsService
	issues   *IssuesService
}

// NewClient creates DoneDone client.
func NewClient(opts ...Option) *Client {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.logger == nil {
		cfg.logger = transport.DiscardLogger()
	}
	if cfg.transport == nil {
		cfg.transport = transport.New(transport.WithLogger(cfg.logger))
	}
	policy := retry.DefaultPolicy()
	if cfg.retry != nil {
		policy = *cfg.retry
	}
	if policy.Logger == nil {
		policy.Logger = cfg.logger
	}

	client := &Client{
		transport: cfg.transport,
		retry:     policy,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
	}
	client.projects = &ProjectsService{client: client}
	client.issues = &IssuesService{client: client}

	return client
}

// WithTransport injects shared transport.
func WithTransport(tr *transport.Client) Option {
	return func(cfg *config) {
		if tr != nil {
			cfg.transport = tr
		}
	}
}

// WithRetryPolicy overrides the conflict retry policy.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(cfg *config) {
		cfg.retry = &policy
	}
}

// WithLogger sets the logger used by the client and its default transport.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMetrics records request outcomes and conflict retries.
func WithMetrics(metrics *Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = metrics
	}
}

// Projects returns projects API service.
func (c *Client) Projects() *ProjectsService {
	return c.projects
}

// Issues returns issues API service.
func (c *Client) Issues() *IssuesService {
	return c.issues
}

// BuildURL joins baseURL and resourcePath with exactly one slash between
// the base and the API prefix.
func BuildURL(baseURL, resourcePath string) string {
	apiURL := baseURL
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	return apiURL + apiPrefix + strings.TrimLeft(resourcePath, "/")
}

func endpoint(baseURL, resourcePath string) (string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return "", errors.New("donedone: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("donedone: parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("donedone: base URL must include scheme and host")
	}
	return BuildURL(baseURL, resourcePath), nil
}

// call is the single pipeline behind every operation: resolve the endpoint,
// encode the form once, then send and decode under the retry policy.
func call[T any](
	ctx context.Context,
	c *Client,
	operation string,
	baseURL string,
	creds Credentials,
	resourcePath string,
	form *form,
	decode func([]byte) (T, error),
) result.Result[T] {
	log := c.logger.WithField("operation", operation)

	target, err := endpoint(baseURL, resourcePath)
	if err != nil {
		log.WithError(err).Warn("donedone: invalid endpoint")
		c.metrics.observe(operation, result.KindFailed)
		return result.Failed[T](err.Error())
	}

	req := transport.Request{
		Method:      http.MethodGet,
		URL:         target,
		Credentials: creds,
	}
	if form != nil {
		boundary, body := formdata.Encode(form.fields, form.file)
		req.Method = http.MethodPost
		req.ContentType = formdata.ContentType(boundary)
		req.Body = body
	}

	policy := c.retry
	policy.Logger = policy.Logger.WithField("operation", operation)
	notify := policy.Notify
	policy.Notify = func(n int, err error, delay time.Duration) {
		c.metrics.conflict(operation)
		if notify != nil {
			notify(n, err, delay)
		}
	}

	res := retry.Do(ctx, policy, func(ctx context.Context) (T, error) {
		body, err := c.transport.Do(ctx, req)
		if err != nil {
			var zero T
			return zero, err
		}
		return decode(body)
	})

	c.metrics.observe(operation, res.Kind())
	if !res.IsSuccess() {
		log.WithField("outcome", res.Kind().String()).Debugf("donedone: %s %s: %s", req.Method, target, res.Message())
	}
	return res
}

type form struct {
	fields map[string]string
	file   formdata.File
}

func failed[T any](c *Client, operation string, err error) result.Result[T] {
	c.logger.WithField("operation", operation).WithError(err).Warn("donedone: invalid request")
	c.metrics.observe(operation, result.KindFailed)
	return result.Failed[T](err.Error())
}
