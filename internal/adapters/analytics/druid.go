package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	perr "datalens/internal/platform/errors"
	"datalens/internal/platform/logger"
	pnet "datalens/internal/platform/net"
)

// Service names an upstream gateway service
type Service string

// Known gateway services
const (
	ServiceOnboarding   Service = "onboarding"
	ServiceIoTAnalytics Service = "iot-analytics"
	ServiceAuth         Service = "auth"
)

// Gateway paths
const (
	pathQuery   = "/jviz/analytics/druid/query"
	pathColumns = "/jviz/analytics/druid/custom-list-keys"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUA        = "datalens-api"
	defaultMaxRetry  = 3
	defaultRetryBase = 250 * time.Millisecond
	maxBackoff       = 30 * time.Second
	maxErrBody       = 64 << 10
)

// Options configures the Client
type Options struct {
	// Services maps each gateway service to its base URL
	Services map[Service]string

	// Token is sent when the inbound request carries no bearer token
	Token string

	UserAgent string
	Timeout   time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client talks to the Druid analytics gateway over REST
type Client struct {
	http     *http.Client
	opts     Options
	attempts atomic.Int64
	log      logger.Logger
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

var _ Executor = (*Client)(nil)

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	svcs := make(map[Service]string, len(o.Services))
	for k, v := range o.Services {
		svcs[k] = strings.TrimRight(strings.TrimSpace(v), "/")
	}
	o.Services = svcs

	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("druid"),
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Attempts returns how many HTTP attempts the client has made
func (c *Client) Attempts() int64 { return c.attempts.Load() }

// Payload is a decoded upstream response
type Payload struct {
	Status int
	JSON   json.RawMessage
	Text   string
}

// IsJSON reports whether the upstream answered with a JSON body
func (p Payload) IsJSON() bool { return len(p.JSON) > 0 }

// Query posts sql to the gateway and decodes the row set
func (c *Client) Query(ctx context.Context, sql string) (rowset.Set, error) {
	p, err := c.Do(ctx, ServiceIoTAnalytics, http.MethodPost, pathQuery, map[string]string{"queryBody": sql})
	if err != nil {
		return rowset.Set{}, err
	}
	body := []byte(p.JSON)
	if !p.IsJSON() {
		body = []byte(p.Text)
	}
	set, err := rowset.DecodeJSON(bytes.NewReader(body))
	if err != nil {
		return rowset.Set{}, perr.Wrap(err, perr.ErrorCodeUpstream, "druid query returned an unreadable body")
	}
	return set, nil
}

// Columns lists the keys of a dataset and classifies them by name
func (c *Client) Columns(ctx context.Context, dataset string) ([]querygen.Column, error) {
	path := pathColumns + "?tableName=" + url.QueryEscape(dataset)
	p, err := c.Do(ctx, ServiceIoTAnalytics, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Data struct {
			List []string `json:"list"`
		} `json:"data"`
	}
	if p.IsJSON() {
		if err := json.Unmarshal(p.JSON, &env); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "druid column listing is not an object")
		}
	}
	return querygen.ClassifyAll(env.Data.List), nil
}

// Do issues a request with auth headers and retries, decoding JSON or text bodies
func (c *Client) Do(ctx context.Context, svc Service, method, path string, body any) (Payload, error) {
	base, ok := c.opts.Services[svc]
	if !ok || base == "" {
		return Payload{}, perr.Unavailablef("analytics service %q is not configured", svc)
	}
	var raw []byte
	if body != nil && method != http.MethodGet {
		b, err := json.Marshal(body)
		if err != nil {
			return Payload{}, perr.Wrap(err, perr.ErrorCodeJSON, "encode upstream request")
		}
		raw = b
	}

	target := base + path
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return Payload{}, err
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bodyReader(raw))
		if err != nil {
			return Payload{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "druid new request failed")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.opts.UserAgent)
		if tok := c.token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}

		c.attempts.Add(1)
		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return Payload{}, ctx.Err()
			}
			if !c.shouldRetry(attempt) {
				return Payload{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "druid %s %s failed", method, path)
			}
			if err := c.wait(ctx, attempt, "druid transport error retrying"); err != nil {
				return Payload{}, err
			}
			attempt++
			continue
		}

		c.log.Debug().
			Str("service", string(svc)).
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("latency", lat).
			Msg("druid http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return decodePayload(resp)
		case retryableStatus(resp.StatusCode) && c.shouldRetry(attempt):
			_ = drainAndClose(resp.Body)
			if err := c.wait(ctx, attempt, "druid transient status retrying"); err != nil {
				return Payload{}, err
			}
			attempt++
			continue
		default:
			return Payload{}, statusError(resp)
		}
	}
}

// token prefers the caller's forwarded bearer over the static one
func (c *Client) token(ctx context.Context) string {
	if t := pnet.Bearer(ctx); t != "" {
		return t
	}
	return c.opts.Token
}

func (c *Client) wait(ctx context.Context, attempt int, msg string) error {
	back := c.backoff(attempt)
	c.log.Warn().Dur("retry_in", back).Int("attempt", attempt).Msg(msg)
	return c.sleep(ctx, back)
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func bodyReader(raw []byte) io.Reader {
	if raw == nil {
		return nil
	}
	return bytes.NewReader(raw)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func decodePayload(resp *http.Response) (Payload, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read upstream body")
	}
	p := Payload{Status: resp.StatusCode}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		trimmed := bytes.TrimSpace(b)
		if len(trimmed) > 0 && !json.Valid(trimmed) {
			return Payload{}, perr.JSONErrf("upstream sent invalid json")
		}
		p.JSON = trimmed
		return p, nil
	}
	p.Text = string(b)
	return p, nil
}
