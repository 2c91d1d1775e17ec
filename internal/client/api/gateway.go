package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/docsmith/internal/logging"
	"github.com/dmitrijs2005/docsmith/internal/metrics"
	"github.com/dmitrijs2005/docsmith/internal/requestid"
)

// UnauthorizedHandler is told which token a protected request was rejected with.
type UnauthorizedHandler func(ctx context.Context, token string)

type Gateway struct {
	baseURL        string
	httpClient     *http.Client
	transport      *bearerTransport
	log            logging.Logger
	metrics        *metrics.Metrics
	onUnauthorized UnauthorizedHandler
	opener         Opener
	// timeout is applied after all options so WithHTTPClient cannot drop it.
	timeout *time.Duration
}

type Option func(*Gateway)

// WithHTTPClient sets the client used for requests. Its Transport is
// wrapped, not replaced.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		cp := *c
		g.httpClient = &cp
	}
}

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = &d }
}

func WithTokenSource(src TokenSource) Option {
	return func(g *Gateway) { g.transport.source = src }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(g *Gateway) { g.onUnauthorized = h }
}

func WithOpener(o Opener) Option {
	return func(g *Gateway) { g.opener = o }
}

// NewGateway returns a Gateway for the backend rooted at baseURL,
// e.g. "http://localhost:8000/api".
func NewGateway(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		transport:  &bearerTransport{},
		log:        logging.Nop(),
	}

	for _, opt := range opts {
		opt(g)
	}
	if g.timeout != nil {
		g.httpClient.Timeout = *g.timeout
	}

	base := g.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	g.transport.base = base
	g.httpClient.Transport = g.transport
	g.log = g.log.With("component", "gateway")

	return g
}

// SetTokenSource binds the credential source after construction; the session
// store and the gateway depend on each other.
func (g *Gateway) SetTokenSource(src TokenSource) {
	g.transport.source = src
}

func (g *Gateway) SetUnauthorizedHandler(h UnauthorizedHandler) {
	g.onUnauthorized = h
}

func (g *Gateway) SetOpener(o Opener) {
	g.opener = o
}

func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// call describes one backend round trip.
type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// protected marks endpoints that require a session; only their 401s
	// invalidate the held token.
	protected bool
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

// send performs c and returns the raw response for 2xx statuses. Any other
// status is read into an *Error and the body closed.
func (g *Gateway) send(ctx context.Context, c call) (*http.Response, error) {
	return g.sendURL(ctx, c, g.baseURL+c.path)
}

func (g *Gateway) sendURL(ctx context.Context, c call, rawURL string) (*http.Response, error) {
	ctx, reqID := requestid.Ensure(ctx)
	token := g.transport.token(ctx)
	ctx = WithToken(ctx, token)

	if len(c.query) > 0 {
		rawURL += "?" + c.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, c.method, rawURL, c.body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}

	log := g.log.With("op", c.op, "request_id", reqID)
	start := time.Now()

	resp, err := g.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		g.observe(c.op, 0, elapsed, "transport")
		log.Warn(ctx, "request failed", "method", c.method, "path", c.path, "error", err)
		return nil, fmt.Errorf("%s %s: %w: %w", c.method, c.path, ErrUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		g.observe(c.op, resp.StatusCode, elapsed, "")
		log.Debug(ctx, "request finished", "method", c.method, "path", c.path, "status", resp.StatusCode, "elapsed", elapsed)
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	apiErr := &Error{
		Op:         c.op,
		Method:     c.method,
		Path:       c.path,
		StatusCode: resp.StatusCode,
		Detail:     parseDetail(body),
		Body:       body,
	}

	g.observe(c.op, resp.StatusCode, elapsed, apiErr.Kind())
	log.Warn(ctx, "backend returned error", "method", c.method, "path", c.path, "status", resp.StatusCode, "detail", apiErr.Detail)

	if resp.StatusCode == http.StatusUnauthorized && c.protected && token != "" && g.onUnauthorized != nil {
		g.onUnauthorized(ctx, token)
	}

	return nil, apiErr
}

func (g *Gateway) observe(op string, code int, d time.Duration, errKind string) {
	if g.metrics == nil {
		return
	}
	g.metrics.ObserveRequest(op, code, d)
	if errKind != "" {
		g.metrics.RecordError(op, errKind)
	}
}

// do performs c and decodes a JSON response into out (nil discards the body).
func (g *Gateway) do(ctx context.Context, c call, out any) error {
	resp, err := g.send(ctx, c)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty response body", c.op)
		}
		return fmt.Errorf("%s: decode response: %w", c.op, err)
	}
	return nil
}

func pathID(id string) string {
	return url.PathEscape(id)
}
