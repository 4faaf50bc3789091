package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/pkg/clients"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-ID"
	bearerPrefix    = "Bearer "
)

// Request describes one backend call relative to the configured base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Timeout overrides the client default for this call.
	Timeout time.Duration
	// Anonymous requests never carry the session token.
	Anonymous bool
}

type SessionStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}

type Options struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	transport  clients.HTTPClientI
	store      SessionStore
	normalizer *Normalizer
}

func New(opts Options, transport clients.HTTPClientI, store SessionStore, normalizer *Normalizer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		transport:  transport,
		store:      store,
		normalizer: normalizer,
	}
}

// Do sends r and decodes the envelope data into out. It returns nil with out
// populated, or one of *NetworkError, *SessionExpiredError, *ApplicationError.
func (c *Client) Do(ctx context.Context, r Request, out any) (err error) {
	start := time.Now()
	defer func() {
		observe(r.Method, err, time.Since(start))
	}()

	timeout := c.timeout
	if r.Timeout > 0 {
		timeout = r.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	status, body, _, err := c.transport.Send(req)
	if err != nil {
		zap.L().Warn("backend unreachable",
			zap.String("method", r.Method), zap.String("path", r.Path), zap.Error(err))
		return &NetworkError{Method: r.Method, URL: req.URL.String(), Err: err}
	}

	zap.L().Debug("backend response",
		zap.String("method", r.Method),
		zap.String("path", r.Path),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", req.Header.Get(headerRequestID)),
	)

	return c.normalizer.Normalize(ctx, r, status, body, out)
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if r.Body != nil {
		raw, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("can't encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.url(r), body)
	if err != nil {
		return nil, fmt.Errorf("can't build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())

	if !r.Anonymous {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", bearerPrefix+token)
		}
	}
	return req, nil
}

func (c *Client) url(r Request) string {
	u := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

func (c *Client) token(ctx context.Context) string {
	s, err := c.store.Load(ctx)
	if err != nil {
		zap.L().Warn("can't load session, sending request without token", zap.Error(err))
		return ""
	}
	return s.Token
}

func Get(path string, query url.Values) Request {
	return Request{Method: http.MethodGet, Path: path, Query: query}
}

func Post(path string, body any) Request {
	return Request{Method: http.MethodPost, Path: path, Body: body}
}

func Put(path string, body any) Request {
	return Request{Method: http.MethodPut, Path: path, Body: body}
}

func Delete(path string) Request {
	return Request{Method: http.MethodDelete, Path: path}
}
