package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// CodeOK is the only envelope code treated as success.
const CodeOK = 0

type Envelope struct {
	Code    *int            `json:"code"`
	Msg     string          `json:"msg,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e Envelope) Text() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}

type SessionClearer interface {
	Clear(ctx context.Context) error
}

// Navigator performs the client-side redirect after a forced logout.
type Navigator interface {
	Redirect(ctx context.Context, path string)
}

type nopNavigator struct{}

func (nopNavigator) Redirect(context.Context, string) {}

type Normalizer struct {
	store     SessionClearer
	nav       Navigator
	loginPath string
}

func NewNormalizer(store SessionClearer, nav Navigator, loginPath string) *Normalizer {
	if nav == nil {
		nav = nopNavigator{}
	}
	return &Normalizer{
		store:     store,
		nav:       nav,
		loginPath: loginPath,
	}
}

// Normalize turns a transport response into data decoded into out, or into
// exactly one typed error.
func (n *Normalizer) Normalize(ctx context.Context, req Request, status int, body []byte, out any) error {
	if status == http.StatusUnauthorized {
		if req.Anonymous {
			// No token was sent, so there is no session to expire.
			return rejected(body)
		}
		n.expire(ctx)
		return &SessionExpiredError{Method: req.Method, Path: req.Path}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Code == nil {
		zap.L().Warn("backend returned a non-envelope body",
			zap.String("path", req.Path), zap.Int("status", status), zap.Error(err))
		code, msg := CodeMalformedResponse, "malformed response"
		if status >= http.StatusBadRequest {
			code, msg = status, http.StatusText(status)
		}
		return &ApplicationError{Code: code, Message: msg}
	}

	if *env.Code != CodeOK {
		return &ApplicationError{Code: *env.Code, Message: env.Text()}
	}

	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		zap.L().Error("can't decode envelope data", zap.String("path", req.Path), zap.Error(err))
		return &ApplicationError{Code: CodeMalformedData, Message: "unexpected response data"}
	}
	return nil
}

func rejected(body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Text() != "" {
		return &ApplicationError{Code: http.StatusUnauthorized, Message: env.Text()}
	}
	return &ApplicationError{Code: http.StatusUnauthorized, Message: http.StatusText(http.StatusUnauthorized)}
}

func (n *Normalizer) expire(ctx context.Context) {
	// Clear must run even when the request context is already done.
	if err := n.store.Clear(context.WithoutCancel(ctx)); err != nil {
		zap.L().Error("can't clear expired session", zap.Error(err))
	}
	zap.L().Info("session expired, redirecting to login", zap.String("to", n.loginPath))
	n.nav.Redirect(ctx, n.loginPath)
}
