package clients

import (
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = time.Second * 15

var ErrFailedCloseResponseBody = errors.New("failed close response body")

type HTTPClientI interface {
	Do(req *http.Request) (*http.Response, error)
	Send(req *http.Request) (statusCode int, respBody []byte, respHeaders http.Header, err error)
}

type HTTPClientAdapter struct {
	client *http.Client
}

func (h *HTTPClientAdapter) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

// Send issues req and reads the whole response body.
func (h *HTTPClientAdapter) Send(req *http.Request) (statusCode int, respBody []byte, respHeaders http.Header, err error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return
	}

	// A close failure only matters when the body wasn't fully read.
	defer func() {
		e := resp.Body.Close()
		if e == nil {
			return
		}
		if err != nil {
			err = errors.Join(err, ErrFailedCloseResponseBody)
			return
		}
		zap.L().Debug("failed close response body", zap.String("url", req.URL.String()), zap.Error(e))
	}()

	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	statusCode = resp.StatusCode
	respHeaders = resp.Header

	return
}

type HTTPClient struct {
	client HTTPClientI
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		client: &HTTPClientAdapter{
			client: &http.Client{Timeout: timeout},
		},
	}
}

func (h *HTTPClient) Send(req *http.Request) (statusCode int, respBody []byte, respHeaders http.Header, err error) {
	return h.client.Send(req)
}

func (h *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

func (h *HTTPClient) SetClient(mock HTTPClientI) {
	h.client = mock
}
