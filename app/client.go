package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

var ErrConnection = errors.New("could not connect to server")

type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Client talks to the RedTeamCoin REST API.
type Client struct {
	rest   *resty.Client
	logger zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetLogger(restyLogger{logger: logger})

	if !cfg.VerifySSL {
		rest.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}

	return &Client{
		rest:   rest,
		logger: logger,
	}
}

// HTTPClient exposes the underlying client, mostly so tests can intercept it.
func (c *Client) HTTPClient() *http.Client {
	return c.rest.GetClient()
}

func (c *Client) Get(ctx context.Context, path string, headers Headers) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, headers, nil)
}

func (c *Client) Post(ctx context.Context, path string, headers Headers, body interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, headers, body)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	headers Headers,
	body interface{},
) (*Response, error) {
	if err := headers.Validate(); err != nil {
		return nil, err
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeaders(headers)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	res, err := req.Execute(method, path)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")

		return nil, classifyError(method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", res.Request.URL).
		Int("status", res.StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request done")

	return &Response{
		StatusCode: res.StatusCode(),
		Body:       res.Body(),
	}, nil
}

func classifyError(method, path string, err error) error {
	if isConnectionError(err) {
		return fmt.Errorf("%w: %s %s: %w", ErrConnection, method, path, err)
	}

	return fmt.Errorf("client: error making http request %s %s: %w", method, path, err)
}

// isConnectionError reports failures to reach or keep talking to the server:
// dial and DNS errors, dropped connections and failed TLS handshakes.
func isConnectionError(err error) bool {
	var (
		opErr     *net.OpError
		dnsErr    *net.DNSError
		recordErr tls.RecordHeaderError
		verifyErr *tls.CertificateVerificationError
	)

	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, syscall.ECONNRESET):
		return true
	case errors.As(err, &recordErr), errors.As(err, &verifyErr):
		return true
	}

	return false
}

// restyLogger routes resty's own messages into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
