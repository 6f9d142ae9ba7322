package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/uniclear/clearance/pkg/logging"
	"github.com/uniclear/clearance/pkg/soap"
	"github.com/uniclear/clearance/pkg/util"
)

// MaxResponseSize caps how much of a response body is read.
const MaxResponseSize = 10 << 20

// Transport delivers a request envelope and returns the raw response.
type Transport interface {
	Send(ctx context.Context, envelope string) (string, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, envelope string) (string, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, envelope string) (string, error) {
	return f(ctx, envelope)
}

// HTTPTransport POSTs envelopes to a SOAP endpoint. Each Send is exactly
// one HTTP exchange.
type HTTPTransport struct {
	URL       string
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// NewHTTPTransport creates a transport for url with a per-request timeout.
func NewHTTPTransport(url string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		URL:       url,
		Client:    &http.Client{Timeout: timeout},
		UserAgent: "clearance-client",
		Logger:    logging.Nop(),
	}
}

// Send posts envelope and returns the response body. A non-2xx status is
// a *TransportError carrying a truncated copy of the body.
func (t *HTTPTransport) Send(ctx context.Context, envelope string) (string, error) {
	logger := t.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, strings.NewReader(envelope))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", soap.ContentType)
	req.Header.Set("Accept", "text/xml")
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return "", &TransportError{URL: t.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", &TransportError{URL: t.URL, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	logger.Debug("exchange finished",
		"url", t.URL,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{
			URL:        t.URL,
			StatusCode: resp.StatusCode,
			Body:       util.TruncateBody(string(data), 512),
		}
	}
	return string(data), nil
}
