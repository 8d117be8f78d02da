// Package gateway is the HTTP client for the remote commerce gateway. The
// gateway is ground truth: every mutating call returns the authoritative
// server state, which the stores adopt wholesale.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/0097eo/ideal-mobile-sub000/internal/credential"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/cart"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/checkout"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/order"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/wishlist"
	"github.com/0097eo/ideal-mobile-sub000/pkg/httpclient"
)

// Compile-time checks: the client satisfies every consumer-side interface.
var (
	_ cart.Gateway              = (*Client)(nil)
	_ wishlist.Gateway          = (*Client)(nil)
	_ order.Gateway             = (*Client)(nil)
	_ checkout.OrderCreator     = (*Client)(nil)
	_ checkout.PaymentInitiator = (*Client)(nil)
)

// maxBodySize caps response bodies read from the gateway.
const maxBodySize = 1 << 20

// Options configures the Client.
type Options struct {
	// BaseURL is the gateway root, without a trailing slash.
	BaseURL string
	// Credentials supplies the bearer token attached to every request.
	Credentials credential.Provider
	// Timeout bounds each request; zero means 15s.
	Timeout time.Duration
	// UserAgent is sent on every request; empty means "storefront-client".
	UserAgent string
	// TracerProvider and MeterProvider instrument the transport; nil values
	// fall back to the otel globals.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Transport overrides the HTTP transport; used in tests. When nil the
	// default transport is wrapped with request id, user agent, logging, and
	// otel instrumentation.
	Transport http.RoundTripper
}

// Client talks to the remote commerce gateway. All methods are safe for
// concurrent use.
type Client struct {
	base  string
	http  *http.Client
	creds credential.Provider
	lg    *zap.Logger
}

// NewClient creates a gateway Client.
func NewClient(opts Options, lg *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "storefront-client"
	}

	transport := opts.Transport
	if transport == nil {
		transport = httpclient.Wrap(http.DefaultTransport,
			httpclient.RequestID(),
			httpclient.UserAgent(ua),
			httpclient.LogRequests(),
		)
		otelOpts := []otelhttp.Option{}
		if opts.TracerProvider != nil {
			otelOpts = append(otelOpts, otelhttp.WithTracerProvider(opts.TracerProvider))
		}
		if opts.MeterProvider != nil {
			otelOpts = append(otelOpts, otelhttp.WithMeterProvider(opts.MeterProvider))
		}
		transport = otelhttp.NewTransport(transport, otelOpts...)
	}

	return &Client{
		base:  strings.TrimRight(opts.BaseURL, "/"),
		http:  &http.Client{Timeout: timeout, Transport: transport},
		creds: opts.Credentials,
		lg:    lg.Named("gateway"),
	}
}

// do performs one authorized gateway call: resolve the bearer token (absence
// short-circuits with ErrNoCredential before any request), send the JSON
// body, map transport failures to NetworkError and non-2xx responses to
// RemoteError, and decode the success body into out when given; a success
// body that fails to decode maps to DecodeError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.creds.Token(ctx)
	if err != nil {
		if errors.Is(err, credential.ErrNoToken) {
			return ErrNoCredential
		}
		return errors.Wrap(err, "resolve credential")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := remoteMessage(data)
		if msg == "" {
			msg = genericMessage
		}
		return &RemoteError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &DecodeError{Err: err}
		}
	}
	return nil
}
