package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// MaxRedirects is the number of 301/302 hops followed before giving up.
const MaxRedirects = 5

var (
	// ErrTooManyRedirects indicates the redirect chain exceeded MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects (loop?)")
	// ErrMissingLocation indicates a 301/302 response without a Location header.
	ErrMissingLocation = errors.New("redirect without location header")
)

// Request is a single outbound call. Body is replayed on every redirect hop.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the final, non-redirect response with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client issues gateway calls, following 301/302 redirects itself so the
// method, headers and body survive each hop.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*options)

type options struct {
	cert      *tls.Certificate
	transport http.RoundTripper
	logger    *zap.Logger
}

// WithCertificate presents cert as the TLS client certificate.
func WithCertificate(cert tls.Certificate) Option {
	return func(o *options) { o.cert = &cert }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns a Client. No timeout is set; callers bound calls through the context.
func New(opts ...Option) *Client {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	transport := o.transport
	if transport == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if o.cert != nil {
			base.TLSClientConfig = &tls.Config{
				Certificates: []tls.Certificate{*o.cert},
				MinVersion:   tls.VersionTLS12,
			}
		}
		transport = base
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: o.logger,
	}
}

// Do performs req, following up to MaxRedirects 301/302 hops.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	target := req.URL
	for hops := 0; ; hops++ {
		resp, err := c.once(ctx, req, target)
		if err != nil {
			return Response{}, err
		}
		if resp.Status != http.StatusMovedPermanently && resp.Status != http.StatusFound {
			return resp, nil
		}

		location := resp.Header.Get("Location")
		if location == "" {
			return Response{}, fmt.Errorf("HTTP %d: %w", resp.Status, ErrMissingLocation)
		}
		if hops >= MaxRedirects {
			return Response{}, ErrTooManyRedirects
		}

		next, err := resolve(target, location)
		if err != nil {
			return Response{}, fmt.Errorf("invalid redirect location %q: %w", location, err)
		}
		c.logger.Info("following redirect",
			zap.Int("status", resp.Status),
			zap.String("location", next),
			zap.Int("hop", hops+1))
		target = next
	}
}

func (c *Client) once(ctx context.Context, req Request, target string) (Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", req.Method, httpReq.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
