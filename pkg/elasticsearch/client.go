package elasticsearch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/searchkit/pkg/logger"
)

// Client is a topology-aware Elasticsearch cluster client. It is safe for
// concurrent use: the host list is written once during construction and only
// read afterwards, and all per-query state (scroll cursors, shard
// assignments) is owned by the caller.
type Client struct {
	os            *opensearch.Client
	transport     *http.Transport
	log           *slog.Logger
	scrollSize    int
	scrollTimeout time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithLogger sets the structured logger used for discovery and scroll
// lifecycle events. Nil loggers are ignored; the default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a cluster client from cfg. Construction builds the TLS
// configuration (when enabled), connects to the configured seed host,
// discovers the data-holding nodes, rebuilds the transport host list from the
// discovered addresses, and verifies cluster reachability.
// It returns an error if any of these steps fail.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	c := &Client{
		log:           slog.New(slog.DiscardHandler),
		scrollSize:    cfg.ScrollSize,
		scrollTimeout: cfg.ScrollTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	var tlsConfig *tls.Config
	if cfg.TLSEnabled {
		var err error
		tlsConfig, err = NewTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
	}
	c.transport = newHTTPTransport(cfg, tlsConfig)

	seed, err := newTransportClient(cfg, c.transport, []string{cfg.seedAddress()})
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	c.os = seed

	// Discover the rest of the cluster and point the transport at every
	// data node using the configured scheme.
	// TODO: refresh the host list periodically instead of only at startup.
	nodes, err := c.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrNoDataNodes
	}
	addresses := make([]string, 0, len(nodes))
	for _, node := range sortedNodes(nodes) {
		addresses = append(addresses, fmt.Sprintf("%s://%s", cfg.scheme(), node.Address))
	}
	full, err := newTransportClient(cfg, c.transport, addresses)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	c.os = full

	if err := Healthcheck(c)(ctx); err != nil {
		return nil, err
	}

	c.log.InfoContext(ctx, "elasticsearch cluster discovered",
		logger.Component("elasticsearch"),
		slog.Int("data_nodes", len(nodes)))

	return c, nil
}

// Close releases the underlying connection pool. The client must not be used
// after Close.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

func newHTTPTransport(cfg Config, tlsConfig *tls.Config) *http.Transport {
	return &http.Transport{
		DialContext:           (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
		TLSClientConfig:       tlsConfig,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		MaxIdleConnsPerHost:   10,
	}
}

func newTransportClient(cfg Config, transport http.RoundTripper, addresses []string) (*opensearch.Client, error) {
	ocfg := opensearch.Config{
		Addresses:    addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		Transport:    transport,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.DisableRetry,
	}
	if !cfg.DisableRetry && cfg.MaxRetries > 0 && cfg.MaxRetryTime > 0 {
		// Spread the total retry budget evenly across attempts.
		wait := cfg.MaxRetryTime / time.Duration(cfg.MaxRetries)
		ocfg.RetryBackoff = func(int) time.Duration { return wait }
	}
	return opensearch.NewClient(ocfg)
}

// readResponse classifies a transport result and returns the raw body of a
// successful response. Transport errors and non-2xx statuses map to
// ErrConnectionFailed, unreadable bodies to ErrInvalidResponse.
func (c *Client) readResponse(res *opensearchapi.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	defer res.Body.Close()
	body, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, errors.Join(ErrInvalidResponse, readErr)
	}
	if res.IsError() {
		return nil, errors.Join(ErrConnectionFailed, fmt.Errorf("unexpected status %s", res.Status()))
	}
	return body, nil
}
