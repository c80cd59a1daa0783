package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-api-client/internal/logger"
	"github.com/MKhiriev/go-api-client/internal/store"
)

// DefaultBearerTokenKey is the storage key used when [Config.BearerTokenKey]
// is empty.
const DefaultBearerTokenKey = "bearer_token"

// Config is the construction-time configuration of a [Client]. It is copied
// by [New] and never changes afterwards.
type Config struct {
	// Host is the base URL every path is resolved against,
	// e.g. "https://api.example.com".
	Host string
	// BearerTokenKey is the storage key holding the bearer token.
	BearerTokenKey string
	// RequestTimeout bounds each request made by the default transport.
	// Zero means no timeout.
	RequestTimeout time.Duration
}

// Option customises a [Client] during [New].
type Option func(*Client)

// WithTransport replaces the default resty-backed transport.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the logger used for per-call debug entries.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client is an HTTP API client bound to one host and one token storage key.
// It is safe for concurrent use.
type Client struct {
	host      string
	tokenKey  string
	storage   store.Storage
	transport Transport
	logger    *logger.Logger

	// Unauthenticated sends requests without an Authorization header.
	Unauthenticated *Requester
	// Authenticated attaches the stored bearer token, when there is one.
	Authenticated *Requester
}

// New validates cfg and constructs a [Client] reading its bearer token from
// storage.
//
// Returns [ErrMissingHost] or [ErrInvalidHost] (wrapped) for an unusable host,
// and [ErrNilStorage] when storage is nil.
func New(cfg Config, storage store.Storage, opts ...Option) (*Client, error) {
	host, err := normalizeHost(cfg.Host)
	if err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, ErrNilStorage
	}

	tokenKey := strings.TrimSpace(cfg.BearerTokenKey)
	if tokenKey == "" {
		tokenKey = DefaultBearerTokenKey
	}

	c := &Client{
		host:     host,
		tokenKey: tokenKey,
		storage:  storage,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewRestyTransport(cfg.RequestTimeout, c.logger)
	}

	c.Unauthenticated = &Requester{client: c}
	c.Authenticated = &Requester{client: c, authenticated: true}

	return c, nil
}

func normalizeHost(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingHost
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidHost, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidHost, raw)
	}

	return strings.TrimRight(raw, "/"), nil
}

// Host returns the normalised base URL.
func (c *Client) Host() string {
	return c.host
}

// BearerTokenKey returns the storage key the bearer token is read from.
func (c *Client) BearerTokenKey() string {
	return c.tokenKey
}

// AbsolutePath joins the host and path with exactly one slash between them.
// path must be relative; the verbs reject absolute URLs with
// [ErrAbsolutePath].
func (c *Client) AbsolutePath(path string) string {
	return c.host + "/" + strings.TrimLeft(path, "/")
}

// BearerToken reads the token from storage. ok is false when no token is
// stored. The value is never cached; every call hits the storage.
func (c *Client) BearerToken(ctx context.Context) (token string, ok bool, err error) {
	token, ok, err = c.storage.GetItem(ctx, c.tokenKey)
	if err != nil {
		return "", false, fmt.Errorf("read bearer token: %w", err)
	}
	return token, ok, nil
}

func isAbsoluteURL(path string) bool {
	if strings.HasPrefix(path, "//") {
		return true
	}
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
