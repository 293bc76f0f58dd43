package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/forbin-capital/forbin-go/internal/version"
)

// DefaultEndpoint is the production API root.
const DefaultEndpoint = "https://app.forbin-capital.com/api"

// Client provides access to the Forbin REST API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string

	mu    sync.RWMutex
	token string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. The client is unauthenticated until
// Login succeeds or a token is supplied with WithToken.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    slog.Default(),
		userAgent: version.UserAgent(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Connect creates a client and logs in with the given credentials.
func Connect(ctx context.Context, endpoint, username, password string, opts ...ClientOption) (*Client, error) {
	c := NewClient(endpoint, opts...)
	if err := c.Login(ctx, username, password); err != nil {
		return nil, err
	}
	return c, nil
}

// WithEndpoint overrides the endpoint passed to NewClient.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets a previously issued token, skipping Login.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Endpoint returns the API root the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Token returns the current token, empty when unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authenticated reports whether the client holds a token.
func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}
