// Package client is the public entry point of the Forbin API library.
//
//	c, err := client.Connect(ctx, "alice", "secret")
//	if err != nil {
//		return err
//	}
//	challenges, err := c.Challenges(ctx)
package client

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/forbin-capital/forbin-go/internal/api"
	"github.com/forbin-capital/forbin-go/internal/model"
)

type (
	ClientOption = api.ClientOption

	APIError       = api.APIError
	TransportError = api.TransportError
	Record         = api.Record

	ID          = model.ID
	Resource    = model.Resource
	Row         = model.Row
	Table       = model.Table
	Challenge   = model.Challenge
	GroundTruth = model.GroundTruth
	Submission  = model.Submission
	Transaction = model.Transaction
	Dataset     = model.Dataset
)

const DefaultEndpoint = api.DefaultEndpoint

var (
	ErrAuthentication   = api.ErrAuthentication
	ErrNotFound         = api.ErrNotFound
	ErrValidation       = api.ErrValidation
	ErrServer           = api.ErrServer
	ErrTransport        = api.ErrTransport
	ErrNotAuthenticated = api.ErrNotAuthenticated
	ErrMissingID        = api.ErrMissingID
	ErrNilResource      = api.ErrNilResource
)

// Client is an authenticated handle on the Forbin API. It is safe for
// concurrent use once logged in.
type Client struct {
	*api.Client
}

func WithEndpoint(endpoint string) ClientOption {
	return api.WithEndpoint(endpoint)
}

func WithTimeout(timeout time.Duration) ClientOption {
	return api.WithTimeout(timeout)
}

func WithLogger(logger *slog.Logger) ClientOption {
	return api.WithLogger(logger)
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return api.WithHTTPClient(hc)
}

func WithToken(token string) ClientOption {
	return api.WithToken(token)
}

// New returns an unauthenticated client for the given endpoint.
func New(endpoint string, options ...ClientOption) *Client {
	return &Client{Client: api.NewClient(endpoint, options...)}
}

// Connect logs in against the production endpoint, or the one set by WithEndpoint.
func Connect(ctx context.Context, username, password string, options ...ClientOption) (*Client, error) {
	c := New(DefaultEndpoint, options...)
	if err := c.Login(ctx, username, password); err != nil {
		return nil, err
	}
	return c, nil
}

// Decode builds a resource from one JSON record.
func Decode(data []byte, r Resource) error {
	return api.UnmarshalResource(data, r)
}

// Encode returns the JSON body sent when saving r.
func Encode(r Resource) ([]byte, error) {
	return api.MarshalResource(r)
}
