package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error classes. Every error returned by the client matches at most one of these
// with errors.Is.
var (
	// ErrAuthentication is returned for rejected credentials and 401/403 responses.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for any other 4xx response.
	ErrValidation = errors.New("request rejected")
	// ErrServer is returned for 5xx responses.
	ErrServer = errors.New("server error")
	// ErrTransport is returned when no HTTP response was received.
	ErrTransport = errors.New("transport failure")

	// ErrNotAuthenticated is returned when a call is made before Login.
	ErrNotAuthenticated = errors.New("client is not authenticated")
	// ErrMissingID is returned when an id-addressed operation has no id.
	ErrMissingID = errors.New("resource has no id")
	// ErrNilResource is returned when a nil object is passed for encoding,
	// decoding, saving or deleting.
	ErrNilResource = errors.New("resource is nil")
)

// APIError represents a non-2xx response from the Forbin API.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Route      string
	Body       []byte

	// Class overrides the status-derived error class when set.
	Class error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("forbin api error %d on %s %s: %s", e.StatusCode, e.Method, e.Route, e.Message)
}

// Unwrap returns the error class for the status code.
func (e *APIError) Unwrap() error {
	if e.Class != nil {
		return e.Class
	}
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrAuthentication
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return ErrValidation
	default:
		return ErrServer
	}
}

// TransportError wraps a failure to obtain a response.
type TransportError struct {
	Method string
	Route  string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("forbin transport error on %s %s: %v", e.Method, e.Route, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// routeURL interpolates a route as {endpoint}/{route}/.
func (c *Client) routeURL(route string) string {
	return c.endpoint + "/" + strings.Trim(route, "/") + "/"
}

// doRequest performs one HTTP round trip and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, fullURL, route string, body io.Reader, contentType string, withToken bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if withToken {
		token := c.Token()
		if token == "" {
			return nil, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Route: route, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Route: route, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("api request",
		"method", method,
		"route", route,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, respBody),
			Method:     method,
			Route:      route,
			Body:       respBody,
		}
	}

	return respBody, nil
}

// errorMessage prefers the server's "detail" field over the status text.
func errorMessage(status int, body []byte) string {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return http.StatusText(status)
}

// send performs an authenticated JSON request against a route and decodes the
// response into result when result is non-nil.
func (c *Client) send(ctx context.Context, method, route string, data, result any) error {
	var body io.Reader
	contentType := ""
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	respBody, err := c.doRequest(ctx, method, c.routeURL(route), route, body, contentType, true)
	if err != nil {
		return err
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// Get performs a GET request against {endpoint}/{route}/.
func (c *Client) Get(ctx context.Context, route string, result any) error {
	return c.send(ctx, http.MethodGet, route, nil, result)
}

// Post performs a POST request with a JSON body against {endpoint}/{route}/.
func (c *Client) Post(ctx context.Context, route string, data, result any) error {
	return c.send(ctx, http.MethodPost, route, data, result)
}

// Patch performs a PATCH request with a JSON body against {endpoint}/{route}/.
func (c *Client) Patch(ctx context.Context, route string, data, result any) error {
	return c.send(ctx, http.MethodPatch, route, data, result)
}

// Remove performs a DELETE request against {endpoint}/{route}/.
func (c *Client) Remove(ctx context.Context, route string, result any) error {
	return c.send(ctx, http.MethodDelete, route, nil, result)
}
