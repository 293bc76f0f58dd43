package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TokenRoute is the login path. Unlike collection routes it has no trailing slash.
const TokenRoute = "token"

// Login exchanges credentials for a token and stores it on the client.
// Any rejection is returned as an error matching ErrAuthentication.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	body, err := c.doRequest(ctx, http.MethodPost, c.endpoint+"/"+TokenRoute, TokenRoute,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", false)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			apiErr.Class = ErrAuthentication
		}
		return fmt.Errorf("login: %w", err)
	}

	var resp TokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("login: unmarshal response: %w", err)
	}
	if resp.Token == "" {
		return fmt.Errorf("login: %w: response carried no token", ErrAuthentication)
	}

	c.setToken(resp.Token)
	c.logger.Debug("logged in", "endpoint", c.endpoint, "username", username)

	return nil
}
