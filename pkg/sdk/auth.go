package sdk

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Login exchanges a username and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (Credential, error) {
	var resp LoginResponse
	err := c.post(ctx, "", "/login", LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.Is(err, ErrUnauthorized) || errors.As(err, &apiErr) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: backend returned no token")
	}
	return Credential(resp.Token), nil
}
