package sdk

import (
	"context"
	"net/url"
)

func (c *Client) ListWhitelist(ctx context.Context, cred Credential) ([]Player, error) {
	var players []Player
	err := c.get(ctx, cred, "/api/players", &players)
	return players, err
}

func (c *Client) AddWhitelist(ctx context.Context, cred Credential, username string) (*StatusResponse, error) {
	var result StatusResponse
	err := c.post(ctx, cred, "/api/players", PlayerRequest{Username: username}, &result)
	return &result, err
}

func (c *Client) RemoveWhitelist(ctx context.Context, cred Credential, username string) (*StatusResponse, error) {
	var result StatusResponse
	err := c.delete(ctx, cred, withUsername("/api/players", username), &result)
	return &result, err
}

// LegacyWhitelistAdd is the whitelist call of the static dashboard. The backend
// reads the username from the "command" field.
func (c *Client) LegacyWhitelistAdd(ctx context.Context, cred Credential, username string) (*StatusResponse, error) {
	var result StatusResponse
	err := c.post(ctx, cred, "/whitelist_add", CommandRequest{Command: username}, &result)
	return &result, err
}

func (c *Client) ListBanned(ctx context.Context, cred Credential) ([]Player, error) {
	var players []Player
	err := c.get(ctx, cred, "/api/players/banned", &players)
	return players, err
}

func (c *Client) Ban(ctx context.Context, cred Credential, username, reason string) (*StatusResponse, error) {
	var result StatusResponse
	err := c.post(ctx, cred, "/api/players/banned", PlayerRequest{Username: username, Reason: reason}, &result)
	return &result, err
}

func (c *Client) Unban(ctx context.Context, cred Credential, username string) (*StatusResponse, error) {
	var result StatusResponse
	err := c.delete(ctx, cred, withUsername("/api/players/banned", username), &result)
	return &result, err
}

func (c *Client) ListOps(ctx context.Context, cred Credential) ([]Player, error) {
	var players []Player
	err := c.get(ctx, cred, "/api/players/ops", &players)
	return players, err
}

func (c *Client) SetOp(ctx context.Context, cred Credential, username string, op bool) (*StatusResponse, error) {
	action := "remove"
	if op {
		action = "add"
	}
	path := "/api/players/ops?" + url.Values{"action": {action}}.Encode()

	var result StatusResponse
	err := c.post(ctx, cred, path, PlayerRequest{Username: username}, &result)
	return &result, err
}

func (c *Client) ListRejected(ctx context.Context, cred Credential) ([]RejectedPlayer, error) {
	var players []RejectedPlayer
	err := c.get(ctx, cred, "/api/players/rejected", &players)
	return players, err
}

func (c *Client) DismissRejected(ctx context.Context, cred Credential, username string) (*StatusResponse, error) {
	var result StatusResponse
	err := c.delete(ctx, cred, withUsername("/api/players/rejected", username), &result)
	return &result, err
}
