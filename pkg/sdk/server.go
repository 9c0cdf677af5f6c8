package sdk

import "context"

func (c *Client) Status(ctx context.Context, cred Credential) (*Vitals, error) {
	var vitals Vitals
	if err := c.get(ctx, cred, "/status", &vitals); err != nil {
		return nil, err
	}
	return &vitals, nil
}

func (c *Client) Start(ctx context.Context, cred Credential) (*StatusResponse, error) {
	var result StatusResponse
	err := c.post(ctx, cred, "/start", nil, &result)
	return &result, err
}

func (c *Client) Stop(ctx context.Context, cred Credential) (*StatusResponse, error) {
	var result StatusResponse
	err := c.post(ctx, cred, "/stop", nil, &result)
	return &result, err
}

// SendCommand uses the REST command endpoint. Interactive sessions go through the
// realtime channel instead.
func (c *Client) SendCommand(ctx context.Context, cred Credential, command string) error {
	return c.post(ctx, cred, "/command", CommandRequest{Command: command}, nil)
}

func (c *Client) GetConfig(ctx context.Context, cred Credential) (map[string]string, error) {
	var cfg map[string]string
	err := c.get(ctx, cred, "/config", &cfg)
	return cfg, err
}

func (c *Client) SaveConfig(ctx context.Context, cred Credential, values map[string]string) (*StatusResponse, error) {
	var result StatusResponse
	err := c.post(ctx, cred, "/config", values, &result)
	return &result, err
}

// Update asks the backend to fetch the latest Paper build for version and swap
// the server jar. Progress is broadcast on the console stream.
func (c *Client) Update(ctx context.Context, cred Credential, version string) error {
	return c.post(ctx, cred, "/update", UpdateRequest{Version: version}, nil)
}
