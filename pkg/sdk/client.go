package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Credential is the bearer token a single request is made with. The zero value
// means "not logged in".
type Credential string

func (c Credential) Empty() bool {
	return strings.TrimSpace(string(c)) == ""
}

func (c Credential) Bearer() string {
	return "Bearer " + string(c)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, cred Credential, path string, target interface{}) error {
	return c.do(ctx, cred, http.MethodGet, path, nil, target)
}

func (c *Client) post(ctx context.Context, cred Credential, path string, body interface{}, target interface{}) error {
	return c.do(ctx, cred, http.MethodPost, path, body, target)
}

func (c *Client) delete(ctx context.Context, cred Credential, path string, target interface{}) error {
	return c.do(ctx, cred, http.MethodDelete, path, nil, target)
}

func (c *Client) do(ctx context.Context, cred Credential, method, path string, body interface{}, target interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !cred.Empty() {
		req.Header.Set("Authorization", cred.Bearer())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: messageFromBody(bodyBytes)}
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// messageFromBody prefers the "status" field of a JSON body and falls back to the
// trimmed text, which is what http.Error produces on the backend.
func messageFromBody(body []byte) string {
	var sr StatusResponse
	if err := json.Unmarshal(body, &sr); err == nil && sr.Status != "" {
		return sr.Status
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) WebSocketURL(cred Credential) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"token": {string(cred)}}.Encode()
	return u.String(), nil
}

func (c *Client) LegacyLogsURL() string {
	return c.baseURL + "/logs"
}

func withUsername(path, username string) string {
	return path + "?" + url.Values{"username": {username}}.Encode()
}
