package realtime

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"papermc/internal/logger"
	"papermc/pkg/sdk"
)

// LegacyStream reads the one-way text/event-stream the backend serves at /logs.
// Frames are unstructured "data: <line>" records.
type LegacyStream struct {
	url        string
	httpClient *http.Client
	log        *logger.Logger
}

func NewLegacyStream(url string, httpClient *http.Client, l *logger.Logger) *LegacyStream {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if l == nil {
		l = logger.Nop()
	}
	return &LegacyStream{url: url, httpClient: httpClient, log: l.Named("legacy-stream")}
}

// Run delivers lines to onLine in order until ctx is done or the server ends the
// stream. There is no reconnect here.
func (s *LegacyStream) Run(ctx context.Context, cred sdk.Credential, onLine func(string)) error {
	if cred.Empty() {
		return ErrNoCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", cred.Bearer())
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return &sdk.NetworkError{Op: "GET /logs", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return sdk.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return &sdk.APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("log stream refused (%s)", resp.Status)}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		onLine(strings.TrimPrefix(data, " "))
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		s.log.Warnw("log stream interrupted", "error", err)
		return err
	}
	return nil
}
