package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"papermc/pkg/sdk"
)

func TestLegacyStream_ParsesDataRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: [INFO] Done (3.2s)!\n\n")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data:no-space\n\n")
		fmt.Fprint(w, "event: ping\n\n")
		fmt.Fprint(w, "data:  two spaces\n\n")
	}))
	defer srv.Close()

	var lines []string
	s := NewLegacyStream(sdk.NewClient(srv.URL).LegacyLogsURL(), nil, nil)
	if err := s.Run(context.Background(), "t", func(l string) { lines = append(lines, l) }); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"[INFO] Done (3.2s)!", "no-space", " two spaces"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestLegacyStream_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer stale" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewLegacyStream(srv.URL+"/logs", nil, nil)
	noop := func(string) {}

	if err := s.Run(context.Background(), "", noop); !errors.Is(err, ErrNoCredential) {
		t.Errorf("Expected ErrNoCredential, got %v", err)
	}
	if err := s.Run(context.Background(), "stale", noop); !errors.Is(err, sdk.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	var apiErr *sdk.APIError
	if err := s.Run(context.Background(), "t", noop); !errors.As(err, &apiErr) {
		t.Errorf("Expected APIError, got %v", err)
	}
}
