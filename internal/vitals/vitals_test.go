package vitals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"papermc/pkg/sdk"
)

func TestFormat_TwoGiBOfFourG(t *testing.T) {
	v := sdk.Vitals{Status: "Running", RAM: 2147483648, TotalMemory: "4G", CPU: 12.345}

	if got := RAMPercent(v); got != 50.0 {
		t.Errorf("Expected 50.0, got %v", got)
	}
	if got := FormatRAM(v); got != "2.0 GB / 4G" {
		t.Errorf("Expected %q, got %q", "2.0 GB / 4G", got)
	}
	if got := FormatPercent(RAMPercent(v)); got != "50.0%" {
		t.Errorf("Expected 50.0%%, got %q", got)
	}
	if got := FormatCPU(v); got != "12.3%" {
		t.Errorf("Expected 12.3%%, got %q", got)
	}
}

func TestParseTotalMemory(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"4G", 4 * gib},
		{"512M", 512 * mib},
		{"2g", 2 * gib},
		{"", 0},
		{"G", 0},
		{"4T", 0},
		{"abcG", 0},
	}
	for _, tt := range tests {
		if got := ParseTotalMemory(tt.in); got != tt.want {
			t.Errorf("ParseTotalMemory(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if got := RAMPercent(sdk.Vitals{RAM: 100, TotalMemory: "bogus"}); got != 0 {
		t.Errorf("Expected 0 for unknown heap, got %v", got)
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusLabel(nil) != "Offline" {
		t.Error("Expected Offline without a snapshot")
	}
	if StatusLabel(&sdk.Vitals{Status: "Starting"}) != "Starting" {
		t.Error("Expected backend status")
	}
}

type fakeSession struct {
	mu      sync.Mutex
	token   sdk.Credential
	cleared int
}

func (s *fakeSession) Credential() sdk.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

type fakeStatus struct {
	mu     sync.Mutex
	calls  int
	err    error
	vitals sdk.Vitals
	gates  []chan struct{}
}

func (f *fakeStatus) Status(ctx context.Context, cred sdk.Credential) (*sdk.Vitals, error) {
	f.mu.Lock()
	f.calls++
	var gate chan struct{}
	if len(f.gates) > 0 {
		gate, f.gates = f.gates[0], f.gates[1:]
	}
	err := f.err
	v := f.vitals
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (f *fakeStatus) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPoller_UnauthorizedClearsAndSuppresses(t *testing.T) {
	api := &fakeStatus{err: sdk.ErrUnauthorized}
	session := &fakeSession{token: "stale"}
	notified := 0
	p := NewPoller(api, session, WithInterval(time.Millisecond), OnUnauthorized(func() { notified++ }))

	if err := p.Run(context.Background()); !errors.Is(err, sdk.ErrUnauthorized) {
		t.Fatalf("Expected Run to stop with ErrUnauthorized, got %v", err)
	}
	if session.cleared != 1 || notified != 1 {
		t.Errorf("Expected one clear and one callback, got %d and %d", session.cleared, notified)
	}

	if err := p.Poll(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession after clear, got %v", err)
	}
	if api.callCount() != 1 {
		t.Errorf("Expected no authorized calls after clear, got %d", api.callCount())
	}

	session.token = "fresh"
	api.err = nil
	if err := p.Poll(context.Background()); err != nil {
		t.Errorf("Expected polling to resume after re-login, got %v", err)
	}
}

func TestPoller_FailureKeepsSnapshot(t *testing.T) {
	api := &fakeStatus{vitals: sdk.Vitals{Status: "Running", Players: 3}}
	p := NewPoller(api, &fakeSession{token: "t"})

	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll failed: %v", err)
	}

	api.err = &sdk.NetworkError{Op: "GET /status", Err: errors.New("refused")}
	if err := p.Poll(context.Background()); err == nil {
		t.Fatal("Expected network error")
	}

	snap := p.Snapshot()
	if snap == nil || snap.Players != 3 {
		t.Errorf("Expected stale snapshot to be retained, got %+v", snap)
	}
}

func TestPoller_DropsStaleResponse(t *testing.T) {
	slow := make(chan struct{})
	api := &fakeStatus{vitals: sdk.Vitals{Status: "Starting"}, gates: []chan struct{}{slow}}
	p := NewPoller(api, &fakeSession{token: "t"})

	done := make(chan struct{})
	go func() {
		p.Poll(context.Background())
		close(done)
	}()
	for api.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	api.mu.Lock()
	api.vitals = sdk.Vitals{Status: "Running"}
	api.mu.Unlock()
	if err := p.Poll(context.Background()); err != nil {
		t.Fatalf("Poll failed: %v", err)
	}

	close(slow)
	<-done

	if got := p.Snapshot(); got == nil || got.Status != "Running" {
		t.Errorf("Expected newer snapshot to win, got %+v", got)
	}
}

func TestPoller_RunFetchesImmediatelyAndStopsOnCancel(t *testing.T) {
	api := &fakeStatus{vitals: sdk.Vitals{Status: "Running"}}
	updates := make(chan sdk.Vitals, 8)
	p := NewPoller(api, &fakeSession{token: "t"},
		WithInterval(time.Hour),
		OnUpdate(func(v sdk.Vitals) { updates <- v }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- p.Run(ctx) }()

	select {
	case v := <-updates:
		if !v.Running() {
			t.Errorf("Unexpected snapshot %+v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected an immediate fetch")
	}

	cancel()
	select {
	case err := <-result:
		if err != nil {
			t.Errorf("Expected nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if api.callCount() != 1 {
		t.Errorf("Expected one fetch within the interval, got %d", api.callCount())
	}
}
