package notify

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"papermc/pkg/sdk"
)

func TestCenter_InsertionOrderAndExpiry(t *testing.T) {
	c := NewCenter(40 * time.Millisecond)
	defer c.Close()

	first := c.Success("Added Steve to whitelist")
	time.Sleep(20 * time.Millisecond)
	second := c.Error("player already banned")

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("Expected distinct ids, got %q and %q", first.ID, second.ID)
	}

	active := c.Active()
	if len(active) != 2 || active[0].ID != first.ID || active[1].ID != second.ID {
		t.Fatalf("Expected both toasts in insertion order, got %+v", active)
	}
	if active[1].Kind != KindError {
		t.Errorf("Expected error kind, got %s", active[1].Kind)
	}

	time.Sleep(30 * time.Millisecond)
	active = c.Active()
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("Expected only the second toast, got %+v", active)
	}

	time.Sleep(40 * time.Millisecond)
	if n := len(c.Active()); n != 0 {
		t.Errorf("Expected no toasts after TTL, got %d", n)
	}
}

func TestCenter_DismissAndOnChange(t *testing.T) {
	c := NewCenter(time.Hour)
	defer c.Close()

	changes := 0
	c.OnChange(func() { changes++ })

	toast := c.Success("ok")
	c.Dismiss(toast.ID)
	c.Dismiss("missing")

	if len(c.Active()) != 0 {
		t.Error("Expected toast to be dismissed")
	}
	if changes != 2 {
		t.Errorf("Expected 2 change notifications, got %d", changes)
	}
}

func TestNewCenter_DefaultTTL(t *testing.T) {
	if c := NewCenter(0); c.ttl != DefaultTTL {
		t.Errorf("Expected default TTL, got %s", c.ttl)
	}
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", fmt.Errorf("ban: %w", sdk.ErrUnauthorized), "Session expired, please log in again"},
		{"network", &sdk.NetworkError{Op: "POST /whitelist", Err: errors.New("connection refused")}, "Network error: backend unreachable"},
		{"server message", &sdk.APIError{StatusCode: 500, Message: "Player not found"}, "Player not found"},
		{"no message", &sdk.APIError{StatusCode: 500}, "Action failed"},
		{"other", errors.New("boom"), "Action failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FailureMessage(tt.err); got != tt.want {
				t.Errorf("FailureMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
