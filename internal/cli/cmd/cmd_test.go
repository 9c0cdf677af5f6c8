package cmd

import (
	"testing"

	"papermc/internal/players"
)

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{"motd=Hello=World", " max-players =20", "pvp="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"motd": "Hello=World", "max-players": "20", "pvp": ""}
	if len(values) != len(want) {
		t.Fatalf("got %v, want %v", values, want)
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("values[%q] = %q, want %q", k, values[k], v)
		}
	}

	for _, bad := range []string{"motd", "=value"} {
		if _, err := parseAssignments([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDescribePlayer(t *testing.T) {
	got := describePlayer(players.UnifiedPlayer{Name: "Steve", Online: true, Op: true, Banned: true, Reason: "Griefing"})
	if want := " [online, op, banned: Griefing]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	got = describePlayer(players.UnifiedPlayer{Name: "Eve", Rejected: true, RejectionCount: 3})
	if want := " [rejected x3]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := describePlayer(players.UnifiedPlayer{Name: "Nobody"}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
