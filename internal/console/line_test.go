package console

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Severity
	}{
		{"[12:00:00 INFO]: Done (3.1s)! For help, type \"help\"", SeverityInfo},
		{"[12:00:01 WARN]: Can't keep up!", SeverityWarn},
		{"[12:00:02 ERROR]: Could not pass event", SeverityError},
		{"java.lang.NullPointerException: boom", SeverityError},
		{"WARN and ERROR on one line", SeverityError},
		{"\x1b[33m[12:00:03 WARN]\x1b[0m: colored", SeverityWarn},
		{"\x1b[31mplain red text\x1b[0m", SeverityNeutral},
		{"Steve joined the game", SeverityNeutral},
		{"info in lowercase", SeverityNeutral},
	}
	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.line, got, tt.want)
		}
	}
}

func TestRender_KeepsOwnEscapes(t *testing.T) {
	line := "\x1b[32mgreen\x1b[0m"
	got := Render(line)
	if !strings.HasPrefix(got, line) {
		t.Errorf("Expected original escapes to be kept, got %q", got)
	}
	if !strings.HasSuffix(got, resetStyle) {
		t.Errorf("Expected trailing reset, got %q", got)
	}
}

func TestRender_PlainLineKeepsText(t *testing.T) {
	line := "[INFO] Done"
	if got := Strip(Render(line)); got != line {
		t.Errorf("Expected visible text %q, got %q", line, got)
	}
}

func TestStrip(t *testing.T) {
	if got := Strip("\x1b[1;31m[ERROR]\x1b[0m failed"); got != "[ERROR] failed" {
		t.Errorf("Unexpected stripped text %q", got)
	}
	if HasEscapes("plain") || !HasEscapes("\x1b[0m") {
		t.Error("HasEscapes misreports")
	}
}
