package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithOutput("debug", "json", &buf)
	if err != nil {
		t.Fatalf("NewWithOutput failed: %v", err)
	}

	l.Named("realtime").Infow("connected", "attempt", 2)
	l.Sync()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "connected" {
		t.Errorf("Expected message 'connected', got %v", entry["message"])
	}
	if entry["logger"] != "realtime" {
		t.Errorf("Expected logger name 'realtime', got %v", entry["logger"])
	}
	if entry["attempt"] != float64(2) {
		t.Errorf("Expected attempt=2, got %v", entry["attempt"])
	}
}

func TestSetLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithOutput("bogus", "json", &buf)

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("Unknown level should default to info, got output %q", buf.String())
	}

	if err := l.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel failed: %v", err)
	}
	l.Debug("shown")
	if buf.Len() == 0 {
		t.Error("Expected debug output after SetLevel(debug)")
	}
}
