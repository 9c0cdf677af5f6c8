package tray

import (
	"strings"
	"testing"

	"papermc/pkg/sdk"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		v    *sdk.Vitals
		want string
	}{
		{"no snapshot", nil, "MC Offline"},
		{"stopped", &sdk.Vitals{Status: "Stopped"}, "MC Stopped"},
		{"running", &sdk.Vitals{Status: "Running", CPU: 12.34, RAM: 1 << 30, TotalMemory: "4G"}, "MC 12.3% 25.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.v); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTooltip(t *testing.T) {
	if got := Tooltip(nil); got != "PaperMC: Offline" {
		t.Errorf("Tooltip(nil) = %q", got)
	}

	got := Tooltip(&sdk.Vitals{Status: "Running", CPU: 5, RAM: 2 << 30, TotalMemory: "4G", Players: 3})
	for _, want := range []string{"PaperMC: Running", "CPU: 5.0%", "RAM: 2.0 GB / 4G", "Players: 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("tooltip %q missing %q", got, want)
		}
	}
}

func TestAutostartApp(t *testing.T) {
	app := AutostartApp("/usr/local/bin/papermc")
	if app.Name != "papermc-tray" {
		t.Errorf("Name = %q", app.Name)
	}
	if len(app.Exec) != 2 || app.Exec[0] != "/usr/local/bin/papermc" || app.Exec[1] != "tray" {
		t.Errorf("Exec = %v, want [exe tray]", app.Exec)
	}
}
