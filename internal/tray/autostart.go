package tray

import (
	"os"

	"github.com/emersion/go-autostart"
)

const (
	autostartName    = "papermc-tray"
	autostartDisplay = "PaperMC Tray"
)

// AutostartApp registers "<exe> tray" to run at login.
func AutostartApp(exe string) *autostart.App {
	return &autostart.App{
		Name:        autostartName,
		DisplayName: autostartDisplay,
		Exec:        []string{exe, "tray"},
	}
}

func CurrentAutostartApp() (*autostart.App, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return AutostartApp(exe), nil
}
