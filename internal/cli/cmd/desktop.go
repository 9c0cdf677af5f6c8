package cmd

import (
	"fmt"

	"github.com/emersion/go-autostart"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"papermc/internal/tray"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the web dashboard in a browser",
	Run: func(cmd *cobra.Command, args []string) {
		if err := openDashboard(); err != nil {
			fail("opening browser", err)
		}
	},
}

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Show server status in the system tray",
	Run: func(cmd *cobra.Command, args []string) {
		tray.Run(tray.Options{
			Backend:       Client,
			Session:       Session,
			Log:           Log,
			Interval:      Config.PollInterval(),
			OpenDashboard: openDashboard,
		})
	},
}

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Start the tray automatically at login",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Register the tray to run at login",
	Run: func(cmd *cobra.Command, args []string) {
		app := autostartApp()
		if app.IsEnabled() {
			fmt.Println("Autostart is already enabled.")
			return
		}
		if err := app.Enable(); err != nil {
			fail("enabling autostart", err)
		}
		fmt.Println("Autostart enabled.")
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop running the tray at login",
	Run: func(cmd *cobra.Command, args []string) {
		app := autostartApp()
		if !app.IsEnabled() {
			fmt.Println("Autostart is already disabled.")
			return
		}
		if err := app.Disable(); err != nil {
			fail("disabling autostart", err)
		}
		fmt.Println("Autostart disabled.")
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the tray runs at login",
	Run: func(cmd *cobra.Command, args []string) {
		if autostartApp().IsEnabled() {
			fmt.Println("Autostart: enabled")
		} else {
			fmt.Println("Autostart: disabled")
		}
	},
}

func init() {
	autostartCmd.AddCommand(autostartEnableCmd, autostartDisableCmd, autostartStatusCmd)
	RootCmd.AddCommand(openCmd, trayCmd, autostartCmd)
}

func openDashboard() error {
	Log.Infow("opening dashboard", "url", Client.BaseURL())
	return browser.OpenURL(Client.BaseURL())
}

func autostartApp() *autostart.App {
	app, err := tray.CurrentAutostartApp()
	if err != nil {
		fail("locating executable", err)
	}
	return app
}
