package cmd

import (
	"github.com/spf13/cobra"

	"papermc/internal/cli/ui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive console",
	Run: func(cmd *cobra.Command, args []string) {
		RunDashboard(ui.RouteConsole)
	},
}

func init() {
	RootCmd.AddCommand(consoleCmd)
}

func RunDashboard(start ui.Route) {
	if err := ui.Run(deps(), start); err != nil {
		fail("running dashboard", err)
	}
}
