package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"papermc/internal/console"
	"papermc/internal/realtime"
	"papermc/internal/vitals"
	"papermc/pkg/sdk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status and resource usage",
	Run: func(cmd *cobra.Command, args []string) {
		handleStatus()
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Minecraft server",
	Run: func(cmd *cobra.Command, args []string) {
		handleStart()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the Minecraft server",
	Run: func(cmd *cobra.Command, args []string) {
		handleStop()
	},
}

var commandCmd = &cobra.Command{
	Use:   "command [text...]",
	Short: "Run a server console command",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleCommand(strings.Join(args, " "))
	},
}

var logsLegacy, logsNoColor bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Follow the server console output",
	Run: func(cmd *cobra.Command, args []string) {
		handleLogs(logsLegacy, logsNoColor)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [version]",
	Short: "Update the server jar to the latest Paper build of a version",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleUpdate(args[0])
	},
}

func init() {
	logsCmd.Flags().BoolVar(&logsLegacy, "legacy", false, "Use the one-way /logs event stream instead of the websocket")
	logsCmd.Flags().BoolVar(&logsNoColor, "no-color", false, "Strip color codes from log lines")

	RootCmd.AddCommand(statusCmd, startCmd, stopCmd, commandCmd, logsCmd, updateCmd)
}

func handleStatus() {
	cred := requireSession()
	v, err := Client.Status(context.Background(), cred)
	if err != nil {
		fail("getting status", err)
	}

	fmt.Println("\n--- SERVER STATUS ---")
	fmt.Printf("Status:  %s\n", vitals.StatusLabel(v))
	fmt.Printf("CPU:     %s\n", vitals.FormatCPU(*v))
	fmt.Printf("RAM:     %s (%s)\n", vitals.FormatRAM(*v), vitals.FormatPercent(vitals.RAMPercent(*v)))
	fmt.Printf("Players: %d\n", v.Players)
	for _, name := range v.PlayerList {
		fmt.Printf("  - %s\n", name)
	}
}

func handleStart() {
	resp, err := Client.Start(context.Background(), requireSession())
	if err != nil {
		fail("starting server", err)
	}
	fmt.Println(statusOr(resp, "Start command sent."))
}

func handleStop() {
	resp, err := Client.Stop(context.Background(), requireSession())
	if err != nil {
		fail("stopping server", err)
	}
	fmt.Println(statusOr(resp, "Stop command sent."))
}

func handleCommand(text string) {
	if err := Client.SendCommand(context.Background(), requireSession(), text); err != nil {
		fail("sending command", err)
	}
	fmt.Println("Command sent.")
}

func handleUpdate(version string) {
	if err := Client.Update(context.Background(), requireSession(), version); err != nil {
		fail("requesting update", err)
	}
	fmt.Printf("Update to the latest Paper %s build requested. Follow progress with 'papermc logs'.\n", version)
}

func handleLogs(legacy, noColor bool) {
	cred := requireSession()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	printLine := func(line string) {
		if noColor {
			fmt.Println(console.Strip(line))
			return
		}
		fmt.Println(console.Render(line))
	}

	if legacy {
		stream := realtime.NewLegacyStream(Client.LegacyLogsURL(), nil, Log)
		if err := stream.Run(ctx, cred, printLine); err != nil {
			fail("following logs", err)
		}
		return
	}

	var expired atomic.Bool
	ch := realtime.New(Client.WebSocketURL,
		realtime.WithReconnectDelay(Config.ReconnectDelay()),
		realtime.WithLogger(Log),
		realtime.OnLine(printLine),
		realtime.OnError(func(msg string) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}),
		realtime.OnState(func(s realtime.State) {
			if s == realtime.StateClosed {
				fmt.Fprintf(os.Stderr, "Connection lost, retrying in %s...\n", Config.ReconnectDelay())
			}
		}),
		realtime.OnUnauthorized(func() {
			expired.Store(true)
			stop()
		}),
	)

	if err := ch.Start(cred); err != nil {
		fail("connecting to console", err)
	}
	<-ctx.Done()
	ch.Close()

	if expired.Load() {
		fail("following logs", sdk.ErrUnauthorized)
	}
}

func statusOr(resp *sdk.StatusResponse, fallback string) string {
	if resp != nil && resp.Status != "" {
		return resp.Status
	}
	return fallback
}
