// Package tray shows server vitals in the system tray with start, stop and
// open-dashboard actions.
package tray

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getlantern/systray"

	"papermc/internal/logger"
	"papermc/internal/vitals"
	"papermc/pkg/sdk"
)

const actionTimeout = 15 * time.Second

type Backend interface {
	vitals.StatusAPI
	Start(ctx context.Context, cred sdk.Credential) (*sdk.StatusResponse, error)
	Stop(ctx context.Context, cred sdk.Credential) (*sdk.StatusResponse, error)
}

type Options struct {
	Backend  Backend
	Session  vitals.Session
	Log      *logger.Logger
	Interval time.Duration
	// OpenDashboard is called for the "Open dashboard" item.
	OpenDashboard func() error
}

// Title is the short text shown next to the tray icon.
func Title(v *sdk.Vitals) string {
	if v == nil || !v.Running() {
		return "MC " + vitals.StatusLabel(v)
	}
	return fmt.Sprintf("MC %s %s", vitals.FormatCPU(*v), vitals.FormatPercent(vitals.RAMPercent(*v)))
}

func Tooltip(v *sdk.Vitals) string {
	if v == nil {
		return "PaperMC: Offline"
	}
	lines := []string{
		"PaperMC: " + vitals.StatusLabel(v),
		"CPU: " + vitals.FormatCPU(*v),
		"RAM: " + vitals.FormatRAM(*v),
		fmt.Sprintf("Players: %d", v.Players),
	}
	return strings.Join(lines, "\n")
}

// Run blocks on the tray event loop until Quit is chosen.
func Run(opts Options) {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	log := opts.Log.Named("tray")

	ctx, cancel := context.WithCancel(context.Background())

	onReady := func() {
		systray.SetTitle("MC ...")
		systray.SetTooltip("PaperMC: connecting")

		status := systray.AddMenuItem("Status: unknown", "Current server status")
		status.Disable()
		systray.AddSeparator()
		start := systray.AddMenuItem("Start server", "Start the Minecraft server")
		stop := systray.AddMenuItem("Stop server", "Stop the Minecraft server")
		open := systray.AddMenuItem("Open dashboard", "Open the dashboard in a browser")
		systray.AddSeparator()
		quit := systray.AddMenuItem("Quit", "Close the tray")

		poller := vitals.NewPoller(opts.Backend, opts.Session,
			vitals.WithInterval(opts.Interval),
			vitals.WithLogger(opts.Log),
			vitals.OnUpdate(func(v sdk.Vitals) {
				systray.SetTitle(Title(&v))
				systray.SetTooltip(Tooltip(&v))
				status.SetTitle("Status: " + vitals.StatusLabel(&v))
			}),
		)

		go func() {
			err := poller.Run(ctx)
			if errors.Is(err, sdk.ErrUnauthorized) || errors.Is(err, vitals.ErrNoSession) {
				systray.SetTitle("MC logged out")
				systray.SetTooltip("PaperMC: run 'papermc login'")
				status.SetTitle("Status: not logged in")
			}
		}()

		action := func(name string, fn func(context.Context, sdk.Credential) (*sdk.StatusResponse, error)) {
			cred := opts.Session.Credential()
			if cred.Empty() {
				log.Warnw("tray action without session", "action", name)
				return
			}
			actx, acancel := context.WithTimeout(ctx, actionTimeout)
			defer acancel()
			if _, err := fn(actx, cred); err != nil {
				log.Errorw("tray action failed", "action", name, "error", err)
				return
			}
			if err := poller.Poll(actx); err != nil {
				log.Debugw("poll after action failed", "error", err)
			}
		}

		go func() {
			for {
				select {
				case <-start.ClickedCh:
					action("start", opts.Backend.Start)
				case <-stop.ClickedCh:
					action("stop", opts.Backend.Stop)
				case <-open.ClickedCh:
					if opts.OpenDashboard != nil {
						if err := opts.OpenDashboard(); err != nil {
							log.Errorw("failed to open dashboard", "error", err)
						}
					}
				case <-quit.ClickedCh:
					systray.Quit()
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	systray.Run(onReady, cancel)
}
