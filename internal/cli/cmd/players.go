package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"papermc/internal/cli/ui"
	"papermc/internal/notify"
	"papermc/internal/players"
	"papermc/pkg/sdk"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Manage whitelist, bans and operators",
	Run: func(cmd *cobra.Command, args []string) {
		RunDashboard(ui.RoutePlayers)
	},
}

var playersListJSON bool

var playersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known player",
	Run: func(cmd *cobra.Command, args []string) {
		handlePlayersList(playersListJSON)
	},
}

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage the whitelist",
}

var whitelistLegacy bool

var whitelistAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a player to the whitelist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if whitelistLegacy {
			handleLegacyWhitelistAdd(args[0])
			return
		}
		runPlayerAction("whitelisting player", func(r *players.Reconciler, cred sdk.Credential) error {
			return r.SetWhitelisted(context.Background(), cred, args[0], true)
		})
	},
}

var whitelistRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a player from the whitelist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPlayerAction("removing player", func(r *players.Reconciler, cred sdk.Credential) error {
			return r.SetWhitelisted(context.Background(), cred, args[0], false)
		})
	},
}

var banReason string

var banCmd = &cobra.Command{
	Use:   "ban [name]",
	Short: "Ban a player",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPlayerAction("banning player", func(r *players.Reconciler, cred sdk.Credential) error {
			return r.SetBanned(context.Background(), cred, args[0], true, banReason)
		})
	},
}

var unbanCmd = &cobra.Command{
	Use:   "unban [name]",
	Short: "Lift a ban",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPlayerAction("unbanning player", func(r *players.Reconciler, cred sdk.Credential) error {
			return r.SetBanned(context.Background(), cred, args[0], false, "")
		})
	},
}

var opCmd = &cobra.Command{
	Use:   "op [name]",
	Short: "Make a player an operator",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPlayerAction("granting operator", func(r *players.Reconciler, cred sdk.Credential) error {
			return r.SetOp(context.Background(), cred, args[0], true)
		})
	},
}

var deopCmd = &cobra.Command{
	Use:   "deop [name]",
	Short: "Remove operator status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPlayerAction("revoking operator", func(r *players.Reconciler, cred sdk.Credential) error {
			return r.SetOp(context.Background(), cred, args[0], false)
		})
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [name]",
	Short: "Dismiss rejected join attempts",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPlayerAction("dismissing rejected player", func(r *players.Reconciler, cred sdk.Credential) error {
			return r.DismissRejected(context.Background(), cred, args[0])
		})
	},
}

func init() {
	playersListCmd.Flags().BoolVar(&playersListJSON, "json", false, "Print as JSON")
	whitelistAddCmd.Flags().BoolVar(&whitelistLegacy, "legacy", false, "Use the legacy whitelist_add console endpoint")
	banCmd.Flags().StringVar(&banReason, "reason", players.DefaultBanReason, "Ban reason")

	whitelistCmd.AddCommand(whitelistAddCmd, whitelistRemoveCmd)
	playersCmd.AddCommand(playersListCmd, whitelistCmd, banCmd, unbanCmd, opCmd, deopCmd, dismissCmd)
	RootCmd.AddCommand(playersCmd)
}

func newReconciler(toasts *notify.Center) *players.Reconciler {
	return players.NewReconciler(Client, toasts,
		players.WithLogger(Log),
		players.OnUnauthorized(func() {
			if err := Session.Clear(); err != nil {
				Log.Errorw("failed to clear session", "error", err)
			}
		}),
	)
}

// runPlayerAction runs one mutation and prints the toast it produced.
func runPlayerAction(doing string, action func(*players.Reconciler, sdk.Credential) error) {
	cred := requireSession()
	toasts := notify.NewCenter(Config.ToastTTL())
	defer toasts.Close()

	err := action(newReconciler(toasts), cred)
	for _, t := range toasts.Active() {
		if t.Kind == notify.KindError {
			fmt.Fprintln(os.Stderr, t.Message)
		} else {
			fmt.Println(t.Message)
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, players.ErrReasonRequired):
		fatalf("Error %s: %v", doing, err)
	case errors.Is(err, sdk.ErrUnauthorized):
		fatalf("Session expired. Run 'papermc login' again.")
	default:
		teardown()
		os.Exit(1)
	}
}

func handleLegacyWhitelistAdd(name string) {
	resp, err := Client.LegacyWhitelistAdd(context.Background(), requireSession(), name)
	if err != nil {
		fail("whitelisting player", err)
	}
	fmt.Println(statusOr(resp, "Whitelist command sent."))
}

func handlePlayersList(asJSON bool) {
	cred := requireSession()
	toasts := notify.NewCenter(Config.ToastTTL())
	defer toasts.Close()

	r := newReconciler(toasts)
	if err := r.Refresh(context.Background(), cred); err != nil {
		if errors.Is(err, sdk.ErrUnauthorized) {
			fail("listing players", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: some lists could not be loaded: %v\n", err)
	}
	list := r.Players()

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			fail("encoding players", err)
		}
		return
	}

	fmt.Println("Players:")
	for _, p := range list {
		fmt.Printf("- %s%s\n", p.Name, describePlayer(p))
	}
}

func describePlayer(p players.UnifiedPlayer) string {
	var tags []string
	if p.Online {
		tags = append(tags, "online")
	}
	if p.Whitelisted {
		tags = append(tags, "whitelisted")
	}
	if p.Op {
		tags = append(tags, "op")
	}
	if p.Banned {
		tag := "banned"
		if p.Reason != "" {
			tag += ": " + p.Reason
		}
		tags = append(tags, tag)
	}
	if p.Rejected {
		tags = append(tags, fmt.Sprintf("rejected x%d", p.RejectionCount))
	}
	if len(tags) == 0 {
		return ""
	}
	return " [" + strings.Join(tags, ", ") + "]"
}
