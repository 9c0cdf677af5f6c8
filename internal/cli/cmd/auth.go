package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"papermc/internal/cli/ui"
	"papermc/pkg/sdk"
)

var loginUser, loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend",
	Long:  "Log in with --user and --password, or without flags to open the login form.",
	Run: func(cmd *cobra.Command, args []string) {
		if loginUser == "" || loginPassword == "" {
			handleInteractiveLogin()
			return
		}
		handleLogin(loginUser, loginPassword)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Run: func(cmd *cobra.Command, args []string) {
		handleLogout()
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")

	RootCmd.AddCommand(loginCmd, logoutCmd)
}

func handleLogin(username, password string) {
	token, err := Client.Login(context.Background(), username, password)
	if err != nil {
		if errors.Is(err, sdk.ErrInvalidCredentials) {
			fatalf("Login failed: invalid credentials")
		}
		fail("logging in", err)
	}
	if err := Session.Set(username, token); err != nil {
		fail("saving session", err)
	}
	Log.Infow("logged in", "username", username, "base_url", Client.BaseURL())
	fmt.Printf("Logged in as %s.\n", username)
}

func handleInteractiveLogin() {
	route, err := ui.RunLogin(deps())
	if err != nil {
		fail("running login form", err)
	}
	if route == ui.RouteConsole {
		fmt.Printf("Logged in as %s.\n", Session.LastUsername())
	}
}

func handleLogout() {
	if err := Session.Clear(); err != nil {
		fail("logging out", err)
	}
	Log.Infow("logged out")
	fmt.Println("Logged out.")
}
