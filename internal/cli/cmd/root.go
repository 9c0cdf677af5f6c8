package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"papermc/internal/cli/ui"
	"papermc/internal/config"
	"papermc/internal/logger"
	"papermc/internal/session"
	"papermc/internal/storage"
	"papermc/pkg/sdk"
)

var (
	Client   *sdk.Client
	Session  *session.Store
	Config   *config.Config
	Log      *logger.Logger
	BaseURL  string
	LogLevel string

	store   *storage.GormStore
	logFile io.Closer
)

var RootCmd = &cobra.Command{
	Use:   "papermc",
	Short: "Terminal client for the PaperMC server manager",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	Run: func(cmd *cobra.Command, args []string) {
		RunDashboard(ui.RouteConsole)
	},
}

func Execute() {
	RootCmd.PersistentFlags().StringVar(&BaseURL, "url", "", "URL of the PaperMC backend (overrides config)")
	RootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setup() error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("locating config directory: %w", err)
	}

	Config, err = config.LoadConfig(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if BaseURL != "" {
		Config.BaseURL = BaseURL
	}
	if LogLevel != "" {
		Config.LogLevel = LogLevel
	}

	Log, logFile, err = logger.NewFile(Config.LogLevel, Config.LogPath)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	store, err = storage.NewGormStore(Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening local database: %w", err)
	}

	Session, err = session.NewStore(store)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	Client = sdk.NewClient(Config.BaseURL)
	Log.Debugw("client ready", "base_url", Config.BaseURL, "authenticated", Session.Authenticated())
	return nil
}

func teardown() {
	if store != nil {
		store.Close()
	}
	if Log != nil {
		_ = Log.Sync()
	}
	if logFile != nil {
		logFile.Close()
	}
}

func deps() ui.Deps {
	return ui.Deps{
		Backend:        Client,
		Session:        Session,
		Log:            Log,
		BaseURL:        Client.BaseURL(),
		WebSocketURL:   Client.WebSocketURL,
		PollInterval:   Config.PollInterval(),
		ReconnectDelay: Config.ReconnectDelay(),
		ToastTTL:       Config.ToastTTL(),
	}
}

// requireSession returns the stored credential or exits with a hint to log in.
func requireSession() sdk.Credential {
	cred := Session.Credential()
	if cred.Empty() {
		fatalf("Not logged in. Run 'papermc login' first.")
	}
	return cred
}

// fail exits for err. A 401 also drops the stored token so the next command
// asks for a login instead of retrying it.
func fail(doing string, err error) {
	if errors.Is(err, sdk.ErrUnauthorized) {
		if clearErr := Session.Clear(); clearErr != nil {
			Log.Errorw("failed to clear session", "error", clearErr)
		}
		fatalf("Error %s: session expired. Run 'papermc login' again.", doing)
	}
	Log.Errorw("command failed", "doing", doing, "error", err)
	fatalf("Error %s: %v", doing, err)
}

func fatalf(format string, args ...interface{}) {
	teardown()
	log.Fatalf(format, args...)
}
