package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/numwiz/numwiz/pkg/client"
)

var (
	logLevel       = "info"
	unixSocketPath = filepath.Join(os.TempDir(), "numwiz.sock")
	configPath     = defaultConfigPath()
)

var (
	gBasic      = "Basic:"
	gScientific = "Scientific:"
	gAdvanced   = "Advanced:"

	commandGroups = []string{
		gBasic,
		gScientific,
		gAdvanced,
	}
)

var apiClient *client.Client

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "numwiz.json"
	}
	return filepath.Join(dir, "numwiz", "numwiz.json")
}

// loadEnv reads .env from the working directory, if present, and lets
// NUMWIZ_* variables override the built-in flag defaults.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	if v := os.Getenv("NUMWIZ_CONFIG"); v != "" {
		configPath = v
	}
	if v := os.Getenv("NUMWIZ_SOCKET"); v != "" {
		unixSocketPath = v
	}
	if v := os.Getenv("NUMWIZ_LOG_LEVEL"); v != "" {
		logLevel = v
	}
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: numwiz daemon is not running")
		fmt.Fprintln(os.Stderr, "  - Start it with 'numwiz daemon'")
		fmt.Fprintln(os.Stderr, "  - Or evaluate offline with 'numwiz calc'")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - The daemon was started by another user")
		fmt.Fprintln(os.Stderr, "  - Restart it with '--always-allow-non-root-access' or set allowNonRootAccess in its config")
	case errors.Is(err, client.ErrNotFound):
		fmt.Fprintln(os.Stderr, "\nError: the daemon does not know this request")
		fmt.Fprintln(os.Stderr, "  - Make sure client and daemon are the same version ('numwiz version')")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	loadEnv()

	cmd := &cobra.Command{
		Use:   "numwiz",
		Short: "numwiz is a calculator that rewards curiosity",
		Long: `numwiz is a calculator that rewards curiosity.

Type calculations key by key, collect badges for interesting results and
read a fun fact now and then. Collect enough badges to unlock scientific
mode.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}
			apiClient = client.NewClient(unixSocketPath)
			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", logLevel, "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "numwiz daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewPressCommand(),
		NewDigitCommand(),
		NewDecimalCommand(),
		NewOperatorCommand(),
		NewNegateCommand(),
		NewEqualsCommand(),
		NewClearCommand(),
		NewDisplayCommand(),
		NewCalcCommand(),
		NewFnCommand(),
		NewConstantCommand(),
		NewStatusCommand(),
		NewBadgesCommand(),
		NewFactCommand(),
		NewWatchCommand(),
		NewResetCommand(),
		NewScheduleCommand(),
		NewSetShowFactsCommand(),
		NewSetHighlightCommand(),
		NewSetUnlockBadgesCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
