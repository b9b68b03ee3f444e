package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/daemon"
	"github.com/numwiz/numwiz/pkg/version"
)

var (
	// alwaysAllowNonRootAccess lets every local user talk to the daemon.
	alwaysAllowNonRootAccess = false
)

func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run numwiz daemon in the foreground",
		GroupID: gAdvanced,
		Long: `Run numwiz daemon in the foreground.

The daemon hosts one calculator session on a unix socket. Send SIGHUP to
reload the config file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
				"config":  configPath,
				"socket":  unixSocketPath,
			}).Info("numwiz daemon starting")

			if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
				logrus.WithError(err).Warn("failed to create config directory")
			}
			return daemon.Run(configPath, unixSocketPath, alwaysAllowNonRootAccess)
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "always-allow-non-root-access", false,
		"Always allow other users to access the daemon.")

	return cmd
}
