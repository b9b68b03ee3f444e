package main

import (
	"fmt"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/config"
	daemonutils "github.com/numwiz/numwiz/pkg/utils/daemon"
)

func NewInstallCommand() *cobra.Command {
	allowNonRootAccess := false

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install numwiz daemon as a systemd user service",
		GroupID: gAdvanced,
		Long: `Install numwiz daemon as a systemd user service.

This makes the daemon run in the background and start when you log in.
By default only you can talk to the daemon. Use --allow-non-root-access to
let other local users share your calculator session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			conf.SetAllowNonRootAccess(allowNonRootAccess)
			if allowNonRootAccess {
				logrus.Info("other users are allowed to access the numwiz daemon.")
			}

			if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
				return pkgerrors.Wrapf(err, "failed to create config directory")
			}
			err = conf.Save()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to save config")
			}

			err = daemonutils.Install(configPath, unixSocketPath)
			if err != nil {
				return fmt.Errorf("failed to install daemon: %w", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()
			cmd.Printf("systemd will start the current binary (%s), so please do not move it. If you do, run `numwiz install' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow other users to access numwiz daemon.")

	return cmd
}

func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall numwiz daemon",
		GroupID: gAdvanced,
		Long: `Uninstall numwiz daemon.

This stops the daemon and removes its systemd user unit. The config file is
kept.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := daemonutils.Uninstall(); err != nil {
				return fmt.Errorf("failed to uninstall daemon: %w", err)
			}
			logrus.Infof("successfully uninstalled numwiz daemon")
			return nil
		},
	}
}
