package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/client"
	"github.com/numwiz/numwiz/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)

			daemonVersion, err := apiClient.GetVersion()
			if err != nil {
				logrus.WithError(err).Debug("daemon version unavailable")
				return
			}
			cmd.Printf("daemon: %s\n", daemonVersion)
			if daemonVersion != version.Version {
				logrus.WithFields(logrus.Fields{
					"clientVersion": version.Version,
					"daemonVersion": daemonVersion,
				}).Warn("Version mismatch between client and daemon. Restart the daemon after upgrading.")
			}
		},
	}
}

func NewPressCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "press [keys...]",
		Aliases: []string{"p"},
		Short:   "Press keys on the daemon calculator",
		GroupID: gBasic,
		Long: `Press keys on the daemon calculator.

Keys are digits, '.', operators (+ - * x × / ÷), '=', '%', '±' or 'neg',
'c' to clear, function names such as sqrt or log2, and 'pi'. Keys may be
written together ("12+3=") or apart ("12 + 3 =").`,
		Example: `  numwiz press 12 + 3 =
  numwiz press "100+10%="
  numwiz press 2 sqrt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := apiClient.Keys(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to press keys: %w", err)
			}
			printDisplay(cmd, d)
			return showFact(cmd)
		},
	}
}

func NewClearCommand() *cobra.Command {
	return simpleAction("clear", "Clear the calculator", withClient(func(c *client.Client) (*client.Display, error) {
		return c.Clear()
	}))
}

func NewDisplayCommand() *cobra.Command {
	return simpleAction("display", "Show the calculator display", withClient(func(c *client.Client) (*client.Display, error) {
		return c.GetDisplay()
	}))
}

func NewResetCommand() *cobra.Command {
	cmd := simpleAction("reset", "Start a fresh session, locking all badges again", withClient(func(c *client.Client) (*client.Display, error) {
		return c.Reset()
	}))
	cmd.GroupID = gAdvanced
	return cmd
}

// withClient defers reading apiClient until the command runs, after the
// persistent flags have been parsed.
func withClient(f func(c *client.Client) (*client.Display, error)) func() (*client.Display, error) {
	return func() (*client.Display, error) {
		return f(apiClient)
	}
}

// showFact prints the current fun fact, if the daemon has one.
func showFact(cmd *cobra.Command) error {
	f, err := apiClient.GetFact()
	if err != nil {
		return fmt.Errorf("failed to get fact: %w", err)
	}
	if f.Fact != "" {
		cmd.Println()
		cmd.Println("💡 " + f.Fact)
	}
	return nil
}

func NewFactCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fact",
		Short:   "Show the current fun fact",
		GroupID: gBasic,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := apiClient.GetFact()
			if err != nil {
				return fmt.Errorf("failed to get fact: %w", err)
			}
			if f.Fact == "" {
				cmd.Println("No fact right now. Keep calculating!")
				return nil
			}
			cmd.Println("💡 " + f.Fact)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss the current fun fact",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := apiClient.DismissFact(); err != nil {
				return err
			}
			logrus.Info("fact dismissed")
			return nil
		},
	})

	return cmd
}
