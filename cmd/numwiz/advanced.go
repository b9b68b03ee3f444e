package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newEnableDisableCommand(
	use, short, long string,
	enableFunc func() (string, error),
	disableFunc func() (string, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		GroupID: gAdvanced,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Enable " + short,
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				if _, err := enableFunc(); err != nil {
					return fmt.Errorf("failed to enable %s: %w", use, err)
				}
				logrus.Infof("successfully enabled %s", use)
				return nil
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Disable " + short,
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				if _, err := disableFunc(); err != nil {
					return fmt.Errorf("failed to disable %s: %w", use, err)
				}
				logrus.Infof("successfully disabled %s", use)
				return nil
			},
		},
	)

	return cmd
}

func NewSetShowFactsCommand() *cobra.Command {
	return newEnableDisableCommand(
		"show-facts",
		"fun facts after calculations",
		`Set whether the daemon shows a fun fact after calculations.

Disabling facts also dismisses the one currently shown.`,
		func() (string, error) { return apiClient.SetShowFacts(true) },
		func() (string, error) { return apiClient.SetShowFacts(false) },
	)
}

// parseHighlight accepts a duration such as "1.5s" or a plain number of
// milliseconds.
func parseHighlight(s string) (int, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("highlight duration must not be negative")
		}
		return ms, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("highlight duration must not be negative")
	}
	return int(d.Milliseconds()), nil
}

func NewSetHighlightCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "highlight <duration>",
		Short: "Set how long a new badge stays highlighted",
		Example: `  numwiz highlight 1.5s
  numwiz highlight 800   (milliseconds)
  numwiz highlight 0     (keep the highlight until the next badge)`,
		GroupID: gAdvanced,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ms, err := parseHighlight(args[0])
			if err != nil {
				return err
			}
			if _, err := apiClient.SetHighlightMillis(ms); err != nil {
				return fmt.Errorf("failed to set highlight: %w", err)
			}
			logrus.Infof("successfully set badge highlight to %s", time.Duration(ms)*time.Millisecond)
			return nil
		},
	}
}

func NewSetUnlockBadgesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "unlock-badges <count>",
		Short:   "Set how many badges unlock scientific mode",
		GroupID: gAdvanced,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid badge count %q: %w", args[0], err)
			}
			if n < 1 {
				return fmt.Errorf("at least one badge is required")
			}
			if _, err := apiClient.SetScientificUnlockBadges(n); err != nil {
				return fmt.Errorf("failed to set badge count: %w", err)
			}
			logrus.Infof("successfully set badges required for scientific mode to %d", n)
			return nil
		},
	}
}
