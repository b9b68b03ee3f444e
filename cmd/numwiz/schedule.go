package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"sch", "sched"},
		Short:   "Show or adjust the automatic session reset",
		Long: `Show or adjust the automatic session reset.

The reset schedule is a cron expression stored as resetCron in the daemon
config file.

  numwiz schedule                     Show the schedule
  numwiz schedule set <cron>          Change the schedule
  numwiz schedule disable             Turn automatic reset off
  numwiz schedule postpone [duration] Postpone the next reset
  numwiz schedule skip                Skip the next reset`,
		GroupID: gAdvanced,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScheduleShow(cmd)
		},
	}

	cmd.AddCommand(
		newScheduleSetCommand(),
		newScheduleDisableCommand(),
		newSchedulePostponeCommand(),
		newScheduleSkipCommand(),
	)

	return cmd
}

func runScheduleShow(cmd *cobra.Command) error {
	sch, err := apiClient.GetSchedule()
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}
	if sch.Cron == "" {
		cmd.Println("Automatic session reset is disabled.")
		return nil
	}
	cmd.Printf("Schedule: %s\n", bold("%s", sch.Cron))
	if sch.NextRun != "" {
		if t, err := time.Parse(time.RFC3339, sch.NextRun); err == nil {
			cmd.Printf("Next reset: %s (in %s)\n", bold("%s", t.Local().Format(time.DateTime)), time.Until(t).Round(time.Minute))
		}
	}
	return nil
}

func newScheduleSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <cron>",
		Short: "Change the session reset schedule",
		Example: `  numwiz schedule set "0 4 * * *"  (Every day at 04:00)
  numwiz schedule set @weekly`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := apiClient.SetResetCron(args[0]); err != nil {
				return fmt.Errorf("failed to set schedule: %w", err)
			}
			logrus.Infof("session reset schedule set to %q", args[0])
			return runScheduleShow(cmd)
		},
	}
}

func newScheduleDisableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Turn off the automatic session reset",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := apiClient.SetResetCron(""); err != nil {
				return fmt.Errorf("failed to disable schedule: %w", err)
			}
			logrus.Info("automatic session reset disabled")
			return nil
		},
	}
}

func newSchedulePostponeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "postpone [duration]",
		Short: "Postpone the next session reset",
		Example: `  numwiz schedule postpone      (Postpone by 1 hour)
  numwiz schedule postpone 90m  (Postpone by 90 minutes)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := time.Hour
			if len(args) > 0 {
				parsed, err := time.ParseDuration(args[0])
				if err != nil {
					return fmt.Errorf("invalid duration %q: %w", args[0], err)
				}
				d = parsed
			}
			if d < time.Minute {
				return fmt.Errorf("duration must be at least one minute")
			}

			if _, err := apiClient.PostponeReset(d); err != nil {
				return fmt.Errorf("failed to postpone: %w", err)
			}
			logrus.Infof("postponed the next session reset by %s", d)
			return runScheduleShow(cmd)
		},
	}
}

func newScheduleSkipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Skip the next session reset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := apiClient.SkipReset(); err != nil {
				return fmt.Errorf("failed to skip: %w", err)
			}
			logrus.Info("skipped the next session reset")
			return runScheduleShow(cmd)
		},
	}
}
