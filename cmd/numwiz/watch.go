package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Follow calculations, badges and facts as they happen",
		GroupID: gAdvanced,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			evCh, err := apiClient.SubscribeEvents(ctx)
			if err != nil {
				return fmt.Errorf("failed to watch events: %w", err)
			}

			for ev := range evCh {
				logrus.WithFields(logrus.Fields{
					"event": ev.Name,
					"data":  string(ev.Data),
				}).Debug("new event")

				line, err := formatEvent(ev)
				if err != nil {
					logrus.WithError(err).Errorf("failed to decode %s event", ev.Name)
					continue
				}
				if line != "" {
					cmd.Println(line)
				}
			}

			if ctx.Err() == nil {
				return fmt.Errorf("daemon closed the event stream")
			}
			return nil
		},
	}
}

// formatEvent renders one event as a line of output. Unknown events give
// an empty line.
func formatEvent(ev events.Event) (string, error) {
	switch ev.Name {
	case events.CalculationComplete:
		p, err := events.DecodeAs[events.CalculationEvent](ev)
		if err != nil {
			return "", err
		}
		ts := time.Unix(p.Ts, 0).Format(time.Kitchen)
		if p.Error != "" {
			return fmt.Sprintf("%s  %-8s %s", ts, p.Operator, color.RedString(p.Display)), nil
		}
		return fmt.Sprintf("%s  %-8s %s", ts, p.Operator, bold("%s", p.Display)), nil
	case events.BadgeUnlocked:
		p, err := events.DecodeAs[events.BadgeUnlockedEvent](ev)
		if err != nil {
			return "", err
		}
		line := color.New(color.Bold, color.FgYellow).Sprintf("🏅 Badge unlocked: %s (%d/%d)", p.Name, p.Unlocked, p.Required)
		if p.ScientificUnlocked && p.Unlocked == p.Required {
			line += "\n" + color.New(color.Bold, color.FgGreen).Sprint("🔬 Scientific mode unlocked!")
		}
		return line, nil
	case events.FactShown:
		p, err := events.DecodeAs[events.FactShownEvent](ev)
		if err != nil {
			return "", err
		}
		return "💡 " + p.Fact, nil
	case events.SessionReset:
		p, err := events.DecodeAs[events.SessionResetEvent](ev)
		if err != nil {
			return "", err
		}
		return color.New(color.Faint).Sprintf("session reset (%s)", p.Reason), nil
	case events.SessionResetSoon:
		p, err := events.DecodeAs[events.SessionResetEvent](ev)
		if err != nil {
			return "", err
		}
		return color.New(color.Faint).Sprintf("session resets at %s", time.Unix(p.Ts, 0).Format(time.Kitchen)), nil
	}
	return "", nil
}
