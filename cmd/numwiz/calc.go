package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/badges"
	"github.com/numwiz/numwiz/pkg/calculator"
	"github.com/numwiz/numwiz/pkg/client"
	"github.com/numwiz/numwiz/pkg/facts"
	"github.com/numwiz/numwiz/pkg/keypad"
)

// calcResult is what an offline evaluation produced.
type calcResult struct {
	display  *client.Display
	fact     string
	unlocked []string
	badges   badges.Status
}

// evaluate presses keys on a fresh engine without talking to the daemon.
func evaluate(keys string) (*calcResult, error) {
	res := &calcResult{}

	tracker := badges.NewTracker(0, 0)
	defer tracker.Stop()
	tracker.OnUnlock = func(b badges.Badge, _ badges.Status) {
		res.unlocked = append(res.unlocked, b.Icon+" "+b.Name)
	}

	e := calculator.New(calculator.WithObserver(calculator.ObserverFunc(func(ev calculator.Event) {
		tracker.OnCalculationComplete(ev)
		if f, ok := facts.For(ev); ok {
			res.fact = f
		}
	})))

	if err := keypad.Run(e, keypad.Split(keys)); err != nil {
		return nil, err
	}

	res.display = &client.Display{
		Display: e.Display(),
		Screen:  e.Screen(),
		Phase:   e.Phase(),
	}
	res.badges = tracker.Status()
	return res, nil
}

func NewCalcCommand() *cobra.Command {
	quiet := false

	cmd := &cobra.Command{
		Use:     "calc [keys...]",
		Short:   "Evaluate a key sequence offline",
		GroupID: gBasic,
		Long: `Evaluate a key sequence on a fresh calculator, without the daemon.

Keys are the same as for 'numwiz press'.`,
		Example: `  numwiz calc 5 + 3 =
  numwiz calc "100+10%="
  numwiz calc 171 fact`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := evaluate(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to evaluate: %w", err)
			}

			printDisplay(cmd, res.display)
			if quiet {
				return nil
			}
			for _, b := range res.unlocked {
				cmd.Printf("🏅 %s\n", b)
			}
			if res.fact != "" {
				cmd.Println()
				cmd.Println("💡 " + res.fact)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the display")

	return cmd
}
