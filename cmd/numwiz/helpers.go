package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/calculator"
	"github.com/numwiz/numwiz/pkg/client"
)

// printDisplay renders the calculator screen, errors in red.
func printDisplay(cmd *cobra.Command, d *client.Display) {
	if calculator.IsErrorTag(d.Display) {
		cmd.Println(color.New(color.Bold, color.FgRed).Sprint(d.Screen))
		return
	}
	cmd.Println(bold("%s", d.Screen))
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

// progressBar draws percent (0-100) as a bar of width cells.
func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return fmt.Sprintf("%s %3.0f%%", bar, percent)
}

// simpleAction builds a command that calls one daemon action and prints the
// display.
func simpleAction(use, short string, action func() (*client.Display, error)) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		GroupID: gBasic,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := action()
			if err != nil {
				return fmt.Errorf("failed to %s: %w", use, err)
			}
			printDisplay(cmd, d)
			return nil
		},
	}
}
