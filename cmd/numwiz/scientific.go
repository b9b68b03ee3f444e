package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/calculator"
)

// basicFuncs are on the keypad from the start; every other function needs
// scientific mode.
var basicFuncs = map[calculator.UnaryFunc]bool{
	calculator.Percent:    true,
	calculator.Sqrt:       true,
	calculator.Pow:        true,
	calculator.Reciprocal: true,
}

func funcNames() string {
	names := make([]string, 0, len(calculator.UnaryFuncs))
	for _, fn := range calculator.UnaryFuncs {
		names = append(names, string(fn))
	}
	return strings.Join(names, ", ")
}

// checkScientific fails if fn needs scientific mode and the session has not
// unlocked it yet.
func checkScientific(fn calculator.UnaryFunc) error {
	if basicFuncs[fn] {
		return nil
	}
	st, err := apiClient.GetBadges()
	if err != nil {
		return fmt.Errorf("failed to get badges: %w", err)
	}
	if !st.ScientificUnlocked {
		return fmt.Errorf("%s needs scientific mode, which unlocks after %d badges (you have %d). See 'numwiz badges'", fn, st.Required, st.Unlocked)
	}
	return nil
}

func NewFnCommand() *cobra.Command {
	force := false

	cmd := &cobra.Command{
		Use:     "fn [function]",
		Aliases: []string{"func"},
		Short:   "Apply a function to the display",
		GroupID: gScientific,
		Long: fmt.Sprintf(`Apply a function to the display value.

Functions: %s.
Angles are in radians. percent, sqrt, pow (square) and reciprocal are
always available; the rest need scientific mode.`, funcNames()),
		Example: `  numwiz fn sqrt
  numwiz fn sin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn := calculator.UnaryFunc(strings.ToLower(args[0]))
			if !fn.Valid() {
				return fmt.Errorf("unknown function %q, expected one of: %s", args[0], funcNames())
			}

			if !force {
				if err := checkScientific(fn); err != nil {
					return err
				}
			}

			d, err := apiClient.Unary(fn)
			if err != nil {
				return fmt.Errorf("failed to apply %s: %w", fn, err)
			}
			printDisplay(cmd, d)
			return showFact(cmd)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "apply the function even if scientific mode is locked")

	return cmd
}

func NewConstantCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "constant [pi|e|number]",
		Short:   "Put a constant on the display",
		GroupID: gScientific,
		Example: `  numwiz constant pi
  numwiz constant 6.02214076e23`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			literal := args[0]
			switch strings.ToLower(literal) {
			case "pi", "π":
				literal = calculator.FormatNumber(math.Pi)
			case "e":
				literal = calculator.FormatNumber(math.E)
			}

			d, err := apiClient.Constant(literal)
			if err != nil {
				return fmt.Errorf("failed to set constant: %w", err)
			}
			printDisplay(cmd, d)
			return showFact(cmd)
		},
	}
}
