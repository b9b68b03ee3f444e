package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/calculator"
	"github.com/numwiz/numwiz/pkg/client"
)

var operatorAliases = map[string]calculator.BinaryOperator{
	"+": calculator.Add,
	"-": calculator.Subtract,
	"*": calculator.Multiply,
	"x": calculator.Multiply,
	"×": calculator.Multiply,
	"/": calculator.Divide,
	"÷": calculator.Divide,
}

// parseOperator accepts an operator name such as "add" or its symbol.
func parseOperator(s string) (calculator.BinaryOperator, error) {
	if op, ok := operatorAliases[s]; ok {
		return op, nil
	}
	if op := calculator.BinaryOperator(s); op.Valid() {
		return op, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

func NewDigitCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "digit <0-9>",
		Short:   "Press a single digit button",
		GroupID: gBasic,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args[0]) != 1 || args[0][0] < '0' || args[0][0] > '9' {
				return fmt.Errorf("digit must be a single character 0-9, got %q", args[0])
			}
			d, err := apiClient.Digit(rune(args[0][0]))
			if err != nil {
				return fmt.Errorf("failed to press digit: %w", err)
			}
			printDisplay(cmd, d)
			return nil
		},
	}
}

func NewOperatorCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "op <operator>",
		Short:   "Press an operator button",
		Example: "  numwiz op add\n  numwiz op ÷",
		GroupID: gBasic,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := parseOperator(args[0])
			if err != nil {
				return err
			}
			d, err := apiClient.Operator(op)
			if err != nil {
				return fmt.Errorf("failed to press operator: %w", err)
			}
			printDisplay(cmd, d)
			return nil
		},
	}
}

func NewDecimalCommand() *cobra.Command {
	return simpleAction("decimal", "Press the decimal point button", withClient(func(c *client.Client) (*client.Display, error) {
		return c.Decimal()
	}))
}

func NewNegateCommand() *cobra.Command {
	return simpleAction("neg", "Press the sign toggle button", withClient(func(c *client.Client) (*client.Display, error) {
		return c.ToggleSign()
	}))
}

func NewEqualsCommand() *cobra.Command {
	cmd := simpleAction("equals", "Press the equals button", withClient(func(c *client.Client) (*client.Display, error) {
		return c.Equals()
	}))
	cmd.Aliases = []string{"eq"}
	cmd.RunE = withFact(cmd.RunE)
	return cmd
}

// withFact prints the current fun fact after run succeeds.
func withFact(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := run(cmd, args); err != nil {
			return err
		}
		return showFact(cmd)
	}
}
