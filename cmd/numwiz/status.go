package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/numwiz/numwiz/pkg/badges"
	"github.com/numwiz/numwiz/pkg/client"
	"github.com/numwiz/numwiz/pkg/config"
)

type statusData struct {
	state    *client.State
	badges   *badges.Status
	fact     *client.Fact
	schedule *client.Schedule
	config   *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	state, err := apiClient.GetState()
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	st, err := apiClient.GetBadges()
	if err != nil {
		return nil, fmt.Errorf("failed to get badges: %w", err)
	}

	fact, err := apiClient.GetFact()
	if err != nil {
		return nil, fmt.Errorf("failed to get fact: %w", err)
	}

	sch, err := apiClient.GetSchedule()
	if err != nil {
		return nil, fmt.Errorf("failed to get reset schedule: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		state:    state,
		badges:   st,
		fact:     fact,
		schedule: sch,
		config:   conf,
	}, nil
}

type statusJSON struct {
	Display       string                `json:"display"`
	Screen        string                `json:"screen"`
	Phase         string                `json:"phase"`
	FirstOperand  string                `json:"firstOperand,omitempty"`
	Pending       string                `json:"pendingOperator,omitempty"`
	Badges        int                   `json:"badges"`
	Required      int                   `json:"required"`
	Scientific    bool                  `json:"scientificUnlocked"`
	Fact          string                `json:"fact,omitempty"`
	NextReset     string                `json:"nextReset,omitempty"`
	Configuration *config.RawFileConfig `json:"configuration"`
}

func NewStatusCommand() *cobra.Command {
	asJSON := false

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of numwiz",
		Long:    `Get the calculator state, badge progress, the current fun fact and configuration.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			// Fill in defaults for keys the config file leaves unset.
			conf := config.NewFileFromConfig(data.config, "")

			if asJSON {
				raw, err := config.NewRawFileConfigFromConfig(conf)
				if err != nil {
					return err
				}
				out := statusJSON{
					Display:       data.state.Display.Display,
					Screen:        data.state.Screen,
					Phase:         string(data.state.Phase),
					FirstOperand:  data.state.FirstOperand,
					Pending:       string(data.state.PendingOperator),
					Badges:        data.badges.Unlocked,
					Required:      data.badges.Required,
					Scientific:    data.badges.ScientificUnlocked,
					Fact:          data.fact.Fact,
					NextReset:     data.schedule.NextRun,
					Configuration: raw,
				}
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(b))
				return nil
			}

			cmd.Println(bold("Calculator:"))
			cmd.Printf("  Display: %s\n", bold("%s", data.state.Screen))
			cmd.Printf("  Phase: %s\n", data.state.Phase)
			if data.state.PendingOperator != "" {
				cmd.Printf("  Pending: %s %s\n", data.state.FirstOperand, data.state.PendingOperator.Symbol())
			}
			if last := data.state.LastBinaryOp; last != nil {
				cmd.Printf("  Repeat on '=': %s %s\n", last.Operator.Symbol(), last.Operand)
			}
			cmd.Println()

			cmd.Println(bold("Badges:"))
			cmd.Printf("  Progress: %s (%d/%d)\n", progressBar(data.badges.ProgressPercent, 20), data.badges.Unlocked, data.badges.Required)
			cmd.Printf("  Scientific mode: %s\n", bool2Text(data.badges.ScientificUnlocked))
			cmd.Println()

			if data.fact.Fact != "" {
				cmd.Println(bold("Did you know?"))
				cmd.Println("  " + data.fact.Fact)
				cmd.Println()
			}

			cmd.Println(bold("Configuration:"))
			cmd.Printf("  Badge highlight: %s\n", bold("%d ms", conf.HighlightMillis()))
			cmd.Printf("  Show fun facts: %s\n", bool2Text(conf.ShowFacts()))
			cmd.Printf("  Badges for scientific mode: %s\n", bold("%d", conf.ScientificUnlockBadges()))
			if conf.ResetCron() != "" {
				cmd.Printf("  Session reset: %s (next at %s)\n", bold("%s", conf.ResetCron()), data.schedule.NextRun)
			} else {
				cmd.Printf("  Session reset: %s\n", color.New(color.Faint).Sprint("disabled"))
			}
			cmd.Printf("  Allow other users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func NewBadgesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "badges",
		GroupID: gBasic,
		Short:   "List badges and how to earn them",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := apiClient.GetBadges()
			if err != nil {
				return fmt.Errorf("failed to get badges: %w", err)
			}
			printBadges(cmd, st)
			return nil
		},
	}
}

func printBadges(cmd *cobra.Command, st *badges.Status) {
	for _, b := range st.Badges {
		name := b.Name
		switch {
		case b.ID == st.Highlight:
			name = color.New(color.Bold, color.FgYellow).Sprint(name + " (new!)")
		case b.Unlocked:
			name = bold("%s", name)
		default:
			name = color.New(color.Faint).Sprint(name)
		}
		cmd.Printf("  %s %s %s\n", bool2Text(b.Unlocked), b.Icon, name)
		if !b.Unlocked {
			cmd.Printf("      %s\n", b.Hint)
		}
	}
	cmd.Println()
	cmd.Printf("  %s (%d/%d)\n", progressBar(st.ProgressPercent, 20), st.Unlocked, st.Required)
	if st.ScientificUnlocked {
		cmd.Println("  " + color.New(color.Bold, color.FgGreen).Sprint("Scientific mode unlocked!"))
	}
}
