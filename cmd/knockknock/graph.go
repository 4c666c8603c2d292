package main

import (
	"context"
	"fmt"

	"github.com/aretw0/knockknock"
	"github.com/aretw0/knockknock/internal/presentation/graph"
	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialogue state machine",
	Long: `Outputs a Mermaid diagram (graph TD) of the dialogue states and transitions.
With --replay, the given client lines are played against the built-in content
and the states visited are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repeat, _ := cmd.Flags().GetString("repeat")
		policy := domain.RepeatPolicy(repeat)
		if !policy.Valid() {
			return fmt.Errorf("invalid --repeat %q: must be \"skip\" or \"reopen\"", repeat)
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("replay") {
			lines, _ := cmd.Flags().GetStringSlice("replay")
			var err error
			overlay, err = replay(cmd.Context(), policy, lines)
			if err != nil {
				return err
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(domain.Transitions(policy), overlay))
		return nil
	},
}

// replay plays lines against a fresh engine and records the states reached.
func replay(ctx context.Context, policy domain.RepeatPolicy, lines []string) (*graph.GraphOverlay, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	eng, err := knockknock.New(knockknock.WithRepeatPolicy(policy))
	if err != nil {
		return nil, err
	}

	overlay := &graph.GraphOverlay{VisitedStates: []domain.DialogueState{eng.State()}}
	if _, err := eng.Start(ctx); err != nil {
		return nil, err
	}
	overlay.VisitedStates = append(overlay.VisitedStates, eng.State())

	for _, line := range lines {
		if eng.Done() {
			break
		}
		if _, err := eng.Reply(ctx, line); err != nil {
			return nil, err
		}
		overlay.VisitedStates = append(overlay.VisitedStates, eng.State())
	}
	overlay.CurrentState = eng.State()
	return overlay, nil
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("repeat", string(domain.RepeatSkipOpening), "Repeat policy to draw: skip or reopen")
	graphCmd.Flags().StringSlice("replay", nil, "Comma-separated client lines to replay and highlight")
}
