package cli

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Game-state commands",
	}

	cmd.AddCommand(newStateGetCmd())
	cmd.AddCommand(newStateSetCmd())
	cmd.AddCommand(newStateDeleteCmd())

	return cmd
}

func newStateGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get a room's game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get("/api/game-state?roomId="+url.QueryEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStateSetCmd() *cobra.Command {
	var stateJSON, action string
	var expectedVersion int64

	cmd := &cobra.Command{
		Use:   "set <code>",
		Short: "Write a room's game state",
		Long: `Write a room's game state from a JSON document.

With --expected-version the write is conditional and fails if another
player has written since that version was read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(stateJSON)) {
				return fmt.Errorf("--state must be valid JSON")
			}

			req := map[string]any{
				"state": json.RawMessage(stateJSON),
			}
			if action != "" {
				req["lastAction"] = action
			}
			if cmd.Flags().Changed("expected-version") {
				req["expectedVersion"] = expectedVersion
			}

			var result GameState
			if err := client.Post("/api/game-state?roomId="+url.QueryEscape(args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&stateJSON, "state", "", "Game state as a JSON document (required)")
	cmd.Flags().StringVar(&action, "action", "", "Action label for this write")
	cmd.Flags().Int64Var(&expectedVersion, "expected-version", 0, "Version this write is conditioned on")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func newStateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a room's game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeleteResult

			if err := client.Delete("/api/game-state?roomId="+url.QueryEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
