package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionLogoutCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session (or refresh the current one)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": username}
			var result Session

			if err := client.Post("/api/session", req, &result); err != nil {
				return err
			}

			// Save token so later commands authenticate as this player
			if err := cfg.SaveToken(result.SessionID); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get("/api/session", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/session", nil); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}
