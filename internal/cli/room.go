package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomShowCmd())
	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomReadyCmd())
	cmd.AddCommand(newRoomStartCmd())
	cmd.AddCommand(newRoomQuickPlayCmd())
	cmd.AddCommand(newRoomDeleteCmd())

	return cmd
}

func newRoomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List public rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomList

			if err := client.Get("/api/rooms", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show a room and its game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomDetail

			if err := client.Get("/api/rooms?roomId="+url.QueryEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomCreateCmd() *cobra.Command {
	var name, roomType string
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":       name,
				"type":       roomType,
				"maxPlayers": maxPlayers,
			}
			var result Room

			if err := client.Post("/api/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Room name")
	cmd.Flags().StringVar(&roomType, "type", "public", "Room type: public, private")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Maximum players (default 4)")

	return cmd
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"roomId": args[0]}
			var result Room

			if err := client.Post("/api/rooms/join", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"roomId": args[0]}

			if err := client.Post("/api/rooms/leave", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left room")
			return nil
		},
	}
}

func newRoomReadyCmd() *cobra.Command {
	var notReady bool

	cmd := &cobra.Command{
		Use:   "ready <code>",
		Short: "Toggle ready state in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"roomId": args[0], "ready": !notReady}
			var result Room

			if err := client.Post("/api/rooms/ready", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notReady, "not-ready", false, "Mark as not ready")

	return cmd
}

func newRoomStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start the game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"roomId": args[0]}
			var result Room

			if err := client.Post("/api/rooms/start", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomQuickPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quickplay",
		Short: "Join any open public room, creating one if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post("/api/rooms/quickplay", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeleteResult

			if err := client.Delete("/api/rooms?roomId="+url.QueryEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
