package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room administration commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomStartCmd())
	cmd.AddCommand(newRoomOperationCmd())
	cmd.AddCommand(newRoomSacrificeCmd())
	cmd.AddCommand(newRoomEndCmd())
	cmd.AddCommand(newRoomReconnectCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var rangeMin, rangeMax int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room (requires admin key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{}
			if rangeMin > 0 {
				req["range_min"] = rangeMin
			}
			if rangeMax > 0 {
				req["range_max"] = rangeMax
			}

			var result Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			// Save the admin token so later admin commands pick it up
			if err := cfg.SaveToken(result.AdminToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&rangeMin, "range-min", 0, "Lowest secret number (default: server default)")
	cmd.Flags().IntVar(&rangeMax, "range-max", 0, "Highest secret number (default: server default)")

	return cmd
}

func newRoomStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start the game (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result StartResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/start", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomOperationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operation <code> <player-a-id> <player-b-id> <op>",
		Short: "Execute a reveal operation between two players (admin only)",
		Long: `Execute a reveal operation between two players. Both players must still
hold the named card. Valid operations: + * / 0`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := map[string]string{
				"player_a_id": args[1],
				"player_b_id": args[2],
				"operation":   args[3],
			}
			var result Move

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/operations", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomSacrificeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sacrifice <code> <player-id>",
		Short: "Spend a sacrifice to restore a player's cards (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := map[string]string{"player_id": args[1]}
			var result SacrificeResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/sacrifice", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <code>",
		Short: "End the game and compute final scores (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result ScoresResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/end", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomReconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconnect <code>",
		Short: "Reclaim a room as admin (requires admin key)",
		Long: `Reclaim a room after losing the admin token. The admin key re-authenticates
the request; the server mints a replacement token and invalidates the old one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result AdminReconnectResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/admin/reconnect", code), nil, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.AdminToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
