package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerJoinCmd())
	cmd.AddCommand(newPlayerGuessCmd())
	cmd.AddCommand(newPlayerBetCmd())
	cmd.AddCommand(newPlayerSubmitCmd())
	cmd.AddCommand(newPlayerReconnectCmd())

	return cmd
}

func newPlayerJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := map[string]string{"name": name}
			var result JoinResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", code), req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.PlayerToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <code> <player-id>=<number>...",
		Short: "Replace your guess sheet",
		Long: `Replace your guess sheet with the given entries. Each argument is a
player-id=number pair; a pair with no number (player-id=) clears that guess.
The sheet is replaced wholesale, so repeat unchanged guesses on every call.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			guesses := map[string]*int{}
			for _, arg := range args[1:] {
				target, value, found := strings.Cut(arg, "=")
				if !found || target == "" {
					return fmt.Errorf("invalid guess %q: expected player-id=number", arg)
				}
				if value == "" {
					guesses[target] = nil
					continue
				}
				n, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("invalid guess %q: %w", arg, err)
				}
				guesses[target] = &n
			}

			req := map[string]any{"guesses": guesses}
			var result GuessesResult

			if err := client.Put(fmt.Sprintf("/api/v1/rooms/%s/guesses", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerBetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bet <code> <player-id|decline>",
		Short: "Bet on who finishes last, or decline",
		Long: `Place your once-only bet on which player finishes with the lowest score,
or pass "decline" to lock in no bet. Either way the choice is final.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := map[string]string{"target": args[1]}

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/bet", code), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if args[1] == "decline" {
				out.PrintMessage("Bet declined")
			} else {
				out.PrintMessage(fmt.Sprintf("Bet placed on %s", args[1]))
			}
			return nil
		},
	}
}

func newPlayerSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <code>",
		Short: "Submit your answers (final)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/submit", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Answers submitted")
			return nil
		},
	}
}

func newPlayerReconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconnect <code>",
		Short: "Rejoin a room and fetch the current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Snapshot

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/reconnect", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
