package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/grabble/internal/api/request"
	"github.com/mcoot/grabble/internal/api/response"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomReadyCmd())
	cmd.AddCommand(newRoomConfigCmd())
	cmd.AddCommand(newRoomAddBotCmd())
	cmd.AddCommand(newRoomRemoveBotCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var targetScore int
	var password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateRoomRequest{
				TargetScore: targetScore,
				Password:    password,
			}
			var result response.Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&targetScore, "target", 0, "Target score (default: server default)")
	cmd.Flags().StringVar(&password, "password", "", "Password required to join")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Room

			if err := client.Get(roomPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.JoinRoomRequest{Password: password}
			var result response.Room

			if err := client.Post(roomPath(args[0], "join"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Room password")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(roomPath(code, "leave"), nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Left room %s", code))
			return nil
		},
	}
}

func newRoomReadyCmd() *cobra.Command {
	var notReady bool

	cmd := &cobra.Command{
		Use:   "ready <code>",
		Short: "Mark yourself ready (or not) for the next game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.ReadyRequest{Ready: !notReady}
			var result response.Room

			if err := client.Post(roomPath(args[0], "ready"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notReady, "not", false, "Clear the ready flag instead")

	return cmd
}

func newRoomConfigCmd() *cobra.Command {
	var targetScore int

	cmd := &cobra.Command{
		Use:   "config <code>",
		Short: "Update room configuration (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetScore <= 0 {
				return fmt.Errorf("--target must be positive")
			}

			req := request.UpdateConfigRequest{TargetScore: targetScore}
			var result response.Room

			if err := client.Patch(roomPath(args[0], "config"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&targetScore, "target", 0, "Target score (required)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newRoomAddBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "add-bot <code>",
		Short: "Add a bot player (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.AddBotRequest{Strategy: strategy}
			var result response.Room

			if err := client.Post(roomPath(args[0], "bots"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Bot strategy: random, greedy (default: greedy)")

	return cmd
}

func newRoomRemoveBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-bot <code> <bot-id>",
		Short: "Remove a bot player (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(roomPath(args[0], "bots", args[1])); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Removed bot %s", args[1]))
			return nil
		},
	}
}
