package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/grabble/internal/api/request"
	"github.com/mcoot/grabble/internal/api/response"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerGuestCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerLogoutCmd())

	return cmd
}

func newPlayerGuestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Create a guest player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := request.CreateGuestRequest{DisplayName: name}
			var result response.AuthResponse

			if err := client.Post("/api/v1/players/guest", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
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

func newPlayerRegisterCmd() *cobra.Command {
	var name, user, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" || name == "" {
				return fmt.Errorf("--name, --user, and --pass are required")
			}

			req := request.RegisterRequest{
				Username:    user,
				Password:    pass,
				DisplayName: name,
			}
			var result response.AuthResponse

			if err := client.Post("/api/v1/players/register", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" {
				return fmt.Errorf("--user and --pass are required")
			}

			req := request.LoginRequest{
				Username: user,
				Password: pass,
			}
			var result response.AuthResponse

			if err := client.Post("/api/v1/players/login", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show current player info",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			if err := client.Get("/api/v1/players/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/players/logout", nil, nil); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}
