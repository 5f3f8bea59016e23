package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/grabble/internal/api/request"
	"github.com/mcoot/grabble/internal/api/response"
	"github.com/mcoot/grabble/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGamePlaceCmd())
	cmd.AddCommand(newGameRemoveCmd())
	cmd.AddCommand(newGameBlankCmd())
	cmd.AddCommand(newGameValidateCmd())
	cmd.AddCommand(newGameClaimCmd())
	cmd.AddCommand(newGameSwapCmd())
	cmd.AddCommand(newGameEndTurnCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start a game in the room (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.TurnResponse

			if err := client.Post(roomPath(args[0], "game"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Get(roomPath(args[0], "game"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGamePlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place <code> <column>:<tile-index>...",
		Short: "Drop rack tiles into columns",
		Long: `Drop one or more rack tiles into board columns. Each placement is
column:tile-index, e.g. "3:0 3:1 3:2". Tiles dropped into the same column
stack with the first placement on top.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			placements := make([]request.Placement, 0, len(args)-1)
			for _, arg := range args[1:] {
				p, err := parsePlacement(arg)
				if err != nil {
					return err
				}
				placements = append(placements, p)
			}

			req := request.PlaceRequest{Placements: placements}
			var result response.PlaceResponse

			if err := client.Post(roomPath(args[0], "game", "place"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code> <x>,<y>",
		Short: "Take back a tile placed this turn",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			req := request.PositionRequest{X: pos.X, Y: pos.Y}
			var result response.TurnResponse

			if err := client.Post(roomPath(args[0], "game", "remove"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameBlankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blank <code> <x>,<y> <letter>",
		Short: "Choose the letter for a blank placed this turn",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			letter := strings.ToUpper(args[2])
			if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
				return fmt.Errorf("letter must be a single character A-Z")
			}

			req := request.BlankRequest{X: pos.X, Y: pos.Y, Letter: letter}
			var result response.TurnResponse

			if err := client.Post(roomPath(args[0], "game", "blank"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <code> <word>...",
		Short: "Check claims without scoring them",
		Long: `Check one or more word claims without committing them. Each word is
its cells in reading order joined by ";", e.g. "3,4;3,5;3,6".`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseClaims(args[1:])
			if err != nil {
				return err
			}

			var result model.ClaimBatchResult

			if err := client.Post(roomPath(args[0], "game", "validate"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <code> <word>...",
		Short: "Claim words and end the turn",
		Long: `Claim one or more words. Each word is its cells in reading order
joined by ";", e.g. "3,4;3,5;3,6". If any claim is invalid nothing is
scored and the turn continues.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseClaims(args[1:])
			if err != nil {
				return err
			}

			var result response.ClaimResponse

			if err := client.Post(roomPath(args[0], "game", "claim"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameSwapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <code> <tile-index>...",
		Short: "Swap rack tiles with the bag, ending the turn",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			indices := make([]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				i, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid tile index %q", arg)
				}
				indices = append(indices, i)
			}

			req := request.SwapRequest{TileIndices: indices}
			var result response.TurnResponse

			if err := client.Post(roomPath(args[0], "game", "swap"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameEndTurnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end-turn <code>",
		Short: "End the turn without claiming",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.TurnResponse

			if err := client.Post(roomPath(args[0], "game", "end-turn"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

// parsePlacement parses "column:tile-index"
func parsePlacement(s string) (request.Placement, error) {
	col, idx, ok := strings.Cut(s, ":")
	if !ok {
		return request.Placement{}, fmt.Errorf("invalid placement %q: want column:tile-index", s)
	}

	c, err := strconv.Atoi(strings.TrimSpace(col))
	if err != nil {
		return request.Placement{}, fmt.Errorf("invalid column in %q", s)
	}
	i, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil {
		return request.Placement{}, fmt.Errorf("invalid tile index in %q", s)
	}

	return request.Placement{Column: c, TileIndex: i}, nil
}

// parsePosition parses "x,y"
func parsePosition(s string) (model.Position, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return model.Position{}, fmt.Errorf("invalid position %q: want x,y", s)
	}

	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return model.Position{}, fmt.Errorf("invalid x in %q", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return model.Position{}, fmt.Errorf("invalid y in %q", s)
	}

	return model.Position{X: x, Y: y}, nil
}

// parseClaims parses one claim per argument, cells separated by ";"
func parseClaims(words []string) (request.ClaimRequest, error) {
	req := request.ClaimRequest{Claims: make([]request.Claim, 0, len(words))}
	for _, word := range words {
		var claim request.Claim
		for _, cell := range strings.Split(word, ";") {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			pos, err := parsePosition(cell)
			if err != nil {
				return request.ClaimRequest{}, err
			}
			claim.Positions = append(claim.Positions, request.PositionRequest{X: pos.X, Y: pos.Y})
		}
		if len(claim.Positions) == 0 {
			return request.ClaimRequest{}, fmt.Errorf("empty claim %q", word)
		}
		req.Claims = append(req.Claims, claim)
	}
	return req, nil
}
