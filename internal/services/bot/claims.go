package bot

import (
	"context"
	"sort"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/detection"
	"github.com/mcoot/grabble/internal/services/engine"
)

// Claim is a word the bot can claim this turn
type Claim struct {
	Positions []model.Position
	Word      string
	Score     int
}

// FindClaims lists every valid claim available to the player: each
// stretch of three or more tiles along a board line, read either way, that
// includes a newly placed tile. Highest scores come first.
func FindClaims(ctx context.Context, eng *engine.Engine, seat model.PlayerID, newlyPlaced []model.Position) []Claim {
	board := eng.Board()
	seen := make(map[string]bool)
	var claims []Claim

	for _, run := range detection.FindAllWords(&board) {
		for start := 0; start < len(run); start++ {
			for end := start + detection.MinWordLength; end <= len(run); end++ {
				forward := run[start:end]
				if !detection.ContainsNewTile(forward, newlyPlaced) {
					continue
				}
				for _, positions := range [][]model.Position{forward, reversed(forward)} {
					res := eng.ValidateWordClaim(ctx, model.WordClaim{Positions: positions, PlayerID: seat}, newlyPlaced)
					if !res.Valid {
						continue
					}
					key := res.Word + "|" + model.PositionSetKey(positions)
					if seen[key] {
						continue
					}
					seen[key] = true
					claims = append(claims, Claim{
						Positions: append([]model.Position(nil), positions...),
						Word:      res.Word,
						Score:     res.Score,
					})
				}
			}
		}
	}

	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].Score > claims[j].Score
	})
	return claims
}

func reversed(positions []model.Position) []model.Position {
	out := make([]model.Position, len(positions))
	for i, p := range positions {
		out[len(positions)-1-i] = p
	}
	return out
}
