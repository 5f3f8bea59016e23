package engine

import (
	"context"
	"fmt"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/detection"
)

// ValidateWordClaim checks a single claim against the board, the dictionary
// and the words already claimed, and scores it. It does not change state.
func (e *Engine) ValidateWordClaim(ctx context.Context, claim model.WordClaim, newlyPlaced []model.Position) model.ClaimResult {
	v := e.newValidator(newlyPlaced)
	return v.validate(ctx, claim)
}

// ProcessWordClaims validates a turn's claims together. If every claim is
// valid they are recorded, each claiming player's score rises by the claim's
// score, and blank tiles in the claimed words are locked. If any claim is
// invalid nothing changes and the batch total is 0.
//
// The returned error is non-nil only when ctx ends before validation
// completes or a claim names an unknown player.
func (e *Engine) ProcessWordClaims(ctx context.Context, claims []model.WordClaim, newlyPlaced []model.Position) (model.ClaimBatchResult, error) {
	for _, c := range claims {
		if _, err := e.player(c.PlayerID); err != nil {
			return model.ClaimBatchResult{}, fmt.Errorf("claim by player %d: %w", c.PlayerID, err)
		}
	}

	v := e.newValidator(newlyPlaced)
	results := make([]model.ClaimResult, 0, len(claims))
	total := 0
	allValid := true
	for _, c := range claims {
		res := v.validate(ctx, c)
		if res.Reason == model.ReasonCancelled {
			return model.ClaimBatchResult{}, res.Err
		}
		results = append(results, res)
		if !res.Valid {
			allValid = false
			continue
		}
		total += res.Score
		v.pending = append(v.pending, model.ClaimedWord{Word: res.Word, Positions: c.Positions})
	}

	if !allValid {
		return model.ClaimBatchResult{Valid: false, Results: results, TotalScore: 0}, nil
	}

	for i, c := range claims {
		res := results[i]
		e.state.ClaimedWords = append(e.state.ClaimedWords, model.ClaimedWord{
			Word:      res.Word,
			Positions: append([]model.Position(nil), c.Positions...),
			PlayerID:  c.PlayerID,
			Score:     res.Score,
			Bonuses:   append([]model.Bonus(nil), res.Bonuses...),
		})
		e.state.Player(c.PlayerID).Score += res.Score
		e.lockBlanks(c.Positions)
	}

	return model.ClaimBatchResult{Valid: true, Results: results, TotalScore: total}, nil
}

func (e *Engine) lockBlanks(positions []model.Position) {
	for _, p := range positions {
		if tile := e.state.Board.Get(p); tile != nil && tile.IsBlank() {
			tile.BlankLocked = true
		}
	}
}

// validator carries what is shared by the claims of one batch
type validator struct {
	engine      *Engine
	newlyPlaced []model.Position

	// touching are the board words that include a newly placed tile
	touching [][]model.Position

	// pending are the claims accepted earlier in the same batch
	pending []model.ClaimedWord
}

func (e *Engine) newValidator(newlyPlaced []model.Position) *validator {
	var touching [][]model.Position
	for _, word := range detection.FindAllWords(&e.state.Board) {
		if detection.ContainsNewTile(word, newlyPlaced) {
			touching = append(touching, word)
		}
	}
	return &validator{
		engine:      e,
		newlyPlaced: newlyPlaced,
		touching:    touching,
	}
}

func (v *validator) validate(ctx context.Context, claim model.WordClaim) model.ClaimResult {
	if err := ctx.Err(); err != nil {
		return model.ClaimResult{Reason: model.ReasonForError(err), Message: err.Error(), Err: err}
	}

	board := &v.engine.state.Board
	dict := v.engine.dictionary

	word, ok := extractWord(board, claim.Positions)
	if !ok {
		return rejected("", model.ErrInvalidLine, "word must be a straight line of 3+ letters")
	}

	if !dict.Has(word) {
		return rejected(word, model.ErrNotInDictionary, fmt.Sprintf("word %q not in dictionary", word))
	}

	if !detection.ContainsNewTile(claim.Positions, v.newlyPlaced) {
		return rejected(word, model.ErrNoNewTile, "word must contain at least one newly placed tile")
	}

	if v.isClaimed(word, claim.Positions) {
		return rejected(word, model.ErrAlreadyClaimed, fmt.Sprintf("word %q already claimed", word))
	}

	for _, boardPositions := range v.touching {
		boardWord, ok := extractWord(board, boardPositions)
		if !ok || dict.Has(boardWord) {
			continue
		}
		if detection.SamePositionSet(boardPositions, claim.Positions) {
			continue
		}
		if detection.AreWordsSameDirection(claim.Positions, boardPositions) &&
			detection.IsSubstringWord(claim.Positions, boardPositions) {
			return rejected(word, model.ErrPartOfInvalidWord,
				fmt.Sprintf("cannot claim %q because it is part of invalid word %q in the same direction", word, boardWord))
		}
	}

	score := v.engine.scoring.CalculateWordScore(board, word, claim.Positions)
	return model.ClaimResult{
		Valid:   true,
		Word:    word,
		Score:   score.Score,
		Bonuses: score.Bonuses,
	}
}

func (v *validator) isClaimed(word string, positions []model.Position) bool {
	key := model.PositionSetKey(positions)
	matches := func(cw model.ClaimedWord) bool {
		return cw.Word == word && len(cw.Positions) == len(positions) && cw.PositionKey() == key
	}

	for _, cw := range v.engine.state.ClaimedWords {
		if matches(cw) {
			return true
		}
	}
	for _, cw := range v.pending {
		if matches(cw) {
			return true
		}
	}
	return false
}

func rejected(word string, err error, message string) model.ClaimResult {
	return model.ClaimResult{
		Valid:   false,
		Word:    word,
		Bonuses: []model.Bonus{},
		Reason:  model.ReasonForError(err),
		Message: message,
		Err:     err,
	}
}
