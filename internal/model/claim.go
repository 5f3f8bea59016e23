package model

// TilePlacement drops a tile into a column
type TilePlacement struct {
	Column int  `json:"column"`
	Tile   Tile `json:"tile"`
}

// RackPlacement drops the rack tile at TileIndex into a column
type RackPlacement struct {
	Column    int `json:"column"`
	TileIndex int `json:"tile_index"`
}

// WordClaim is a player's assertion that the positions spell a scorable word
type WordClaim struct {
	Positions []Position `json:"positions"`
	PlayerID  PlayerID   `json:"player_id"`
}

// ClaimResult is the outcome of validating one claim
type ClaimResult struct {
	Valid   bool        `json:"valid"`
	Word    string      `json:"word"`
	Score   int         `json:"score"`
	Bonuses []Bonus     `json:"bonuses"`
	Reason  ClaimReason `json:"reason,omitempty"`
	Message string      `json:"message,omitempty"`

	// Err is the underlying sentinel when the claim is invalid
	Err error `json:"-"`
}

// ClaimBatchResult is the outcome of validating a turn's claims together.
// TotalScore is 0 unless every claim is valid.
type ClaimBatchResult struct {
	Valid      bool          `json:"valid"`
	Results    []ClaimResult `json:"results"`
	TotalScore int           `json:"total_score"`
}

// FirstError returns the error of the first invalid claim, or nil
func (r ClaimBatchResult) FirstError() error {
	for _, res := range r.Results {
		if !res.Valid {
			return res.Err
		}
	}
	return nil
}
