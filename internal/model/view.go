package model

// PlayerView is a seat as other people see it. Rack is only filled in for
// the seat the view was built for.
type PlayerView struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Score     int      `json:"score"`
	TurnOrder int      `json:"turn_order"`
	RackCount int      `json:"rack_count"`
	Rack      []Tile   `json:"rack,omitempty"`
}

// GameView is a game snapshot with the hidden parts removed: the order of
// the bag and every rack but the viewer's
type GameView struct {
	Board           Board         `json:"board"`
	Players         []PlayerView  `json:"players"`
	CurrentPlayerID PlayerID      `json:"current_player_id"`
	BagCount        int           `json:"bag_count"`
	ClaimedWords    []ClaimedWord `json:"claimed_words"`
	TargetScore     int           `json:"target_score"`
	Status          GameStatus    `json:"status"`
	WinnerID        *PlayerID     `json:"winner_id,omitempty"`
}

// NewGameView builds the view of s seen from viewer. A nil viewer sees no
// racks.
func NewGameView(s *GameState, viewer *PlayerID) *GameView {
	state := s.Clone()
	view := &GameView{
		Board:           state.Board,
		Players:         make([]PlayerView, len(state.Players)),
		CurrentPlayerID: state.CurrentPlayerID,
		BagCount:        len(state.TileBag),
		ClaimedWords:    state.ClaimedWords,
		TargetScore:     state.TargetScore,
		Status:          state.Status,
		WinnerID:        state.WinnerID,
	}
	for i, p := range state.Players {
		pv := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Color:     p.Color,
			Score:     p.Score,
			TurnOrder: p.TurnOrder,
			RackCount: len(p.Rack),
		}
		if viewer != nil && *viewer == p.ID {
			pv.Rack = p.Rack
		}
		view.Players[i] = pv
	}
	return view
}
