// Package game wraps a single GameState with its lifecycle: creating and
// seating a new game, saving and loading it, and answering questions about
// players and scores.
package game

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mcoot/grabble/internal/dependencies/random"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/dictionary"
	"github.com/mcoot/grabble/internal/services/engine"
)

// Manager is the sole owner of one game's state. All rule changes go
// through its Engine.
type Manager struct {
	state  *model.GameState
	engine *engine.Engine
}

// PlayerScore is a seat's current score
type PlayerScore struct {
	PlayerID model.PlayerID `json:"player_id"`
	Name     string         `json:"name"`
	Score    int            `json:"score"`
}

// CreateNewGame seats 2-4 players in the order given, shuffles a fresh bag
// and deals each player a full rack. Player 0 moves first. A targetScore of
// 0 uses the default.
func CreateNewGame(names []string, targetScore int, dict dictionary.Lookup, rnd random.Random) (*Manager, error) {
	if len(names) < model.MinPlayers || len(names) > model.MaxPlayers {
		return nil, fmt.Errorf("%d players: %w", len(names), model.ErrInvalidPlayerCount)
	}
	if targetScore < 0 {
		return nil, model.ErrInvalidTarget
	}
	if targetScore == 0 {
		targetScore = model.DefaultTargetScore
	}

	bag := engine.CreateTileBag(rnd)

	players := make([]model.Player, len(names))
	for i, name := range names {
		players[i] = model.Player{
			ID:        model.PlayerID(i),
			Name:      name,
			Color:     model.PlayerColors[i],
			Rack:      make([]model.Tile, 0, model.RackSize),
			TurnOrder: i,
		}
	}

	for i := range players {
		for n := 0; n < model.RackSize && len(bag) > 0; n++ {
			players[i].Rack = append(players[i].Rack, bag[len(bag)-1])
			bag = bag[:len(bag)-1]
		}
	}

	state := &model.GameState{
		Board:           model.NewBoard(),
		Players:         players,
		CurrentPlayerID: 0,
		TileBag:         bag,
		ClaimedWords:    []model.ClaimedWord{},
		TargetScore:     targetScore,
		Status:          model.GameStatusPlaying,
	}

	return LoadGame(state, dict, rnd), nil
}

// LoadGame wraps an existing state. The Manager takes ownership of it.
func LoadGame(state *model.GameState, dict dictionary.Lookup, rnd random.Random) *Manager {
	if state.ClaimedWords == nil {
		state.ClaimedWords = []model.ClaimedWord{}
	}
	return &Manager{
		state:  state,
		engine: engine.New(state, dict, rnd),
	}
}

// Serialize encodes the full game state as JSON
func (m *Manager) Serialize() ([]byte, error) {
	return json.Marshal(m.state)
}

// Deserialize restores a Manager from Serialize output
func Deserialize(data []byte, dict dictionary.Lookup, rnd random.Random) (*Manager, error) {
	var state model.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding game state: %w", err)
	}
	return LoadGame(&state, dict, rnd), nil
}

// State returns a deep copy of the game state
func (m *Manager) State() *model.GameState {
	return m.engine.State()
}

// Engine returns the rules engine operating on this game
func (m *Manager) Engine() *engine.Engine {
	return m.engine
}

// CurrentPlayer returns the player whose turn it is
func (m *Manager) CurrentPlayer() (model.Player, error) {
	p := m.state.CurrentPlayer()
	if p == nil {
		return model.Player{}, fmt.Errorf("current player %d: %w", m.state.CurrentPlayerID, model.ErrPlayerNotFound)
	}
	return p.Clone(), nil
}

// Player returns the player with the given id
func (m *Manager) Player(id model.PlayerID) (model.Player, error) {
	p := m.state.Player(id)
	if p == nil {
		return model.Player{}, fmt.Errorf("player %d: %w", id, model.ErrPlayerNotFound)
	}
	return p.Clone(), nil
}

// PlayersByTurnOrder returns the players in the order they take turns
func (m *Manager) PlayersByTurnOrder() []model.Player {
	players := m.clonePlayers()
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].TurnOrder < players[j].TurnOrder
	})
	return players
}

// IsPlayerTurn reports whether it is the given player's turn
func (m *Manager) IsPlayerTurn(id model.PlayerID) bool {
	return m.state.CurrentPlayerID == id
}

// Status returns the game's lifecycle phase
func (m *Manager) Status() model.GameStatus {
	return m.state.Status
}

// IsFinished reports whether the game has ended
func (m *Manager) IsFinished() bool {
	return m.state.Status == model.GameStatusFinished
}

// Winner returns the winning player once the game has finished
func (m *Manager) Winner() (model.Player, bool) {
	if !m.IsFinished() || m.state.WinnerID == nil {
		return model.Player{}, false
	}
	p := m.state.Player(*m.state.WinnerID)
	if p == nil {
		return model.Player{}, false
	}
	return p.Clone(), true
}

// EndGame finishes the game with the highest scorer as winner. On a tie the
// earliest seat wins.
func (m *Manager) EndGame() model.Player {
	best := 0
	for i, p := range m.state.Players {
		if p.Score > m.state.Players[best].Score {
			best = i
		}
	}

	winner := m.state.Players[best]
	m.state.Status = model.GameStatusFinished
	m.state.WinnerID = winner.ID.Ptr()
	return winner.Clone()
}

// ClaimedWordsForPlayer returns the words a player has claimed, oldest first
func (m *Manager) ClaimedWordsForPlayer(id model.PlayerID) []model.ClaimedWord {
	var words []model.ClaimedWord
	for _, w := range m.state.ClaimedWords {
		if w.PlayerID == id {
			words = append(words, w.Clone())
		}
	}
	return words
}

// AllClaimedWords returns every claimed word, oldest first
func (m *Manager) AllClaimedWords() []model.ClaimedWord {
	words := make([]model.ClaimedWord, len(m.state.ClaimedWords))
	for i, w := range m.state.ClaimedWords {
		words[i] = w.Clone()
	}
	return words
}

// PlayerScores returns each player's score in seat order
func (m *Manager) PlayerScores() []PlayerScore {
	scores := make([]PlayerScore, len(m.state.Players))
	for i, p := range m.state.Players {
		scores[i] = PlayerScore{PlayerID: p.ID, Name: p.Name, Score: p.Score}
	}
	return scores
}

// Leaderboard returns the players by score, highest first. Equal scores
// keep seat order.
func (m *Manager) Leaderboard() []model.Player {
	players := m.clonePlayers()
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	return players
}

func (m *Manager) clonePlayers() []model.Player {
	players := make([]model.Player, len(m.state.Players))
	for i, p := range m.state.Players {
		players[i] = p.Clone()
	}
	return players
}
