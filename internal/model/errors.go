package model

import (
	"context"
	"errors"
)

// Common errors used across the application
var (
	// Board errors
	ErrInvalidColumn = errors.New("invalid column")
	ErrColumnFull    = errors.New("column is full")
	ErrOutOfBounds   = errors.New("position is out of bounds")
	ErrCellOccupied  = errors.New("cell is already occupied")

	// Player and rack errors
	ErrPlayerNotFound     = errors.New("player not found")
	ErrInvalidPlayerCount = errors.New("game must have 2-4 players")
	ErrInvalidTileIndex   = errors.New("invalid rack tile index")
	ErrNotTileOwner       = errors.New("tile belongs to another player")
	ErrTileNotPlacedTurn  = errors.New("tile was not placed this turn")

	// Blank tile errors
	ErrNotBlank      = errors.New("tile is not a blank")
	ErrBlankLocked   = errors.New("blank tile letter is locked")
	ErrInvalidLetter = errors.New("invalid letter")

	// Claim errors
	ErrInvalidLine       = errors.New("word must be a straight line of 3+ letters")
	ErrNotInDictionary   = errors.New("word not in dictionary")
	ErrNoNewTile         = errors.New("word must contain at least one newly placed tile")
	ErrAlreadyClaimed    = errors.New("word already claimed")
	ErrPartOfInvalidWord = errors.New("word is part of an invalid word in the same direction")

	// Turn errors
	ErrNotPlayerTurn     = errors.New("not this player's turn")
	ErrGameNotInProgress = errors.New("game not in progress")
	ErrTurnHasPlacements = errors.New("tiles already placed this turn")
	ErrNoClaims          = errors.New("no words to claim")

	// Room errors
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyInRoom    = errors.New("player is already in room")
	ErrNotInRoom        = errors.New("player is not in room")
	ErrNotHost          = errors.New("player is not the host")
	ErrGameInProgress   = errors.New("game is in progress")
	ErrPlayersNotReady  = errors.New("not all players are ready")
	ErrWrongPassword    = errors.New("wrong room password")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidTarget    = errors.New("target score must be positive")
	ErrNotEnoughPlayers = errors.New("need at least 2 players to start")
	ErrNotBot           = errors.New("member is not a bot")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)

// ClaimReason is a stable code describing why a word claim was rejected
type ClaimReason string

const (
	ReasonInvalidLine       ClaimReason = "invalid_line"
	ReasonNotInDictionary   ClaimReason = "not_in_dictionary"
	ReasonNoNewTile         ClaimReason = "no_new_tile"
	ReasonAlreadyClaimed    ClaimReason = "already_claimed"
	ReasonPartOfInvalidWord ClaimReason = "part_of_invalid_word"
	ReasonCancelled         ClaimReason = "cancelled"
	ReasonUnknown           ClaimReason = "unknown"
)

// ReasonForError maps a claim validation error to its reason code
func ReasonForError(err error) ClaimReason {
	switch {
	case errors.Is(err, ErrInvalidLine):
		return ReasonInvalidLine
	case errors.Is(err, ErrNotInDictionary):
		return ReasonNotInDictionary
	case errors.Is(err, ErrNoNewTile):
		return ReasonNoNewTile
	case errors.Is(err, ErrAlreadyClaimed):
		return ReasonAlreadyClaimed
	case errors.Is(err, ErrPartOfInvalidWord):
		return ReasonPartOfInvalidWord
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCancelled
	default:
		return ReasonUnknown
	}
}
