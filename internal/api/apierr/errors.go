package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/auth"
	"github.com/mcoot/grabble/internal/services/bot"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidName        = "INVALID_NAME"

	// Board and rack
	CodeInvalidColumn    = "INVALID_COLUMN"
	CodeColumnFull       = "COLUMN_FULL"
	CodeOutOfBounds      = "OUT_OF_BOUNDS"
	CodeCellOccupied     = "CELL_OCCUPIED"
	CodeInvalidTileIndex = "INVALID_TILE_INDEX"
	CodeNotTileOwner     = "NOT_TILE_OWNER"
	CodeNotTurnTile      = "NOT_TURN_TILE"
	CodeNotBlank         = "NOT_BLANK"
	CodeBlankLocked      = "BLANK_LOCKED"
	CodeInvalidLetter    = "INVALID_LETTER"

	// Claims
	CodeInvalidLine       = "INVALID_LINE"
	CodeNotInDictionary   = "NOT_IN_DICTIONARY"
	CodeNoNewTile         = "NO_NEW_TILE"
	CodeAlreadyClaimed    = "ALREADY_CLAIMED"
	CodePartOfInvalidWord = "PART_OF_INVALID_WORD"
	CodeNoClaims          = "NO_CLAIMS"

	// Turns and games
	CodeNotYourTurn       = "NOT_YOUR_TURN"
	CodeNoGameInProgress  = "NO_GAME_IN_PROGRESS"
	CodeTurnHasPlacements = "TURN_HAS_PLACEMENTS"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"

	// Rooms
	CodeRoomNotFound      = "ROOM_NOT_FOUND"
	CodeRoomFull          = "ROOM_FULL"
	CodeAlreadyInRoom     = "ALREADY_IN_ROOM"
	CodeNotInRoom         = "NOT_IN_ROOM"
	CodeNotHost           = "NOT_HOST"
	CodeGameInProgress    = "GAME_IN_PROGRESS"
	CodePlayersNotReady   = "PLAYERS_NOT_READY"
	CodeNotEnoughPlayers  = "NOT_ENOUGH_PLAYERS"
	CodeWrongPassword     = "WRONG_PASSWORD"
	CodeInvalidTarget     = "INVALID_TARGET"
	CodeNotBot            = "NOT_BOT"
	CodeUnknownStrategy   = "UNKNOWN_STRATEGY"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeDictionaryMissing = "DICTIONARY_NOT_LOADED"

	CodeInternalError = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// mapping pairs a sentinel with the response it produces
type mapping struct {
	err    error
	status int
	code   string
}

// mappings is checked in order with errors.Is. Messages come from the
// sentinel itself so they stay in step with the services.
var mappings = []mapping{
	// Auth
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
	{auth.ErrUsernameExists, http.StatusConflict, CodeUsernameExists},
	{auth.ErrInvalidName, http.StatusBadRequest, CodeInvalidName},

	// Board and rack
	{model.ErrInvalidColumn, http.StatusBadRequest, CodeInvalidColumn},
	{model.ErrColumnFull, http.StatusConflict, CodeColumnFull},
	{model.ErrOutOfBounds, http.StatusBadRequest, CodeOutOfBounds},
	{model.ErrCellOccupied, http.StatusConflict, CodeCellOccupied},
	{model.ErrInvalidTileIndex, http.StatusBadRequest, CodeInvalidTileIndex},
	{model.ErrNotTileOwner, http.StatusForbidden, CodeNotTileOwner},
	{model.ErrTileNotPlacedTurn, http.StatusConflict, CodeNotTurnTile},
	{model.ErrNotBlank, http.StatusBadRequest, CodeNotBlank},
	{model.ErrBlankLocked, http.StatusConflict, CodeBlankLocked},
	{model.ErrInvalidLetter, http.StatusBadRequest, CodeInvalidLetter},

	// Claims
	{model.ErrInvalidLine, http.StatusUnprocessableEntity, CodeInvalidLine},
	{model.ErrNotInDictionary, http.StatusUnprocessableEntity, CodeNotInDictionary},
	{model.ErrNoNewTile, http.StatusUnprocessableEntity, CodeNoNewTile},
	{model.ErrAlreadyClaimed, http.StatusUnprocessableEntity, CodeAlreadyClaimed},
	{model.ErrPartOfInvalidWord, http.StatusUnprocessableEntity, CodePartOfInvalidWord},
	{model.ErrNoClaims, http.StatusBadRequest, CodeNoClaims},

	// Turns and games
	{model.ErrNotPlayerTurn, http.StatusForbidden, CodeNotYourTurn},
	{model.ErrGameNotInProgress, http.StatusConflict, CodeNoGameInProgress},
	{model.ErrTurnHasPlacements, http.StatusConflict, CodeTurnHasPlacements},
	{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
	{model.ErrInvalidPlayerCount, http.StatusConflict, CodeNotEnoughPlayers},

	// Rooms
	{model.ErrRoomNotFound, http.StatusNotFound, CodeRoomNotFound},
	{model.ErrRoomFull, http.StatusConflict, CodeRoomFull},
	{model.ErrAlreadyInRoom, http.StatusConflict, CodeAlreadyInRoom},
	{model.ErrNotInRoom, http.StatusForbidden, CodeNotInRoom},
	{model.ErrNotHost, http.StatusForbidden, CodeNotHost},
	{model.ErrGameInProgress, http.StatusConflict, CodeGameInProgress},
	{model.ErrPlayersNotReady, http.StatusConflict, CodePlayersNotReady},
	{model.ErrNotEnoughPlayers, http.StatusConflict, CodeNotEnoughPlayers},
	{model.ErrWrongPassword, http.StatusForbidden, CodeWrongPassword},
	{model.ErrInvalidTarget, http.StatusBadRequest, CodeInvalidTarget},
	{model.ErrNotBot, http.StatusBadRequest, CodeNotBot},
	{bot.ErrUnknownStrategy, http.StatusBadRequest, CodeUnknownStrategy},
	{model.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},

	{model.ErrDictionaryNotLoaded, http.StatusServiceUnavailable, CodeDictionaryMissing},
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return &httpError{m.status, APIError{m.code, m.err.Error()}}
		}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
