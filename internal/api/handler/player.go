package handler

import (
	"net/http"

	"github.com/mcoot/grabble/internal/api/apierr"
	"github.com/mcoot/grabble/internal/api/middleware"
	"github.com/mcoot/grabble/internal/api/request"
	"github.com/mcoot/grabble/internal/api/response"
	"github.com/mcoot/grabble/internal/services/auth"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService auth.ServiceInterface
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService auth.ServiceInterface) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
	}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := decodeBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	session, err := h.authService.CreateGuestUser(r.Context(), req.DisplayName)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.RegisterUser(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(user))
}
