package handler

import (
	"errors"
	"net/http"

	"github.com/drajakumar/canoga/internal/auth"
	"github.com/drajakumar/canoga/internal/service"
)

// GameHandler handles game lifecycle endpoints.
type GameHandler struct {
	gameSvc *service.GameService
	playSvc *service.PlayService
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(gameSvc *service.GameService, playSvc *service.PlayService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc, playSvc: playSvc}
}

// CreateGame handles POST /api/v1/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		BoardSize     int    `json:"board_size"`
		BotDifficulty string `json:"bot_difficulty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := h.gameSvc.CreateGame(r.Context(), userID, req.BoardSize, req.BotDifficulty)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// ListGames handles GET /api/v1/games
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	games, err := h.gameSvc.ListGames(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

// GetGame handles GET /api/v1/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	game, err := h.gameSvc.GetGame(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// ListRounds handles GET /api/v1/games/{id}/rounds
func (h *GameHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	rounds, err := h.gameSvc.ListRounds(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rounds": rounds})
}

// EndGame handles POST /api/v1/games/{id}/end
func (h *GameHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	game, err := h.playSvc.EndGame(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// ResignGame handles POST /api/v1/games/{id}/resign
func (h *GameHandler) ResignGame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	game, err := h.playSvc.Resign(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// DeleteGame handles DELETE /api/v1/games/{id}
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if err := h.gameSvc.DeleteGame(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotYourGame):
		return http.StatusForbidden
	case errors.Is(err, service.ErrGameFinished),
		errors.Is(err, service.ErrRoundInProgress),
		errors.Is(err, service.ErrNoActiveRound),
		errors.Is(err, service.ErrRollPending),
		errors.Is(err, service.ErrNoPendingRoll),
		errors.Is(err, service.ErrMovesAvailable),
		errors.Is(err, service.ErrNotHumanTurn):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidSize),
		errors.Is(err, service.ErrInvalidFirst),
		errors.Is(err, service.ErrOneDieNotAllowed),
		errors.Is(err, service.ErrWrongSum),
		errors.Is(err, service.ErrSquareProtected):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
