package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/drajakumar/canoga/internal/auth"
	"github.com/drajakumar/canoga/internal/service"
)

// PlayHandler handles in-round play endpoints: rolling, moving,
// passing, and hints.
type PlayHandler struct {
	playSvc *service.PlayService
}

// NewPlayHandler creates a PlayHandler.
func NewPlayHandler(playSvc *service.PlayService) *PlayHandler {
	return &PlayHandler{playSvc: playSvc}
}

// StartRound handles POST /api/v1/games/{id}/rounds
func (h *PlayHandler) StartRound(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		First string `json:"first"`
	}
	// An empty body means a roll-off decides the first mover.
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.playSvc.StartRound(r.Context(), r.PathValue("id"), userID, req.First)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// GetState handles GET /api/v1/games/{id}/state
func (h *PlayHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	state, err := h.playSvc.State(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Roll handles POST /api/v1/games/{id}/roll
func (h *PlayHandler) Roll(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		Dice int `json:"dice"`
	}
	// An empty body means a default two-dice roll.
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.playSvc.Roll(r.Context(), r.PathValue("id"), userID, req.Dice)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetCombos handles GET /api/v1/games/{id}/combos
func (h *PlayHandler) GetCombos(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	result, err := h.playSvc.Combos(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ApplyMove handles POST /api/v1/games/{id}/moves
func (h *PlayHandler) ApplyMove(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		MoveType string `json:"move_type"`
		Squares  []int  `json:"squares"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.playSvc.ApplyMove(r.Context(), r.PathValue("id"), userID, req.MoveType, req.Squares)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Pass handles POST /api/v1/games/{id}/pass
func (h *PlayHandler) Pass(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	state, err := h.playSvc.Pass(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Hint handles POST /api/v1/games/{id}/hint
func (h *PlayHandler) Hint(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	hint, err := h.playSvc.Hint(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hint)
}
