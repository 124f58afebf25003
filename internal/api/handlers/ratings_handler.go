package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artisanhub/server/internal/api/middleware"
	"github.com/artisanhub/server/internal/api/types"
	"github.com/artisanhub/server/internal/api/validators"
	"github.com/artisanhub/server/internal/services"
)

// RatingsHandler exposes the reputation service over HTTP. The caller's
// user id always comes from the auth middleware, never from the body.
type RatingsHandler struct {
	reputation services.ReputationService
}

func NewRatingsHandler(reputation services.ReputationService) *RatingsHandler {
	return &RatingsHandler{reputation: reputation}
}

func (h *RatingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := uuid.Parse(middleware.GetPrincipalID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "invalid caller identity")
		return
	}
	artisanID, err := uuid.Parse(req.ArtisanID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid artisan id")
		return
	}

	rating, err := h.reputation.CreateRating(r.Context(), userID, artisanID, req.Score, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: rating})
}

func (h *RatingsHandler) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetPrincipalID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "invalid caller identity")
		return
	}
	entries, err := h.reputation.GetUserRatingHistory(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: entries})
}

func (h *RatingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ratingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid rating id")
		return
	}
	var req types.UpdateRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := uuid.Parse(middleware.GetPrincipalID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "invalid caller identity")
		return
	}

	rating, err := h.reputation.UpdateRating(r.Context(), ratingID, userID, req.Score, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: rating})
}

func (h *RatingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ratingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid rating id")
		return
	}
	userID, err := uuid.Parse(middleware.GetPrincipalID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "invalid caller identity")
		return
	}

	if err := h.reputation.DeleteRating(r.Context(), ratingID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "rating deleted successfully"})
}

// GetArtisanRatings is a public read of an artisan's hydrated rating history.
func (h *RatingsHandler) GetArtisanRatings(w http.ResponseWriter, r *http.Request) {
	artisanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid artisan id")
		return
	}
	entries, err := h.reputation.GetArtisanRatingHistory(r.Context(), artisanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: entries})
}
