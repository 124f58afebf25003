package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artisanhub/server/internal/api/middleware"
	"github.com/artisanhub/server/internal/api/types"
	"github.com/artisanhub/server/internal/api/validators"
	"github.com/artisanhub/server/internal/repository"
	"github.com/artisanhub/server/internal/services"
)

type ArtisansHandler struct {
	artisans services.ArtisanService
}

func NewArtisansHandler(artisans services.ArtisanService) *ArtisansHandler {
	return &ArtisansHandler{artisans: artisans}
}

func (h *ArtisansHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ArtisanFilter{
		Specialty: q["specialty"],
		City:      q.Get("city"),
	}
	items, err := h.artisans.ListArtisans(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *ArtisansHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid artisan id")
		return
	}
	a, err := h.artisans.GetArtisan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: a})
}

func (h *ArtisansHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid artisan id")
		return
	}
	var req types.UpdateArtisanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	callerID, err := uuid.Parse(middleware.GetPrincipalID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "invalid caller identity")
		return
	}

	a, err := h.artisans.UpdateArtisan(r.Context(), id, callerID, &services.UpdateArtisanInput{
		Name:              req.Name,
		Description:       req.Description,
		LinkOfSocialMedia: req.LinkOfSocialMedia,
		AvatarURL:         req.AvatarURL,
		Experience:        req.Experience,
		City:              req.City,
		Specialty:         req.Specialty,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "artisan updated successfully", Data: a})
}

func (h *ArtisansHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid artisan id")
		return
	}
	callerID, err := uuid.Parse(middleware.GetPrincipalID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "invalid caller identity")
		return
	}
	if err := h.artisans.DeleteArtisan(r.Context(), id, callerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "artisan deleted successfully"})
}
