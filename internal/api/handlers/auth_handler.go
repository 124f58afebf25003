package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/artisanhub/server/internal/api/types"
	"github.com/artisanhub/server/internal/api/validators"
	"github.com/artisanhub/server/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.auth.RegisterUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "user created successfully",
		Data: map[string]any{
			"id":    u.ID,
			"email": u.Email,
		},
	})
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	token, u, err := h.auth.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"user": map[string]any{
				"id":    u.ID,
				"email": u.Email,
			},
		},
	})
}

func (h *AuthHandler) RegisterArtisan(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterArtisanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.auth.RegisterArtisan(r.Context(), &services.ArtisanSignUpInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		PhoneNumber:       req.PhoneNumber,
		Specialty:         req.Specialty,
		Description:       req.Description,
		LinkOfSocialMedia: req.LinkOfSocialMedia,
		AvatarURL:         req.AvatarURL,
		Experience:        req.Experience,
		City:              req.City,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "artisan created successfully",
		Data:    a,
	})
}

func (h *AuthHandler) LoginArtisan(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	token, a, err := h.auth.LoginArtisan(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"artisan": map[string]any{
				"id":    a.ID,
				"email": a.Email,
				"name":  a.Name,
			},
		},
	})
}
