package handlers

import (
	"encoding/json"
	"net/http"

	"filedrive/internal/api/middleware"
	"filedrive/internal/engine/identity"
	"filedrive/internal/pkg/errors"
)

type UserHandler struct {
	identity *identity.Service
}

func NewUserHandler(identitySvc *identity.Service) *UserHandler {
	return &UserHandler{identity: identitySvc}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.GetMe(middleware.Principal(r))
	if err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")

	profile, err := h.identity.GetProfile(userID)
	if err != nil {
		errors.WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
