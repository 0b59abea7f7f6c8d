package handler

import (
	"errors"
	"net/http"

	"cropdesk/internal/auth"
	"cropdesk/internal/http/respond"
	"cropdesk/internal/profile"
)

type ProfileHandler struct {
	Auth     *auth.Service
	Profiles *profile.Store
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	u, err := h.Auth.User(r.Context(), uid)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respond.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		internalError(w, r, "loading account", err)
		return
	}

	p, found, err := h.Profiles.Get(r.Context(), uid)
	if err != nil {
		internalError(w, r, "loading profile", err)
		return
	}
	if !found {
		p = profile.Profile{
			Name:         u.Name,
			FarmSize:     u.FarmSize,
			Location:     u.Location,
			RegisteredAt: u.CreatedAt,
		}
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"profile": p,
		"email":   u.Email,
	})
}
