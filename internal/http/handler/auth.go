package handler

import (
	"errors"
	"net/http"
	"time"

	"cropdesk/internal/auth"
	"cropdesk/internal/http/respond"
	"cropdesk/internal/logger"
	"cropdesk/internal/profile"
)

type AuthHandler struct {
	Auth     *auth.Service
	Profiles *profile.Store
}

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	FarmSize string `json:"farmSize"`
	Location string `json:"location"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FarmSize  string    `json:"farmSize"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u auth.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		FarmSize:  u.FarmSize,
		Location:  u.Location,
		CreatedAt: u.CreatedAt,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	u, err := h.Auth.CreateAccount(r.Context(), auth.NewAccount{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		FarmSize: req.FarmSize,
		Location: req.Location,
	})
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrEmailTaken):
		respond.Error(w, http.StatusConflict, "Email already registered")
		return
	case err != nil:
		internalError(w, r, "creating account", err)
		return
	}

	// The account exists at this point; GET /profile falls back to the
	// account metadata, so a failed profile write is not fatal.
	p := profile.Profile{
		Name:         u.Name,
		FarmSize:     u.FarmSize,
		Location:     u.Location,
		RegisteredAt: u.CreatedAt,
	}
	if err := h.Profiles.Save(r.Context(), u.ID, p); err != nil {
		logger.Warn("farmer profile write failed", "user", u.ID, "error", err)
	}

	respond.JSON(w, http.StatusOK, map[string]any{"user": toUserDTO(u)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, u, err := h.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		internalError(w, r, "signing in", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"user":         toUserDTO(u),
	})
}
