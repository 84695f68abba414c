package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/naim-haider/freelancer-ai-backend/internal/auth"
)

type AuthHandler struct {
	API *auth.Client
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login forwards credentials to the external auth backend and relays the
// token. Nothing is stored server-side; the token itself is the session.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Password = strings.TrimSpace(req.Password)
	if req.Email == "" || req.Password == "" {
		apiFail(w, http.StatusBadRequest, "email and password required")
		return
	}

	res, err := h.API.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrRateLimited) {
			apiFail(w, http.StatusTooManyRequests, "Too many requests, please wait a minute and try again.")
			return
		}
		apiFail(w, http.StatusInternalServerError, "Login failed: "+err.Error())
		return
	}

	writeJSON(w, map[string]any{
		"success": true,
		"token":   res.Token,
		"user":    res.User,
	})
}

// Index is the session sanity check the UI hits after login.
func (h AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"message": "engine running",
		"user":    UserEmailFrom(r.Context()),
	})
}
