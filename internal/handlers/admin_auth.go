package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/Alexis12119/chat-profanity-detector/internal/services"
	"github.com/Alexis12119/chat-profanity-detector/pkg/utils"
	"github.com/google/uuid"
)

type AdminSigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminSigninResponse struct {
	SessionToken string       `json:"session_token"`
	Admin        models.Admin `json:"admin"`
}

// AdminSignin authenticates a moderation dashboard account and issues a
// Redis-backed session token.
func AdminSignin(w http.ResponseWriter, r *http.Request) {
	var req AdminSigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	admin, err := services.Store.AdminByUsername(r.Context(), req.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !admin.IsActive {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	valid, err := utils.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil || !valid {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	adminID, err := uuid.Parse(admin.ID)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	token, err := services.CreateAdminSession(adminID)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AdminSigninResponse{SessionToken: token, Admin: admin})
}

// AdminSignout invalidates the caller's admin session.
func AdminSignout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}

	if err := services.InvalidateAdminSession(token); err != nil {
		http.Error(w, "failed to sign out", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Signed out"})
}

// requireAdmin validates the caller's admin session token and returns the
// admin id. Writes the error response itself on failure.
func requireAdmin(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return uuid.Nil, false
	}

	adminID, ok, err := services.ValidateAdminSession(token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return adminID, true
}
