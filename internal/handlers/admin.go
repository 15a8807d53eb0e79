package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Alexis12119/chat-profanity-detector/internal/middleware"
	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/Alexis12119/chat-profanity-detector/internal/moderation"
	"github.com/Alexis12119/chat-profanity-detector/internal/services"
	"github.com/go-chi/chi/v5"
)

const (
	defaultAdminListLimit = 50
	maxAdminListLimit     = 200
)

func adminListLimit(r *http.Request) int {
	limit := defaultAdminListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxAdminListLimit {
		limit = maxAdminListLimit
	}
	return limit
}

// ListViolations returns the most recent violations across all users.
func ListViolations(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	violations, err := services.Store.RecentViolations(r.Context(), adminListLimit(r))
	if err != nil {
		http.Error(w, "failed to load violations", http.StatusInternalServerError)
		return
	}
	if violations == nil {
		violations = []models.ViolationRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"violations": violations})
}

// ListPunishments returns the most recent punishments across all users.
func ListPunishments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	punishments, err := services.Store.RecentPunishments(r.Context(), adminListLimit(r))
	if err != nil {
		http.Error(w, "failed to load punishments", http.StatusInternalServerError)
		return
	}
	if punishments == nil {
		punishments = []models.PunishmentRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"punishments": punishments})
}

// ListActivity returns the most recent activity-log entries.
func ListActivity(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	entries, err := services.Store.RecentActivity(r.Context(), adminListLimit(r))
	if err != nil {
		http.Error(w, "failed to load activity", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.ActivityLog{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"activity": entries})
}

// GetUserPunishments returns a user's active punishments, as the gate sees
// them.
func GetUserPunishments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	active, err := services.Moderation.ActivePunishments(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load punishments", http.StatusInternalServerError)
		return
	}
	if active == nil {
		active = []models.PunishmentRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"punishments": active})
}

// RevokePunishment deactivates a punishment. Revoking a ban also clears the
// profile's banned flag.
func RevokePunishment(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	punishmentID := chi.URLParam(r, "punishmentID")
	if punishmentID == "" {
		http.Error(w, "punishment id is required", http.StatusBadRequest)
		return
	}

	punishment, err := services.Store.PunishmentByID(r.Context(), punishmentID)
	if err != nil {
		http.Error(w, "punishment not found", http.StatusNotFound)
		return
	}

	if err := services.Moderation.RevokePunishment(r.Context(), punishmentID); err != nil {
		log.Printf("admin %s: revoke of punishment %s failed: %v", adminID, punishmentID, err)
		http.Error(w, "failed to revoke punishment", http.StatusInternalServerError)
		return
	}

	services.NotifyPunishmentChange(r.Context(), punishment.UserID, punishment.PunishmentType, true)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Punishment revoked"})
}

type UnblockIPRequest struct {
	IPAddress string `json:"ip_address"`
}

// UnblockIP removes an IP from the rate limiter's blocked list.
func UnblockIP(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var req UnblockIPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IPAddress == "" {
		http.Error(w, "ip_address is required", http.StatusBadRequest)
		return
	}

	if err := middleware.UnblockIP(r.Context(), req.IPAddress); err != nil {
		http.Error(w, "failed to unblock IP", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "IP unblocked"})
}

// CheckBanConsistency reports whether a user's banned flag agrees with
// their active ban records.
func CheckBanConsistency(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	err := services.Moderation.CheckBanConsistency(r.Context(), userID)
	response := map[string]interface{}{"consistent": err == nil}
	if err != nil {
		var inconsistency *moderation.ConsistencyError
		if !errors.As(err, &inconsistency) {
			http.Error(w, "failed to check consistency", http.StatusInternalServerError)
			return
		}
		response["detail"] = inconsistency.Detail
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
