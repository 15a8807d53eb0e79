package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/Alexis12119/chat-profanity-detector/internal/services"
	"github.com/go-chi/chi/v5"
)

// PunishmentStatusResponse describes the caller's current standing.
type PunishmentStatusResponse struct {
	CanSendMessages   bool                      `json:"can_send_messages"`
	ActivePunishments []models.PunishmentRecord `json:"active_punishments"`
	IsBanned          bool                      `json:"is_banned"`
}

// GetPunishmentStatus returns the caller's active punishments and whether
// they may currently send messages.
func GetPunishmentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	active, err := services.Moderation.ActivePunishments(r.Context(), userID.String())
	if err != nil {
		http.Error(w, "failed to load punishment status", http.StatusInternalServerError)
		return
	}

	canSend := true
	isBanned := false
	for _, p := range active {
		if p.PunishmentType.Enforcing() {
			canSend = false
		}
		if p.PunishmentType == models.PunishmentTypeBan {
			isBanned = true
		}
	}
	if active == nil {
		active = []models.PunishmentRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PunishmentStatusResponse{
		CanSendMessages:   canSend,
		ActivePunishments: active,
		IsBanned:          isBanned,
	})
}

// GetWarnings returns the caller's unacknowledged warnings.
func GetWarnings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	warnings, err := services.Store.UnacknowledgedWarnings(r.Context(), userID.String())
	if err != nil {
		http.Error(w, "failed to load warnings", http.StatusInternalServerError)
		return
	}
	if warnings == nil {
		warnings = []models.WarningRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"warnings": warnings})
}

// AcknowledgeWarning marks a single warning as seen. Scoped to the caller,
// so acknowledging someone else's warning id is a no-op error.
func AcknowledgeWarning(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	warningID := chi.URLParam(r, "warningID")
	if warningID == "" {
		http.Error(w, "warning id is required", http.StatusBadRequest)
		return
	}

	if err := services.Store.AcknowledgeWarning(r.Context(), warningID, userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "warning not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to acknowledge warning", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Warning acknowledged"})
}

// AcknowledgeAllWarnings marks every unacknowledged warning of the caller
// as seen.
func AcknowledgeAllWarnings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := services.Store.AcknowledgeAllWarnings(r.Context(), userID.String()); err != nil {
		http.Error(w, "failed to acknowledge warnings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All warnings acknowledged"})
}

// AppealRequest is the payload for appealing a punishment.
type AppealRequest struct {
	PunishmentID string `json:"punishment_id"`
	Reason       string `json:"reason"`
}

// AppealPunishment records a punishment appeal in the activity log. The
// punishment stays in force until an admin reviews and revokes it.
func AppealPunishment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req AppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PunishmentID == "" || req.Reason == "" {
		http.Error(w, "punishment_id and reason are required", http.StatusBadRequest)
		return
	}

	punishment, err := services.Store.PunishmentByID(r.Context(), req.PunishmentID)
	if err != nil {
		http.Error(w, "punishment not found", http.StatusNotFound)
		return
	}
	if punishment.UserID != userID.String() {
		http.Error(w, "punishment not found", http.StatusNotFound)
		return
	}

	entry, err := models.NewActivityLog(userID.String(), models.PunishmentAppealDetails{
		PunishmentID:   punishment.ID,
		PunishmentType: punishment.PunishmentType,
		Reason:         req.Reason,
	})
	if err != nil {
		http.Error(w, "invalid appeal", http.StatusBadRequest)
		return
	}
	if err := services.Store.AppendActivity(r.Context(), entry); err != nil {
		log.Printf("moderation: appeal activity append failed: %v", err)
		http.Error(w, "failed to record appeal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Appeal submitted for review"})
}
