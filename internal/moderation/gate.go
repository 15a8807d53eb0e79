package moderation

import (
	"context"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
)

// ActivePunishments returns the user's currently enforced punishments:
// is_active records whose expiry is null or in the future. Expiry is a
// wall-clock check at read time; nothing is written back when a record
// lapses.
func (e *Engine) ActivePunishments(ctx context.Context, userID string) ([]models.PunishmentRecord, error) {
	now := e.now()
	records, err := e.punishments.ActivePunishments(ctx, userID, now)
	if err != nil {
		return nil, &PersistenceError{Stage: "active_punishments", Err: err}
	}
	// Stores already filter, but re-check so a lenient implementation
	// cannot leak lapsed records through the gate.
	active := records[:0]
	for _, rec := range records {
		if rec.EnforcedAt(now) {
			active = append(active, rec)
		}
	}
	return active, nil
}

// CanSendMessages is the message-send gate: false while any active ban or
// mute exists. Warnings never gate sending.
func (e *Engine) CanSendMessages(ctx context.Context, userID string) (bool, error) {
	active, err := e.ActivePunishments(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, rec := range active {
		if rec.PunishmentType.Enforcing() {
			return false, nil
		}
	}
	return true, nil
}

// RevokePunishment deactivates a punishment. Revoking a ban also clears the
// profile banned flag; that second write is part of the same logical
// operation, so its failure is surfaced instead of swallowed.
func (e *Engine) RevokePunishment(ctx context.Context, punishmentID string) error {
	record, err := e.punishments.PunishmentByID(ctx, punishmentID)
	if err != nil {
		return &PersistenceError{Stage: "revoke_lookup", Err: err}
	}

	if err := e.punishments.SetPunishmentActive(ctx, punishmentID, false); err != nil {
		return &PersistenceError{Stage: "revoke_deactivate", Err: err}
	}

	if record.PunishmentType == models.PunishmentTypeBan {
		if err := e.profiles.SetUserBanned(ctx, record.UserID, false); err != nil {
			return &PersistenceError{Stage: "revoke_unban", Err: err}
		}
	}
	return nil
}

// CheckBanConsistency audits the invariant that the profile banned flag
// agrees with the existence of an active ban record. Returns a
// ConsistencyError on disagreement.
func (e *Engine) CheckBanConsistency(ctx context.Context, userID string) error {
	flagged, err := e.profiles.UserBanned(ctx, userID)
	if err != nil {
		return &PersistenceError{Stage: "consistency_profile", Err: err}
	}

	active, err := e.ActivePunishments(ctx, userID)
	if err != nil {
		return err
	}
	hasActiveBan := false
	for _, rec := range active {
		if rec.PunishmentType == models.PunishmentTypeBan {
			hasActiveBan = true
			break
		}
	}

	if flagged != hasActiveBan {
		detail := "banned flag set without an active ban record"
		if hasActiveBan {
			detail = "active ban record without the banned flag"
		}
		return &ConsistencyError{UserID: userID, Detail: detail}
	}
	return nil
}
