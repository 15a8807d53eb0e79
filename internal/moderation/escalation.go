package moderation

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
)

// EscalationPolicy names the thresholds that drive automated punishments.
// Violation counts are measured over the trailing 24 hours; severities over
// the current batch only.
type EscalationPolicy struct {
	BanViolationCount   int
	BanSeverity         int
	MuteViolationCount  int
	MuteSeverity        int
	WarningSeverity     int
	MuteDurationMinutes int
	BanDurationMinutes  int
}

// DefaultEscalationPolicy returns the documented thresholds:
// ban at 5 violations/24h or batch severity 10 (24h ban), mute at 3
// violations/24h or batch severity 6 (60 min), warning at batch severity 3.
func DefaultEscalationPolicy() EscalationPolicy {
	return EscalationPolicy{
		BanViolationCount:   5,
		BanSeverity:         10,
		MuteViolationCount:  3,
		MuteSeverity:        6,
		WarningSeverity:     3,
		MuteDurationMinutes: 60,
		BanDurationMinutes:  1440,
	}
}

// violationWindow is how far back the escalation engine counts prior
// violations.
const violationWindow = 24 * time.Hour

// EscalationResult is the decision computed for one violation batch.
// PunishmentType is empty when no threshold was crossed.
type EscalationResult struct {
	PunishmentType   models.PunishmentType `json:"punishment_type,omitempty"`
	DurationMinutes  int                   `json:"duration_minutes,omitempty"`
	TotalSeverity    int                   `json:"total_severity"`
	RecentViolations int                   `json:"recent_violations"`
}

// ProcessViolation records the findings as durable violations, counts the
// user's 24h violation history (including this batch) and applies the
// escalation thresholds.
//
// Failure semantics: a failed violation insert aborts escalation and yields
// a zero result, because escalation must query durable records. Failures
// while applying a decided punishment are logged and the computed decision
// is still returned; moderation bookkeeping never fails the message send.
func (e *Engine) ProcessViolation(ctx context.Context, userID string, findings []Finding, messageID *string) EscalationResult {
	if len(findings) == 0 {
		return EscalationResult{}
	}

	// Serialize per user so concurrent batches see each other's inserts
	// when counting the window.
	release, err := e.locker.Lock(ctx, userID)
	if err != nil {
		log.Printf("moderation: user lock unavailable for %s, proceeding unserialized: %v", userID, err)
	} else {
		defer release()
	}

	now := e.now()

	inserted, err := e.recordViolations(ctx, userID, findings, messageID, now)
	if err != nil {
		log.Printf("moderation: %v", err)
		persistenceErrors.WithLabelValues("record_violations").Inc()
		return EscalationResult{}
	}

	recentViolations := 0
	history, err := e.violations.ViolationsSince(ctx, userID, now.Add(-violationWindow))
	if err != nil {
		log.Printf("moderation: violation-window query failed for user %s: %v", userID, err)
		persistenceErrors.WithLabelValues("violation_window").Inc()
	} else {
		recentViolations = len(history)
	}

	// Intentional asymmetry: severity sums over the current batch only,
	// while the violation count spans the whole window.
	totalSeverity := 0
	for _, f := range findings {
		totalSeverity += f.Severity
	}

	result := EscalationResult{
		TotalSeverity:    totalSeverity,
		RecentViolations: recentViolations,
	}

	switch {
	case recentViolations >= e.policy.BanViolationCount || totalSeverity >= e.policy.BanSeverity:
		result.PunishmentType = models.PunishmentTypeBan
		result.DurationMinutes = e.policy.BanDurationMinutes
	case recentViolations >= e.policy.MuteViolationCount || totalSeverity >= e.policy.MuteSeverity:
		result.PunishmentType = models.PunishmentTypeMute
		result.DurationMinutes = e.policy.MuteDurationMinutes
	case totalSeverity >= e.policy.WarningSeverity:
		result.PunishmentType = models.PunishmentTypeWarning
	default:
		return result
	}

	e.applyPunishment(ctx, userID, findings, inserted, result, now)
	return result
}

// applyPunishment makes the computed decision durable. Every failure path
// here only logs; the decision has already been returned to the caller.
func (e *Engine) applyPunishment(ctx context.Context, userID string, findings []Finding, inserted []models.ViolationRecord, result EscalationResult, now time.Time) {
	descriptions := make([]string, 0, len(findings))
	for _, f := range findings {
		descriptions = append(descriptions, f.Description)
	}
	joined := strings.Join(descriptions, ", ")

	if result.PunishmentType == models.PunishmentTypeWarning {
		warning := models.WarningRecord{
			UserID:    userID,
			Message:   "You have violated community guidelines: " + joined,
			CreatedAt: now,
		}
		if _, err := e.punishments.InsertWarning(ctx, warning); err != nil {
			log.Printf("moderation: warning insert failed for user %s: %v", userID, err)
			persistenceErrors.WithLabelValues("insert_warning").Inc()
			return
		}
		punishmentsIssued.WithLabelValues(string(models.PunishmentTypeWarning)).Inc()
		return
	}

	duration := result.DurationMinutes
	expiresAt := now.Add(time.Duration(duration) * time.Minute)

	punishment := models.PunishmentRecord{
		UserID:          userID,
		PunishmentType:  result.PunishmentType,
		DurationMinutes: &duration,
		Reason:          "Automated punishment for violations: " + joined,
		IsActive:        true,
		ExpiresAt:       &expiresAt,
		CreatedAt:       now,
	}
	if len(inserted) > 0 {
		violationID := inserted[0].ID
		punishment.ViolationID = &violationID
	}

	if _, err := e.punishments.InsertPunishment(ctx, punishment); err != nil {
		log.Printf("moderation: punishment insert failed for user %s: %v", userID, err)
		persistenceErrors.WithLabelValues("insert_punishment").Inc()
		return
	}
	punishmentsIssued.WithLabelValues(string(result.PunishmentType)).Inc()

	if result.PunishmentType == models.PunishmentTypeBan {
		if err := e.profiles.SetUserBanned(ctx, userID, true); err != nil {
			log.Printf("moderation: failed to set banned flag for user %s: %v", userID, err)
			persistenceErrors.WithLabelValues("set_banned").Inc()
		}
	}
}
