package moderation

import (
	"context"
	"log"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
)

// recordViolations persists one ViolationRecord per finding and appends a
// single activity-log entry summarizing the worst one. An insert failure
// returns a PersistenceError so the caller can abort escalation; an
// activity-log failure only logs.
func (e *Engine) recordViolations(ctx context.Context, userID string, findings []Finding, messageID *string, now time.Time) ([]models.ViolationRecord, error) {
	records := make([]models.ViolationRecord, 0, len(findings))
	for _, f := range findings {
		records = append(records, models.ViolationRecord{
			UserID:        userID,
			MessageID:     messageID,
			ViolationType: f.Type,
			Description:   f.Description,
			Severity:      f.Severity,
			DetectedBy:    models.DetectedBySystem,
			CreatedAt:     now,
		})
	}

	inserted, err := e.violations.InsertViolations(ctx, records)
	if err != nil {
		return nil, &PersistenceError{Stage: "record_violations", Err: err}
	}

	e.logWorstViolation(ctx, userID, inserted)
	return inserted, nil
}

func (e *Engine) logWorstViolation(ctx context.Context, userID string, inserted []models.ViolationRecord) {
	if e.activity == nil || len(inserted) == 0 {
		return
	}

	worst := inserted[0]
	for _, rec := range inserted[1:] {
		if rec.Severity > worst.Severity {
			worst = rec
		}
	}

	entry, err := models.NewActivityLog(userID, models.ViolationDetectedDetails{
		ViolationID:   worst.ID,
		ViolationType: worst.ViolationType,
		Severity:      worst.Severity,
	})
	if err != nil {
		log.Printf("moderation: building violation activity entry failed: %v", err)
		return
	}
	if err := e.activity.AppendActivity(ctx, entry); err != nil {
		log.Printf("moderation: violation activity append failed for user %s: %v", userID, err)
		persistenceErrors.WithLabelValues("activity_log").Inc()
	}
}
