package models

import "time"

type ViolationType string

const (
	ViolationTypeProfanity        ViolationType = "profanity"
	ViolationTypeHarassment       ViolationType = "harassment"
	ViolationTypeSpam             ViolationType = "spam"
	ViolationTypeExcessiveLength  ViolationType = "excessive_length"
	ViolationTypeEmptyMessage     ViolationType = "empty_message"
	ViolationTypeRepeatedMessages ViolationType = "repeated_messages"
	ViolationTypeRapidPosting     ViolationType = "rapid_posting"
)

// DetectedBySystem marks violations recorded by the automated pipeline,
// as opposed to an admin id for manually filed violations.
const DetectedBySystem = "system"

// ViolationRecord is the durable, append-only audit record of a single
// detected violation. Records are never updated or deleted.
type ViolationRecord struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	MessageID     *string       `json:"message_id,omitempty"`
	ViolationType ViolationType `json:"violation_type"`
	Description   string        `json:"description"`
	Severity      int           `json:"severity"` // 1..5
	DetectedBy    string        `json:"detected_by"`
	CreatedAt     time.Time     `json:"created_at"`
}
