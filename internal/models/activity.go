package models

import (
	"encoding/json"
	"errors"
	"time"
)

// LogAction identifies the kind of activity-log entry. Each action has
// exactly one details payload type; the pairing is checked when an entry
// is built, so the details column never holds a free-form blob.
type LogAction string

const (
	LogActionLogin             LogAction = "login"
	LogActionMessageSent       LogAction = "message_sent"
	LogActionViolationDetected LogAction = "violation_detected"
	LogActionPunishmentAppeal  LogAction = "punishment_appeal"
)

// LogDetails is the typed payload of an activity-log entry.
type LogDetails interface {
	Action() LogAction
	Validate() error
}

type LoginDetails struct {
	Method string `json:"method,omitempty"` // e.g. "password", "session"
}

func (LoginDetails) Action() LogAction { return LogActionLogin }
func (LoginDetails) Validate() error   { return nil }

type MessageSentDetails struct {
	RoomID        string `json:"room_id"`
	RoomName      string `json:"room_name,omitempty"`
	MessageLength int    `json:"message_length"`
	HasViolations bool   `json:"has_violations"`
}

func (MessageSentDetails) Action() LogAction { return LogActionMessageSent }

func (d MessageSentDetails) Validate() error {
	if d.RoomID == "" {
		return errors.New("message_sent details require a room id")
	}
	if d.MessageLength < 0 {
		return errors.New("message_sent details require a non-negative length")
	}
	return nil
}

type ViolationDetectedDetails struct {
	ViolationID   string        `json:"violation_id,omitempty"`
	ViolationType ViolationType `json:"violation_type"`
	Severity      int           `json:"severity"`
}

func (ViolationDetectedDetails) Action() LogAction { return LogActionViolationDetected }

func (d ViolationDetectedDetails) Validate() error {
	if d.ViolationType == "" {
		return errors.New("violation_detected details require a violation type")
	}
	if d.Severity < 1 || d.Severity > 5 {
		return errors.New("violation_detected details require severity in [1,5]")
	}
	return nil
}

type PunishmentAppealDetails struct {
	PunishmentID   string         `json:"punishment_id"`
	PunishmentType PunishmentType `json:"punishment_type"`
	Reason         string         `json:"reason,omitempty"`
}

func (PunishmentAppealDetails) Action() LogAction { return LogActionPunishmentAppeal }

func (d PunishmentAppealDetails) Validate() error {
	if d.PunishmentID == "" {
		return errors.New("punishment_appeal details require a punishment id")
	}
	return nil
}

// ActivityLog is one observability entry, stored in PostgreSQL with the
// details payload serialized as JSONB.
type ActivityLog struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Action    LogAction       `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	IPAddress string          `json:"ip_address,omitempty"`
	UserAgent string          `json:"user_agent,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewActivityLog builds an entry from a typed details payload, validating it
// and serializing it in one step.
func NewActivityLog(userID string, details LogDetails) (ActivityLog, error) {
	if userID == "" {
		return ActivityLog{}, errors.New("activity log requires a user id")
	}
	if details == nil {
		return ActivityLog{}, errors.New("activity log requires a details payload")
	}
	if err := details.Validate(); err != nil {
		return ActivityLog{}, err
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return ActivityLog{}, err
	}
	return ActivityLog{
		UserID:  userID,
		Action:  details.Action(),
		Details: raw,
	}, nil
}
