package models

import "time"

type PunishmentType string

const (
	PunishmentTypeWarning PunishmentType = "warning"
	PunishmentTypeMute    PunishmentType = "mute"
	PunishmentTypeBan     PunishmentType = "ban"
)

// Enforcing reports whether this punishment type gates message sending.
// Warnings are acknowledgement-only and never block anything.
func (t PunishmentType) Enforcing() bool {
	return t == PunishmentTypeMute || t == PunishmentTypeBan
}

// PunishmentRecord is a durable punishment issued by the escalation engine
// (IssuedBy == nil) or by an admin. Records lapse when ExpiresAt passes
// (checked at read time, there is no background sweeper) or when revoked
// by setting IsActive to false.
type PunishmentRecord struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	ViolationID     *string        `json:"violation_id,omitempty"`
	PunishmentType  PunishmentType `json:"punishment_type"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	Reason          string         `json:"reason"`
	IssuedBy        *string        `json:"issued_by,omitempty"` // nil = system
	IsActive        bool           `json:"is_active"`
	ExpiresAt       *time.Time     `json:"expires_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Expired reports whether the punishment has naturally lapsed at the given time.
// A nil ExpiresAt never expires.
func (p *PunishmentRecord) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

// EnforcedAt reports whether the punishment is in effect at the given time.
func (p *PunishmentRecord) EnforcedAt(now time.Time) bool {
	return p.IsActive && !p.Expired(now)
}

// WarningRecord is the lowest escalation tier. It requires explicit user
// acknowledgement but carries no enforcement effect on its own.
type WarningRecord struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Message        string     `json:"message"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
