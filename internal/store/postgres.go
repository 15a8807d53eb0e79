package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
)

// PostgresStore implements the moderation store interfaces (violations,
// punishments, profiles, activity log) plus the admin/warning queries the
// HTTP layer needs, on top of database/sql with lib/pq.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) InsertViolations(ctx context.Context, records []models.ViolationRecord) ([]models.ViolationRecord, error) {
	inserted := make([]models.ViolationRecord, 0, len(records))
	for _, rec := range records {
		row := s.DB.QueryRowContext(ctx, `
			INSERT INTO violations (user_id, message_id, violation_type, description, severity, detected_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, rec.UserID, rec.MessageID, rec.ViolationType, rec.Description, rec.Severity, rec.DetectedBy)
		if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

func (s *PostgresStore) ViolationsSince(ctx context.Context, userID string, since time.Time) ([]models.ViolationRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, message_id, violation_type, description, severity, detected_by, created_at
		FROM violations
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanViolations(rows)
}

// RecentViolations returns the newest violations across all users, for the
// admin dashboard.
func (s *PostgresStore) RecentViolations(ctx context.Context, limit int) ([]models.ViolationRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, message_id, violation_type, description, severity, detected_by, created_at
		FROM violations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanViolations(rows)
}

func scanViolations(rows *sql.Rows) ([]models.ViolationRecord, error) {
	var out []models.ViolationRecord
	for rows.Next() {
		var rec models.ViolationRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.MessageID, &rec.ViolationType,
			&rec.Description, &rec.Severity, &rec.DetectedBy, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) InsertPunishment(ctx context.Context, record models.PunishmentRecord) (models.PunishmentRecord, error) {
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO punishments (user_id, violation_id, punishment_type, duration_minutes, reason, issued_by, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, record.UserID, record.ViolationID, record.PunishmentType, record.DurationMinutes,
		record.Reason, record.IssuedBy, record.IsActive, record.ExpiresAt)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return models.PunishmentRecord{}, err
	}
	return record, nil
}

func (s *PostgresStore) InsertWarning(ctx context.Context, record models.WarningRecord) (models.WarningRecord, error) {
	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO warnings (user_id, message)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, record.UserID, record.Message)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return models.WarningRecord{}, err
	}
	return record, nil
}

func (s *PostgresStore) ActivePunishments(ctx context.Context, userID string, now time.Time) ([]models.PunishmentRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, violation_id, punishment_type, duration_minutes, reason, issued_by, is_active, expires_at, created_at
		FROM punishments
		WHERE user_id = $1 AND is_active = TRUE AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC
	`, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPunishments(rows)
}

// RecentPunishments returns the newest punishments across all users, for
// the admin dashboard.
func (s *PostgresStore) RecentPunishments(ctx context.Context, limit int) ([]models.PunishmentRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, violation_id, punishment_type, duration_minutes, reason, issued_by, is_active, expires_at, created_at
		FROM punishments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPunishments(rows)
}

func scanPunishments(rows *sql.Rows) ([]models.PunishmentRecord, error) {
	var out []models.PunishmentRecord
	for rows.Next() {
		var rec models.PunishmentRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ViolationID, &rec.PunishmentType,
			&rec.DurationMinutes, &rec.Reason, &rec.IssuedBy, &rec.IsActive,
			&rec.ExpiresAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PunishmentByID(ctx context.Context, punishmentID string) (models.PunishmentRecord, error) {
	var rec models.PunishmentRecord
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, violation_id, punishment_type, duration_minutes, reason, issued_by, is_active, expires_at, created_at
		FROM punishments
		WHERE id = $1
	`, punishmentID)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.ViolationID, &rec.PunishmentType,
		&rec.DurationMinutes, &rec.Reason, &rec.IssuedBy, &rec.IsActive,
		&rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		return models.PunishmentRecord{}, err
	}
	return rec, nil
}

func (s *PostgresStore) SetPunishmentActive(ctx context.Context, punishmentID string, active bool) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE punishments SET is_active = $2 WHERE id = $1
	`, punishmentID, active)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (s *PostgresStore) SetUserBanned(ctx context.Context, userID string, banned bool) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE profiles SET is_banned = $2 WHERE id = $1
	`, userID, banned)
	return err
}

func (s *PostgresStore) UserBanned(ctx context.Context, userID string) (bool, error) {
	var banned bool
	err := s.DB.QueryRowContext(ctx, `
		SELECT is_banned FROM profiles WHERE id = $1
	`, userID).Scan(&banned)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return banned, err
}

func (s *PostgresStore) ProfileByID(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	var displayName sql.NullString
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, display_name, is_banned, created_at
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&p.ID, &p.Username, &displayName, &p.IsBanned, &p.CreatedAt)
	if err != nil {
		return models.Profile{}, err
	}
	p.DisplayName = displayName.String
	return p, nil
}

func (s *PostgresStore) AppendActivity(ctx context.Context, entry models.ActivityLog) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, action, details, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.UserID, entry.Action, []byte(entry.Details), nullable(entry.IPAddress), nullable(entry.UserAgent))
	return err
}

// RecentActivity returns the newest activity-log entries, for the admin
// dashboard.
func (s *PostgresStore) RecentActivity(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, action, COALESCE(details, 'null'::jsonb)::text, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		var details string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &details,
			&entry.IPAddress, &entry.UserAgent, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Details = []byte(details)
		out = append(out, entry)
	}
	return out, rows.Err()
}

// UnacknowledgedWarnings returns the user's warnings pending acknowledgement,
// newest first.
func (s *PostgresStore) UnacknowledgedWarnings(ctx context.Context, userID string) ([]models.WarningRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, message, acknowledged, acknowledged_at, created_at
		FROM warnings
		WHERE user_id = $1 AND acknowledged = FALSE
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WarningRecord
	for rows.Next() {
		var rec models.WarningRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Message, &rec.Acknowledged,
			&rec.AcknowledgedAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AcknowledgeWarning(ctx context.Context, warningID, userID string) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE warnings SET acknowledged = TRUE, acknowledged_at = NOW()
		WHERE id = $1 AND user_id = $2 AND acknowledged = FALSE
	`, warningID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (s *PostgresStore) AcknowledgeAllWarnings(ctx context.Context, userID string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE warnings SET acknowledged = TRUE, acknowledged_at = NOW()
		WHERE user_id = $1 AND acknowledged = FALSE
	`, userID)
	return err
}

func (s *PostgresStore) AdminByUsername(ctx context.Context, username string) (models.Admin, error) {
	var admin models.Admin
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, is_active, created_at
		FROM admins
		WHERE username = $1 AND is_active = TRUE
	`, username).Scan(&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash,
		&admin.IsActive, &admin.CreatedAt)
	if err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
