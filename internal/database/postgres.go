package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL and bootstraps the schema.
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	return InitPostgresTables()
}

// InitPostgresTables creates all necessary tables if they don't exist.
func InitPostgresTables() error {
	queries := []string{
		// Public chat profiles. is_banned is maintained by the escalation
		// engine and punishment revocation and must agree with the active-ban
		// query at all times.
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(30) NOT NULL UNIQUE,
			display_name VARCHAR(100),
			is_banned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Violations are an append-only audit trail; rows are never updated
		// or deleted.
		`CREATE TABLE IF NOT EXISTS violations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id UUID NOT NULL,
			message_id VARCHAR(64),
			violation_type VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			severity INTEGER NOT NULL CHECK (severity BETWEEN 1 AND 5),
			detected_by VARCHAR(64) NOT NULL DEFAULT 'system'
		)`,

		// Punishments lapse by expires_at (checked at read time) or by
		// revocation (is_active = FALSE). No background sweeper.
		`CREATE TABLE IF NOT EXISTS punishments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id UUID NOT NULL,
			violation_id UUID REFERENCES violations(id) ON DELETE SET NULL,
			punishment_type VARCHAR(20) NOT NULL,
			duration_minutes INTEGER,
			reason TEXT NOT NULL,
			issued_by VARCHAR(64),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			expires_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS warnings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id UUID NOT NULL,
			message TEXT NOT NULL,
			acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
			acknowledged_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS activity_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id UUID NOT NULL,
			action VARCHAR(50) NOT NULL,
			details JSONB,
			ip_address VARCHAR(64),
			user_agent TEXT
		)`,

		// Admin accounts are created directly in the database.
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username)`,
		`CREATE INDEX IF NOT EXISTS idx_violations_user_created ON violations(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_violations_created_at ON violations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_punishments_user_active ON punishments(user_id, is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_punishments_expires_at ON punishments(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_warnings_user_ack ON warnings(user_id, acknowledged)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_user_id ON activity_logs(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_admins_username ON admins(username)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection.
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
