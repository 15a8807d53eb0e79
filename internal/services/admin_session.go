package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/database"
	"github.com/google/uuid"
)

const (
	// AdminSessionDuration is 7 days
	AdminSessionDuration  = 7 * 24 * time.Hour
	adminSessionKeyPrefix = "admin_session:"
)

// CreateAdminSession creates a new Redis-backed session for an admin and
// returns the session token.
func CreateAdminSession(adminID uuid.UUID) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := database.RedisClient.Set(ctx, adminSessionKeyPrefix+sessionToken, adminID.String(), AdminSessionDuration).Err(); err != nil {
		return "", err
	}
	return sessionToken, nil
}

// ValidateAdminSession checks a session token and returns the admin id.
func ValidateAdminSession(sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	adminIDStr, err := database.RedisClient.Get(ctx, adminSessionKeyPrefix+sessionToken).Result()
	if err != nil {
		return uuid.Nil, false, nil
	}

	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}
	return adminID, true, nil
}

// InvalidateAdminSession removes an admin session from Redis.
func InvalidateAdminSession(sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return database.RedisClient.Del(ctx, adminSessionKeyPrefix+sessionToken).Err()
}
