package services

import (
	"context"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/database"
	"github.com/google/uuid"
)

// Session tokens are issued by the external auth service and stored in
// Redis as session:<token> -> user id. This service only validates them at
// the gateway boundary.
const sessionKeyPrefix = "session:"

// ValidateSession checks a session token and returns the user id it maps to.
func ValidateSession(sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	userIDStr, err := database.RedisClient.Get(ctx, sessionKeyPrefix+sessionToken).Result()
	if err != nil {
		return uuid.Nil, false, nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, true, nil
}
