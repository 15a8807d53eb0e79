package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(store *MemStore) *Engine {
	e := NewEngine(Deps{
		History:     store,
		Violations:  store,
		Punishments: store,
		Profiles:    store,
		Activity:    store,
	}, DefaultEscalationPolicy(), nil)
	e.now = func() time.Time { return testNow }
	return e
}

func TestValidateMessageCleanContent(t *testing.T) {
	e := newTestEngine(NewMemStore())

	result := e.ValidateMessage(context.Background(), "good morning friend", "u1", "r1")

	assert.True(t, result.IsValid)
	assert.False(t, result.ShouldBlock)
	assert.False(t, result.ShouldWarn)
	assert.Empty(t, result.Violations)
}

func TestValidateMessageAnyFindingBlocks(t *testing.T) {
	e := newTestEngine(NewMemStore())

	result := e.ValidateMessage(context.Background(), "that damn thing again", "u1", "r1")

	assert.False(t, result.IsValid)
	assert.True(t, result.ShouldBlock)
	// Block always wins over warn, so ShouldWarn stays false even at
	// severity 2.
	assert.False(t, result.ShouldWarn)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationTypeProfanity, result.Violations[0].Type)
}

func TestValidateMessageEmptyAndSpamCoexist(t *testing.T) {
	e := newTestEngine(NewMemStore())

	result := e.ValidateMessage(context.Background(), "", "u1", "r1")

	assert.True(t, result.ShouldBlock)
	types := make([]models.ViolationType, 0, len(result.Violations))
	for _, f := range result.Violations {
		types = append(types, f.Type)
	}
	assert.Contains(t, types, models.ViolationTypeEmptyMessage)
}

func TestValidateMessageRepeatedContentOrder(t *testing.T) {
	store := NewMemStore()
	for i := 0; i < 2; i++ {
		store.AddMessage(models.Message{
			UserID:    "u1",
			RoomID:    "r1",
			Content:   "that damn thing again",
			CreatedAt: testNow.Add(-time.Duration(i+1) * time.Minute),
		})
	}
	e := newTestEngine(store)

	result := e.ValidateMessage(context.Background(), "that damn thing again", "u1", "r1")

	// Content detectors report before the history-based ones.
	require.Len(t, result.Violations, 2)
	assert.Equal(t, models.ViolationTypeProfanity, result.Violations[0].Type)
	assert.Equal(t, models.ViolationTypeRepeatedMessages, result.Violations[1].Type)
	assert.True(t, result.ShouldBlock)
}

func TestValidateMessageHistoryOutsideWindowIgnored(t *testing.T) {
	store := NewMemStore()
	for i := 0; i < 2; i++ {
		store.AddMessage(models.Message{
			UserID:    "u1",
			RoomID:    "r1",
			Content:   "same words",
			CreatedAt: testNow.Add(-10 * time.Minute),
		})
	}
	e := newTestEngine(store)

	result := e.ValidateMessage(context.Background(), "same words", "u1", "r1")

	assert.True(t, result.IsValid)
}

func TestValidateMessageHistoryFailureDegrades(t *testing.T) {
	store := NewMemStore()
	store.RecentMessagesErr = errors.New("connection reset")
	e := newTestEngine(store)

	// Content-only detection still runs.
	result := e.ValidateMessage(context.Background(), "that damn thing again", "u1", "r1")

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationTypeProfanity, result.Violations[0].Type)
}
