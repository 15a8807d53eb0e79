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

func punishment(id, userID string, pt models.PunishmentType, expiresAt *time.Time, active bool) models.PunishmentRecord {
	return models.PunishmentRecord{
		ID:             id,
		UserID:         userID,
		PunishmentType: pt,
		Reason:         "test",
		IsActive:       active,
		ExpiresAt:      expiresAt,
		CreatedAt:      testNow.Add(-time.Minute),
	}
}

func TestActivePunishmentsExpiryAtReadTime(t *testing.T) {
	store := NewMemStore()
	past := testNow.Add(-time.Minute)
	future := testNow.Add(time.Hour)
	store.Punishments = []models.PunishmentRecord{
		punishment("p1", "u1", models.PunishmentTypeMute, &past, true),
		punishment("p2", "u1", models.PunishmentTypeMute, &future, true),
		punishment("p3", "u1", models.PunishmentTypeBan, nil, false),
	}
	e := newTestEngine(store)

	active, err := e.ActivePunishments(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "p2", active[0].ID)
}

func TestActivePunishmentsNilExpiryNeverLapses(t *testing.T) {
	store := NewMemStore()
	store.Punishments = []models.PunishmentRecord{
		punishment("p1", "u1", models.PunishmentTypeBan, nil, true),
	}
	e := newTestEngine(store)
	e.now = func() time.Time { return testNow.Add(1000 * time.Hour) }

	active, err := e.ActivePunishments(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCanSendMessagesGate(t *testing.T) {
	store := NewMemStore()
	e := newTestEngine(store)

	t.Run("no punishments allows sending", func(t *testing.T) {
		ok, err := e.CanSendMessages(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	future := testNow.Add(time.Hour)
	store.Punishments = []models.PunishmentRecord{
		punishment("p1", "u1", models.PunishmentTypeMute, &future, true),
	}

	t.Run("active mute blocks sending", func(t *testing.T) {
		ok, err := e.CanSendMessages(context.Background(), "u1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired mute allows sending again", func(t *testing.T) {
		e.now = func() time.Time { return testNow.Add(2 * time.Hour) }
		defer func() { e.now = func() time.Time { return testNow } }()

		ok, err := e.CanSendMessages(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("other users are unaffected", func(t *testing.T) {
		ok, err := e.CanSendMessages(context.Background(), "u2")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestRevokePunishmentMute(t *testing.T) {
	store := NewMemStore()
	future := testNow.Add(time.Hour)
	store.Punishments = []models.PunishmentRecord{
		punishment("p1", "u1", models.PunishmentTypeMute, &future, true),
	}
	e := newTestEngine(store)

	require.NoError(t, e.RevokePunishment(context.Background(), "p1"))

	assert.False(t, store.Punishments[0].IsActive)
	ok, err := e.CanSendMessages(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRevokeWithOtherActivePunishmentStillGates(t *testing.T) {
	store := NewMemStore()
	muteExpiry := testNow.Add(time.Hour)
	banExpiry := testNow.Add(24 * time.Hour)
	store.Punishments = []models.PunishmentRecord{
		punishment("p-ban", "u1", models.PunishmentTypeBan, &banExpiry, true),
		punishment("p-mute", "u1", models.PunishmentTypeMute, &muteExpiry, true),
	}
	e := newTestEngine(store)

	// Revoking the mute does not open the gate while the ban remains.
	require.NoError(t, e.RevokePunishment(context.Background(), "p-mute"))

	ok, err := e.CanSendMessages(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevokePunishmentBanClearsFlag(t *testing.T) {
	store := NewMemStore()
	future := testNow.Add(24 * time.Hour)
	store.Punishments = []models.PunishmentRecord{
		punishment("p1", "u1", models.PunishmentTypeBan, &future, true),
	}
	store.Banned["u1"] = true
	e := newTestEngine(store)

	require.NoError(t, e.RevokePunishment(context.Background(), "p1"))

	assert.False(t, store.Punishments[0].IsActive)
	assert.False(t, store.Banned["u1"])
}

func TestRevokePunishmentUnknownID(t *testing.T) {
	e := newTestEngine(NewMemStore())

	err := e.RevokePunishment(context.Background(), "missing")

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "revoke_lookup", perr.Stage)
}

func TestRevokePunishmentDeactivateFailureSurfaced(t *testing.T) {
	store := NewMemStore()
	future := testNow.Add(time.Hour)
	store.Punishments = []models.PunishmentRecord{
		punishment("p1", "u1", models.PunishmentTypeMute, &future, true),
	}
	store.SetPunishmentActErr = errors.New("connection reset")
	e := newTestEngine(store)

	err := e.RevokePunishment(context.Background(), "p1")

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "revoke_deactivate", perr.Stage)
	assert.True(t, store.Punishments[0].IsActive)
}

func TestCheckBanConsistency(t *testing.T) {
	t.Run("consistent when neither exists", func(t *testing.T) {
		e := newTestEngine(NewMemStore())
		assert.NoError(t, e.CheckBanConsistency(context.Background(), "u1"))
	})

	t.Run("consistent when both exist", func(t *testing.T) {
		store := NewMemStore()
		store.Punishments = []models.PunishmentRecord{
			punishment("p1", "u1", models.PunishmentTypeBan, nil, true),
		}
		store.Banned["u1"] = true
		e := newTestEngine(store)
		assert.NoError(t, e.CheckBanConsistency(context.Background(), "u1"))
	})

	t.Run("flag without record", func(t *testing.T) {
		store := NewMemStore()
		store.Banned["u1"] = true
		e := newTestEngine(store)

		var cerr *ConsistencyError
		require.ErrorAs(t, e.CheckBanConsistency(context.Background(), "u1"), &cerr)
		assert.Equal(t, "u1", cerr.UserID)
	})

	t.Run("record without flag", func(t *testing.T) {
		store := NewMemStore()
		store.Punishments = []models.PunishmentRecord{
			punishment("p1", "u1", models.PunishmentTypeBan, nil, true),
		}
		e := newTestEngine(store)

		var cerr *ConsistencyError
		require.ErrorAs(t, e.CheckBanConsistency(context.Background(), "u1"), &cerr)
	})

	t.Run("expired ban with cleared flag is consistent", func(t *testing.T) {
		store := NewMemStore()
		past := testNow.Add(-time.Minute)
		store.Punishments = []models.PunishmentRecord{
			punishment("p1", "u1", models.PunishmentTypeBan, &past, true),
		}
		e := newTestEngine(store)
		assert.NoError(t, e.CheckBanConsistency(context.Background(), "u1"))
	})
}
