package moderation

import (
	"strings"
	"testing"
	"time"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestProfanityDetector(t *testing.T) {
	d := ProfanityDetector{Words: DefaultProfanityWords}

	t.Run("clean content", func(t *testing.T) {
		assert.Empty(t, d.Detect("good morning, nice weather today", nil, testNow))
	})

	t.Run("single term has severity 2", func(t *testing.T) {
		findings := d.Detect("that was a damn good game", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, models.ViolationTypeProfanity, findings[0].Type)
		assert.Equal(t, 2, findings[0].Severity)
		assert.Contains(t, findings[0].Description, "damn")
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		findings := d.Detect("DAMN", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, 2, findings[0].Severity)
	})

	t.Run("two terms have severity 3", func(t *testing.T) {
		findings := d.Detect("damn you stupid thing", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, 3, findings[0].Severity)
	})

	t.Run("severity caps at 4", func(t *testing.T) {
		findings := d.Detect("damn stupid idiot moron loser", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, 4, findings[0].Severity)
	})
}

func TestHarassmentDetector(t *testing.T) {
	d := HarassmentDetector{Patterns: defaultHarassmentPatterns}

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, d.Detect("have a great day", nil, testNow))
	})

	t.Run("threatening phrase has fixed severity 4", func(t *testing.T) {
		findings := d.Detect("why don't you just Go  Die", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, models.ViolationTypeHarassment, findings[0].Type)
		assert.Equal(t, 4, findings[0].Severity)
	})

	t.Run("only one finding even with multiple patterns", func(t *testing.T) {
		findings := d.Detect("shut up and get lost", nil, testNow)
		assert.Len(t, findings, 1)
	})
}

func TestSpamDetector(t *testing.T) {
	d := SpamDetector{}

	t.Run("repeated run alone scores below threshold", func(t *testing.T) {
		assert.Empty(t, d.Detect("yessssss", nil, testNow))
	})

	t.Run("url alone triggers with severity 1", func(t *testing.T) {
		findings := d.Detect("check this out https://example.com/deal", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, models.ViolationTypeSpam, findings[0].Type)
		assert.Equal(t, 1, findings[0].Severity)
	})

	t.Run("repeated run plus url scores 5, severity 2", func(t *testing.T) {
		findings := d.Detect("woooooow https://example.com", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, 2, findings[0].Severity)
	})

	t.Run("all caps plus repeated run scores 3", func(t *testing.T) {
		findings := d.Detect("AAAAAAA STOP IT NOW!!", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, 1, findings[0].Severity)
	})
}

func TestExcessiveLengthDetector(t *testing.T) {
	d := ExcessiveLengthDetector{MaxLength: 2000}

	t.Run("at the limit passes", func(t *testing.T) {
		assert.Empty(t, d.Detect(strings.Repeat("a", 2000), nil, testNow))
	})

	t.Run("2001 characters always fires with severity 1", func(t *testing.T) {
		findings := d.Detect(strings.Repeat("a", 2001), nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, models.ViolationTypeExcessiveLength, findings[0].Type)
		assert.Equal(t, 1, findings[0].Severity)
	})

	t.Run("length counts runes not bytes", func(t *testing.T) {
		assert.Empty(t, d.Detect(strings.Repeat("é", 2000), nil, testNow))
	})
}

func TestEmptyMessageDetector(t *testing.T) {
	d := EmptyMessageDetector{}

	t.Run("empty string fires", func(t *testing.T) {
		findings := d.Detect("", nil, testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, models.ViolationTypeEmptyMessage, findings[0].Type)
	})

	t.Run("whitespace-only fires", func(t *testing.T) {
		assert.Len(t, d.Detect("   \t\n ", nil, testNow), 1)
	})

	t.Run("non-empty passes", func(t *testing.T) {
		assert.Empty(t, d.Detect("hi", nil, testNow))
	})
}

func TestRepeatedMessageDetector(t *testing.T) {
	d := RepeatedMessageDetector{Threshold: 3}

	history := func(contents ...string) []models.Message {
		msgs := make([]models.Message, 0, len(contents))
		for _, c := range contents {
			msgs = append(msgs, models.Message{UserID: "u1", RoomID: "r1", Content: c, CreatedAt: testNow})
		}
		return msgs
	}

	t.Run("first send passes", func(t *testing.T) {
		assert.Empty(t, d.Detect("hello", nil, testNow))
	})

	t.Run("second send passes", func(t *testing.T) {
		assert.Empty(t, d.Detect("hello", history("hello"), testNow))
	})

	t.Run("third send fires", func(t *testing.T) {
		findings := d.Detect("hello", history("hello", "hello"), testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, models.ViolationTypeRepeatedMessages, findings[0].Type)
		assert.Equal(t, 2, findings[0].Severity)
	})

	t.Run("comparison ignores case", func(t *testing.T) {
		findings := d.Detect("HELLO", history("hello", "Hello"), testNow)
		assert.Len(t, findings, 1)
	})
}

func TestRapidPostingDetector(t *testing.T) {
	d := RapidPostingDetector{Threshold: 5, Window: time.Minute}

	burst := func(n int, spacing time.Duration) []models.Message {
		msgs := make([]models.Message, 0, n)
		for i := 0; i < n; i++ {
			msgs = append(msgs, models.Message{
				UserID:    "u1",
				RoomID:    "r1",
				Content:   "msg",
				CreatedAt: testNow.Add(-time.Duration(i+1) * spacing),
			})
		}
		return msgs
	}

	t.Run("four recent messages pass", func(t *testing.T) {
		assert.Empty(t, d.Detect("another", burst(4, time.Second), testNow))
	})

	t.Run("five messages inside the window fire", func(t *testing.T) {
		findings := d.Detect("another", burst(5, time.Second), testNow)
		require.Len(t, findings, 1)
		assert.Equal(t, models.ViolationTypeRapidPosting, findings[0].Type)
		assert.Equal(t, 3, findings[0].Severity)
	})

	t.Run("old messages fall outside the window", func(t *testing.T) {
		assert.Empty(t, d.Detect("another", burst(5, time.Minute), testNow))
	})
}
