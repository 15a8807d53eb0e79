package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Alexis12119/chat-profanity-detector/internal/models"
)

// Finding is an ephemeral detection result. It only becomes a durable
// ViolationRecord once the recorder persists it. Confidence is purely
// observational and never feeds escalation decisions.
type Finding struct {
	Type        models.ViolationType `json:"type"`
	Description string               `json:"description"`
	Severity    int                  `json:"severity"`
	Confidence  float64              `json:"confidence"`
}

// Detector is one stateless policy check. Detectors never mutate state and
// never fail: malformed input at worst yields no findings. History is the
// sender's recent messages in the same room (newest first) and may be empty.
type Detector interface {
	Name() string
	Detect(content string, history []models.Message, now time.Time) []Finding
}

// DefaultProfanityWords is the configured block-list. Matching is a
// case-insensitive substring check.
var DefaultProfanityWords = []string{
	"damn",
	"hell",
	"crap",
	"stupid",
	"idiot",
	"moron",
	"dumb",
	"loser",
	"bobo",
	"bobo ka",
	"8080",
	"Tanginamo",
	"Putanginamo",
	"3030",
	"Tanga",
	"Panget",
	"Mongoloid",
	"9090",
}

var defaultHarassmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)kill\s+yourself`),
	regexp.MustCompile(`(?i)go\s+die`),
	regexp.MustCompile(`(?i)you\s+suck`),
	regexp.MustCompile(`(?i)hate\s+you`),
	regexp.MustCompile(`(?i)shut\s+up`),
	regexp.MustCompile(`(?i)get\s+lost`),
}

var (
	allCapsPattern = regexp.MustCompile(`^[A-Z\s!]{10,}$`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
)

// ProfanityDetector flags messages containing block-listed terms.
type ProfanityDetector struct {
	Words []string
}

func (d ProfanityDetector) Name() string { return "profanity" }

func (d ProfanityDetector) Detect(content string, _ []models.Message, _ time.Time) []Finding {
	lower := strings.ToLower(content)

	var found []string
	for _, word := range d.Words {
		if strings.Contains(lower, strings.ToLower(word)) {
			found = append(found, word)
		}
	}
	if len(found) == 0 {
		return nil
	}

	// Min severity 2, +1 per additional term, capped at 4.
	severity := len(found) + 1
	if severity < 2 {
		severity = 2
	}
	if severity > 4 {
		severity = 4
	}

	return []Finding{{
		Type:        models.ViolationTypeProfanity,
		Description: "Contains inappropriate language: " + strings.Join(found, ", "),
		Severity:    severity,
		Confidence:  0.8,
	}}
}

// HarassmentDetector flags threatening or abusive phrasings.
type HarassmentDetector struct {
	Patterns []*regexp.Regexp
}

func (d HarassmentDetector) Name() string { return "harassment" }

func (d HarassmentDetector) Detect(content string, _ []models.Message, _ time.Time) []Finding {
	for _, pattern := range d.Patterns {
		if pattern.MatchString(content) {
			return []Finding{{
				Type:        models.ViolationTypeHarassment,
				Description: "Contains harassing or threatening language",
				Severity:    4,
				Confidence:  0.9,
			}}
		}
	}
	return nil
}

// SpamDetector scores repeated-character runs, all-caps shouting and URLs.
// It only fires once the combined score reaches 3.
type SpamDetector struct{}

func (SpamDetector) Name() string { return "spam" }

func (SpamDetector) Detect(content string, _ []models.Message, _ time.Time) []Finding {
	score := 0
	var reasons []string

	if hasRepeatedRun(content, 5) {
		score += 2
		reasons = append(reasons, "excessive repeated characters")
	}
	if allCapsPattern.MatchString(content) {
		score++
		reasons = append(reasons, "excessive capitalization")
	}
	if urlPattern.MatchString(content) {
		score += 3
		reasons = append(reasons, "contains URLs")
	}

	if score < 3 {
		return nil
	}

	severity := score / 2
	if severity > 3 {
		severity = 3
	}

	return []Finding{{
		Type:        models.ViolationTypeSpam,
		Description: "Potential spam detected: " + strings.Join(reasons, ", "),
		Severity:    severity,
		Confidence:  0.7,
	}}
}

// hasRepeatedRun reports whether content contains a run of minRun or more
// identical characters. Go's regexp has no backreferences, so this is a
// plain scan.
func hasRepeatedRun(content string, minRun int) bool {
	var prev rune
	run := 0
	for _, r := range content {
		if r == prev {
			run++
			if run >= minRun {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// ExcessiveLengthDetector flags messages over the character limit.
type ExcessiveLengthDetector struct {
	MaxLength int
}

func (d ExcessiveLengthDetector) Name() string { return "excessive_length" }

func (d ExcessiveLengthDetector) Detect(content string, _ []models.Message, _ time.Time) []Finding {
	length := utf8.RuneCountInString(content)
	if length <= d.MaxLength {
		return nil
	}
	return []Finding{{
		Type:        models.ViolationTypeExcessiveLength,
		Description: fmt.Sprintf("Message too long (%d characters, max %d)", length, d.MaxLength),
		Severity:    1,
		Confidence:  1.0,
	}}
}

// EmptyMessageDetector flags empty or whitespace-only messages.
type EmptyMessageDetector struct{}

func (EmptyMessageDetector) Name() string { return "empty_message" }

func (EmptyMessageDetector) Detect(content string, _ []models.Message, _ time.Time) []Finding {
	if strings.TrimSpace(content) != "" {
		return nil
	}
	return []Finding{{
		Type:        models.ViolationTypeEmptyMessage,
		Description: "Empty or whitespace-only message",
		Severity:    1,
		Confidence:  1.0,
	}}
}

// RepeatedMessageDetector flags the same content sent over and over in the
// recent window. The candidate message itself counts toward the total, so
// the third identical send trips it.
type RepeatedMessageDetector struct {
	Threshold int
}

func (d RepeatedMessageDetector) Name() string { return "repeated_messages" }

func (d RepeatedMessageDetector) Detect(content string, history []models.Message, _ time.Time) []Finding {
	lower := strings.ToLower(content)
	count := 1 // the candidate
	for _, msg := range history {
		if strings.ToLower(msg.Content) == lower {
			count++
		}
	}
	if count < d.Threshold {
		return nil
	}
	return []Finding{{
		Type:        models.ViolationTypeRepeatedMessages,
		Description: fmt.Sprintf("Message repeated %d times", count),
		Severity:    2,
		Confidence:  1.0,
	}}
}

// RapidPostingDetector flags a burst of messages inside a short window.
// Only history timestamps count; the candidate is not yet persisted.
type RapidPostingDetector struct {
	Threshold int
	Window    time.Duration
}

func (d RapidPostingDetector) Name() string { return "rapid_posting" }

func (d RapidPostingDetector) Detect(_ string, history []models.Message, now time.Time) []Finding {
	cutoff := now.Add(-d.Window)
	count := 0
	for _, msg := range history {
		if msg.CreatedAt.After(cutoff) {
			count++
		}
	}
	if count < d.Threshold {
		return nil
	}
	return []Finding{{
		Type:        models.ViolationTypeRapidPosting,
		Description: fmt.Sprintf("%d messages in %d seconds", count, int(d.Window.Seconds())),
		Severity:    3,
		Confidence:  1.0,
	}}
}

// DefaultDetectors returns the full detector set in evaluation order:
// content detectors first, then the history-based ones. Pass nil to use
// the default profanity block-list.
func DefaultDetectors(profanityWords []string) []Detector {
	if len(profanityWords) == 0 {
		profanityWords = DefaultProfanityWords
	}
	return []Detector{
		ProfanityDetector{Words: profanityWords},
		HarassmentDetector{Patterns: defaultHarassmentPatterns},
		SpamDetector{},
		ExcessiveLengthDetector{MaxLength: 2000},
		EmptyMessageDetector{},
		RepeatedMessageDetector{Threshold: 3},
		RapidPostingDetector{Threshold: 5, Window: time.Minute},
	}
}
