package moderation

import (
	"context"
	"log"
)

// ValidationResult is the advisory outcome of validating one outgoing
// message. It carries no side effects; recording and escalation are the
// caller's responsibility via ProcessViolation.
type ValidationResult struct {
	IsValid     bool      `json:"is_valid"`
	Violations  []Finding `json:"violations"`
	ShouldBlock bool      `json:"should_block"`
	ShouldWarn  bool      `json:"should_warn"`
}

// ValidateMessage runs every detector against the content plus the sender's
// recent history in the room and classifies the outcome. All inputs are
// acceptable, including the empty string. A history fetch failure degrades
// to content-only detection rather than failing the call.
func (e *Engine) ValidateMessage(ctx context.Context, content, userID, roomID string) ValidationResult {
	now := e.now()

	history, err := e.history.RecentMessages(ctx, userID, roomID, now.Add(-e.historyWindow), e.historyLimit)
	if err != nil {
		log.Printf("moderation: recent-history fetch failed for user %s room %s: %v", userID, roomID, err)
		persistenceErrors.WithLabelValues("recent_history").Inc()
		history = nil
	}

	var violations []Finding
	for _, detector := range e.detectors {
		violations = append(violations, detector.Detect(content, history, now)...)
	}

	maxSeverity := 0
	for _, v := range violations {
		if v.Severity > maxSeverity {
			maxSeverity = v.Severity
		}
		findingsDetected.WithLabelValues(string(v.Type)).Inc()
	}

	shouldBlock := maxSeverity >= 1 || len(violations) >= 3
	shouldWarn := maxSeverity >= 2 && !shouldBlock

	result := ValidationResult{
		IsValid:     len(violations) == 0,
		Violations:  violations,
		ShouldBlock: shouldBlock,
		ShouldWarn:  shouldWarn,
	}

	switch {
	case shouldBlock:
		messagesValidated.WithLabelValues("blocked").Inc()
	case shouldWarn:
		messagesValidated.WithLabelValues("warned").Inc()
	default:
		messagesValidated.WithLabelValues("allowed").Inc()
	}

	return result
}
