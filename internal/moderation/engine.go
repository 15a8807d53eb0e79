package moderation

import (
	"time"
)

// Engine runs the whole pipeline: validation, recording, escalation and the
// punishment gate. It is safe for concurrent use; invocations for the same
// user are serialized through the configured UserLocker.
type Engine struct {
	detectors   []Detector
	history     MessageHistory
	violations  ViolationStore
	punishments PunishmentStore
	profiles    ProfileStore
	activity    ActivityLogger
	locker      UserLocker
	policy      EscalationPolicy

	// window the pattern detectors look back over
	historyWindow time.Duration
	historyLimit  int

	now func() time.Time
}

// Deps are the collaborators the engine needs. History, violations,
// punishments and profiles are required; Activity and Locker fall back to
// no-op logging and an in-process lock.
type Deps struct {
	History     MessageHistory
	Violations  ViolationStore
	Punishments PunishmentStore
	Profiles    ProfileStore
	Activity    ActivityLogger
	Locker      UserLocker
}

// NewEngine builds an engine with the default detector set. Pass nil
// profanityWords to use the built-in block-list.
func NewEngine(deps Deps, policy EscalationPolicy, profanityWords []string) *Engine {
	locker := deps.Locker
	if locker == nil {
		locker = NewMemLocker()
	}
	return &Engine{
		detectors:     DefaultDetectors(profanityWords),
		history:       deps.History,
		violations:    deps.Violations,
		punishments:   deps.Punishments,
		profiles:      deps.Profiles,
		activity:      deps.Activity,
		locker:        locker,
		policy:        policy,
		historyWindow: 5 * time.Minute,
		historyLimit:  10,
		now:           time.Now,
	}
}
