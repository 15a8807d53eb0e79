package moderation

import "fmt"

// PersistenceError wraps a durable read or write failure from one of the
// backing stores. The pipeline catches these at each stage boundary and
// degrades instead of failing the message send.
type PersistenceError struct {
	Stage string // "record_violations", "insert_punishment", ...
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("moderation: persistence failure in %s: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConsistencyError reports that a derived invariant is broken, e.g. the
// profile banned flag disagrees with the active-ban query. Not expected in
// normal operation; asserted by audits and tests.
type ConsistencyError struct {
	UserID string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("moderation: consistency violation for user %s: %s", e.UserID, e.Detail)
}
