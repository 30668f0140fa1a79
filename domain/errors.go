package domain

import "errors"

// Lookup and scoring failures surfaced to callers. Invalid agent actions are
// not errors; the router rejects them with a zero-reward status and leaves the
// session where it was.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrProductNotFound = errors.New("product not found")
	ErrGoalNotFound    = errors.New("goal index out of range")
	ErrNoGoal          = errors.New("session has no assigned goal")
	ErrNoProductOpen   = errors.New("no product open for purchase")
)
