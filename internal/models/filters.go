package models

import "time"

// UserFilter narrows and orders the user directory before pagination. The
// filter is fully resolved by the service layer: gender is always set, the
// dob window is nil when age filtering is a no-op, and IDs is nil unless a
// like filter restricts the candidate set.
type UserFilter struct {
	ExcludeID string
	Gender    string
	MinDob    *time.Time
	MaxDob    *time.Time
	IDs       []string
	OrderBy   string // "created" or anything else for last-active
}

// OrderByCreated is the only ordering token with its own behavior; every
// other value falls back to last-active.
const OrderByCreated = "created"
