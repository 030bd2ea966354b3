// Package models defines data types for the activity log.
package models

import "time"

// MaxUsernameLen is the declared width of the username column.
const MaxUsernameLen = 60

// GuestUsername is recorded when no authenticated principal is available.
const GuestUsername = "Guest"

// LogEntry is a single immutable audit record. Entries are only ever
// inserted or deleted, never updated in place.
type LogEntry struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Action   string    `json:"action"`
	LogTime  time.Time `json:"log_time"`
}

// ActionCategory is the fixed vocabulary accepted by the action filter.
type ActionCategory string

// Accepted action categories.
const (
	CategoryCreated ActionCategory = "created"
	CategoryUpdated ActionCategory = "updated"
	CategoryTrashed ActionCategory = "trashed"
	CategoryDeleted ActionCategory = "deleted"
)

// Valid reports whether the category is part of the fixed vocabulary.
// The empty category means "no filter" and is valid.
func (c ActionCategory) Valid() bool {
	switch c {
	case "", CategoryCreated, CategoryUpdated, CategoryTrashed, CategoryDeleted:
		return true
	}

	return false
}

// LogFilter holds the five optional, independently-specifiable search inputs.
// A zero LogFilter matches all entries.
type LogFilter struct {
	// Text is matched as a literal substring against username OR action.
	Text string
	// Username is matched exactly.
	Username string
	// Category is matched as a substring against action.
	Category ActionCategory
	// StartDate/EndDate are inclusive calendar-day bounds. Both must be set
	// for the range to apply; a lone bound is ignored.
	StartDate *time.Time
	EndDate   *time.Time
}

// IsZero reports whether no filter input was supplied.
func (f LogFilter) IsZero() bool {
	return f.Text == "" && f.Username == "" && f.Category == "" &&
		f.StartDate == nil && f.EndDate == nil
}
