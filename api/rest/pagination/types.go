// Package pagination implements the keyset cursor used by the message log.
// Pages walk backwards in time: the cursor is the timestamp of the oldest
// message seen so far, and the next page holds messages strictly older.
package pagination

import (
	"fmt"
	"time"
)

// Params holds keyset pagination parameters from request
type Params struct {
	Before *time.Time
	Limit  int
}

// Meta holds keyset pagination metadata for response
type Meta struct {
	HasMore    bool       `json:"has_more"`
	NextBefore *time.Time `json:"next_before,omitempty"`
}

// NewMeta builds metadata for a fetched page. HasMore is heuristic: a page
// shorter than the limit is definitely the last, a full page may be
// followed by one empty fetch.
func NewMeta(pageLen, limit int, oldest *time.Time) Meta {
	meta := Meta{HasMore: pageLen == limit}

	if meta.HasMore {
		meta.NextBefore = oldest
	}

	return meta
}

// ParseBefore parses the optional before cursor from its query form.
// Accepts RFC3339 with or without sub-second precision; returns nil for the
// empty string (first page).
func ParseBefore(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid before cursor: %w", err)
	}

	return &t, nil
}

// DefaultParams returns keyset params with the limit clamped to (0, maxLimit]
func DefaultParams(before *time.Time, limit, defaultLimit, maxLimit int) Params {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Params{
		Before: before,
		Limit:  limit,
	}
}
