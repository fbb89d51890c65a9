package messages

import (
	"context"
	"time"
)

// PageSize is the fixed fetch size for message pages. A page shorter than
// this signals that no older messages remain; a full page may be followed
// by one empty fetch (documented heuristic, not an exact count).
const PageSize = 50

// message content types (must match DB check constraint). System messages
// have no sender and narrate state transitions.
const (
	ContentTypeText   = "text"
	ContentTypeImage  = "image"
	ContentTypeSystem = "system"
)

// Message is one append-only entry in a collaboration's conversation.
// Messages are never edited or deleted; ordering key is (created_at, id).
type Message struct {
	ID              string         `json:"id"`
	CollaborationID string         `json:"collaboration_id"`
	SenderID        *string        `json:"sender_id,omitempty"` // nil for system messages
	Content         string         `json:"content"`
	ContentType     string         `json:"content_type"`
	Metadata        map[string]any `json:"metadata,omitempty"` // opaque, e.g. image URL
	CreatedAt       time.Time      `json:"created_at"`
}

// repository interface for the message log and per-participant read state
type Repository interface {
	Append(ctx context.Context, m *Message) (*Message, error)
	// Page returns up to limit messages strictly older than before (all
	// messages when before is nil), descending by (created_at, id)
	Page(ctx context.Context, collaborationID string, before *time.Time, limit int) ([]*Message, error)
	// Latest returns the newest message, or nil when the log is empty
	Latest(ctx context.Context, collaborationID string) (*Message, error)
	// UnreadCount counts messages newer than lastReadAt not sent by viewer
	UnreadCount(ctx context.Context, collaborationID, viewerID string, lastReadAt time.Time) (int, error)
	// MarkRead advances the participant's read marker; never moves it back
	MarkRead(ctx context.Context, collaborationID, userID string, at time.Time) error
	// LastReadAt returns the participant's marker, zero when never marked
	LastReadAt(ctx context.Context, collaborationID, userID string) (time.Time, error)
}
