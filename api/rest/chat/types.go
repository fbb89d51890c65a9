package chat

import (
	"codeberg.org/staymatch/server/api/rest/pagination"
	"codeberg.org/staymatch/server/staymatch/messages"
	"codeberg.org/staymatch/server/staymatch/negotiation"
)

// SendMessageRequest appends one user message to a conversation. Metadata
// carries content-type specific extras, e.g. image dimensions and url.
type SendMessageRequest struct {
	Content     string         `json:"content" binding:"required"`
	ContentType string         `json:"content_type"`
	Metadata    map[string]any `json:"metadata"`
}

// MessageResponse returns the authoritative stored message so optimistic
// client copies can reconcile ids and timestamps
type MessageResponse struct {
	Message *messages.Message `json:"message"`
}

// MessagesResponse is one descending page plus its keyset cursor meta
type MessagesResponse struct {
	Messages   []*messages.Message `json:"messages"`
	Pagination pagination.Meta     `json:"pagination"`
}

type ConversationsResponse struct {
	Conversations []*negotiation.ConversationSummary `json:"conversations"`
}
