package chat

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/staymatch/server/api/rest/pagination"
	"codeberg.org/staymatch/server/internal/auth"
	"codeberg.org/staymatch/server/internal/errors"
	"codeberg.org/staymatch/server/internal/ratelimit"
	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/messages"
	"codeberg.org/staymatch/server/staymatch/negotiation"
	"codeberg.org/staymatch/server/staymatch/terms"
)

func respondChatError(c *gin.Context, err error) {
	var fieldErr *terms.FieldError

	switch {
	case stderrors.As(err, &fieldErr):
		errors.ValidationError(c, err)
	case stderrors.Is(err, collabs.ErrNotFound):
		errors.NotFound(c, "collaboration")
	case stderrors.Is(err, collabs.ErrNotParticipant):
		errors.Forbidden(c, "not a party to this collaboration")
	default:
		errors.InternalError(c, "operation failed", err)
	}
}

// appends a user message; rate limited per sender
func SendMessageHandler(svc *negotiation.Service, limiter *ratelimit.PerSender) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		if !limiter.Allow(userID) {
			errors.TooManyRequests(c, "sending messages too fast")
			return
		}

		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if req.ContentType == "" {
			req.ContentType = messages.ContentTypeText
		}

		msg, err := svc.SendMessage(c.Request.Context(), userID, c.Param("id"), req.Content, req.ContentType, req.Metadata)
		if err != nil {
			respondChatError(c, err)
			return
		}

		c.JSON(http.StatusCreated, MessageResponse{Message: msg})
	}
}

// returns one descending page of messages older than the before cursor
func ListMessagesHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		before, err := pagination.ParseBefore(c.Query("before"))
		if err != nil {
			errors.BadRequest(c, "invalid before cursor", err)
			return
		}

		page, err := svc.FetchMessages(c.Request.Context(), userID, c.Param("id"), before)
		if err != nil {
			respondChatError(c, err)
			return
		}

		var oldest *time.Time
		if len(page.Messages) > 0 {
			oldest = &page.Messages[len(page.Messages)-1].CreatedAt
		}

		c.JSON(http.StatusOK, MessagesResponse{
			Messages:   page.Messages,
			Pagination: pagination.NewMeta(len(page.Messages), messages.PageSize, oldest),
		})
	}
}

// advances the caller's read marker to now; idempotent
func MarkReadHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		if err := svc.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
			respondChatError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// lists the caller's conversation summaries
func ListConversationsHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		conversations, err := svc.ListConversations(c.Request.Context(), userID)
		if err != nil {
			respondChatError(c, err)
			return
		}

		c.JSON(http.StatusOK, ConversationsResponse{Conversations: conversations})
	}
}
