package collabs

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/staymatch/server/internal/auth"
	"codeberg.org/staymatch/server/internal/errors"
	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/negotiation"
	"codeberg.org/staymatch/server/staymatch/terms"
)

// maps negotiation service errors onto the error taxonomy: validation 400,
// missing resources 404, authorization 403, state conflicts 409
func respondServiceError(c *gin.Context, err error) {
	var fieldErr *terms.FieldError

	switch {
	case stderrors.As(err, &fieldErr):
		errors.ValidationError(c, err)
	case stderrors.Is(err, collabs.ErrNotFound):
		errors.NotFound(c, "collaboration")
	case stderrors.Is(err, collabs.ErrDeliverableNotFound):
		errors.NotFound(c, "deliverable")
	case stderrors.Is(err, collabs.ErrNotParticipant):
		errors.Forbidden(c, "not a party to this collaboration")
	case stderrors.Is(err, collabs.ErrNotAllowed):
		errors.Forbidden(c, "operation not allowed for this party")
	case stderrors.Is(err, collabs.ErrStaleTermsVersion):
		errors.Conflict(c, errors.CodeStaleTermsVersion, "terms changed since you last fetched; refetch and retry")
	case stderrors.Is(err, collabs.ErrTerminalState):
		errors.Conflict(c, errors.CodeCollaborationClosed, "collaboration is closed")
	case stderrors.Is(err, collabs.ErrInvalidTransition):
		errors.Conflict(c, errors.CodeInvalidTransition, "operation not valid in current status")
	default:
		errors.InternalError(c, "operation failed", err)
	}
}

// creates a collaboration proposal in pending
func ProposeHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req ProposeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		collaboration, err := svc.Propose(c.Request.Context(), userID, &negotiation.ProposeRequest{
			HotelID:   req.HotelID,
			CreatorID: req.CreatorID,
			ListingID: req.ListingID,
			Terms:     req.Terms,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, CollaborationResponse{Collaboration: collaboration})
	}
}

// lists the caller's collaborations, newest first
func ListHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		collaborations, err := svc.ListCollaborations(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{Collaborations: collaborations})
	}
}

// fetches one collaboration; parties only
func GetHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		collaboration, err := svc.GetCollaboration(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, CollaborationResponse{Collaboration: collaboration})
	}
}

// the non-initiating party accepts or declines the original proposal
func RespondHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req RespondRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		collaboration, err := svc.Respond(c.Request.Context(), userID, c.Param("id"), req.Accept, req.ExpectedTermsVersion)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, CollaborationResponse{Collaboration: collaboration})
	}
}

// either party submits replacement terms and the version bumps
func SuggestChangesHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req SuggestChangesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		collaboration, err := svc.SuggestChanges(c.Request.Context(), userID, c.Param("id"), req.Terms, req.ExpectedTermsVersion)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, CollaborationResponse{Collaboration: collaboration})
	}
}

// records the caller's approval of the current terms version
func ApproveHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		// body is optional; an empty POST approves unconditionally
		var req ApproveRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				errors.ValidationError(c, err)
				return
			}
		}

		collaboration, err := svc.Approve(c.Request.Context(), userID, c.Param("id"), req.ExpectedTermsVersion)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, CollaborationResponse{Collaboration: collaboration})
	}
}

// flips one deliverable's completion flag
func ToggleDeliverableHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		collaboration, err := svc.ToggleDeliverable(c.Request.Context(), userID, c.Param("id"), c.Param("deliverable_id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, CollaborationResponse{Collaboration: collaboration})
	}
}

// either party cancels from any non-terminal status
func CancelHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req CancelRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				errors.ValidationError(c, err)
				return
			}
		}

		collaboration, err := svc.Cancel(c.Request.Context(), userID, c.Param("id"), req.Reason)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, CollaborationResponse{Collaboration: collaboration})
	}
}

// the hotel confirms the stay happened and closes the collaboration
func CompleteHandler(svc *negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		collaboration, err := svc.Complete(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, CollaborationResponse{Collaboration: collaboration})
	}
}
