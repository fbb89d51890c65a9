// Package negotiation exposes the operations the marketplace UI drives:
// propose, respond, suggest changes, approve, toggle deliverables, cancel,
// complete, plus the conversation surface attached to each collaboration.
// Every state-mutating operation runs in one atomic store scope so the
// transition and its narration message commit together.
package negotiation

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/messages"
	"codeberg.org/staymatch/server/staymatch/store"
	"codeberg.org/staymatch/server/staymatch/terms"
)

// maximum runes of message content shown in conversation summaries
const previewLimit = 120

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// ProposeRequest carries the initiator's offer and the fixed references of
// the new collaboration
type ProposeRequest struct {
	HotelID   string
	CreatorID string
	ListingID string
	Terms     terms.Terms
}

// ConversationSummary is derived per viewer at read time; it is never
// stored, so it cannot drift from the message log.
type ConversationSummary struct {
	CollaborationID string            `json:"collaboration_id"`
	PartnerID       string            `json:"partner_id"`
	Status          collabs.Status    `json:"status"`
	LastMessage     *messages.Message `json:"last_message,omitempty"`
	Preview         string            `json:"preview"`
	UnreadCount     int               `json:"unread_count"`
}

// MessagePage is one descending page of a conversation. HasMore is the
// page-size heuristic: a full page may be followed by one empty fetch.
type MessagePage struct {
	Messages []*messages.Message `json:"messages"`
	HasMore  bool                `json:"has_more"`
}

// creates a collaboration in pending with terms version 1. The caller must
// be one of the two parties and becomes the initiator.
func (s *Service) Propose(ctx context.Context, callerID string, req *ProposeRequest) (*collabs.Collaboration, error) {
	if req.HotelID == "" {
		return nil, &terms.FieldError{Field: "hotel_id", Reason: "required"}
	}
	if req.CreatorID == "" {
		return nil, &terms.FieldError{Field: "creator_id", Reason: "required"}
	}
	if req.ListingID == "" {
		return nil, &terms.FieldError{Field: "listing_id", Reason: "required"}
	}
	if req.HotelID == req.CreatorID {
		return nil, &terms.FieldError{Field: "creator_id", Reason: "hotel and creator must differ"}
	}

	if err := req.Terms.Validate(); err != nil {
		return nil, err
	}

	var initiator collabs.Party
	switch callerID {
	case req.HotelID:
		initiator = collabs.PartyHotel
	case req.CreatorID:
		initiator = collabs.PartyCreator
	default:
		return nil, collabs.ErrNotParticipant
	}

	collaboration := &collabs.Collaboration{
		HotelID:        req.HotelID,
		CreatorID:      req.CreatorID,
		ListingID:      req.ListingID,
		InitiatorParty: initiator,
		Status:         collabs.StatusPending,
		Terms:          req.Terms,
		TermsVersion:   1,
	}

	var created *collabs.Collaboration

	err := s.store.Within(ctx, func(cr collabs.Repository, _ messages.Repository) error {
		var err error
		created, err = cr.Create(ctx, collaboration)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create collaboration: %w", err)
	}

	return created, nil
}

// the non-initiating party accepts or declines the original terms as-is
func (s *Service) Respond(ctx context.Context, callerID, collaborationID string, accept bool, expectedVersion *int) (*collabs.Collaboration, error) {
	var result *collabs.Collaboration

	err := s.store.Within(ctx, func(cr collabs.Repository, mr messages.Repository) error {
		c, err := cr.GetForUpdate(ctx, collaborationID)
		if err != nil {
			return err
		}

		party, ok := c.PartyOf(callerID)
		if !ok {
			return collabs.ErrNotParticipant
		}

		if party == c.InitiatorParty {
			return collabs.ErrInvalidTransition
		}

		if err := checkVersion(c, expectedVersion); err != nil {
			return err
		}

		now := s.now()
		var narration string

		if accept {
			if err := c.RespondAccept(now); err != nil {
				return err
			}
			narration = agreementReachedText(c.Terms, c.TermsVersion)
		} else {
			if err := c.RespondDecline(now); err != nil {
				return err
			}
			narration = declinedText(party)
		}

		if err := cr.Update(ctx, c); err != nil {
			return err
		}

		if accept {
			if err := cr.InsertDeliverables(ctx, c.ID, c.Deliverables); err != nil {
				return err
			}
		}

		if _, err := mr.Append(ctx, s.systemMessage(c.ID, narration)); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// either party submits replacement terms; the version bumps and both
// approvals clear. A repeated suggestion from the same party silently
// replaces the pending one.
func (s *Service) SuggestChanges(ctx context.Context, callerID, collaborationID string, newTerms terms.Terms, expectedVersion *int) (*collabs.Collaboration, error) {
	if err := newTerms.Validate(); err != nil {
		return nil, err
	}

	var result *collabs.Collaboration

	err := s.store.Within(ctx, func(cr collabs.Repository, mr messages.Repository) error {
		c, err := cr.GetForUpdate(ctx, collaborationID)
		if err != nil {
			return err
		}

		if _, ok := c.PartyOf(callerID); !ok {
			return collabs.ErrNotParticipant
		}

		if err := checkVersion(c, expectedVersion); err != nil {
			return err
		}

		previous := c.Terms

		if err := c.SuggestChanges(newTerms, s.now()); err != nil {
			return err
		}

		if err := cr.Update(ctx, c); err != nil {
			return err
		}

		if _, err := mr.Append(ctx, s.systemMessage(c.ID, suggestedChangesText(previous, newTerms))); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// records the caller's approval of the current terms version; flips to
// accepted when the counterpart's approval is already current. Re-approving
// the same version is a no-op with no narration.
func (s *Service) Approve(ctx context.Context, callerID, collaborationID string, expectedVersion *int) (*collabs.Collaboration, error) {
	var result *collabs.Collaboration

	err := s.store.Within(ctx, func(cr collabs.Repository, mr messages.Repository) error {
		c, err := cr.GetForUpdate(ctx, collaborationID)
		if err != nil {
			return err
		}

		party, ok := c.PartyOf(callerID)
		if !ok {
			return collabs.ErrNotParticipant
		}

		if err := checkVersion(c, expectedVersion); err != nil {
			return err
		}

		accepted, changed, err := c.Approve(party, s.now())
		if err != nil {
			return err
		}

		if !changed {
			result = c
			return nil
		}

		if err := cr.Update(ctx, c); err != nil {
			return err
		}

		narration := waitingText(party.Counterpart(), c.TermsVersion)

		if accepted {
			if err := cr.InsertDeliverables(ctx, c.ID, c.Deliverables); err != nil {
				return err
			}
			narration = agreementReachedText(c.Terms, c.TermsVersion)
		}

		if _, err := mr.Append(ctx, s.systemMessage(c.ID, narration)); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// flips one deliverable's completion flag; either party may toggle. The
// collaboration status never changes here; completion is an explicit,
// hotel-driven action.
func (s *Service) ToggleDeliverable(ctx context.Context, callerID, collaborationID, deliverableID string) (*collabs.Collaboration, error) {
	var result *collabs.Collaboration

	err := s.store.Within(ctx, func(cr collabs.Repository, mr messages.Repository) error {
		c, err := cr.GetForUpdate(ctx, collaborationID)
		if err != nil {
			return err
		}

		if _, ok := c.PartyOf(callerID); !ok {
			return collabs.ErrNotParticipant
		}

		toggled, err := c.ToggleDeliverable(deliverableID)
		if err != nil {
			return err
		}

		if err := cr.SetDeliverableCompleted(ctx, c.ID, toggled.ID, toggled.Completed); err != nil {
			return err
		}

		if _, err := mr.Append(ctx, s.systemMessage(c.ID, deliverableText(*toggled))); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// either party ends the collaboration from any non-terminal status
func (s *Service) Cancel(ctx context.Context, callerID, collaborationID, reason string) (*collabs.Collaboration, error) {
	var result *collabs.Collaboration

	err := s.store.Within(ctx, func(cr collabs.Repository, mr messages.Repository) error {
		c, err := cr.GetForUpdate(ctx, collaborationID)
		if err != nil {
			return err
		}

		party, ok := c.PartyOf(callerID)
		if !ok {
			return collabs.ErrNotParticipant
		}

		if err := c.Cancel(s.now()); err != nil {
			return err
		}

		if err := cr.Update(ctx, c); err != nil {
			return err
		}

		if _, err := mr.Append(ctx, s.systemMessage(c.ID, cancelledText(party, reason))); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// the hotel marks a fulfilled collaboration done, enabling post-hoc rating
func (s *Service) Complete(ctx context.Context, callerID, collaborationID string) (*collabs.Collaboration, error) {
	var result *collabs.Collaboration

	err := s.store.Within(ctx, func(cr collabs.Repository, mr messages.Repository) error {
		c, err := cr.GetForUpdate(ctx, collaborationID)
		if err != nil {
			return err
		}

		party, ok := c.PartyOf(callerID)
		if !ok {
			return collabs.ErrNotParticipant
		}

		if party != collabs.PartyHotel {
			return collabs.ErrNotAllowed
		}

		if err := c.Complete(s.now()); err != nil {
			return err
		}

		if err := cr.Update(ctx, c); err != nil {
			return err
		}

		if _, err := mr.Append(ctx, s.systemMessage(c.ID, completedText(party))); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// appends a user message and returns the authoritative copy with the
// server-assigned id and timestamp, so optimistic UI copies can reconcile.
// Terminal collaborations still accept messages; the conversation is a
// historical record.
func (s *Service) SendMessage(ctx context.Context, callerID, collaborationID, content, contentType string, metadata map[string]any) (*messages.Message, error) {
	if contentType != messages.ContentTypeText && contentType != messages.ContentTypeImage {
		return nil, &terms.FieldError{Field: "content_type", Reason: "must be text or image"}
	}

	if content == "" {
		return nil, &terms.FieldError{Field: "content", Reason: "required"}
	}

	if _, err := s.authorize(ctx, callerID, collaborationID); err != nil {
		return nil, err
	}

	return s.store.Messages().Append(ctx, &messages.Message{
		CollaborationID: collaborationID,
		SenderID:        &callerID,
		Content:         content,
		ContentType:     contentType,
		Metadata:        metadata,
		CreatedAt:       s.now(),
	})
}

// returns one descending page of at most messages.PageSize messages
// strictly older than the cursor
func (s *Service) FetchMessages(ctx context.Context, callerID, collaborationID string, before *time.Time) (*MessagePage, error) {
	if _, err := s.authorize(ctx, callerID, collaborationID); err != nil {
		return nil, err
	}

	page, err := s.store.Messages().Page(ctx, collaborationID, before, messages.PageSize)
	if err != nil {
		return nil, err
	}

	return &MessagePage{
		Messages: page,
		HasMore:  len(page) == messages.PageSize,
	}, nil
}

// advances the caller's read marker to now; idempotent
func (s *Service) MarkRead(ctx context.Context, callerID, collaborationID string) error {
	if _, err := s.authorize(ctx, callerID, collaborationID); err != nil {
		return err
	}

	return s.store.Messages().MarkRead(ctx, collaborationID, callerID, s.now())
}

// fetches the aggregate with party authorization
func (s *Service) GetCollaboration(ctx context.Context, callerID, collaborationID string) (*collabs.Collaboration, error) {
	return s.authorize(ctx, callerID, collaborationID)
}

// lists all collaborations the caller is party to, newest first
func (s *Service) ListCollaborations(ctx context.Context, callerID string) ([]*collabs.Collaboration, error) {
	return s.store.Collabs().ListForUser(ctx, callerID)
}

// computes conversation summaries for every collaboration the viewer is
// party to. Derived at read time from the collaboration, the message log
// and the viewer's read marker; one aggregation pass per request.
func (s *Service) ListConversations(ctx context.Context, callerID string) ([]*ConversationSummary, error) {
	collaborations, err := s.store.Collabs().ListForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*ConversationSummary, 0, len(collaborations))

	for _, c := range collaborations {
		party, ok := c.PartyOf(callerID)
		if !ok {
			continue
		}

		latest, err := s.store.Messages().Latest(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		lastReadAt, err := s.store.Messages().LastReadAt(ctx, c.ID, callerID)
		if err != nil {
			return nil, err
		}

		unread, err := s.store.Messages().UnreadCount(ctx, c.ID, callerID, lastReadAt)
		if err != nil {
			return nil, err
		}

		summary := &ConversationSummary{
			CollaborationID: c.ID,
			PartnerID:       c.UserID(party.Counterpart()),
			Status:          c.Status,
			LastMessage:     latest,
			UnreadCount:     unread,
		}

		if latest != nil {
			summary.Preview = preview(latest.Content)
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *Service) authorize(ctx context.Context, callerID, collaborationID string) (*collabs.Collaboration, error) {
	c, err := s.store.Collabs().Get(ctx, collaborationID)
	if err != nil {
		return nil, err
	}

	if _, ok := c.PartyOf(callerID); !ok {
		return nil, collabs.ErrNotParticipant
	}

	return c, nil
}

func checkVersion(c *collabs.Collaboration, expected *int) error {
	if expected != nil && *expected != c.TermsVersion {
		return collabs.ErrStaleTermsVersion
	}

	return nil
}

func (s *Service) systemMessage(collaborationID, content string) *messages.Message {
	return &messages.Message{
		CollaborationID: collaborationID,
		SenderID:        nil,
		Content:         content,
		ContentType:     messages.ContentTypeSystem,
		CreatedAt:       s.now(),
	}
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLimit {
		return content
	}

	runes := []rune(content)
	return string(runes[:previewLimit])
}
