package negotiation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/messages"
	"codeberg.org/staymatch/server/staymatch/store"
	"codeberg.org/staymatch/server/staymatch/terms"
)

const (
	hotelID   = "hotel-1"
	creatorID = "creator-1"
	listingID = "listing-1"
)

func newTestService() *Service {
	svc := NewService(store.NewMemory())

	base := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	return svc
}

func freeStayTerms() terms.Terms {
	from := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)

	return terms.Terms{
		Type:           terms.TypeFreeStay,
		FreeStay:       &terms.FreeStay{MinNights: 3, MaxNights: 5},
		TravelDateFrom: &from,
		TravelDateTo:   &to,
		PlatformDeliverables: []terms.PlatformDeliverables{
			{Platform: "Instagram", Deliverables: []terms.DeliverableSpec{{Type: "Stories", Quantity: 2}}},
		},
	}
}

func paidTerms(cents int64) terms.Terms {
	t := freeStayTerms()
	t.Type = terms.TypePaid
	t.FreeStay = nil
	t.Paid = &terms.Paid{AmountCents: cents}
	return t
}

func propose(t *testing.T, svc *Service) *collabs.Collaboration {
	t.Helper()

	c, err := svc.Propose(context.Background(), hotelID, &ProposeRequest{
		HotelID:   hotelID,
		CreatorID: creatorID,
		ListingID: listingID,
		Terms:     freeStayTerms(),
	})
	require.NoError(t, err)

	return c
}

func latestSystemMessage(t *testing.T, svc *Service, collaborationID string) *messages.Message {
	t.Helper()

	latest, err := svc.store.Messages().Latest(context.Background(), collaborationID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, messages.ContentTypeSystem, latest.ContentType)
	require.Nil(t, latest.SenderID)

	return latest
}

func TestPropose(t *testing.T) {
	svc := newTestService()

	c := propose(t, svc)

	assert.Equal(t, collabs.StatusPending, c.Status)
	assert.Equal(t, 1, c.TermsVersion)
	assert.Equal(t, collabs.PartyHotel, c.InitiatorParty)
	assert.Nil(t, c.HotelApproval)
	assert.Nil(t, c.CreatorApproval)
	assert.Empty(t, c.Deliverables)
	assert.NotEmpty(t, c.ID)
}

func TestPropose_InvalidTerms(t *testing.T) {
	svc := newTestService()
	bad := freeStayTerms()
	bad.FreeStay.MinNights = 0

	_, err := svc.Propose(context.Background(), hotelID, &ProposeRequest{
		HotelID:   hotelID,
		CreatorID: creatorID,
		ListingID: listingID,
		Terms:     bad,
	})

	var fieldErr *terms.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "free_stay.min_nights", fieldErr.Field)
}

func TestPropose_StrangerRejected(t *testing.T) {
	svc := newTestService()

	_, err := svc.Propose(context.Background(), "stranger", &ProposeRequest{
		HotelID:   hotelID,
		CreatorID: creatorID,
		ListingID: listingID,
		Terms:     freeStayTerms(),
	})

	assert.ErrorIs(t, err, collabs.ErrNotParticipant)
}

// hotel proposes a free stay, creator accepts outright: both approvals land
// on version 1 atomically and the checklist materializes
func TestRespondAccept(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	accepted, err := svc.Respond(context.Background(), creatorID, c.ID, true, nil)

	require.NoError(t, err)
	assert.Equal(t, collabs.StatusAccepted, accepted.Status)
	assert.True(t, accepted.BothApproved())
	require.Len(t, accepted.Deliverables, 1)
	assert.Equal(t, "Instagram", accepted.Deliverables[0].Platform)
	assert.Equal(t, "Stories", accepted.Deliverables[0].Type)
	assert.Equal(t, 2, accepted.Deliverables[0].Quantity)
	assert.False(t, accepted.Deliverables[0].Completed)
	assert.NotNil(t, accepted.RespondedAt)

	msg := latestSystemMessage(t, svc, c.ID)
	assert.Contains(t, msg.Content, "Agreement reached")
}

func TestRespondDecline(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	declined, err := svc.Respond(context.Background(), creatorID, c.ID, false, nil)

	require.NoError(t, err)
	assert.Equal(t, collabs.StatusDeclined, declined.Status)

	msg := latestSystemMessage(t, svc, c.ID)
	assert.Equal(t, "Offer declined: by creator", msg.Content)

	// a decline is terminal; the offer cannot be re-approved
	_, err = svc.Approve(context.Background(), creatorID, c.ID, nil)
	assert.ErrorIs(t, err, collabs.ErrTerminalState)
}

func TestRespond_InitiatorRejected(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	_, err := svc.Respond(context.Background(), hotelID, c.ID, true, nil)

	assert.ErrorIs(t, err, collabs.ErrInvalidTransition)
}

// creator counters a pending free-stay offer with a paid one
func TestSuggestChanges(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	updated, err := svc.SuggestChanges(context.Background(), creatorID, c.ID, paidTerms(50000), nil)

	require.NoError(t, err)
	assert.Equal(t, 2, updated.TermsVersion)
	assert.Equal(t, collabs.StatusNegotiating, updated.Status)
	assert.Nil(t, updated.HotelApproval)
	assert.Nil(t, updated.CreatorApproval)

	msg := latestSystemMessage(t, svc, c.ID)
	assert.Equal(t, "Suggested changes: Paid • $500", msg.Content)
}

func TestSuggestChanges_StaleVersionRejected(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	_, err := svc.SuggestChanges(context.Background(), creatorID, c.ID, paidTerms(50000), nil)
	require.NoError(t, err)

	// the hotel still assumes version 1
	stale := 1
	_, err = svc.SuggestChanges(context.Background(), hotelID, c.ID, paidTerms(40000), &stale)

	assert.ErrorIs(t, err, collabs.ErrStaleTermsVersion)
}

// one-sided approval keeps the negotiation open and narrates the wait
func TestApprove_Waiting(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	_, err := svc.SuggestChanges(context.Background(), creatorID, c.ID, paidTerms(50000), nil)
	require.NoError(t, err)

	afterHotel, err := svc.Approve(context.Background(), hotelID, c.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, collabs.StatusNegotiating, afterHotel.Status)
	assert.NotNil(t, afterHotel.CurrentApproval(collabs.PartyHotel))
	assert.Nil(t, afterHotel.CurrentApproval(collabs.PartyCreator))

	msg := latestSystemMessage(t, svc, c.ID)
	assert.Equal(t, "Waiting for creator: terms version 2", msg.Content)
}

// the counterpart's approval completes the agreement and materializes
// deliverables from the agreed version
func TestApprove_Acceptance(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	_, err := svc.SuggestChanges(ctx, creatorID, c.ID, paidTerms(50000), nil)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, hotelID, c.ID, nil)
	require.NoError(t, err)

	accepted, err := svc.Approve(ctx, creatorID, c.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, collabs.StatusAccepted, accepted.Status)
	assert.Equal(t, 2, accepted.HotelApproval.TermsVersion)
	assert.Equal(t, 2, accepted.CreatorApproval.TermsVersion)
	require.Len(t, accepted.Deliverables, 1)

	msg := latestSystemMessage(t, svc, c.ID)
	assert.Equal(t, "Agreement reached: Paid • $500 • terms version 2", msg.Content)
}

func TestApprove_SecondCallLeavesStateUnchanged(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	first, err := svc.Approve(ctx, hotelID, c.ID, nil)
	require.NoError(t, err)

	firstMsg := latestSystemMessage(t, svc, c.ID)

	second, err := svc.Approve(ctx, hotelID, c.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.HotelApproval, *second.HotelApproval)

	// no new narration on the no-op
	secondMsg := latestSystemMessage(t, svc, c.ID)
	assert.Equal(t, firstMsg.ID, secondMsg.ID)
}

func TestToggleDeliverable(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	accepted, err := svc.Respond(ctx, creatorID, c.ID, true, nil)
	require.NoError(t, err)
	deliverableID := accepted.Deliverables[0].ID

	toggled, err := svc.ToggleDeliverable(ctx, creatorID, c.ID, deliverableID)

	require.NoError(t, err)
	assert.True(t, toggled.Deliverables[0].Completed)
	assert.Equal(t, collabs.StatusAccepted, toggled.Status, "completion never changes status by itself")

	msg := latestSystemMessage(t, svc, c.ID)
	assert.Equal(t, "Deliverable completed: Instagram Stories", msg.Content)

	reopened, err := svc.ToggleDeliverable(ctx, hotelID, c.ID, deliverableID)
	require.NoError(t, err)
	assert.False(t, reopened.Deliverables[0].Completed)

	msg = latestSystemMessage(t, svc, c.ID)
	assert.Equal(t, "Deliverable reopened: Instagram Stories", msg.Content)
}

func TestToggleDeliverable_ShapeIsImmutable(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	accepted, err := svc.Respond(ctx, creatorID, c.ID, true, nil)
	require.NoError(t, err)
	before := accepted.Deliverables[0]

	toggled, err := svc.ToggleDeliverable(ctx, creatorID, c.ID, before.ID)
	require.NoError(t, err)

	after := toggled.Deliverables[0]
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Platform, after.Platform)
	assert.Equal(t, before.Type, after.Type)
	assert.Equal(t, before.Quantity, after.Quantity)
}

func TestToggleDeliverable_UnknownID(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	_, err := svc.Respond(ctx, creatorID, c.ID, true, nil)
	require.NoError(t, err)

	_, err = svc.ToggleDeliverable(ctx, creatorID, c.ID, "missing")

	assert.ErrorIs(t, err, collabs.ErrDeliverableNotFound)
}

func TestCancel(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	cancelled, err := svc.Cancel(context.Background(), hotelID, c.ID, "listing sold")

	require.NoError(t, err)
	assert.Equal(t, collabs.StatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	msg := latestSystemMessage(t, svc, c.ID)
	assert.Equal(t, "Collaboration cancelled: by hotel • listing sold", msg.Content)
}

func TestComplete(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	_, err := svc.Respond(ctx, creatorID, c.ID, true, nil)
	require.NoError(t, err)

	// creators cannot complete; the confirmation is the hotel's
	_, err = svc.Complete(ctx, creatorID, c.ID)
	assert.ErrorIs(t, err, collabs.ErrNotAllowed)

	completed, err := svc.Complete(ctx, hotelID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, collabs.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
}

func TestTerminalCollaborationRejectsEverything(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, hotelID, c.ID, "")
	require.NoError(t, err)

	_, err = svc.SuggestChanges(ctx, creatorID, c.ID, paidTerms(50000), nil)
	assert.ErrorIs(t, err, collabs.ErrTerminalState)

	_, err = svc.Approve(ctx, creatorID, c.ID, nil)
	assert.ErrorIs(t, err, collabs.ErrTerminalState)

	_, err = svc.Respond(ctx, creatorID, c.ID, true, nil)
	assert.ErrorIs(t, err, collabs.ErrTerminalState)

	_, err = svc.Cancel(ctx, creatorID, c.ID, "")
	assert.ErrorIs(t, err, collabs.ErrTerminalState)
}

func TestSendMessage(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	msg, err := svc.SendMessage(context.Background(), hotelID, c.ID, "looking forward to hosting you", messages.ContentTypeText, nil)

	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID, "caller reconciles its optimistic copy against the server-assigned id")
	assert.False(t, msg.CreatedAt.IsZero())
	require.NotNil(t, msg.SenderID)
	assert.Equal(t, hotelID, *msg.SenderID)
}

func TestSendMessage_RejectsSystemContentType(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	_, err := svc.SendMessage(context.Background(), hotelID, c.ID, "fake", messages.ContentTypeSystem, nil)

	var fieldErr *terms.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "content_type", fieldErr.Field)
}

func TestSendMessage_StrangerRejected(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)

	_, err := svc.SendMessage(context.Background(), "stranger", c.ID, "hi", messages.ContentTypeText, nil)

	assert.ErrorIs(t, err, collabs.ErrNotParticipant)
}

func TestFetchMessages_Exhaustion(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		_, err := svc.SendMessage(ctx, hotelID, c.ID, "m", messages.ContentTypeText, nil)
		require.NoError(t, err)
	}

	first, err := svc.FetchMessages(ctx, creatorID, c.ID, nil)
	require.NoError(t, err)
	assert.Len(t, first.Messages, 50)
	assert.True(t, first.HasMore)

	cursor := first.Messages[len(first.Messages)-1].CreatedAt
	second, err := svc.FetchMessages(ctx, creatorID, c.ID, &cursor)
	require.NoError(t, err)
	assert.Len(t, second.Messages, 50)
	assert.True(t, second.HasMore)

	cursor = second.Messages[len(second.Messages)-1].CreatedAt
	third, err := svc.FetchMessages(ctx, creatorID, c.ID, &cursor)
	require.NoError(t, err)
	assert.Len(t, third.Messages, 20)
	assert.False(t, third.HasMore)
}

func TestMarkRead_Idempotent(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, hotelID, c.ID, "hello", messages.ContentTypeText, nil)
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, creatorID, c.ID))

	summaries, err := svc.ListConversations(ctx, creatorID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].UnreadCount)

	require.NoError(t, svc.MarkRead(ctx, creatorID, c.ID))

	summaries, err = svc.ListConversations(ctx, creatorID)
	require.NoError(t, err)
	assert.Equal(t, 0, summaries[0].UnreadCount)
}

func TestListConversations(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, hotelID, c.ID, "welcome aboard", messages.ContentTypeText, nil)
	require.NoError(t, err)

	summaries, err := svc.ListConversations(ctx, creatorID)

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, c.ID, summaries[0].CollaborationID)
	assert.Equal(t, hotelID, summaries[0].PartnerID)
	assert.Equal(t, collabs.StatusPending, summaries[0].Status)
	assert.Equal(t, "welcome aboard", summaries[0].Preview)
	assert.Equal(t, 1, summaries[0].UnreadCount)

	// the sender's own view counts nothing unread
	hotelSummaries, err := svc.ListConversations(ctx, hotelID)
	require.NoError(t, err)
	require.Len(t, hotelSummaries, 1)
	assert.Equal(t, creatorID, hotelSummaries[0].PartnerID)
	assert.Equal(t, 0, hotelSummaries[0].UnreadCount)
}

func TestGetCollaboration_AuthorizesParties(t *testing.T) {
	svc := newTestService()
	c := propose(t, svc)
	ctx := context.Background()

	fetched, err := svc.GetCollaboration(ctx, hotelID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, fetched.ID)

	_, err = svc.GetCollaboration(ctx, "stranger", c.ID)
	assert.ErrorIs(t, err, collabs.ErrNotParticipant)

	_, err = svc.GetCollaboration(ctx, hotelID, "missing")
	assert.ErrorIs(t, err, collabs.ErrNotFound)
}
