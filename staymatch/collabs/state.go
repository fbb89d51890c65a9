package collabs

import (
	"time"

	"github.com/google/uuid"

	"codeberg.org/staymatch/server/staymatch/terms"
)

// State machine over the Collaboration aggregate. All methods mutate the
// in-memory aggregate only; persistence happens when the negotiation
// service writes the resulting snapshot inside its transaction.

// returns which side of the collaboration the user is on
func (c *Collaboration) PartyOf(userID string) (Party, bool) {
	switch userID {
	case c.HotelID:
		return PartyHotel, true
	case c.CreatorID:
		return PartyCreator, true
	}

	return "", false
}

// returns the user id on the given side
func (c *Collaboration) UserID(p Party) string {
	if p == PartyHotel {
		return c.HotelID
	}

	return c.CreatorID
}

// returns the raw approval slot for a party
func (c *Collaboration) ApprovalFor(p Party) *Approval {
	if p == PartyHotel {
		return c.HotelApproval
	}

	return c.CreatorApproval
}

// returns the party's approval only if it references the current terms
// version; stale approvals are treated as absent
func (c *Collaboration) CurrentApproval(p Party) *Approval {
	approval := c.ApprovalFor(p)

	if approval == nil || approval.TermsVersion != c.TermsVersion {
		return nil
	}

	return approval
}

// reports whether both parties hold non-stale approvals of the current terms
func (c *Collaboration) BothApproved() bool {
	return c.CurrentApproval(PartyHotel) != nil && c.CurrentApproval(PartyCreator) != nil
}

func (c *Collaboration) setApproval(p Party, a *Approval) {
	if p == PartyHotel {
		c.HotelApproval = a
	} else {
		c.CreatorApproval = a
	}
}

// SuggestChanges replaces the terms wholesale with a new value, bumps the
// terms version and clears both approvals. Valid from pending or
// negotiating; the status is forced to negotiating either way.
func (c *Collaboration) SuggestChanges(t terms.Terms, now time.Time) error {
	if c.Status.Terminal() {
		return ErrTerminalState
	}

	if c.Status != StatusPending && c.Status != StatusNegotiating {
		return ErrInvalidTransition
	}

	c.Terms = t
	c.TermsVersion++
	// staleness would void the approvals anyway; clear them explicitly
	c.HotelApproval = nil
	c.CreatorApproval = nil
	c.Status = StatusNegotiating

	return nil
}

// Approve records the party's approval of the current terms version. When
// the counterpart already holds a non-stale approval the collaboration
// flips to accepted and the deliverable checklist is materialized from the
// agreed terms. Re-approving the same version is a no-op (changed=false).
func (c *Collaboration) Approve(p Party, now time.Time) (accepted, changed bool, err error) {
	if c.Status.Terminal() {
		return false, false, ErrTerminalState
	}

	if c.CurrentApproval(p) != nil {
		return c.Status == StatusAccepted, false, nil
	}

	if c.Status == StatusAccepted {
		// both approvals are current whenever status is accepted, so the
		// caller's approval cannot be missing here
		return true, false, nil
	}

	c.setApproval(p, &Approval{TermsVersion: c.TermsVersion, ApprovedAt: now})

	if c.BothApproved() {
		c.Status = StatusAccepted
		c.Deliverables = MaterializeDeliverables(c.Terms)
		return true, true, nil
	}

	return false, true, nil
}

// RespondAccept accepts the proposal as-is: both approvals are recorded
// against the current version in one step and deliverables materialize.
// Only valid while the collaboration is still pending.
func (c *Collaboration) RespondAccept(now time.Time) error {
	if c.Status.Terminal() {
		return ErrTerminalState
	}

	if c.Status != StatusPending {
		return ErrInvalidTransition
	}

	approval := Approval{TermsVersion: c.TermsVersion, ApprovedAt: now}
	c.HotelApproval = &approval
	creatorApproval := approval
	c.CreatorApproval = &creatorApproval
	c.Status = StatusAccepted
	c.Deliverables = MaterializeDeliverables(c.Terms)
	c.RespondedAt = &now

	return nil
}

// RespondDecline declines the proposal; terminal.
func (c *Collaboration) RespondDecline(now time.Time) error {
	if c.Status.Terminal() {
		return ErrTerminalState
	}

	if c.Status != StatusPending {
		return ErrInvalidTransition
	}

	c.Status = StatusDeclined
	c.RespondedAt = &now

	return nil
}

// ToggleDeliverable flips one deliverable's completion flag. Only valid
// while accepted; never changes the collaboration status.
func (c *Collaboration) ToggleDeliverable(deliverableID string) (*Deliverable, error) {
	if c.Status != StatusAccepted {
		if c.Status.Terminal() {
			return nil, ErrTerminalState
		}
		return nil, ErrInvalidTransition
	}

	for i := range c.Deliverables {
		if c.Deliverables[i].ID == deliverableID {
			c.Deliverables[i].Completed = !c.Deliverables[i].Completed
			return &c.Deliverables[i], nil
		}
	}

	return nil, ErrDeliverableNotFound
}

// Cancel ends the collaboration from any non-terminal status.
func (c *Collaboration) Cancel(now time.Time) error {
	if c.Status.Terminal() {
		return ErrTerminalState
	}

	c.Status = StatusCancelled
	c.CancelledAt = &now

	return nil
}

// Complete marks a fulfilled collaboration done; accepted only.
func (c *Collaboration) Complete(now time.Time) error {
	if c.Status.Terminal() {
		return ErrTerminalState
	}

	if c.Status != StatusAccepted {
		return ErrInvalidTransition
	}

	c.Status = StatusCompleted
	c.CompletedAt = &now

	return nil
}

// MaterializeDeliverables flattens the terms' platform groups into the
// trackable checklist. Called exactly once, at the transition into accepted.
func MaterializeDeliverables(t terms.Terms) []Deliverable {
	var deliverables []Deliverable

	for _, group := range t.PlatformDeliverables {
		for _, spec := range group.Deliverables {
			deliverables = append(deliverables, Deliverable{
				ID:       uuid.NewString(),
				Platform: group.Platform,
				Type:     spec.Type,
				Quantity: spec.Quantity,
			})
		}
	}

	return deliverables
}
