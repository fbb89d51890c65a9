package collabs

import (
	"context"
	"time"

	"codeberg.org/staymatch/server/staymatch/terms"
)

// collaboration lifecycle statuses (must match DB check constraint)
const (
	StatusPending     Status = "pending"
	StatusNegotiating Status = "negotiating"
	StatusAccepted    Status = "accepted"
	StatusDeclined    Status = "declined"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

type Status string

// reports whether the status admits no further transitions
func (s Status) Terminal() bool {
	return s == StatusDeclined || s == StatusCompleted || s == StatusCancelled
}

// the two sides of a collaboration
const (
	PartyHotel   Party = "hotel"
	PartyCreator Party = "creator"
)

type Party string

// returns the other side
func (p Party) Counterpart() Party {
	if p == PartyHotel {
		return PartyCreator
	}

	return PartyHotel
}

// Approval records one party's sign-off against a specific terms version.
// An approval whose TermsVersion trails the collaboration's current version
// is stale and treated as absent.
type Approval struct {
	TermsVersion int       `json:"terms_version"`
	ApprovedAt   time.Time `json:"approved_at"`
}

// Deliverable is one unit of promised creator output, tracked to binary
// completion. Shape (platform/type/quantity) is immutable after
// materialization; only Completed changes.
type Deliverable struct {
	ID        string `json:"id"`
	Platform  string `json:"platform"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Completed bool   `json:"completed"`
}

// returns the display name used in narration, e.g. "Instagram Stories"
func (d Deliverable) Name() string {
	return d.Platform + " " + d.Type
}

// Collaboration is the central aggregate: a two-party agreement between a
// hotel and a creator over a listing, carrying versioned terms, dual
// approvals and a deliverable checklist.
type Collaboration struct {
	ID              string        `json:"id"`
	HotelID         string        `json:"hotel_id"`
	CreatorID       string        `json:"creator_id"`
	ListingID       string        `json:"listing_id"`
	InitiatorParty  Party         `json:"initiator_party"`
	Status          Status        `json:"status"`
	Terms           terms.Terms   `json:"terms"`
	TermsVersion    int           `json:"terms_version"`
	HotelApproval   *Approval     `json:"hotel_approval,omitempty"`
	CreatorApproval *Approval     `json:"creator_approval,omitempty"`
	Deliverables    []Deliverable `json:"deliverables,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	RespondedAt     *time.Time    `json:"responded_at,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

// repository interface for collaboration persistence. Implementations must
// make each method atomic; multi-step transitions are composed under a
// store-level transaction by the negotiation service.
type Repository interface {
	Create(ctx context.Context, c *Collaboration) (*Collaboration, error)
	Get(ctx context.Context, id string) (*Collaboration, error)
	// GetForUpdate loads the aggregate and takes the per-collaboration
	// mutual-exclusion scope for the enclosing transaction
	GetForUpdate(ctx context.Context, id string) (*Collaboration, error)
	Update(ctx context.Context, c *Collaboration) error
	InsertDeliverables(ctx context.Context, collaborationID string, ds []Deliverable) error
	SetDeliverableCompleted(ctx context.Context, collaborationID, deliverableID string, completed bool) error
	ListForUser(ctx context.Context, userID string) ([]*Collaboration, error)
}
