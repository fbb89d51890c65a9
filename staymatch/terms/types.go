package terms

import (
	"fmt"
	"time"
)

// collaboration compensation types (must match DB check constraint)
const (
	TypeFreeStay CollaborationType = "free_stay"
	TypePaid     CollaborationType = "paid"
	TypeDiscount CollaborationType = "discount"
)

type CollaborationType string

// FreeStay offers a complimentary stay within a nights range
type FreeStay struct {
	MinNights int `json:"min_nights"`
	MaxNights int `json:"max_nights"`
}

// Paid offers a flat fee, stored in cents
type Paid struct {
	AmountCents int64 `json:"amount_cents"`
}

// Discount offers a percentage off the stay
type Discount struct {
	Percent int `json:"percent"`
}

// DeliverableSpec is one promised unit of creator output
type DeliverableSpec struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// PlatformDeliverables groups deliverables by social platform
type PlatformDeliverables struct {
	Platform     string            `json:"platform"`
	Deliverables []DeliverableSpec `json:"deliverables"`
}

// Terms is the negotiable offer attached to a collaboration. Exactly one
// compensation block matching Type is populated; Validate enforces this.
// Terms values are immutable once attached: every edit produces a new value
// and a new terms version on the collaboration.
type Terms struct {
	Type                 CollaborationType      `json:"type"`
	FreeStay             *FreeStay              `json:"free_stay,omitempty"`
	Paid                 *Paid                  `json:"paid,omitempty"`
	Discount             *Discount              `json:"discount,omitempty"`
	TravelDateFrom       *time.Time             `json:"travel_date_from,omitempty"`
	TravelDateTo         *time.Time             `json:"travel_date_to,omitempty"`
	PreferredMonths      []string               `json:"preferred_months,omitempty"` // YYYY-MM
	PlatformDeliverables []PlatformDeliverables `json:"platform_deliverables"`
}

// FieldError reports a validation failure naming the offending field
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// returns the total number of promised deliverable line items
func (t Terms) TotalDeliverables() int {
	total := 0

	for _, group := range t.PlatformDeliverables {
		total += len(group.Deliverables)
	}

	return total
}
