package terms

import (
	"time"
)

// checks structural and range constraints on a terms value. Returns a
// *FieldError naming the first offending field, or nil.
func (t Terms) Validate() error {
	if err := t.validateCompensation(); err != nil {
		return err
	}

	if err := t.validateTravelWindow(); err != nil {
		return err
	}

	return t.validateDeliverables()
}

func (t Terms) validateCompensation() error {
	switch t.Type {
	case TypeFreeStay:
		if t.FreeStay == nil {
			return &FieldError{Field: "free_stay", Reason: "required for free_stay terms"}
		}
		if t.Paid != nil || t.Discount != nil {
			return &FieldError{Field: "type", Reason: "only the free_stay compensation block may be set"}
		}
		if t.FreeStay.MinNights <= 0 {
			return &FieldError{Field: "free_stay.min_nights", Reason: "must be greater than zero"}
		}
		if t.FreeStay.MaxNights <= t.FreeStay.MinNights {
			return &FieldError{Field: "free_stay.max_nights", Reason: "must be greater than min_nights"}
		}
	case TypePaid:
		if t.Paid == nil {
			return &FieldError{Field: "paid", Reason: "required for paid terms"}
		}
		if t.FreeStay != nil || t.Discount != nil {
			return &FieldError{Field: "type", Reason: "only the paid compensation block may be set"}
		}
		if t.Paid.AmountCents <= 0 {
			return &FieldError{Field: "paid.amount_cents", Reason: "must be greater than zero"}
		}
	case TypeDiscount:
		if t.Discount == nil {
			return &FieldError{Field: "discount", Reason: "required for discount terms"}
		}
		if t.FreeStay != nil || t.Paid != nil {
			return &FieldError{Field: "type", Reason: "only the discount compensation block may be set"}
		}
		if t.Discount.Percent <= 0 || t.Discount.Percent > 100 {
			return &FieldError{Field: "discount.percent", Reason: "must be in (0, 100]"}
		}
	default:
		return &FieldError{Field: "type", Reason: "must be one of free_stay, paid, discount"}
	}

	return nil
}

// exact dates and preferred months are mutually exclusive: either a from/to
// pair, or a non-empty month set when exact dates are unknown
func (t Terms) validateTravelWindow() error {
	hasDates := t.TravelDateFrom != nil || t.TravelDateTo != nil

	if hasDates {
		if t.TravelDateFrom == nil || t.TravelDateTo == nil {
			return &FieldError{Field: "travel_date_to", Reason: "both travel dates must be set together"}
		}
		if !t.TravelDateFrom.Before(*t.TravelDateTo) {
			return &FieldError{Field: "travel_date_from", Reason: "must be before travel_date_to"}
		}
		if len(t.PreferredMonths) > 0 {
			return &FieldError{Field: "preferred_months", Reason: "cannot be combined with exact travel dates"}
		}
		return nil
	}

	if len(t.PreferredMonths) == 0 {
		return &FieldError{Field: "travel_date_from", Reason: "travel dates or preferred months are required"}
	}

	for _, month := range t.PreferredMonths {
		if _, err := time.Parse("2006-01", month); err != nil {
			return &FieldError{Field: "preferred_months", Reason: "entries must use YYYY-MM format"}
		}
	}

	return nil
}

func (t Terms) validateDeliverables() error {
	if len(t.PlatformDeliverables) == 0 {
		return &FieldError{Field: "platform_deliverables", Reason: "at least one platform group is required"}
	}

	for _, group := range t.PlatformDeliverables {
		if group.Platform == "" {
			return &FieldError{Field: "platform_deliverables.platform", Reason: "platform name is required"}
		}
		if len(group.Deliverables) == 0 {
			return &FieldError{Field: "platform_deliverables.deliverables", Reason: "each platform needs at least one deliverable"}
		}
		for _, d := range group.Deliverables {
			if d.Type == "" {
				return &FieldError{Field: "platform_deliverables.deliverables.type", Reason: "deliverable type is required"}
			}
			if d.Quantity < 1 {
				return &FieldError{Field: "platform_deliverables.deliverables.quantity", Reason: "quantity must be at least 1"}
			}
		}
	}

	return nil
}
