package terms

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// returns the compensation part of a terms value as narration detail items,
// e.g. ["Paid", "$500"] or ["Free stay", "3-5 nights"]
func (t Terms) CompensationDetails() []string {
	switch t.Type {
	case TypeFreeStay:
		if t.FreeStay == nil {
			return []string{"Free stay"}
		}
		return []string{"Free stay", fmt.Sprintf("%d-%d nights", t.FreeStay.MinNights, t.FreeStay.MaxNights)}
	case TypePaid:
		if t.Paid == nil {
			return []string{"Paid"}
		}
		return []string{"Paid", formatAmount(t.Paid.AmountCents)}
	case TypeDiscount:
		if t.Discount == nil {
			return []string{"Discount"}
		}
		return []string{"Discount", fmt.Sprintf("%d%% off", t.Discount.Percent)}
	}

	return nil
}

// returns a display label for the travel window, either the exact date range
// or the preferred months
func (t Terms) TravelWindowLabel() string {
	if t.TravelDateFrom != nil && t.TravelDateTo != nil {
		return t.TravelDateFrom.Format("Jan 2") + " - " + t.TravelDateTo.Format("Jan 2, 2006")
	}

	return strings.Join(t.PreferredMonths, ", ")
}

// Diff summarizes what changed between two terms values as narration detail
// items. Unchanged aspects are omitted; identical terms yield ["no changes"].
func Diff(old, updated Terms) []string {
	var details []string

	if !compensationEqual(old, updated) {
		details = append(details, updated.CompensationDetails()...)
	}

	if !travelWindowEqual(old, updated) {
		details = append(details, updated.TravelWindowLabel())
	}

	if !reflect.DeepEqual(old.PlatformDeliverables, updated.PlatformDeliverables) {
		details = append(details, deliverableCountLabel(updated.TotalDeliverables()))
	}

	if len(details) == 0 {
		details = append(details, "no changes")
	}

	return details
}

func compensationEqual(a, b Terms) bool {
	if a.Type != b.Type {
		return false
	}

	switch a.Type {
	case TypeFreeStay:
		return reflect.DeepEqual(a.FreeStay, b.FreeStay)
	case TypePaid:
		return reflect.DeepEqual(a.Paid, b.Paid)
	case TypeDiscount:
		return reflect.DeepEqual(a.Discount, b.Discount)
	}

	return true
}

func travelWindowEqual(a, b Terms) bool {
	if !timePtrEqual(a.TravelDateFrom, b.TravelDateFrom) {
		return false
	}

	if !timePtrEqual(a.TravelDateTo, b.TravelDateTo) {
		return false
	}

	return reflect.DeepEqual(a.PreferredMonths, b.PreferredMonths)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Equal(*b)
}

func deliverableCountLabel(n int) string {
	if n == 1 {
		return "1 deliverable"
	}

	return fmt.Sprintf("%d deliverables", n)
}

func formatAmount(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("$%d", cents/100)
	}

	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
