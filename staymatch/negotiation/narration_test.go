package negotiation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/terms"
)

func TestNarrate(t *testing.T) {
	assert.Equal(t, "Agreement reached", narrate("Agreement reached", nil))
	assert.Equal(t, "Offer declined: by creator", narrate("Offer declined", []string{"by creator"}))
	assert.Equal(t, "Agreement reached: Paid • $500", narrate("Agreement reached", []string{"Paid", "$500"}))
}

func TestSuggestedChangesText_OnlyChangedAspects(t *testing.T) {
	old := freeStayTerms()
	updated := paidTerms(50000)
	updated.TravelDateFrom = old.TravelDateFrom
	updated.TravelDateTo = old.TravelDateTo
	updated.PlatformDeliverables = old.PlatformDeliverables

	assert.Equal(t, "Suggested changes: Paid • $500", suggestedChangesText(old, updated))
}

func TestSuggestedChangesText_Identical(t *testing.T) {
	old := freeStayTerms()

	assert.Equal(t, "Suggested changes: no changes", suggestedChangesText(old, old))
}

func TestAgreementReachedText(t *testing.T) {
	assert.Equal(t,
		"Agreement reached: Paid • $500 • terms version 2",
		agreementReachedText(paidTerms(50000), 2))

	assert.Equal(t,
		"Agreement reached: Free stay • 3-5 nights • terms version 1",
		agreementReachedText(freeStayTerms(), 1))
}

func TestWaitingText(t *testing.T) {
	assert.Equal(t, "Waiting for creator: terms version 2", waitingText(collabs.PartyCreator, 2))
	assert.Equal(t, "Waiting for hotel: terms version 3", waitingText(collabs.PartyHotel, 3))
}

func TestDeliverableText(t *testing.T) {
	d := collabs.Deliverable{Platform: "Instagram", Type: "Reel", Quantity: 1, Completed: true}
	assert.Equal(t, "Deliverable completed: Instagram Reel", deliverableText(d))

	d.Completed = false
	assert.Equal(t, "Deliverable reopened: Instagram Reel", deliverableText(d))
}

func TestCancelledText(t *testing.T) {
	assert.Equal(t, "Collaboration cancelled: by hotel", cancelledText(collabs.PartyHotel, ""))
	assert.Equal(t,
		"Collaboration cancelled: by creator • schedule conflict",
		cancelledText(collabs.PartyCreator, "schedule conflict"))
}

func TestAgreementReachedText_Discount(t *testing.T) {
	from := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	dt := terms.Terms{
		Type:           terms.TypeDiscount,
		Discount:       &terms.Discount{Percent: 40},
		TravelDateFrom: &from,
		TravelDateTo:   &to,
		PlatformDeliverables: []terms.PlatformDeliverables{
			{Platform: "TikTok", Deliverables: []terms.DeliverableSpec{{Type: "Video", Quantity: 1}}},
		},
	}

	assert.Equal(t,
		"Agreement reached: Discount • 40% off • terms version 1",
		agreementReachedText(dt, 1))
}
