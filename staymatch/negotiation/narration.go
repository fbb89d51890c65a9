package negotiation

import (
	"fmt"
	"strings"

	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/terms"
)

// System narration follows the "<header>: <detail> • <detail>" convention:
// header before the first colon, detail items separated by a bullet. The
// web client parses this for structured rendering, so treat it as a
// serialization format.

const detailSeparator = " • "

func narrate(header string, details []string) string {
	if len(details) == 0 {
		return header
	}

	return header + ": " + strings.Join(details, detailSeparator)
}

func suggestedChangesText(old, updated terms.Terms) string {
	return narrate("Suggested changes", terms.Diff(old, updated))
}

func agreementReachedText(t terms.Terms, version int) string {
	details := append(t.CompensationDetails(), fmt.Sprintf("terms version %d", version))
	return narrate("Agreement reached", details)
}

func waitingText(counterpart collabs.Party, version int) string {
	header := fmt.Sprintf("Waiting for %s", counterpart)
	return narrate(header, []string{fmt.Sprintf("terms version %d", version)})
}

func deliverableText(d collabs.Deliverable) string {
	header := "Deliverable completed"
	if !d.Completed {
		header = "Deliverable reopened"
	}

	return narrate(header, []string{d.Name()})
}

func declinedText(by collabs.Party) string {
	return narrate("Offer declined", []string{fmt.Sprintf("by %s", by)})
}

func cancelledText(by collabs.Party, reason string) string {
	details := []string{fmt.Sprintf("by %s", by)}
	if reason != "" {
		details = append(details, reason)
	}

	return narrate("Collaboration cancelled", details)
}

func completedText(by collabs.Party) string {
	return narrate("Collaboration completed", []string{fmt.Sprintf("by %s", by)})
}
