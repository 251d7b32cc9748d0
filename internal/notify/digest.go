package notify

import (
	"fmt"
	"strings"

	"github.com/planora/server/internal/domain/events"
)

const digestRule = "------------------------------------------------------------"

// renderDigest produces the plain-text reminder body: greeting, count, one
// block per event with fields in fixed order, and a fixed footer. The
// output is deterministic for a given input.
func renderDigest(name string, items []events.Event, targetDate string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "This is a friendly reminder about your upcoming event(s) on %s:\n\n", targetDate)
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n\n")

	for i, event := range items {
		fmt.Fprintf(&b, "Event %d: %s\n", i+1, event.Title)
		fmt.Fprintf(&b, "  Date: %s\n", event.Date)
		fmt.Fprintf(&b, "  Time: %s\n", event.Time)
		fmt.Fprintf(&b, "  Venue: %s\n", event.Venue)
		fmt.Fprintf(&b, "  Details: %s\n", event.Details)
		b.WriteString("\n")
		b.WriteString(digestRule)
		b.WriteString("\n\n")
	}

	b.WriteString("\nDon't forget to prepare for your event(s)!\n\n")
	b.WriteString("Best regards,\nEvent Planner Team\n\n")
	b.WriteString("---\n")
	b.WriteString("This is an automated reminder from Event Planner.\n")
	b.WriteString("You're receiving this because you have events scheduled for tomorrow.\n")

	return b.String()
}
