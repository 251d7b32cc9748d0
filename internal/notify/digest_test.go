package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/domain/events"
)

func TestRenderDigest(t *testing.T) {
	items := []events.Event{
		{Title: "Team sync", Date: "2026-09-02", Time: "14:00", Venue: "Room 4", Details: "Quarterly planning"},
		{Title: "Dinner", Date: "2026-09-02", Time: "Not specified", Venue: "Not specified", Details: "Anniversary"},
	}

	body := renderDigest("Alice Smith", items, "2026-09-02")

	require.True(t, strings.HasPrefix(body, "Hi Alice Smith,\n\n"))
	require.Contains(t, body, "your upcoming event(s) on 2026-09-02")
	require.Contains(t, body, strings.Repeat("=", 60))
	require.Contains(t, body, "Event 1: Team sync")
	require.Contains(t, body, "  Date: 2026-09-02\n  Time: 14:00\n  Venue: Room 4\n  Details: Quarterly planning")
	require.Contains(t, body, "Event 2: Dinner")
	require.Contains(t, body, "  Time: Not specified")
	require.Contains(t, body, "Don't forget to prepare for your event(s)!")
	require.Contains(t, body, "Best regards,\nEvent Planner Team")
	require.Contains(t, body, "This is an automated reminder from Event Planner.")

	// One rule per event block.
	require.Equal(t, 2, strings.Count(body, digestRule))
}

func TestRenderDigestDeterministic(t *testing.T) {
	items := []events.Event{{Title: "Team sync", Date: "2026-09-02"}}

	first := renderDigest("Alice", items, "2026-09-02")
	second := renderDigest("Alice", items, "2026-09-02")
	require.Equal(t, first, second)
}

func TestRenderDigestOrderFollowsInput(t *testing.T) {
	items := []events.Event{
		{Title: "Second stored first"},
		{Title: "First stored second"},
	}

	body := renderDigest("Alice", items, "2026-09-02")
	require.Less(t,
		strings.Index(body, "Event 1: Second stored first"),
		strings.Index(body, "Event 2: First stored second"))
}
