package feeds

import (
	"strings"
	"testing"
	"time"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

func TestSyndicated(t *testing.T) {
	if !Syndicated(content.TypeEvent) || !Syndicated(content.TypeNews) {
		t.Error("events and news should be syndicated")
	}
	if Syndicated(content.TypeCompany) || Syndicated(content.TypePerson) {
		t.Error("companies and people should not be syndicated")
	}
}

func TestBuildRSS(t *testing.T) {
	starts := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	items := []store.Entity{
		{
			Type:     content.TypeEvent,
			Name:     "Demo Day",
			Slug:     "demo-day",
			Subtitle: "Quarterly showcase",
			StartsAt: &starts,
		},
	}

	rss, err := BuildRSS("Silicon Harbour", "https://siliconharbour.dev", content.TypeEvent, items)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<title>Silicon Harbour Events</title>",
		"<title>Demo Day</title>",
		"https://siliconharbour.dev/events/demo-day",
		"Quarterly showcase",
	} {
		if !strings.Contains(rss, want) {
			t.Errorf("rss missing %q:\n%s", want, rss)
		}
	}
	// Events are dated by their start time.
	if !strings.Contains(rss, "01 Oct 2026") {
		t.Errorf("rss should use the event start time:\n%s", rss)
	}
}

func TestBuildRSSEmpty(t *testing.T) {
	rss, err := BuildRSS("Silicon Harbour", "https://siliconharbour.dev", content.TypeNews, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(rss, "<title>Silicon Harbour News</title>") {
		t.Errorf("empty feed should still carry channel metadata:\n%s", rss)
	}
}
