package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleOfferings() []*ipo.Offering {
	return []*ipo.Offering{
		{
			CompanyName:              "에이아이로보틱스",
			SubscriptionStart:        date(2026, time.January, 15),
			SubscriptionEnd:          date(2026, time.January, 16),
			ListingDate:              date(2026, time.January, 27),
			OfferPriceMin:            10000,
			OfferPriceMax:            12000,
			LeadUnderwriter:          "미래에셋증권",
			InstitutionalCompetition: 967.6,
			Source:                   "38커뮤니케이션",
			DetailURL:                "http://www.38.co.kr/html/fund/?o=v&no=1234",
		},
		{
			CompanyName:       "바이오셀텍",
			SubscriptionStart: date(2026, time.January, 8),
			FinalOfferPrice:   25000,
			Source:            "38커뮤니케이션",
		},
	}
}

func TestBuildDocument(t *testing.T) {
	now := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	doc := BuildDocument(sampleOfferings(), now)

	if doc.TotalCount != 2 {
		t.Fatalf("expected 2 items, got %d", doc.TotalCount)
	}
	if doc.LastUpdated != "2026-01-05T09:00:00Z" {
		t.Errorf("unexpected last_updated: %q", doc.LastUpdated)
	}

	// Sorted ascending by subscription start.
	if doc.Items[0].CompanyName != "바이오셀텍" {
		t.Errorf("expected earliest subscription first, got %s", doc.Items[0].CompanyName)
	}

	first := doc.Items[1]
	if first.SubscriptionStart == nil || *first.SubscriptionStart != "2026-01-15" {
		t.Errorf("unexpected subscription start: %v", first.SubscriptionStart)
	}
	if first.OfferPriceRange != "10,000~12,000원" {
		t.Errorf("unexpected price range: %q", first.OfferPriceRange)
	}
	if first.FinalOfferPrice != nil {
		t.Error("unset final price should be null")
	}

	second := doc.Items[0]
	if second.SubscriptionEnd != nil {
		t.Error("missing subscription end should be null")
	}
	if second.FinalOfferPrice == nil || *second.FinalOfferPrice != 25000 {
		t.Errorf("unexpected final price: %v", second.FinalOfferPrice)
	}
	if second.LeadUnderwriter != nil {
		t.Error("missing underwriter should be null")
	}
}

func TestBuildDocumentNullsSerialize(t *testing.T) {
	doc := BuildDocument([]*ipo.Offering{{CompanyName: "미정테크"}}, date(2026, time.January, 5))

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"subscription_start":null`) {
		t.Errorf("absent dates should serialize as null: %s", data)
	}
	if !strings.Contains(string(data), `"offer_price_range":"미정"`) {
		t.Errorf("price range should fall back to the sentinel: %s", data)
	}
}

func TestGenerateWritesFiles(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGenerator(dir)
	if err != nil {
		t.Fatal(err)
	}
	g.now = func() time.Time { return date(2026, time.January, 5) }

	dataPath, err := g.Generate(sampleOfferings())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if dataPath != filepath.Join(dir, "data.json") {
		t.Errorf("unexpected data path: %s", dataPath)
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("data.json should be valid JSON: %v", err)
	}
	if doc.TotalCount != 2 {
		t.Errorf("expected 2 items in data.json, got %d", doc.TotalCount)
	}

	ics, err := os.ReadFile(filepath.Join(dir, "calendar.ics"))
	if err != nil {
		t.Fatalf("calendar.ics should be written: %v", err)
	}
	if !strings.Contains(string(ics), "BEGIN:VCALENDAR") {
		t.Error("calendar.ics should be an iCalendar document")
	}
}

func TestBuildICSOnlyUpcoming(t *testing.T) {
	offerings := append(sampleOfferings(), &ipo.Offering{
		CompanyName:       "지난종목",
		SubscriptionStart: date(2025, time.June, 1),
		SubscriptionEnd:   date(2025, time.June, 2),
	})

	feed := BuildICS(offerings, date(2026, time.January, 5))

	if strings.Count(feed, "BEGIN:VEVENT") != 2 {
		t.Errorf("expected 2 events in the feed:\n%s", feed)
	}
	if strings.Contains(feed, "지난종목") {
		t.Error("closed subscription windows must not appear in the feed")
	}
	if !strings.Contains(feed, "에이아이로보틱스") {
		t.Error("upcoming offering missing from the feed")
	}
}

func TestBuildICSUsesStableUIDs(t *testing.T) {
	offerings := sampleOfferings()
	now := date(2026, time.January, 5)

	first := BuildICS(offerings, now)
	second := BuildICS(offerings, now)
	if first != second {
		t.Error("feed should be deterministic for identical input")
	}
	if !strings.Contains(first, offerings[0].Key()+"@38.co.kr") {
		t.Error("event UID should embed the offering key")
	}
}
