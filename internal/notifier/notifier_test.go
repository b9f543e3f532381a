package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

func TestFormatAnnouncement(t *testing.T) {
	o := &ipo.Offering{
		CompanyName:       "에이아이로보틱스",
		SubscriptionStart: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		SubscriptionEnd:   time.Date(2026, time.January, 16, 0, 0, 0, 0, time.UTC),
		ListingDate:       time.Date(2026, time.January, 27, 0, 0, 0, 0, time.UTC),
		OfferPriceMin:     10000,
		OfferPriceMax:     12000,
		LeadUnderwriter:   "미래에셋증권",
	}

	post := formatAnnouncement(o)

	for _, want := range []string{
		"에이아이로보틱스",
		"청약: 01/15~01/16",
		"공모가: 10,000~12,000원",
		"대표주관: 미래에셋증권",
		"상장예정: 2026-01-27",
		"#공모주",
	} {
		if !strings.Contains(post, want) {
			t.Errorf("announcement missing %q:\n%s", want, post)
		}
	}
}

func TestFormatAnnouncementOmitsMissingFields(t *testing.T) {
	o := &ipo.Offering{
		CompanyName:       "바이오셀텍",
		SubscriptionStart: time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC),
	}

	post := formatAnnouncement(o)

	if strings.Contains(post, "대표주관") {
		t.Error("missing underwriter should not be rendered")
	}
	if strings.Contains(post, "상장예정") {
		t.Error("missing listing date should not be rendered")
	}
	if !strings.Contains(post, "공모가: 미정") {
		t.Errorf("missing price should render as sentinel:\n%s", post)
	}
}

func TestFormatAnnouncementTruncatesLongPosts(t *testing.T) {
	o := &ipo.Offering{
		CompanyName:       strings.Repeat("아주긴회사이름", 60),
		SubscriptionStart: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
	}

	post := formatAnnouncement(o)

	if got := len([]rune(post)); got > maxPostRunes {
		t.Errorf("post exceeds %d runes: %d", maxPostRunes, got)
	}
	if !strings.HasSuffix(post, "...") {
		t.Error("truncated post should end with an ellipsis")
	}
}

func TestNewTwitterNotifierRequiresCredentials(t *testing.T) {
	for _, k := range []string{"TWITTER_API_KEY", "TWITTER_API_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET"} {
		t.Setenv(k, "")
	}

	if _, err := NewTwitterNotifier(); err == nil {
		t.Error("expected error when credentials are absent")
	}
}
