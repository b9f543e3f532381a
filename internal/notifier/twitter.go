package notifier

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

const maxPostRunes = 280

// TwitterNotifier posts offering announcements to Twitter.
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a notifier from environment credentials:
// TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN,
// TWITTER_ACCESS_SECRET.
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{client: twitter.NewClient(httpClient)}, nil
}

// Notify posts one announcement per offering, spaced out to stay under the
// posting rate limit.
func (n *TwitterNotifier) Notify(offerings []*ipo.Offering) error {
	for i, o := range offerings {
		post := formatAnnouncement(o)

		if _, _, err := n.client.Statuses.Update(post, nil); err != nil {
			return fmt.Errorf("failed to post announcement for %s: %w", o.CompanyName, err)
		}

		if i < len(offerings)-1 {
			time.Sleep(2 * time.Second)
		}
	}
	return nil
}

// formatAnnouncement renders the announcement copy for one offering.
func formatAnnouncement(o *ipo.Offering) string {
	var b strings.Builder

	b.WriteString("📢 새로운 공모주 청약 일정!\n\n")
	fmt.Fprintf(&b, "🏢 %s\n", o.CompanyName)
	fmt.Fprintf(&b, "📅 청약: %s\n", o.SubscriptionPeriod())
	fmt.Fprintf(&b, "💰 공모가: %s\n", o.OfferPriceRange())
	if o.LeadUnderwriter != "" {
		fmt.Fprintf(&b, "🏦 대표주관: %s\n", o.LeadUnderwriter)
	}
	if !o.ListingDate.IsZero() {
		fmt.Fprintf(&b, "📈 상장예정: %s\n", o.ListingDate.Format("2006-01-02"))
	}
	b.WriteString("\n#공모주 #IPO #청약")

	post := b.String()
	runes := []rune(post)
	if len(runes) > maxPostRunes {
		post = string(runes[:maxPostRunes-3]) + "..."
	}
	return post
}
