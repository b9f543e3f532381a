// Package site regenerates the static GitHub-Pages bundle: the data.json
// document the client-side page renders, and an importable ICS feed.
package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

// Document is the data.json shape consumed by docs/app.js.
type Document struct {
	LastUpdated string `json:"last_updated"`
	TotalCount  int    `json:"total_count"`
	Items       []Item `json:"items"`
}

// Item is one offering as exposed to the site. Optional fields serialize
// as null so the client can distinguish absent from zero.
type Item struct {
	CompanyName              string   `json:"company_name"`
	SubscriptionStart        *string  `json:"subscription_start"`
	SubscriptionEnd          *string  `json:"subscription_end"`
	ListingDate              *string  `json:"listing_date"`
	OfferPriceRange          string   `json:"offer_price_range"`
	FinalOfferPrice          *int     `json:"final_offer_price"`
	OfferPriceMin            *int     `json:"offer_price_min"`
	OfferPriceMax            *int     `json:"offer_price_max"`
	LeadUnderwriter          *string  `json:"lead_underwriter"`
	InstitutionalCompetition *float64 `json:"institutional_competition"`
	Source                   string   `json:"source"`
	DetailURL                *string  `json:"detail_url"`
}

// Generator writes the site data into a docs directory.
type Generator struct {
	docsDir string
	now     func() time.Time
}

// NewGenerator creates a Generator for docsDir, creating it if needed.
func NewGenerator(docsDir string) (*Generator, error) {
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating docs directory: %w", err)
	}
	return &Generator{docsDir: docsDir, now: time.Now}, nil
}

// Generate writes data.json and calendar.ics for the given offerings and
// returns the data.json path.
func (g *Generator) Generate(offerings []*ipo.Offering) (string, error) {
	doc := BuildDocument(offerings, g.now())

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding site data: %w", err)
	}

	dataPath := filepath.Join(g.docsDir, "data.json")
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dataPath, err)
	}
	logrus.Infof("정적 데이터 생성: %s (%d건)", dataPath, len(doc.Items))

	icsPath := filepath.Join(g.docsDir, "calendar.ics")
	feed := BuildICS(offerings, g.now())
	if err := os.WriteFile(icsPath, []byte(feed), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", icsPath, err)
	}
	logrus.Infof("ICS 피드 생성: %s", icsPath)

	return dataPath, nil
}

// BuildDocument assembles the data.json document, sorted by subscription
// start with missing dates last.
func BuildDocument(offerings []*ipo.Offering, now time.Time) Document {
	sorted := make([]*ipo.Offering, len(offerings))
	copy(sorted, offerings)
	ipo.SortBySubscriptionStart(sorted)

	items := make([]Item, 0, len(sorted))
	for _, o := range sorted {
		items = append(items, toItem(o))
	}

	return Document{
		LastUpdated: now.Format(time.RFC3339),
		TotalCount:  len(items),
		Items:       items,
	}
}

func toItem(o *ipo.Offering) Item {
	return Item{
		CompanyName:              o.CompanyName,
		SubscriptionStart:        datePtr(o.SubscriptionStart),
		SubscriptionEnd:          datePtr(o.SubscriptionEnd),
		ListingDate:              datePtr(o.ListingDate),
		OfferPriceRange:          o.OfferPriceRange(),
		FinalOfferPrice:          intPtr(o.FinalOfferPrice),
		OfferPriceMin:            intPtr(o.OfferPriceMin),
		OfferPriceMax:            intPtr(o.OfferPriceMax),
		LeadUnderwriter:          strPtr(o.LeadUnderwriter),
		InstitutionalCompetition: floatPtr(o.InstitutionalCompetition),
		Source:                   o.Source,
		DetailURL:                strPtr(o.DetailURL),
	}
}

func datePtr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func floatPtr(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}
