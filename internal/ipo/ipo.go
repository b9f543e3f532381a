package ipo

import (
	"crypto/md5"
	"fmt"
	"time"
)

// Sentinel is rendered wherever an optional field has no value.
const Sentinel = "미정"

// Offering represents a single IPO subscription cycle as scraped from the
// source site. Optional dates use the zero time.Time; optional numbers use 0.
type Offering struct {
	CompanyName string `json:"company_name"`

	SubscriptionStart   time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd     time.Time `json:"subscription_end,omitempty"`
	DemandForecastStart time.Time `json:"demand_forecast_start,omitempty"`
	DemandForecastEnd   time.Time `json:"demand_forecast_end,omitempty"`
	RefundDate          time.Time `json:"refund_date,omitempty"`
	ListingDate         time.Time `json:"listing_date,omitempty"`

	OfferPriceMin   int `json:"offer_price_min,omitempty"`
	OfferPriceMax   int `json:"offer_price_max,omitempty"`
	FinalOfferPrice int `json:"final_offer_price,omitempty"`

	InstitutionalCompetition float64 `json:"institutional_competition,omitempty"`

	LeadUnderwriter string    `json:"lead_underwriter,omitempty"`
	DetailURL       string    `json:"detail_url,omitempty"`
	Source          string    `json:"source"`
	CollectedAt     time.Time `json:"collected_at"`
}

// Key returns the deterministic dedup identity for this offering,
// derived from company name and subscription start date.
func (o *Offering) Key() string {
	return shortHash(fmt.Sprintf("%s_%s", o.CompanyName, dateOrEmpty(o.SubscriptionStart)))
}

// EventKey returns the identity for one calendar event of this offering.
// Each event type (subscription, listing, ...) gets its own key.
func (o *Offering) EventKey(t EventType, start time.Time) string {
	return shortHash(fmt.Sprintf("%s_%s_%s", o.CompanyName, t, dateOrEmpty(start)))
}

// OfferPriceRange renders the price info: the confirmed price if known,
// otherwise the hoped-for band, otherwise the sentinel.
func (o *Offering) OfferPriceRange() string {
	if o.FinalOfferPrice > 0 {
		return fmt.Sprintf("%s원", groupDigits(o.FinalOfferPrice))
	}
	if o.OfferPriceMin > 0 && o.OfferPriceMax > 0 {
		return fmt.Sprintf("%s~%s원", groupDigits(o.OfferPriceMin), groupDigits(o.OfferPriceMax))
	}
	return Sentinel
}

// SubscriptionPeriod renders the subscription window as "01/15~01/16".
func (o *Offering) SubscriptionPeriod() string {
	switch {
	case !o.SubscriptionStart.IsZero() && !o.SubscriptionEnd.IsZero():
		return fmt.Sprintf("%s~%s",
			o.SubscriptionStart.Format("01/02"), o.SubscriptionEnd.Format("01/02"))
	case !o.SubscriptionStart.IsZero():
		return o.SubscriptionStart.Format("01/02")
	default:
		return Sentinel
	}
}

func (o *Offering) String() string {
	return fmt.Sprintf("IPO(%s, 청약: %s, 공모가: %s)",
		o.CompanyName, o.SubscriptionPeriod(), o.OfferPriceRange())
}

// shortHash returns the first 16 hex chars of the md5 of s.
func shortHash(s string) string {
	sum := md5.Sum([]byte(s))
	return fmt.Sprintf("%x", sum)[:16]
}

func dateOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// groupDigits formats n with thousands separators ("10000" -> "10,000").
func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
