package site

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

const icsProdID = "-//gongmo//gongmo-calendar//KO"

// BuildICS renders an iCalendar feed with one all-day event per upcoming
// subscription window. UIDs reuse the offering identity keys so calendar
// apps update in place on re-import.
func BuildICS(offerings []*ipo.Offering, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProdID)

	upcoming := ipo.Upcoming(offerings, now)
	ipo.SortBySubscriptionStart(upcoming)

	for _, o := range upcoming {
		if o.SubscriptionStart.IsZero() {
			continue
		}

		ev := cal.AddEvent(o.Key() + "@38.co.kr")
		ev.SetDtStampTime(now.UTC())

		end := o.SubscriptionEnd
		if end.IsZero() {
			end = o.SubscriptionStart
		}
		ev.SetAllDayStartAt(o.SubscriptionStart)
		// DTEND is exclusive for all-day events.
		ev.SetAllDayEndAt(end.AddDate(0, 0, 1))

		ev.SetSummary(fmt.Sprintf("[청약] %s", o.CompanyName))
		ev.SetDescription(icsDescription(o))
		if o.DetailURL != "" {
			ev.SetURL(o.DetailURL)
		}
	}

	return cal.Serialize()
}

func icsDescription(o *ipo.Offering) string {
	desc := fmt.Sprintf("공모가: %s", o.OfferPriceRange())
	if o.LeadUnderwriter != "" {
		desc += fmt.Sprintf("\n대표주관: %s", o.LeadUnderwriter)
	}
	if !o.ListingDate.IsZero() {
		desc += fmt.Sprintf("\n상장예정: %s", o.ListingDate.Format("2006-01-02"))
	}
	return desc
}
