package ipo

import (
	"sort"
	"time"
)

// IsUpcoming reports whether the offering's subscription window has not yet
// closed as of today. Offerings without any dates are treated as upcoming
// (safer default: don't hide what we can't judge).
func (o *Offering) IsUpcoming(today time.Time) bool {
	day := truncateDay(today)
	if !o.SubscriptionEnd.IsZero() {
		return !o.SubscriptionEnd.Before(day)
	}
	if !o.SubscriptionStart.IsZero() {
		return !o.SubscriptionStart.Before(day)
	}
	return true
}

// Upcoming filters offerings to those still open or in the future.
func Upcoming(offerings []*Offering, today time.Time) []*Offering {
	out := make([]*Offering, 0, len(offerings))
	for _, o := range offerings {
		if o.IsUpcoming(today) {
			out = append(out, o)
		}
	}
	return out
}

// SortBySubscriptionStart orders offerings ascending by subscription start.
// Missing start dates sort last, matching the site's client-side ordering.
func SortBySubscriptionStart(offerings []*Offering) {
	sort.SliceStable(offerings, func(i, j int) bool {
		a, b := offerings[i].SubscriptionStart, offerings[j].SubscriptionStart
		switch {
		case a.IsZero() && b.IsZero():
			return offerings[i].CompanyName < offerings[j].CompanyName
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.Before(b)
		}
	})
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
