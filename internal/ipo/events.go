package ipo

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
)

// EventType identifies one of the dated milestones of an offering.
type EventType string

const (
	EventDemandForecast EventType = "demand_forecast" // 수요예측
	EventSubscription   EventType = "subscription"    // 청약
	EventRefund         EventType = "refund"          // 환불
	EventListing        EventType = "listing"         // 상장
	EventLockupExpiry   EventType = "lockup_expiry"   // 락업해제
)

// SourceTag marks calendar events created by this bot via the private
// extendedProperties, so cleanup and --list only touch our own events.
const SourceTag = "gongmo-bot"

// KoreanName returns the display name used in event titles.
func (t EventType) KoreanName() string {
	switch t {
	case EventDemandForecast:
		return "수요예측"
	case EventSubscription:
		return "청약"
	case EventRefund:
		return "환불"
	case EventListing:
		return "상장"
	case EventLockupExpiry:
		return "락업해제"
	}
	return string(t)
}

// ColorID returns the Google Calendar color for this event type.
func (t EventType) ColorID() string {
	switch t {
	case EventDemandForecast:
		return "1" // lavender
	case EventSubscription:
		return "11" // tomato
	case EventRefund:
		return "5" // banana
	case EventListing:
		return "10" // basil
	case EventLockupExpiry:
		return "6" // tangerine
	}
	return "8"
}

// reminders returns popup reminders per event type, in minutes before start.
func (t EventType) reminders() []*calendar.EventReminder {
	var minutes []int64
	switch t {
	case EventDemandForecast:
		minutes = []int64{60 * 24}
	case EventSubscription:
		minutes = []int64{60 * 24 * 2, 60 * 24, 60 * 9}
	case EventRefund:
		minutes = []int64{60 * 9}
	case EventListing:
		minutes = []int64{60 * 24, 60 * 9}
	case EventLockupExpiry:
		minutes = []int64{60 * 24 * 7, 60 * 24}
	}
	out := make([]*calendar.EventReminder, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, &calendar.EventReminder{Method: "popup", Minutes: m})
	}
	return out
}

// CalendarEvent couples an event body with the identity key used for dedup.
type CalendarEvent struct {
	Key   string
	Type  EventType
	Event *calendar.Event
}

// CalendarEvents builds one all-day calendar event per milestone date the
// offering carries. Offerings without any dates produce an empty slice.
func (o *Offering) CalendarEvents() []CalendarEvent {
	var events []CalendarEvent

	if !o.DemandForecastStart.IsZero() {
		events = append(events, o.newEvent(EventDemandForecast, o.DemandForecastStart, o.DemandForecastEnd))
	}
	if !o.SubscriptionStart.IsZero() {
		events = append(events, o.newEvent(EventSubscription, o.SubscriptionStart, o.SubscriptionEnd))
	}
	if !o.RefundDate.IsZero() {
		events = append(events, o.newEvent(EventRefund, o.RefundDate, time.Time{}))
	}
	if !o.ListingDate.IsZero() {
		events = append(events, o.newEvent(EventListing, o.ListingDate, time.Time{}))
	}

	return events
}

func (o *Offering) newEvent(t EventType, start, end time.Time) CalendarEvent {
	key := o.EventKey(t, start)

	var title string
	if t == EventSubscription && !end.IsZero() {
		title = fmt.Sprintf("[%s] %s (%s-%s)",
			t.KoreanName(), o.CompanyName, start.Format("01/02"), end.Format("01/02"))
	} else {
		title = fmt.Sprintf("[%s] %s", t.KoreanName(), o.CompanyName)
	}

	// All-day events: the calendar API treats the end date as exclusive.
	actualEnd := end
	if actualEnd.IsZero() {
		actualEnd = start
	}
	endExclusive := actualEnd.AddDate(0, 0, 1)

	ev := &calendar.Event{
		Summary:     title,
		Description: o.buildDescription(t),
		Start:       &calendar.EventDateTime{Date: start.Format("2006-01-02")},
		End:         &calendar.EventDateTime{Date: endExclusive.Format("2006-01-02")},
		ColorId:     t.ColorID(),
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       t.reminders(),
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				"ipo_event_id": key,
				"company_name": o.CompanyName,
				"event_type":   string(t),
				"source":       SourceTag,
			},
		},
	}

	return CalendarEvent{Key: key, Type: t, Event: ev}
}

func (o *Offering) buildDescription(t EventType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n\n", t.KoreanName(), o.CompanyName)

	b.WriteString("=== 공모 정보 ===\n")
	fmt.Fprintf(&b, "공모가: %s\n", o.OfferPriceRange())
	if o.InstitutionalCompetition > 0 {
		fmt.Fprintf(&b, "기관경쟁률: %.2f:1\n", o.InstitutionalCompetition)
	}

	b.WriteString("\n=== 주요 일정 ===\n")
	if !o.DemandForecastStart.IsZero() {
		fmt.Fprintf(&b, "수요예측: %s%s\n",
			o.DemandForecastStart.Format("2006-01-02"), dateSuffix(o.DemandForecastEnd))
	}
	if !o.SubscriptionStart.IsZero() {
		fmt.Fprintf(&b, "청약: %s%s\n",
			o.SubscriptionStart.Format("2006-01-02"), dateSuffix(o.SubscriptionEnd))
	}
	if !o.RefundDate.IsZero() {
		fmt.Fprintf(&b, "환불: %s\n", o.RefundDate.Format("2006-01-02"))
	}
	if !o.ListingDate.IsZero() {
		fmt.Fprintf(&b, "상장: %s\n", o.ListingDate.Format("2006-01-02"))
	}

	if o.LeadUnderwriter != "" {
		b.WriteString("\n=== 주관사 ===\n")
		fmt.Fprintf(&b, "대표주관: %s\n", o.LeadUnderwriter)
	}

	if o.DetailURL != "" {
		fmt.Fprintf(&b, "\n상세정보: %s\n", o.DetailURL)
	}

	b.WriteString("\n---\n자동 생성: 공모주 캘린더 봇")
	return b.String()
}

func dateSuffix(end time.Time) string {
	if end.IsZero() {
		return ""
	}
	return "~" + end.Format("2006-01-02")
}
