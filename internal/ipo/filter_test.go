package ipo

import (
	"testing"
	"time"
)

func TestUpcomingFiltersClosedWindows(t *testing.T) {
	today := date(2024, time.June, 1)

	past := &Offering{CompanyName: "지난종목", SubscriptionStart: date(2024, time.May, 1), SubscriptionEnd: date(2024, time.May, 2)}
	future := &Offering{CompanyName: "미래종목", SubscriptionStart: date(2024, time.July, 1), SubscriptionEnd: date(2024, time.July, 2)}

	got := Upcoming([]*Offering{past, future}, today)
	if len(got) != 1 {
		t.Fatalf("expected 1 upcoming offering, got %d", len(got))
	}
	if got[0].CompanyName != "미래종목" {
		t.Errorf("unexpected survivor: %s", got[0].CompanyName)
	}
}

func TestIsUpcoming(t *testing.T) {
	today := date(2024, time.June, 1)

	tests := []struct {
		name     string
		offering Offering
		expected bool
	}{
		{"window closed", Offering{SubscriptionStart: date(2024, time.May, 1), SubscriptionEnd: date(2024, time.May, 2)}, false},
		{"closes today", Offering{SubscriptionStart: date(2024, time.May, 31), SubscriptionEnd: date(2024, time.June, 1)}, true},
		{"future window", Offering{SubscriptionStart: date(2024, time.July, 1), SubscriptionEnd: date(2024, time.July, 2)}, true},
		{"start only, today", Offering{SubscriptionStart: date(2024, time.June, 1)}, true},
		{"start only, past", Offering{SubscriptionStart: date(2024, time.May, 30)}, false},
		{"no dates at all", Offering{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.offering.IsUpcoming(today); got != tt.expected {
				t.Errorf("IsUpcoming() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIsUpcomingIgnoresTimeOfDay(t *testing.T) {
	// The window closes on the 1st; at 23:59 that day it is still open.
	lateToday := time.Date(2024, time.June, 1, 23, 59, 0, 0, time.UTC)
	o := Offering{SubscriptionEnd: date(2024, time.June, 1)}
	if !o.IsUpcoming(lateToday) {
		t.Error("offering closing today should count as upcoming until midnight")
	}
}

func TestSortBySubscriptionStart(t *testing.T) {
	offerings := []*Offering{
		{CompanyName: "다", SubscriptionStart: date(2026, time.March, 1)},
		{CompanyName: "나"},
		{CompanyName: "가", SubscriptionStart: date(2026, time.January, 15)},
		{CompanyName: "라", SubscriptionStart: date(2026, time.January, 15)},
	}

	SortBySubscriptionStart(offerings)

	want := []string{"가", "라", "다", "나"}
	for i, name := range want {
		if offerings[i].CompanyName != name {
			t.Errorf("position %d: expected %s, got %s", i, name, offerings[i].CompanyName)
		}
	}
}
