package gcal

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

// EventsAPI is the slice of the Calendar API the sync logic needs. The
// production implementation wraps the Google client; tests and dry runs
// substitute fakes.
type EventsAPI interface {
	// Find returns the first event matching the private extended property
	// ("key=value"), or nil if none exists.
	Find(privateProp string) (*calendar.Event, error)
	// ListAll pages through every event matching the property.
	ListAll(privateProp string) ([]*calendar.Event, error)
	// ListUpcoming returns future events matching the property, ordered by
	// start time.
	ListUpcoming(privateProp string, maxResults int64) ([]*calendar.Event, error)
	Insert(ev *calendar.Event) (*calendar.Event, error)
	Update(eventID string, ev *calendar.Event) (*calendar.Event, error)
	Delete(eventID string) error
	// CalendarSummary returns the display name of the target calendar.
	CalendarSummary() (string, error)
}

type googleAPI struct {
	svc        *calendar.Service
	calendarID string
}

// NewEventsAPI wraps an authenticated service for one calendar.
func NewEventsAPI(svc *calendar.Service, calendarID string) EventsAPI {
	return &googleAPI{svc: svc, calendarID: calendarID}
}

func (g *googleAPI) Find(privateProp string) (*calendar.Event, error) {
	res, err := g.svc.Events.List(g.calendarID).
		PrivateExtendedProperty(privateProp).
		SingleEvents(true).
		MaxResults(1).
		Do()
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, nil
	}
	return res.Items[0], nil
}

func (g *googleAPI) ListAll(privateProp string) ([]*calendar.Event, error) {
	var all []*calendar.Event
	pageToken := ""
	for {
		call := g.svc.Events.List(g.calendarID).
			PrivateExtendedProperty(privateProp).
			SingleEvents(true).
			MaxResults(250)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return all, err
		}
		all = append(all, res.Items...)
		pageToken = res.NextPageToken
		if pageToken == "" {
			return all, nil
		}
	}
}

func (g *googleAPI) ListUpcoming(privateProp string, maxResults int64) ([]*calendar.Event, error) {
	res, err := g.svc.Events.List(g.calendarID).
		PrivateExtendedProperty(privateProp).
		TimeMin(time.Now().UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults).
		Do()
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (g *googleAPI) Insert(ev *calendar.Event) (*calendar.Event, error) {
	return g.svc.Events.Insert(g.calendarID, ev).Do()
}

func (g *googleAPI) Update(eventID string, ev *calendar.Event) (*calendar.Event, error) {
	return g.svc.Events.Update(g.calendarID, eventID, ev).Do()
}

func (g *googleAPI) Delete(eventID string) error {
	return g.svc.Events.Delete(g.calendarID, eventID).Do()
}

func (g *googleAPI) CalendarSummary() (string, error) {
	cal, err := g.svc.Calendars.Get(g.calendarID).Do()
	if err != nil {
		return "", fmt.Errorf("getting calendar %s: %w", g.calendarID, err)
	}
	return cal.Summary, nil
}
