package gcal

import (
	"github.com/sirupsen/logrus"
	"google.golang.org/api/calendar/v3"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
	"github.com/jiundev/gongmo-calendar/internal/state"
)

// SyncAction classifies the outcome of syncing a single calendar event.
type SyncAction string

const (
	ActionCreate SyncAction = "create"
	ActionUpdate SyncAction = "update"
	ActionSkip   SyncAction = "skip"
	ActionDelete SyncAction = "delete"
	ActionError  SyncAction = "error"
)

// SyncResult is the outcome of one event sync.
type SyncResult struct {
	Action     SyncAction
	Key        string
	EventTitle string
	EventID    string
	EventLink  string
	EventType  ipo.EventType
	Err        error
}

// Success reports whether the sync completed without an API error.
func (r SyncResult) Success() bool { return r.Action != ActionError }

// Client performs offering-to-calendar synchronization, consulting the local
// dedup store before touching the API.
type Client struct {
	api   EventsAPI
	store *state.Store
}

// NewClient creates a sync client.
func NewClient(api EventsAPI, store *state.Store) *Client {
	return &Client{api: api, store: store}
}

// SyncOffering creates or updates the calendar events for one offering.
// A failure on one event is recorded and does not stop the others.
func (c *Client) SyncOffering(o *ipo.Offering) []SyncResult {
	events := o.CalendarEvents()
	results := make([]SyncResult, 0, len(events))
	for _, ev := range events {
		results = append(results, c.syncEvent(ev))
	}
	return results
}

func (c *Client) syncEvent(ce ipo.CalendarEvent) SyncResult {
	title := ce.Event.Summary

	// Local store first: a known key means the event was created by an
	// earlier run and nothing on the wire is needed.
	if entry, ok := c.store.Get(ce.Key); ok {
		logrus.Debugf("이벤트 스킵 (동기화 기록 있음): %s", title)
		return SyncResult{Action: ActionSkip, Key: ce.Key, EventTitle: title, EventID: entry.EventID, EventType: ce.Type}
	}

	// The store can be lost or stale; check the calendar itself before
	// inserting so we update instead of duplicating.
	existing, err := c.api.Find("ipo_event_id=" + ce.Key)
	if err != nil {
		logrus.WithError(err).Warnf("이벤트 검색 실패: %s", title)
		existing = nil
	}

	if existing == nil {
		created, err := c.api.Insert(ce.Event)
		if err != nil {
			logrus.WithError(err).Errorf("이벤트 생성 실패: %s", title)
			return SyncResult{Action: ActionError, Key: ce.Key, EventTitle: title, EventType: ce.Type, Err: err}
		}
		c.store.Record(ce.Key, created.Id, title)
		logrus.Infof("이벤트 생성: %s", title)
		return SyncResult{Action: ActionCreate, Key: ce.Key, EventTitle: title, EventID: created.Id, EventLink: created.HtmlLink, EventType: ce.Type}
	}

	if shouldUpdate(existing, ce.Event) {
		updated, err := c.api.Update(existing.Id, ce.Event)
		if err != nil {
			logrus.WithError(err).Errorf("이벤트 수정 실패: %s", title)
			return SyncResult{Action: ActionError, Key: ce.Key, EventTitle: title, EventType: ce.Type, Err: err}
		}
		c.store.Record(ce.Key, updated.Id, title)
		logrus.Infof("이벤트 수정: %s", title)
		return SyncResult{Action: ActionUpdate, Key: ce.Key, EventTitle: title, EventID: updated.Id, EventLink: updated.HtmlLink, EventType: ce.Type}
	}

	// Heal the store: the event exists upstream but we had no record of it.
	c.store.Record(ce.Key, existing.Id, title)
	logrus.Debugf("이벤트 스킵 (변경 없음): %s", title)
	return SyncResult{Action: ActionSkip, Key: ce.Key, EventTitle: title, EventID: existing.Id, EventLink: existing.HtmlLink, EventType: ce.Type}
}

// shouldUpdate compares the fields we render into events. Descriptions are
// compared by length only; they embed no volatile data beyond the fields
// already checked.
func shouldUpdate(existing, next *calendar.Event) bool {
	if existing.Summary != next.Summary {
		return true
	}
	if dateOf(existing.Start) != dateOf(next.Start) {
		return true
	}
	if dateOf(existing.End) != dateOf(next.End) {
		return true
	}
	return len(existing.Description) != len(next.Description)
}

func dateOf(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	return dt.DateTime
}

// ListUpcoming returns future events created by this bot.
func (c *Client) ListUpcoming(maxResults int64) ([]*calendar.Event, error) {
	return c.api.ListUpcoming("source="+ipo.SourceTag, maxResults)
}

// CalendarSummary returns the target calendar's display name.
func (c *Client) CalendarSummary() (string, error) {
	return c.api.CalendarSummary()
}

// CleanupAll deletes every event this bot has created on the calendar.
func (c *Client) CleanupAll() []SyncResult {
	return c.cleanup("source=" + ipo.SourceTag)
}

// CleanupCompany deletes all events for one company.
func (c *Client) CleanupCompany(companyName string) []SyncResult {
	return c.cleanup("company_name=" + companyName)
}

func (c *Client) cleanup(privateProp string) []SyncResult {
	events, err := c.api.ListAll(privateProp)
	if err != nil {
		logrus.WithError(err).Error("이벤트 검색 실패")
		if len(events) == 0 {
			return []SyncResult{{Action: ActionError, Err: err}}
		}
	}
	logrus.Infof("삭제할 이벤트 %d개 발견", len(events))

	results := make([]SyncResult, 0, len(events))
	for _, ev := range events {
		key := eventKeyOf(ev)
		if err := c.api.Delete(ev.Id); err != nil {
			logrus.WithError(err).Errorf("이벤트 삭제 실패: %s", ev.Summary)
			results = append(results, SyncResult{Action: ActionError, Key: key, EventTitle: ev.Summary, EventID: ev.Id, Err: err})
			continue
		}
		// Drop the dedup record so a later run can re-register the event.
		if key != "" {
			c.store.Remove(key)
		}
		logrus.Infof("이벤트 삭제: %s", ev.Summary)
		results = append(results, SyncResult{Action: ActionDelete, Key: key, EventTitle: ev.Summary, EventID: ev.Id})
	}
	return results
}

func eventKeyOf(ev *calendar.Event) string {
	if ev.ExtendedProperties == nil {
		return ""
	}
	return ev.ExtendedProperties.Private["ipo_event_id"]
}
