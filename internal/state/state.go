// Package state persists the mapping from offering event keys to the
// Google Calendar event ids they produced, so repeated runs never create
// duplicate events.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const fileName = "sync_state.json"

// Entry records one synced calendar event.
type Entry struct {
	EventID  string    `json:"event_id"`
	Title    string    `json:"title"`
	SyncedAt time.Time `json:"synced_at"`
}

// Store is the on-disk dedup store. Default runs only add keys; cleanup
// removes the keys of deleted events and a resync rewrites the file wholesale.
type Store struct {
	path    string
	Version int              `json:"version"`
	Updated time.Time        `json:"updated_at"`
	Entries map[string]Entry `json:"entries"`
}

// Load reads the store from dataDir, creating the directory if needed.
// A missing file yields an empty store.
func Load(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{
		path:    filepath.Join(dataDir, fileName),
		Version: 1,
		Entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading sync state: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing sync state: %w", err)
	}
	if s.Entries == nil {
		s.Entries = make(map[string]Entry)
	}
	return s, nil
}

// Contains reports whether key has already been synced.
func (s *Store) Contains(key string) bool {
	_, ok := s.Entries[key]
	return ok
}

// Get returns the entry for key, if any.
func (s *Store) Get(key string) (Entry, bool) {
	e, ok := s.Entries[key]
	return e, ok
}

// Record adds or replaces the entry for key. Call Save to persist.
func (s *Store) Record(key, eventID, title string) {
	s.Entries[key] = Entry{
		EventID:  eventID,
		Title:    title,
		SyncedAt: time.Now().UTC(),
	}
}

// Remove drops the entry for key, if present. Cleanup calls this for every
// event it deletes so the store only ever maps to live events.
func (s *Store) Remove(key string) {
	delete(s.Entries, key)
}

// Reset drops all entries. Used by a full resync, never by a normal run.
func (s *Store) Reset() {
	s.Entries = make(map[string]Entry)
}

// Len returns the number of synced keys.
func (s *Store) Len() int {
	return len(s.Entries)
}

// Save writes the store back to disk.
func (s *Store) Save() error {
	s.Updated = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sync state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing sync state: %w", err)
	}
	return nil
}
