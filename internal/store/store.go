// Package store owns the in-memory record set built from the cache
// file: loaded lazily on first access, held for the process lifetime,
// and replaced wholesale by an explicit refresh.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/minutes/internal/cache"
	"github.com/thebtf/minutes/internal/meeting"
)

// Store caches the meeting snapshot. Reads and the refresh swap are
// guarded by an RWMutex so a concurrent caller never observes a
// half-replaced set.
type Store struct {
	mu       sync.RWMutex
	parser   *cache.Parser
	loc      *time.Location
	meetings []meeting.Meeting
	loaded   bool
}

// New creates a Store reading through the given parser. The snapshot
// is not loaded until first access.
func New(parser *cache.Parser, loc *time.Location) *Store {
	return &Store{parser: parser, loc: loc}
}

// Meetings returns the cached snapshot, loading it on first access.
// The returned slice is a read-only snapshot; callers must not mutate it.
func (s *Store) Meetings() ([]meeting.Meeting, error) {
	s.mu.RLock()
	if s.loaded {
		meetings := s.meetings
		s.mu.RUnlock()
		return meetings, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.meetings, nil
	}

	meetings, err := s.load()
	if err != nil {
		return nil, err
	}
	s.meetings = meetings
	s.loaded = true
	return meetings, nil
}

// Get returns the meeting with the given id. The first match wins if
// the cache ever contains duplicate ids.
func (s *Store) Get(id string) (meeting.Meeting, bool, error) {
	meetings, err := s.Meetings()
	if err != nil {
		return meeting.Meeting{}, false, err
	}
	for _, m := range meetings {
		if m.ID == id {
			return m, true, nil
		}
	}
	return meeting.Meeting{}, false, nil
}

// Count returns the number of currently cached meetings without
// triggering a load.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}

// Refresh reloads the snapshot from the cache file and swaps it in
// atomically. On failure the previous snapshot stays in place. Returns
// the counts before and after the swap.
func (s *Store) Refresh() (previous, current int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous = len(s.meetings)

	meetings, err := s.load()
	if err != nil {
		return previous, previous, err
	}

	s.meetings = meetings
	s.loaded = true
	return previous, len(meetings), nil
}

func (s *Store) load() ([]meeting.Meeting, error) {
	snap, err := s.parser.Load()
	if err != nil {
		return nil, fmt.Errorf("load meetings: %w", err)
	}

	meetings := make([]meeting.Meeting, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		meetings = append(meetings, meeting.FromRaw(doc, snap.Transcripts[doc.ID], s.loc))
	}

	log.Debug().Int("meetings", len(meetings)).Str("path", s.parser.Path()).Msg("Loaded meeting snapshot")
	return meetings, nil
}
