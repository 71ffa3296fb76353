// Package cache reads the meeting cache file maintained by the
// upstream recorder.
//
// The file is a JSON envelope {"cache": "<json>"} whose payload is
// itself a JSON-encoded string holding {"state": {"documents": {...},
// "transcripts": {...}}}. Older files store the state object directly
// without the envelope; both layouts are accepted.
package cache

import (
	"errors"
	"fmt"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/thebtf/minutes/internal/meeting"
)

// ErrMalformed is returned when the cache file cannot be decoded.
var ErrMalformed = errors.New("malformed cache file")

// Snapshot is the raw record data of one load: every document plus the
// transcript segments keyed by document ID.
type Snapshot struct {
	Documents   []meeting.RawDocument
	Transcripts map[string][]meeting.RawSegment
}

// Parser loads snapshots from a cache file path. It holds no state
// between loads; the store layer owns caching.
type Parser struct {
	path string
}

// NewParser creates a parser for the given cache file.
func NewParser(path string) *Parser {
	return &Parser{path: path}
}

// Path returns the cache file path.
func (p *Parser) Path() string {
	return p.path
}

type envelope struct {
	Cache string `json:"cache"`
}

type state struct {
	Documents   map[string]json.RawMessage   `json:"documents"`
	Transcripts map[string][]json.RawMessage `json:"transcripts"`
}

type stateWrapper struct {
	State state `json:"state"`
}

// Load reads and decodes the cache file. Individual documents or
// segments that fail to decode are skipped; only an unreadable file or
// an undecodable top level is an error.
func (p *Parser) Load() (*Snapshot, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	st, err := decodeState(data)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Transcripts: make(map[string][]meeting.RawSegment, len(st.Transcripts)),
	}

	for id, raw := range st.Documents {
		var doc meeting.RawDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		if doc.ID == "" {
			doc.ID = id
		}
		snap.Documents = append(snap.Documents, doc)
	}

	// Map iteration order is not stable; keep the snapshot deterministic.
	sort.Slice(snap.Documents, func(i, j int) bool {
		a, b := snap.Documents[i], snap.Documents[j]
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.ID < b.ID
	})

	for id, rawSegments := range st.Transcripts {
		segments := make([]meeting.RawSegment, 0, len(rawSegments))
		for _, raw := range rawSegments {
			var seg meeting.RawSegment
			if err := json.Unmarshal(raw, &seg); err != nil {
				continue
			}
			segments = append(segments, seg)
		}
		if len(segments) > 0 {
			snap.Transcripts[id] = segments
		}
	}

	return snap, nil
}

func decodeState(data []byte) (*state, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Cache != "" {
		var wrapper stateWrapper
		if err := json.Unmarshal([]byte(env.Cache), &wrapper); err != nil {
			return nil, fmt.Errorf("%w: inner payload: %v", ErrMalformed, err)
		}
		return &wrapper.State, nil
	}

	var wrapper stateWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &wrapper.State, nil
}
