// Package tools implements the closed registry of meeting query tools
// and dispatches calls to them. The registry is the single boundary
// where handler failures are converted into the uniform tool error.
package tools

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/minutes/internal/dates"
	"github.com/thebtf/minutes/internal/filter"
	"github.com/thebtf/minutes/internal/meeting"
	"github.com/thebtf/minutes/internal/store"
)

// Definition describes one tool for the tools/list surface.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type handler func(args json.RawMessage) (any, error)

// Registry holds the fixed tool set. Tools cannot be registered at
// runtime; the set is closed at construction.
type Registry struct {
	store    *store.Store
	resolver *dates.Resolver
	lookback string

	defs     []Definition
	handlers map[string]handler
}

// New creates the registry over the given store and resolver. lookback
// is the relative-date window applied when a search or list call names
// no dates at all, e.g. "3d".
func New(st *store.Store, resolver *dates.Resolver, lookback string) *Registry {
	r := &Registry{
		store:    st,
		resolver: resolver,
		lookback: lookback,
		handlers: make(map[string]handler),
	}

	register := func(def Definition, h handler) {
		r.defs = append(r.defs, def)
		r.handlers[def.Name] = h
	}

	register(searchMeetingsDef, r.searchMeetings)
	register(getRecentMeetingsDef, r.getRecentMeetings)
	register(listMeetingsDef, r.listMeetings)
	register(getMeetingDef, r.getMeeting)
	register(getTranscriptDef, r.getTranscript)
	register(getMeetingNotesDef, r.getMeetingNotes)
	register(listParticipantsDef, r.listParticipants)
	register(getStatisticsDef, r.getStatistics)
	register(exportMeetingDef, r.exportMeeting)
	register(analyzePatternsDef, r.analyzePatterns)
	register(refreshCacheDef, r.refreshCache)

	return r
}

// Definitions returns the tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	return r.defs
}

// Execute dispatches one tool call. Every failure comes back as *Error;
// the underlying taxonomy error stays reachable through errors.Is.
func (r *Registry) Execute(name string, args json.RawMessage) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("unknown tool: %s", name), cause: ErrUnknownTool}
	}

	result, err := h(args)
	if err != nil {
		log.Debug().Str("tool", name).Err(err).Msg("Tool call failed")
		return nil, asToolError(err)
	}
	return result, nil
}

func unmarshalArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// window resolves the optional from/to expressions into pointer bounds
// for the filter pipeline. A lone from is bounded above by now; a lone
// to is floored at the zero time so every dated record qualifies.
func (r *Registry) window(fromExpr, toExpr string) (*time.Time, *time.Time, error) {
	switch {
	case fromExpr == "" && toExpr == "":
		return nil, nil, nil

	case fromExpr != "" && toExpr != "":
		from, to, err := r.resolver.Range(fromExpr, toExpr, time.Time{})
		if err != nil {
			return nil, nil, err
		}
		return &from, &to, nil

	case fromExpr != "":
		from, err := r.resolver.Parse(fromExpr, time.Time{})
		if err != nil {
			return nil, nil, err
		}
		to := r.resolver.Now()
		return &from, &to, nil

	default:
		to, err := r.resolver.Parse(toExpr, time.Time{})
		if err != nil {
			return nil, nil, err
		}
		from := time.Time{}
		return &from, &to, nil
	}
}

// filtered loads the snapshot and applies an optional date window.
func (r *Registry) filtered(fromExpr, toExpr string) ([]meeting.Meeting, error) {
	from, to, err := r.window(fromExpr, toExpr)
	if err != nil {
		return nil, err
	}
	meetings, err := r.store.Meetings()
	if err != nil {
		return nil, err
	}
	return filter.Apply(meetings, filter.Params{From: from, To: to}), nil
}
