// Package dates resolves relative and absolute date expressions into
// instants in the canonical time zone.
//
// Two grammars are accepted: relative expressions like "3d", "24h" or
// "1w" meaning that far before a reference instant, and absolute
// expressions "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS". Month and year
// units are fixed-length approximations (30 and 365 days); calendar
// arithmetic is intentionally not used.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned when an expression matches neither the
// relative nor the absolute grammar.
var ErrInvalidFormat = errors.New("invalid date format")

var (
	relativePattern = regexp.MustCompile(`^(\d+)([hdwmy])$`)
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2}:\d{2})$`)
	alphaPattern    = regexp.MustCompile(`[a-zA-Z]`)
)

// Unit lengths for relative expressions.
var unitLengths = map[string]time.Duration{
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
	"m": 30 * 24 * time.Hour,  // months approximated as 30 days
	"y": 365 * 24 * time.Hour, // years approximated as 365 days
}

// Resolver parses date expressions in a single canonical time zone.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// NewResolver creates a Resolver for the given canonical time zone.
func NewResolver(loc *time.Location) *Resolver {
	return &Resolver{loc: loc, now: time.Now}
}

// NewResolverAt creates a Resolver with a fixed clock, for tests.
func NewResolverAt(loc *time.Location, now func() time.Time) *Resolver {
	return &Resolver{loc: loc, now: now}
}

// Location returns the canonical time zone of the resolver.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Now returns the current instant in the canonical time zone.
func (r *Resolver) Now() time.Time {
	return r.now().In(r.loc)
}

// Parse resolves a relative or absolute date expression. A zero ref
// means "now". Expressions containing any alphabetic character are
// treated as relative; a malformed relative token such as "3x" fails
// rather than falling through to the absolute grammars.
func (r *Resolver) Parse(input string, ref time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(input)

	if alphaPattern.MatchString(trimmed) {
		return r.parseRelative(trimmed, ref)
	}

	if datePattern.MatchString(trimmed) {
		return r.parseAbsolute(trimmed, "00:00:00")
	}

	if m := dateTimePattern.FindStringSubmatch(trimmed); m != nil {
		return r.parseAbsolute(m[1], m[2])
	}

	return time.Time{}, fmt.Errorf("%w: %q (expected relative like 3d, 24h, 1w or absolute YYYY-MM-DD)", ErrInvalidFormat, input)
}

// Range resolves a start expression and an optional end expression into
// an ordered (from, to) pair. An empty end means the reference instant.
// A bare absolute end date is advanced to 23:59:59 so the whole day is
// included. If the resolved start exceeds the end the pair is swapped;
// the range is always returned ascending.
func (r *Resolver) Range(start, end string, ref time.Time) (time.Time, time.Time, error) {
	if ref.IsZero() {
		ref = r.Now()
	}

	from, err := r.Parse(start, ref)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	var to time.Time
	if end == "" {
		to = ref
	} else {
		to, err = r.Parse(end, ref)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Bare absolute dates are inclusive of the whole day.
		if datePattern.MatchString(strings.TrimSpace(end)) {
			to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, r.loc)
		}
	}

	if from.After(to) {
		from, to = to, from
	}

	return from, to, nil
}

func (r *Resolver) parseRelative(input string, ref time.Time) (time.Time, error) {
	if ref.IsZero() {
		ref = r.Now()
	}

	m := relativePattern.FindStringSubmatch(strings.ToLower(input))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected format like 3d, 24h, 1w)", ErrInvalidFormat, input)
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
	}

	return ref.Add(-time.Duration(amount) * unitLengths[m[2]]), nil
}

func (r *Resolver) parseAbsolute(dateStr, timeStr string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", dateStr+" "+timeStr, r.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidFormat, dateStr)
	}
	return t, nil
}

// FormatDisplay renders an instant for human-readable output.
func FormatDisplay(t time.Time, includeZone bool) string {
	if includeZone {
		return t.Format("2006-01-02 15:04:05 MST")
	}
	return t.Format("2006-01-02 15:04:05")
}
