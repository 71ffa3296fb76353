// Package stats computes descriptive statistics over filtered meeting
// snapshots. All functions are pure; empty input degrades to explicit
// no-data markers rather than errors.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/thebtf/minutes/internal/meeting"
)

// Peak is the bucket holding the maximum count for one granularity.
// Ties are broken by the earliest bucket key.
type Peak struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// DateRange describes the date coverage of a snapshot.
type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
	SpanDays int    `json:"span_days"`
}

// DurationSummary holds central-tendency figures over durations in minutes.
type DurationSummary struct {
	TotalMinutes   float64 `json:"total_minutes"`
	AverageMinutes float64 `json:"average_minutes"`
	MedianMinutes  float64 `json:"median_minutes"`
	MinMinutes     float64 `json:"min_minutes"`
	MaxMinutes     float64 `json:"max_minutes"`
}

// ParticipantSummary holds the participant block of the summary report.
type ParticipantSummary struct {
	UniqueParticipants            int     `json:"unique_participants"`
	TotalParticipations           int     `json:"total_participations"`
	AverageParticipantsPerMeeting float64 `json:"average_participants_per_meeting"`
}

// SummaryReport is the result of the "summary" statistic.
type SummaryReport struct {
	TotalMeetings         int                `json:"total_meetings"`
	DateCoverage          string             `json:"date_coverage"`
	DurationCoverage      string             `json:"duration_coverage"`
	TranscriptCoverage    string             `json:"transcript_coverage"`
	DateRange             *DateRange         `json:"date_range"`
	DurationStatistics    *DurationSummary   `json:"duration_statistics"`
	ParticipantStatistics ParticipantSummary `json:"participant_statistics"`
}

// Summary computes totals, coverage ratios, date span, duration and
// participant aggregates for a snapshot.
func Summary(meetings []meeting.Meeting) *SummaryReport {
	total := len(meetings)

	var withDates, withDurations, withTranscripts int
	var dates []time.Time
	var durations []float64
	unique := make(map[string]struct{})
	var participations int

	for _, m := range meetings {
		if m.StartTime != nil {
			withDates++
			dates = append(dates, *m.StartTime)
		}
		if d, ok := m.Duration(); ok {
			withDurations++
			durations = append(durations, d.Minutes())
		}
		if m.HasTranscript() {
			withTranscripts++
		}
		for _, p := range m.Participants {
			unique[p] = struct{}{}
		}
		participations += len(m.Participants)
	}

	report := &SummaryReport{
		TotalMeetings:      total,
		DateCoverage:       coverage(withDates, total),
		DurationCoverage:   coverage(withDurations, total),
		TranscriptCoverage: coverage(withTranscripts, total),
		ParticipantStatistics: ParticipantSummary{
			UniqueParticipants:  len(unique),
			TotalParticipations: participations,
		},
	}
	if total > 0 {
		report.ParticipantStatistics.AverageParticipantsPerMeeting = float64(participations) / float64(total)
	}

	if len(dates) > 0 {
		earliest, latest := dates[0], dates[0]
		for _, d := range dates[1:] {
			if d.Before(earliest) {
				earliest = d
			}
			if d.After(latest) {
				latest = d
			}
		}
		report.DateRange = &DateRange{
			Earliest: earliest.Format(time.RFC3339),
			Latest:   latest.Format(time.RFC3339),
			SpanDays: int(latest.Sub(earliest).Hours() / 24),
		}
	}

	if len(durations) > 0 {
		lo, hi := minMax(durations)
		report.DurationStatistics = &DurationSummary{
			TotalMinutes:   sum(durations),
			AverageMinutes: mean(durations),
			MedianMinutes:  median(durations),
			MinMinutes:     lo,
			MaxMinutes:     hi,
		}
	}

	return report
}

func coverage(have, total int) string {
	return fmt.Sprintf("%d/%d", have, total)
}

// FrequencyReport is the result of the "frequency" statistic: counts
// bucketed by calendar day, ISO week (Monday start), and month.
type FrequencyReport struct {
	DailyFrequency   map[string]int `json:"daily_frequency"`
	WeeklyFrequency  map[string]int `json:"weekly_frequency"`
	MonthlyFrequency map[string]int `json:"monthly_frequency"`
	PeakDay          *Peak          `json:"peak_day"`
	PeakWeek         *Peak          `json:"peak_week"`
	PeakMonth        *Peak          `json:"peak_month"`
}

// Frequency buckets meeting counts per day, week and month.
func Frequency(meetings []meeting.Meeting) *FrequencyReport {
	daily := make(map[string]int)
	weekly := make(map[string]int)
	monthly := make(map[string]int)

	for _, m := range meetings {
		if m.StartTime == nil {
			continue
		}
		st := *m.StartTime
		daily[st.Format("2006-01-02")]++
		weekly[weekStart(st).Format("2006-01-02")]++
		monthly[st.Format("2006-01")]++
	}

	return &FrequencyReport{
		DailyFrequency:   daily,
		WeeklyFrequency:  weekly,
		MonthlyFrequency: monthly,
		PeakDay:          peakOf(daily),
		PeakWeek:         peakOf(weekly),
		PeakMonth:        peakOf(monthly),
	}
}

// weekStart returns the Monday of the week containing t.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
}

// peakOf returns the bucket with the maximum count; on ties the
// earliest key wins. Nil for an empty map.
func peakOf(buckets map[string]int) *Peak {
	if len(buckets) == 0 {
		return nil
	}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := Peak{Bucket: keys[0], Count: buckets[keys[0]]}
	for _, k := range keys[1:] {
		if buckets[k] > best.Count {
			best = Peak{Bucket: k, Count: buckets[k]}
		}
	}
	return &best
}

// DurationReport is the result of the "duration" statistic. An empty
// input yields only the Error marker; statistics are never an error.
type DurationReport struct {
	Error                string         `json:"error,omitempty"`
	TotalMeetings        int            `json:"total_meetings"`
	TotalMinutes         float64        `json:"total_minutes"`
	AverageMinutes       float64        `json:"average_minutes"`
	MedianMinutes        float64        `json:"median_minutes"`
	MinMinutes           float64        `json:"min_minutes"`
	MaxMinutes           float64        `json:"max_minutes"`
	StdDevMinutes        float64        `json:"std_dev_minutes"`
	DurationDistribution map[string]int `json:"duration_distribution,omitempty"`
	TrendAnalysis        *TrendAnalysis `json:"trend_analysis,omitempty"`
}

// NoDurationData is the explicit marker for the empty duration report.
const NoDurationData = "No duration data available"

// Histogram bucket labels, inclusive on the lower bucket boundary.
var durationBuckets = []struct {
	label string
	upper float64
}{
	{"0-15 min", 15},
	{"15-30 min", 30},
	{"30-60 min", 60},
	{"60-90 min", 90},
}

const overflowBucket = "90+ min"

// Duration computes count, sum, mean, median, min, max, sample standard
// deviation and a fixed five-bucket histogram over known durations.
func Duration(meetings []meeting.Meeting) *DurationReport {
	var durations []float64
	for _, m := range meetings {
		if d, ok := m.Duration(); ok {
			durations = append(durations, d.Minutes())
		}
	}

	if len(durations) == 0 {
		return &DurationReport{Error: NoDurationData}
	}

	distribution := map[string]int{overflowBucket: 0}
	for _, b := range durationBuckets {
		distribution[b.label] = 0
	}
	for _, d := range durations {
		bucketed := false
		for _, b := range durationBuckets {
			if d <= b.upper {
				distribution[b.label]++
				bucketed = true
				break
			}
		}
		if !bucketed {
			distribution[overflowBucket]++
		}
	}

	lo, hi := minMax(durations)
	return &DurationReport{
		TotalMeetings:        len(durations),
		TotalMinutes:         sum(durations),
		AverageMinutes:       mean(durations),
		MedianMinutes:        median(durations),
		MinMinutes:           lo,
		MaxMinutes:           hi,
		StdDevMinutes:        sampleStdDev(durations),
		DurationDistribution: distribution,
	}
}
