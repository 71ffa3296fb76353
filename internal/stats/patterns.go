package stats

import (
	"sort"
	"time"

	"github.com/thebtf/minutes/internal/meeting"
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// HourPeak is the hour of day holding the maximum count.
type HourPeak struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// PatternsReport is the result of the "patterns" statistic: counts by
// hour of day and by day of week (Monday through Sunday).
type PatternsReport struct {
	HourlyPatterns map[int]int    `json:"hourly_patterns"`
	DailyPatterns  map[string]int `json:"daily_patterns"`
	PeakHour       *HourPeak      `json:"peak_hour"`
	PeakDay        *Peak          `json:"peak_day"`
}

// Patterns buckets meeting starts by hour of day and day of week.
func Patterns(meetings []meeting.Meeting) *PatternsReport {
	hourly := make(map[int]int)
	dayIndex := make(map[int]int) // 0=Monday .. 6=Sunday

	for _, m := range meetings {
		if m.StartTime == nil {
			continue
		}
		st := *m.StartTime
		hourly[st.Hour()]++
		dayIndex[(int(st.Weekday())+6)%7]++
	}

	daily := make(map[string]int, len(dayIndex))
	for idx, count := range dayIndex {
		daily[dayNames[idx]] = count
	}

	report := &PatternsReport{
		HourlyPatterns: hourly,
		DailyPatterns:  daily,
	}

	if len(hourly) > 0 {
		hours := make([]int, 0, len(hourly))
		for h := range hourly {
			hours = append(hours, h)
		}
		sort.Ints(hours)
		best := HourPeak{Hour: hours[0], Count: hourly[hours[0]]}
		for _, h := range hours[1:] {
			if hourly[h] > best.Count {
				best = HourPeak{Hour: h, Count: hourly[h]}
			}
		}
		report.PeakHour = &best
	}

	if len(dayIndex) > 0 {
		// Earliest day of week wins ties (Monday first).
		bestIdx, bestCount := -1, -1
		for idx := 0; idx < len(dayNames); idx++ {
			if count, ok := dayIndex[idx]; ok && count > bestCount {
				bestIdx, bestCount = idx, count
			}
		}
		report.PeakDay = &Peak{Bucket: dayNames[bestIdx], Count: bestCount}
	}

	return report
}

// TrendAnalysis compares mean durations between the two halves of the
// date-sorted sequence.
type TrendAnalysis struct {
	Trend         string  `json:"trend"` // "increasing", "decreasing" or "stable"
	FirstHalfAvg  float64 `json:"first_half_avg"`
	SecondHalfAvg float64 `json:"second_half_avg"`
}

// trendSampleMin is the number of dated-and-timed meetings a trend
// needs before it is computed.
const trendSampleMin = 5

// DurationTrend computes the duration statistics and, when more than
// five filtered meetings carry both a date and a duration, a trend:
// the date-sorted durations are split in half (first floor(n/2), the
// remainder second) and the means compared with ±10% bands.
func DurationTrend(meetings []meeting.Meeting) *DurationReport {
	report := Duration(meetings)

	type dated struct {
		start    time.Time
		duration float64
	}
	var samples []dated
	for _, m := range meetings {
		d, ok := m.Duration()
		if !ok || m.StartTime == nil {
			continue
		}
		samples = append(samples, dated{start: *m.StartTime, duration: d.Minutes()})
	}
	if len(samples) <= trendSampleMin {
		return report
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].start.Before(samples[j].start) })

	durations := make([]float64, len(samples))
	for i, s := range samples {
		durations[i] = s.duration
	}

	firstAvg := mean(durations[:len(durations)/2])
	secondAvg := mean(durations[len(durations)/2:])

	trend := "stable"
	switch {
	case secondAvg > firstAvg*1.10:
		trend = "increasing"
	case secondAvg < firstAvg*0.90:
		trend = "decreasing"
	}

	report.TrendAnalysis = &TrendAnalysis{
		Trend:         trend,
		FirstHalfAvg:  firstAvg,
		SecondHalfAvg: secondAvg,
	}
	return report
}
