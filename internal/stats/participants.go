package stats

import (
	"sort"

	"github.com/thebtf/minutes/internal/meeting"
)

// ParticipantCount is one participant with their meeting count.
type ParticipantCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ParticipantsReport is the result of the "participants" statistic.
// An empty input yields only the Error marker.
type ParticipantsReport struct {
	Error                   string             `json:"error,omitempty"`
	UniqueParticipants      int                `json:"unique_participants"`
	TotalParticipations     int                `json:"total_participations"`
	AverageMeetingSize      float64            `json:"average_meeting_size"`
	MedianMeetingSize       float64            `json:"median_meeting_size"`
	MinMeetingSize          int                `json:"min_meeting_size"`
	MaxMeetingSize          int                `json:"max_meeting_size"`
	TopParticipants         []ParticipantCount `json:"top_participants,omitempty"`
	MeetingSizeDistribution map[int]int        `json:"meeting_size_distribution,omitempty"`
}

// NoParticipantData is the explicit marker for the empty report.
const NoParticipantData = "No participant data available"

const topLimit = 10

// Participants computes frequency and meeting-size statistics.
func Participants(meetings []meeting.Meeting) *ParticipantsReport {
	counts := make(map[string]int)
	var order []string // first-seen order for deterministic tie-breaks
	var sizes []float64
	sizeDistribution := make(map[int]int)
	var total int

	for _, m := range meetings {
		size := len(m.Participants)
		sizes = append(sizes, float64(size))
		sizeDistribution[size]++
		for _, p := range m.Participants {
			if _, seen := counts[p]; !seen {
				order = append(order, p)
			}
			counts[p]++
			total++
		}
	}

	if len(counts) == 0 {
		return &ParticipantsReport{Error: NoParticipantData}
	}

	// Sort by descending count; equal counts keep first-seen order.
	top := make([]ParticipantCount, 0, len(order))
	for _, name := range order {
		top = append(top, ParticipantCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > topLimit {
		top = top[:topLimit]
	}

	lo, hi := minMax(sizes)
	return &ParticipantsReport{
		UniqueParticipants:      len(counts),
		TotalParticipations:     total,
		AverageMeetingSize:      mean(sizes),
		MedianMeetingSize:       median(sizes),
		MinMeetingSize:          int(lo),
		MaxMeetingSize:          int(hi),
		TopParticipants:         top,
		MeetingSizeDistribution: sizeDistribution,
	}
}

// PairCount is one unordered participant pair with its co-occurrence count.
type PairCount struct {
	Pair  []string `json:"pair"`
	Count int      `json:"count"`
}

// CollaborationAnalysis summarizes the pair counters.
type CollaborationAnalysis struct {
	TotalUniquePairs int        `json:"total_unique_pairs"`
	MostFrequentPair *PairCount `json:"most_frequent_pair"`
}

// CollaborationReport is the result of the "participants" pattern
// analysis: the participant statistics plus pair co-occurrence data.
type CollaborationReport struct {
	ParticipantsReport
	FrequentCollaborations []PairCount           `json:"frequent_collaborations"`
	Collaboration          CollaborationAnalysis `json:"collaboration_analysis"`
}

// Collaborations counts unordered participant pairs across meetings
// with at least two participants and reports the top ten.
func Collaborations(meetings []meeting.Meeting) *CollaborationReport {
	pairCounts := make(map[[2]string]int)
	var pairOrder [][2]string

	for _, m := range meetings {
		participants := m.Participants
		if len(participants) < 2 {
			continue
		}
		for i, a := range participants {
			for _, b := range participants[i+1:] {
				key := orderedPair(a, b)
				if _, seen := pairCounts[key]; !seen {
					pairOrder = append(pairOrder, key)
				}
				pairCounts[key]++
			}
		}
	}

	pairs := make([]PairCount, 0, len(pairOrder))
	for _, key := range pairOrder {
		pairs = append(pairs, PairCount{Pair: []string{key[0], key[1]}, Count: pairCounts[key]})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Count > pairs[j].Count })

	report := &CollaborationReport{
		ParticipantsReport: *Participants(meetings),
		Collaboration: CollaborationAnalysis{
			TotalUniquePairs: len(pairs),
		},
	}
	if len(pairs) > 0 {
		most := pairs[0]
		report.Collaboration.MostFrequentPair = &most
	}
	if len(pairs) > topLimit {
		pairs = pairs[:topLimit]
	}
	report.FrequentCollaborations = pairs
	return report
}

func orderedPair(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
