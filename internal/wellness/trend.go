package wellness

import (
	"sort"
	"time"
)

// TrendPoint is one check-in on the trend chart. Mood and Sleep use the
// 0-10 projection; Stress and Energy are already 0-10.
type TrendPoint struct {
	CheckInID string    `json:"check_in_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Mood      int       `json:"mood"`
	Stress    int       `json:"stress"`
	Energy    int       `json:"energy"`
	Sleep     int       `json:"sleep"`
	Score     int       `json:"score"`
}

func trendPoint(n NormalizedCheckIn) TrendPoint {
	return TrendPoint{
		CheckInID: n.ID,
		Timestamp: n.Timestamp,
		Mood:      n.MoodScaled,
		Stress:    n.Stress,
		Energy:    n.Energy,
		Sleep:     n.SleepScaled,
		Score:     Score(n),
	}
}

// Trend orders history chronologically and appends the current check-in as
// the final point. Without history there is nothing to compare against, so
// it returns an empty slice.
func Trend(current NormalizedCheckIn, history []NormalizedCheckIn) []TrendPoint {
	if len(history) == 0 {
		return []TrendPoint{}
	}
	prior := make([]NormalizedCheckIn, len(history))
	copy(prior, history)
	sort.SliceStable(prior, func(i, j int) bool {
		return prior[i].Timestamp.Before(prior[j].Timestamp)
	})

	points := make([]TrendPoint, 0, len(prior)+1)
	for _, h := range prior {
		points = append(points, trendPoint(h))
	}
	return append(points, trendPoint(current))
}

// scoreChange compares against the most recent history entry.
func scoreChange(score int, history []NormalizedCheckIn) *int {
	if len(history) == 0 {
		return nil
	}
	latest := history[0]
	for _, h := range history[1:] {
		if h.Timestamp.After(latest.Timestamp) {
			latest = h
		}
	}
	delta := score - Score(latest)
	return &delta
}
