package wellness

import "sort"

// MaxRecommendations caps the ranked list.
const MaxRecommendations = 5

type recommendationRule struct {
	rec   Recommendation
	match func(n NormalizedCheckIn) bool
}

var recommendationRules = []recommendationRule{
	{
		rec:   Recommendation{Category: "Stress Management", Action: "Practice 10 minutes of deep breathing daily", Priority: PriorityHigh},
		match: func(n NormalizedCheckIn) bool { return n.Stress >= 6 },
	},
	{
		rec:   Recommendation{Category: "Sleep Hygiene", Action: "Establish a consistent bedtime routine", Priority: PriorityHigh},
		match: func(n NormalizedCheckIn) bool { return n.SleepQuality <= 3 },
	},
	{
		rec:   Recommendation{Category: "Energy Boost", Action: "Take a 15-minute walk in natural light", Priority: PriorityMedium},
		match: func(n NormalizedCheckIn) bool { return n.Energy <= 4 },
	},
	{
		rec:   Recommendation{Category: "Mood Support", Action: "Connect with a friend or loved one today", Priority: PriorityMedium},
		match: func(n NormalizedCheckIn) bool { return n.Mood <= 3 },
	},
}

// Always appended after the conditional rules, in this order.
var fallbackRecommendations = []Recommendation{
	{Category: "Mindfulness", Action: "Practice gratitude by writing down 3 positive things", Priority: PriorityLow},
	{Category: "Physical Wellness", Action: "Stay hydrated with 8 glasses of water", Priority: PriorityLow},
}

// Recommend returns between 1 and MaxRecommendations suggestions, sorted by
// priority and stable within a priority.
func Recommend(n NormalizedCheckIn) []Recommendation {
	out := make([]Recommendation, 0, len(recommendationRules)+len(fallbackRecommendations))
	for _, r := range recommendationRules {
		if r.match(n) {
			out = append(out, r.rec)
		}
	}
	out = append(out, fallbackRecommendations...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() < out[j].Priority.rank()
	})
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}
