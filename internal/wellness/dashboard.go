package wellness

import "time"

type AxisInsight struct {
	Axis     string `json:"axis"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

const (
	axisAttention = "attention"
	axisPositive  = "positive"
)

// AxisInsights produces the per-axis dashboard tips, in mood, stress,
// sleep, energy order.
func AxisInsights(n NormalizedCheckIn) []AxisInsight {
	out := make([]AxisInsight, 0, 4)
	switch {
	case n.Mood <= 2:
		out = append(out, AxisInsight{Axis: "mood", Severity: axisAttention,
			Message: "Your mood seems low. Consider gentle activities like a short walk or listening to music."})
	case n.Mood >= 4:
		out = append(out, AxisInsight{Axis: "mood", Severity: axisPositive,
			Message: "Great mood! This is a perfect time to tackle challenging tasks or connect with others."})
	}
	if n.Stress >= 7 {
		out = append(out, AxisInsight{Axis: "stress", Severity: axisAttention,
			Message: "High stress detected. Try deep breathing exercises or a 5-minute meditation."})
	}
	if n.SleepQuality <= 2 {
		out = append(out, AxisInsight{Axis: "sleep", Severity: axisAttention,
			Message: "Poor sleep quality. Consider a consistent bedtime routine and limiting screen time before bed."})
	}
	if n.Energy <= 3 {
		out = append(out, AxisInsight{Axis: "energy", Severity: axisAttention,
			Message: "Low energy levels. Ensure you're staying hydrated and consider light exercise."})
	}
	return out
}

// BalanceAxis is one spoke of the wellness balance chart, on a 0-10 scale
// where higher is always better.
type BalanceAxis struct {
	Metric   string `json:"metric"`
	Value    int    `json:"value"`
	FullMark int    `json:"full_mark"`
}

func Balance(n NormalizedCheckIn) []BalanceAxis {
	return []BalanceAxis{
		{Metric: "Mood", Value: n.MoodScaled, FullMark: 10},
		{Metric: "Stress", Value: n.StressInverted(), FullMark: 10},
		{Metric: "Energy", Value: n.Energy, FullMark: 10},
		{Metric: "Sleep", Value: n.SleepScaled, FullMark: 10},
		{Metric: "Social", Value: n.SocialScaled, FullMark: 10},
	}
}

var dailyQuotes = []string{
	"Every day is a new opportunity to nurture your mental wellness.",
	"Small steps in self-care lead to big changes in wellbeing.",
	"Your mental health is just as important as your physical health.",
	"Progress, not perfection, is the goal of wellness.",
	"You have the strength to overcome today's challenges.",
}

// DailyQuote picks a quote by the UTC day of month of t.
func DailyQuote(t time.Time) string {
	return dailyQuotes[t.UTC().Day()%len(dailyQuotes)]
}
