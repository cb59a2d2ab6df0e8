package wellness

type patternRule struct {
	id       string
	kind     FlagKind
	severity Severity
	message  string
	match    func(n NormalizedCheckIn) bool
}

// Rules read the original axis values, never the 0-10 projections. Order
// here is the emission order.
var patternRules = []patternRule{
	{
		id:       "high-stress-low-energy",
		kind:     FlagRisk,
		severity: SeverityHigh,
		message:  "High stress combined with low energy may indicate burnout risk",
		match:    func(n NormalizedCheckIn) bool { return n.Stress >= 7 && n.Energy <= 3 },
	},
	{
		id:       "mood-sleep-pattern",
		kind:     FlagRisk,
		severity: SeverityMedium,
		message:  "Poor sleep quality may be contributing to low mood",
		match:    func(n NormalizedCheckIn) bool { return n.Mood <= 2 && n.SleepQuality <= 2 },
	},
	{
		id:       "chronic-stress",
		kind:     FlagRisk,
		severity: SeverityHigh,
		message:  "Consistently high stress levels detected",
		match:    func(n NormalizedCheckIn) bool { return n.Stress >= 8 },
	},
	{
		id:      "high-wellbeing",
		kind:    FlagPositive,
		message: "Strong positive mood and energy correlation detected",
		match:   func(n NormalizedCheckIn) bool { return n.Mood >= 4 && n.Energy >= 7 },
	},
	{
		id:      "sleep-energy",
		kind:    FlagPositive,
		message: "Good sleep quality is supporting your energy levels",
		match:   func(n NormalizedCheckIn) bool { return n.SleepQuality >= 4 && n.Energy >= 6 },
	},
}

// DetectPatterns evaluates every rule independently. The result is never
// nil; an empty slice means no rule matched.
func DetectPatterns(n NormalizedCheckIn) []PatternFlag {
	flags := make([]PatternFlag, 0, len(patternRules))
	for _, r := range patternRules {
		if !r.match(n) {
			continue
		}
		flags = append(flags, PatternFlag{
			Kind:     r.kind,
			ID:       r.id,
			Severity: r.severity,
			Message:  r.message,
		})
	}
	return flags
}
