package wellness

const (
	thrivingThreshold = 70
	stableThreshold   = 50
)

// Score is the equal-weighted mean of four 0-100 axis contributions
// (mood, inverted stress, energy, sleep), rounded half up.
func Score(n NormalizedCheckIn) int {
	total := n.Mood*20 + n.StressInverted()*10 + n.Energy*10 + n.SleepQuality*20
	return (total + 2) / 4
}

// BandFor maps a score to its display band.
func BandFor(score int) Band {
	switch {
	case score >= thrivingThreshold:
		return BandThriving
	case score >= stableThreshold:
		return BandStable
	default:
		return BandNeedsAttention
	}
}
