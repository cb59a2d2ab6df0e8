package wellness

// DeriveInsights validates the check-in and its history, then derives the
// full insight set. Any validation failure aborts before derivation.
func DeriveInsights(raw RawCheckIn, history []RawCheckIn) (*Insights, error) {
	n, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	prior, err := NormalizeAll(history)
	if err != nil {
		return nil, err
	}
	return Derive(n, prior), nil
}

// Derive cannot fail: every branch is total over validated input.
func Derive(n NormalizedCheckIn, history []NormalizedCheckIn) *Insights {
	score := Score(n)
	flags := DetectPatterns(n)
	trend := Trend(n, history)

	return &Insights{
		CheckInID:       n.ID,
		Score:           score,
		Band:            BandFor(score),
		Flags:           flags,
		Recommendations: Recommend(n),
		Notes:           ClinicianNotes(n, flags),
		Balance:         Balance(n),
		AxisInsights:    AxisInsights(n),
		Trend:           trend,
		TrendAvailable:  len(trend) > 0,
		ScoreChange:     scoreChange(score, history),
		Quote:           DailyQuote(n.Timestamp),
	}
}
