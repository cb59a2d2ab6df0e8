// Package wellness derives scores, pattern flags, recommendations and
// clinician notes from self-reported check-ins. It performs no I/O.
package wellness

import (
	"bytes"
	"encoding/json"
	"time"
)

// RawCheckIn is a check-in as submitted, before validation. Numeric fields
// accept JSON numbers or numeric strings; Timestamp accepts a time.Time or
// a string.
type RawCheckIn struct {
	ID               string `json:"id,omitempty"`
	Mood             any    `json:"mood"`
	Stress           any    `json:"stress"`
	SleepQuality     any    `json:"sleep"`
	Energy           any    `json:"energy"`
	SocialConnection any    `json:"social"`
	Timestamp        any    `json:"timestamp"`
}

// UnmarshalJSON accepts both the short field names (sleep, social) and the
// long ones (sleepQuality, socialConnection).
func (r *RawCheckIn) UnmarshalJSON(data []byte) error {
	type plain RawCheckIn
	var aux struct {
		plain
		SleepQualityLong     any `json:"sleepQuality"`
		SocialConnectionLong any `json:"socialConnection"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&aux); err != nil {
		return err
	}
	*r = RawCheckIn(aux.plain)
	if r.SleepQuality == nil {
		r.SleepQuality = aux.SleepQualityLong
	}
	if r.SocialConnection == nil {
		r.SocialConnection = aux.SocialConnectionLong
	}
	return nil
}

// NormalizedCheckIn holds validated axis values plus their 0-10 projections.
type NormalizedCheckIn struct {
	ID               string    `json:"id,omitempty"`
	Mood             int       `json:"mood"`
	Stress           int       `json:"stress"`
	SleepQuality     int       `json:"sleep_quality"`
	Energy           int       `json:"energy"`
	SocialConnection int       `json:"social_connection"`
	Timestamp        time.Time `json:"timestamp"`

	MoodScaled   int `json:"mood_scaled"`
	SleepScaled  int `json:"sleep_scaled"`
	SocialScaled int `json:"social_scaled"`
}

// StressInverted is stress re-expressed in the wellness direction.
func (n NormalizedCheckIn) StressInverted() int { return 10 - n.Stress }

type FlagKind string

const (
	FlagRisk     FlagKind = "risk"
	FlagPositive FlagKind = "positive"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// PatternFlag is a derived observation about a single check-in. Severity is
// only set on risk flags.
type PatternFlag struct {
	Kind     FlagKind `json:"kind"`
	ID       string   `json:"id"`
	Severity Severity `json:"severity,omitempty"`
	Message  string   `json:"message"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type Recommendation struct {
	Category string   `json:"category"`
	Action   string   `json:"action"`
	Priority Priority `json:"priority"`
}

type Band string

const (
	BandThriving       Band = "Thriving"
	BandStable         Band = "Stable"
	BandNeedsAttention Band = "Needs Attention"
)

// Insights is everything derived from one check-in and its trailing history.
type Insights struct {
	CheckInID       string           `json:"check_in_id,omitempty"`
	Score           int              `json:"score"`
	Band            Band             `json:"band"`
	Flags           []PatternFlag    `json:"flags"`
	Recommendations []Recommendation `json:"recommendations"`
	Notes           []string         `json:"notes"`
	Balance         []BalanceAxis    `json:"balance"`
	AxisInsights    []AxisInsight    `json:"axis_insights"`
	Trend           []TrendPoint     `json:"trend"`
	TrendAvailable  bool             `json:"trend_available"`
	ScoreChange     *int             `json:"score_change,omitempty"`
	Quote           string           `json:"quote"`
}

// Risks returns the risk flags in emission order.
func (in *Insights) Risks() []PatternFlag { return filterFlags(in.Flags, FlagRisk) }

// Positives returns the positive flags in emission order.
func (in *Insights) Positives() []PatternFlag { return filterFlags(in.Flags, FlagPositive) }

func filterFlags(flags []PatternFlag, kind FlagKind) []PatternFlag {
	out := make([]PatternFlag, 0, len(flags))
	for _, f := range flags {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
