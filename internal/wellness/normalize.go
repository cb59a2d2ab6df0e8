package wellness

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	FieldMood             = "mood"
	FieldStress           = "stress"
	FieldSleepQuality     = "sleep"
	FieldEnergy           = "energy"
	FieldSocialConnection = "social"
	FieldTimestamp        = "timestamp"
)

var (
	ordinalBound = Bound{Min: 1, Max: 5}
	scaleBound   = Bound{Min: 0, Max: 10}
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize validates a raw check-in and projects its ordinal axes onto the
// common 0-10 scale. Fields are checked in declaration order and the first
// failure is returned; nothing is clamped.
func Normalize(raw RawCheckIn) (NormalizedCheckIn, error) {
	var n NormalizedCheckIn
	var err error

	if n.Mood, err = parseAxis(FieldMood, raw.Mood, ordinalBound); err != nil {
		return NormalizedCheckIn{}, err
	}
	if n.Stress, err = parseAxis(FieldStress, raw.Stress, scaleBound); err != nil {
		return NormalizedCheckIn{}, err
	}
	if n.SleepQuality, err = parseAxis(FieldSleepQuality, raw.SleepQuality, ordinalBound); err != nil {
		return NormalizedCheckIn{}, err
	}
	if n.Energy, err = parseAxis(FieldEnergy, raw.Energy, scaleBound); err != nil {
		return NormalizedCheckIn{}, err
	}
	if n.SocialConnection, err = parseAxis(FieldSocialConnection, raw.SocialConnection, ordinalBound); err != nil {
		return NormalizedCheckIn{}, err
	}
	if n.Timestamp, err = parseTimestamp(raw.Timestamp); err != nil {
		return NormalizedCheckIn{}, err
	}

	n.ID = raw.ID
	n.MoodScaled = n.Mood * 2
	n.SleepScaled = n.SleepQuality * 2
	n.SocialScaled = n.SocialConnection * 2
	return n, nil
}

// NormalizeAll validates every entry before returning any result.
func NormalizeAll(raws []RawCheckIn) ([]NormalizedCheckIn, error) {
	out := make([]NormalizedCheckIn, 0, len(raws))
	for i, raw := range raws {
		n, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("history[%d]: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseAxis(field string, v any, bound Bound) (int, error) {
	outOfRange := func(text string) error {
		return &OutOfRangeError{Field: field, Value: text, Bound: bound}
	}

	var i int
	switch t := v.(type) {
	case nil:
		return 0, outOfRange("")
	case int:
		i = t
	case int32:
		i = int(t)
	case int64:
		i = int(t)
	case float64:
		return parseFloatAxis(t, bound, outOfRange(strconv.FormatFloat(t, 'f', -1, 64)))
	case json.Number:
		n, err := strconv.Atoi(t.String())
		if err == nil {
			i = n
			break
		}
		f, ferr := t.Float64()
		if ferr != nil {
			return 0, outOfRange(t.String())
		}
		return parseFloatAxis(f, bound, outOfRange(t.String()))
	case string:
		s := strings.TrimSpace(t)
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, outOfRange(t)
		}
		i = n
	default:
		return 0, outOfRange(fmt.Sprint(v))
	}

	if !bound.contains(i) {
		return 0, outOfRange(strconv.Itoa(i))
	}
	return i, nil
}

func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, &InvalidTimestampError{Value: ""}
		}
		return t.UTC(), nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, &InvalidTimestampError{Value: ""}
		}
		return t.UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, &InvalidTimestampError{Value: t}
	case nil:
		return time.Time{}, &InvalidTimestampError{Value: ""}
	default:
		return time.Time{}, &InvalidTimestampError{Value: fmt.Sprint(v)}
	}
}

// parseFloatAxis accepts integral floats (4.0, 1e0) within bound. The bound
// check runs on the float so huge values never wrap through int.
func parseFloatAxis(f float64, bound Bound, outOfRange error) (int, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, outOfRange
	}
	if f < float64(bound.Min) || f > float64(bound.Max) {
		return 0, outOfRange
	}
	return int(f), nil
}
