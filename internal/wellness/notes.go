package wellness

import "fmt"

// Note labels use their own thresholds, kept apart from the pattern rules.
func moodLabel(mood int) string {
	switch {
	case mood <= 2:
		return "Low"
	case mood >= 4:
		return "Good"
	default:
		return "Moderate"
	}
}

func stressLabel(stress int) string {
	switch {
	case stress >= 7:
		return "High"
	case stress >= 4:
		return "Moderate"
	default:
		return "Low"
	}
}

func energyLabel(energy int) string {
	switch {
	case energy <= 3:
		return "Low"
	case energy >= 7:
		return "High"
	default:
		return "Moderate"
	}
}

func sleepLabel(sleep int) string {
	switch {
	case sleep <= 2:
		return "Poor"
	case sleep >= 4:
		return "Good"
	default:
		return "Fair"
	}
}

// ClinicianNotes renders axis lines, then risks, then positives, then the
// completion date.
func ClinicianNotes(n NormalizedCheckIn, flags []PatternFlag) []string {
	notes := []string{
		fmt.Sprintf("Current mood rating: %d/5 (%s)", n.Mood, moodLabel(n.Mood)),
		fmt.Sprintf("Stress level: %d/10 (%s)", n.Stress, stressLabel(n.Stress)),
		fmt.Sprintf("Energy level: %d/10 (%s)", n.Energy, energyLabel(n.Energy)),
		fmt.Sprintf("Sleep quality: %d/5 (%s)", n.SleepQuality, sleepLabel(n.SleepQuality)),
		fmt.Sprintf("Social connection: %d/5", n.SocialConnection),
	}

	if risks := filterFlags(flags, FlagRisk); len(risks) > 0 {
		notes = append(notes, "Risk factors identified:")
		for _, r := range risks {
			notes = append(notes, "• "+r.Message)
		}
	}
	if positives := filterFlags(flags, FlagPositive); len(positives) > 0 {
		notes = append(notes, "Positive indicators:")
		for _, p := range positives {
			notes = append(notes, "• "+p.Message)
		}
	}

	notes = append(notes, "Assessment completed: "+n.Timestamp.UTC().Format(DateLayout))
	return notes
}

// DateLayout is the ISO calendar date used in notes, share summaries and
// report file names.
const DateLayout = "2006-01-02"
