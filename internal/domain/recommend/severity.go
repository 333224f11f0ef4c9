package recommend

// Severity is a screening bucket. Buckets are ordered so that
// comparisons such as s >= SeverityModerate read naturally.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeverityModeratelySevere
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityMild:
		return "mild"
	case SeverityModerate:
		return "moderate"
	case SeverityModeratelySevere:
		return "moderately_severe"
	case SeveritySevere:
		return "severe"
	default:
		return "none"
	}
}

// AnxietySeverity buckets a GAD-7 total. A nil score is SeverityNone.
func AnxietySeverity(score *float64) Severity {
	switch {
	case score == nil || *score < 5:
		return SeverityNone
	case *score < 10:
		return SeverityMild
	case *score < 15:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// DepressionSeverity buckets a PHQ-9 total. A nil score is SeverityNone.
func DepressionSeverity(score *float64) Severity {
	switch {
	case score == nil || *score < 5:
		return SeverityNone
	case *score < 10:
		return SeverityMild
	case *score < 15:
		return SeverityModerate
	case *score < 20:
		return SeverityModeratelySevere
	default:
		return SeveritySevere
	}
}
