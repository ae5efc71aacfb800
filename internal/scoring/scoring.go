// Package scoring holds the pure classification functions shared by the
// prompt builder and the fallback advice generator.
package scoring

import (
	"github.com/actuallystonmai/health-advisor/internal/domain"
)

const (
	baseScore      = 100
	unknownPenalty = -20
	volumePenalty  = -15

	criticalColorPenalty = -40
	highColorPenalty     = -25
	otherColorPenalty    = -10
)

var typePenalties = [domain.BristolTypes]int{
	-40, // 1: severe constipation
	-25, // 2: constipation
	-10, // 3: slightly dry
	0,   // 4: ideal
	-10, // 5: slightly loose
	-25, // 6: diarrhea
	-40, // 7: severe diarrhea
}

var descriptions = [domain.BristolTypes]string{
	"Separate hard lumps, like nuts (severe constipation)",
	"Sausage-shaped but lumpy (constipation)",
	"Like a sausage with cracks (slightly dry)",
	"Like a sausage or snake, smooth and soft (ideal)",
	"Soft blobs with clear edges (slightly loose)",
	"Fluffy pieces with ragged edges (mild diarrhea)",
	"Watery, no solid pieces (severe diarrhea)",
}

// Description returns the canonical text for a Bristol type.
func Description(t domain.BristolType) string {
	if !t.Valid() {
		return "Unknown type"
	}
	return descriptions[t.Index()]
}

// HealthScore computes a 0-100 score from the type and the derived anomalies.
func HealthScore(t domain.BristolType, colors []domain.ColorWarning, volumes []domain.VolumeIssue) int {
	score := baseScore
	if t.Valid() {
		score += typePenalties[t.Index()]
	} else {
		score += unknownPenalty
	}

	for _, w := range colors {
		switch w.Severity {
		case domain.SeverityCritical:
			score += criticalColorPenalty
		case domain.SeverityHigh:
			score += highColorPenalty
		default:
			score += otherColorPenalty
		}
	}
	score += volumePenalty * len(volumes)

	return max(0, min(100, score))
}

// AssessUrgency classifies how quickly the user should act.
// A critical color overrides everything else.
func AssessUrgency(t domain.BristolType, colors []domain.ColorWarning) domain.Urgency {
	if HasCritical(colors) {
		return domain.UrgencyHigh
	}
	switch t {
	case 1, 7:
		return domain.UrgencyHigh
	case 2, 6:
		return domain.UrgencyMedium
	}
	if len(colors) > 0 {
		return domain.UrgencyMedium
	}
	return domain.UrgencyLow
}

// HasCritical reports whether any warning is critical.
func HasCritical(colors []domain.ColorWarning) bool {
	for _, w := range colors {
		if w.Severity == domain.SeverityCritical {
			return true
		}
	}
	return false
}

// DoctorNeeded is the single consultation rule used by both advice paths.
func DoctorNeeded(urgency domain.Urgency, colors []domain.ColorWarning) bool {
	return urgency == domain.UrgencyHigh || HasCritical(colors)
}

// Confidence estimates how complete the observation was.
func Confidence(t domain.BristolType, colorPresent bool, volumeClass string) float64 {
	confidence := 0.5
	if t.Valid() {
		confidence += 0.2
	}
	if colorPresent {
		confidence += 0.15
	}
	if volumeClass != "" {
		confidence += 0.15
	}
	return min(1, confidence)
}
