package scoring

import (
	"strings"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

// Colors that always signal possible bleeding, whatever the analyzer said.
const (
	ColorRed   = "Red"
	ColorBlack = "Black"
)

var volumeImplications = map[string][]string{
	domain.VolumeSmall: {
		"Possible insufficient fiber intake",
		"Possible dehydration",
		"Possible incomplete evacuation",
	},
	domain.VolumeLarge: {
		"Possible excessive food or fiber intake",
		"Possible malabsorption",
		"Monitor for frequent loose movements",
	},
}

// ColorWarnings projects color readings into warnings, preserving reading order.
func ColorWarnings(readings []domain.ColorReading) []domain.ColorWarning {
	warnings := make([]domain.ColorWarning, 0, len(readings))
	for _, r := range readings {
		severity, flagged := colorSeverity(r.Color, r.Status)
		if !flagged {
			continue
		}
		warnings = append(warnings, domain.ColorWarning{
			Color:       r.Color,
			Percentage:  r.Percentage,
			Status:      r.Status,
			Description: r.Description,
			Severity:    severity,
		})
	}
	return warnings
}

func colorSeverity(color, status string) (domain.Severity, bool) {
	if IsBleedingColor(color) {
		return domain.SeverityCritical, true
	}
	switch status {
	case "", domain.StatusNormal:
		return "", false
	case domain.StatusAlert, domain.StatusAbnormal:
		return domain.SeverityHigh, true
	default:
		return domain.SeverityMedium, true
	}
}

// IsBleedingColor reports the literal Red and Black color names.
func IsBleedingColor(color string) bool {
	return color == ColorRed || color == ColorBlack
}

// VolumeIssues returns at most one issue, and only for small or large volumes.
func VolumeIssues(v *domain.VolumeReading) []domain.VolumeIssue {
	if v == nil {
		return []domain.VolumeIssue{}
	}
	class := strings.ToLower(strings.TrimSpace(v.Class))
	implications, ok := volumeImplications[class]
	if !ok {
		return []domain.VolumeIssue{}
	}

	issue := "Small stool volume"
	if class == domain.VolumeLarge {
		issue = "Large stool volume"
	}
	return []domain.VolumeIssue{{
		Issue:        issue,
		Class:        class,
		Score:        v.Score,
		Implications: append([]string(nil), implications...),
	}}
}

// HasColor reports whether any warning carries the given color name.
func HasColor(colors []domain.ColorWarning, name string) bool {
	for _, w := range colors {
		if w.Color == name {
			return true
		}
	}
	return false
}

// HasBleedingColor reports whether a Red or Black warning is present.
func HasBleedingColor(colors []domain.ColorWarning) bool {
	return HasColor(colors, ColorRed) || HasColor(colors, ColorBlack)
}

// HasSmallVolume reports whether a small-volume issue is present.
func HasSmallVolume(volumes []domain.VolumeIssue) bool {
	for _, v := range volumes {
		if v.Class == domain.VolumeSmall {
			return true
		}
	}
	return false
}
