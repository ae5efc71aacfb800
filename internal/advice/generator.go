// Package advice builds, parses and reconciles advice documents.
//
// Generate is the deterministic path used whenever the model is unavailable.
// It is pure and total: every Bristol type combined with any set of anomalies
// and any profile yields a fully populated document.
package advice

import (
	"fmt"
	"slices"
	"strings"

	"github.com/actuallystonmai/health-advisor/internal/domain"
	"github.com/actuallystonmai/health-advisor/internal/scoring"
)

const (
	specialty       = "Gastroenterology"
	urgentSpecialty = "Gastroenterology - URGENT"

	fallbackConfidence = 0.7
)

// Input is everything the generator needs. Colors and Volumes are the
// derived anomaly lists, in source order.
type Input struct {
	Type    domain.BristolType
	Colors  []domain.ColorWarning
	Volumes []domain.VolumeIssue
	Profile *domain.UserProfile
}

// Generate produces a complete advice document from fixed tables.
func Generate(in Input) domain.AdviceDocument {
	tpl := templateFor(in.Type)
	score := scoring.HealthScore(in.Type, in.Colors, in.Volumes)
	urgency := scoring.AssessUrgency(in.Type, in.Colors)

	return domain.AdviceDocument{
		HealthStatus:         healthStatus(in, tpl, score),
		DietaryAdvice:        dietaryAdvice(in, tpl),
		LifestyleAdvice:      lifestyleAdvice(tpl),
		WarningSignals:       slices.Clone(tpl.warnings),
		FollowUp:             followUp(in, tpl, urgency),
		PersonalizedTips:     personalizedTips(in.Type, in.Profile),
		MotivationalMessage:  motivationalMessage(score, leadConcern(in)),
		UrgencyLevel:         urgency,
		DoctorConsultation:   doctorConsultation(in, urgency),
		NaturalRemedies:      naturalRemedies(in, tpl),
		PreventionStrategies: preventionStrategies(in),
	}
}

func healthStatus(in Input, tpl typeTemplate, score int) domain.HealthStatus {
	concern := tpl.concern
	summary := fmt.Sprintf("Based on your results (Bristol Type %d), %s.", in.Type, lowerFirst(scoring.Description(in.Type)))
	if len(in.Colors) > 0 {
		w := in.Colors[0]
		concern = fmt.Sprintf("%s stool color (%s, %.0f%%)", w.Color, w.Status, w.Percentage)
		summary = fmt.Sprintf("%s stool color is the leading concern. Your stool form is Bristol Type %d: %s.",
			w.Color, in.Type, lowerFirst(scoring.Description(in.Type)))
	}

	positive := "Taking steps toward better health"
	if score > 60 {
		positive = "Digestive system functioning normally"
	}

	return domain.HealthStatus{
		Level:           healthLevel(tpl.level, in.Colors),
		Summary:         summary,
		Score:           score,
		Confidence:      fallbackConfidence,
		MainConcern:     concern,
		PositiveAspects: positive,
	}
}

var levelRank = map[string]int{
	domain.LevelExcellent: 0,
	domain.LevelGood:      1,
	domain.LevelAttention: 2,
	domain.LevelWarning:   3,
	domain.LevelCritical:  4,
}

// healthLevel escalates the per-type level by the worst color severity.
func healthLevel(base string, colors []domain.ColorWarning) string {
	floor := domain.LevelExcellent
	for _, w := range colors {
		switch w.Severity {
		case domain.SeverityCritical:
			return domain.LevelCritical
		case domain.SeverityHigh:
			floor = domain.LevelWarning
		}
	}
	if levelRank[floor] > levelRank[base] {
		return floor
	}
	return base
}

func dietaryAdvice(in Input, tpl typeTemplate) domain.DietaryAdvice {
	recs := slices.Clone(tpl.diet)
	for _, w := range in.Colors {
		recs = append(recs, colorAdvice(w.Color))
	}
	for _, v := range in.Volumes {
		if text, ok := volumeAdvice[v.Class]; ok {
			recs = append(recs, text)
		}
	}

	avoid := slices.Clone(tpl.avoid)
	if scoring.HasBleedingColor(in.Colors) {
		avoid = append(avoid, "Iron supplements and iron-fortified foods (they darken stool and mask bleeding)")
	}
	if scoring.HasColor(in.Colors, scoring.ColorBlack) {
		avoid = append(avoid, "Activated charcoal and bismuth products")
	}
	if scoring.HasColor(in.Colors, "Green") {
		avoid = append(avoid, "Large amounts of leafy greens and green food coloring")
	}

	water := tpl.water
	if scoring.HasSmallVolume(in.Volumes) {
		water += " (add an extra 500ml to help increase stool volume)"
	}

	supplements := slices.Clone(tpl.supplements)
	if scoring.HasBleedingColor(in.Colors) {
		supplements = slices.DeleteFunc(supplements, func(s domain.Supplement) bool {
			return s.Name == "Iron"
		})
		supplements = append(supplements, ironNote)
	}

	return domain.DietaryAdvice{
		ImmediateActions: slices.Clone(tpl.diet[:2]),
		Recommendations:  recs,
		AvoidFoods:       avoid,
		MealPlan:         tpl.meals,
		WaterIntake:      water,
		Supplements:      supplements,
	}
}

func lifestyleAdvice(tpl typeTemplate) domain.LifestyleAdvice {
	exercise := tpl.exercise
	exercise.Specific = tpl.lifestyle
	stress := tpl.stress
	stress.Techniques = slices.Clone(stress.Techniques)
	return domain.LifestyleAdvice{
		Exercise:     exercise,
		ToiletHabits: tpl.toilet,
		Stress:       stress,
		Sleep:        tpl.sleep,
	}
}

func followUp(in Input, tpl typeTemplate, urgency domain.Urgency) domain.FollowUp {
	next := tpl.nextCheck
	frequency := "Record every bowel movement for the next week"
	if urgency == domain.UrgencyHigh {
		next = "Tomorrow morning"
		frequency = "Check after every bowel movement until symptoms settle"
	}

	expectations := tpl.expectations
	monitoring := slices.Clone(tpl.monitoring)
	triggers := slices.Clone(tpl.triggers)
	if len(in.Colors) > 0 {
		expectations.MediumTerm += "; stool color should return to normal brown"
	}
	for _, w := range in.Colors {
		monitoring = append(monitoring, fmt.Sprintf("%s coloration in the next bowel movements", w.Color))
		if w.Severity == domain.SeverityCritical {
			triggers = append(triggers, fmt.Sprintf("%s stool appears again: seek medical care the same day", w.Color))
		} else {
			triggers = append(triggers, fmt.Sprintf("%s color persists beyond 3 days", w.Color))
		}
	}

	return domain.FollowUp{
		NextCheck:          next,
		Frequency:          frequency,
		Expectations:       expectations,
		MonitoringPoints:   monitoring,
		AdjustmentTriggers: triggers,
	}
}

// leadConcern names the most specific anomaly, if any.
func leadConcern(in Input) string {
	if len(in.Colors) > 0 {
		return strings.ToLower(in.Colors[0].Color) + " stool color"
	}
	if len(in.Volumes) > 0 {
		return strings.ToLower(in.Volumes[0].Issue)
	}
	return ""
}

func motivationalMessage(score int, concern string) string {
	switch {
	case score > 80:
		return "Excellent! Your digestive health is in great shape. Keep up the good work!"
	case score > 60:
		if concern != "" {
			return fmt.Sprintf("You're doing well! Keep an eye on the %s and a few adjustments will get you to optimal health.", concern)
		}
		return "You're doing well! Just a few adjustments will get you to optimal health."
	case score > 40:
		if concern != "" {
			return fmt.Sprintf("Don't worry, addressing the %s with these recommendations should lead to improvement soon. Stay positive!", concern)
		}
		return "Don't worry, following these recommendations will lead to improvement soon. Stay positive!"
	default:
		if concern != "" {
			return fmt.Sprintf("The %s needs attention, but it's never too late to start improving. Follow the plan and keep in touch with your doctor.", concern)
		}
		return "Your health needs attention, but it's never too late to start improving. We're here to help!"
	}
}

func doctorConsultation(in Input, urgency domain.Urgency) domain.DoctorConsultation {
	// Reason and preparation stay empty when no consultation is needed.
	dc := domain.DoctorConsultation{
		Needed:    scoring.DoctorNeeded(urgency, in.Colors),
		Specialty: specialty,
	}

	var critical []string
	for _, w := range in.Colors {
		if w.Severity == domain.SeverityCritical {
			critical = append(critical, strings.ToLower(w.Color))
		}
	}

	switch {
	case len(critical) > 0:
		dc.Reason = fmt.Sprintf("%s stool can indicate gastrointestinal bleeding and needs prompt medical evaluation",
			capitalize(strings.Join(critical, " and ")))
		dc.Preparation = "Note when the color change started, list iron or bismuth products and medications you take, and bring a photo if possible"
	case urgency == domain.UrgencyHigh:
		dc.Reason = fmt.Sprintf("Bristol Type %d (%s) warrants professional evaluation", in.Type, lowerFirst(scoring.Description(in.Type)))
		dc.Preparation = "Record bowel movement frequency, fluid intake and any pain for the last 3 days"
	}

	if scoring.HasBleedingColor(in.Colors) {
		dc.Specialty = urgentSpecialty
	}
	return dc
}

func naturalRemedies(in Input, tpl typeTemplate) []domain.Remedy {
	remedies := slices.Clone(tpl.remedies)
	if scoring.HasColor(in.Colors, "Green") {
		remedies = append(remedies, gingerTea)
	}
	return remedies
}

func preventionStrategies(in Input) []string {
	var base []string
	switch {
	case in.Type.Valid() && in.Type.Constipated():
		base = constipationPrevention
	case in.Type.Valid() && in.Type.Loose():
		base = loosePrevention
	default:
		base = wellnessPrevention
	}

	out := slices.Clone(base)
	for _, w := range in.Colors {
		out = append(out, colorPrevention(w.Color))
	}
	for _, v := range in.Volumes {
		if text, ok := volumePrevention[v.Class]; ok {
			out = append(out, text)
		}
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
