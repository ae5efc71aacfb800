// Package prompt assembles the text sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/actuallystonmai/health-advisor/internal/domain"
	"github.com/actuallystonmai/health-advisor/internal/scoring"
)

// urgentShare is the minimum percentage for a serious color to become a specific concern.
const urgentShare = 30

// Input carries the values already computed for the request. The anomaly
// lists are the exact ones the scoring package produced.
type Input struct {
	Type         domain.BristolType
	Score        int
	Urgency      domain.Urgency
	DoctorNeeded bool
	Colors       []domain.ColorWarning
	Volumes      []domain.VolumeIssue
	Profile      *domain.UserProfile
	Trend        *domain.Trend
}

// Build renders the advice prompt.
func Build(in Input) string {
	var b strings.Builder

	b.WriteString("You are an expert digestive health AI consultant. Provide personalized health recommendations in English.\n\n")

	b.WriteString("Current analysis results:\n")
	_, _ = fmt.Fprintf(&b, "- Bristol Stool Scale Type: %d %s\n", in.Type, scoring.Description(in.Type))
	_, _ = fmt.Fprintf(&b, "- Health Score: %d/100\n", in.Score)
	_, _ = fmt.Fprintf(&b, "- Urgency Level: %s\n", in.Urgency)

	writeColors(&b, in.Colors)
	writeVolumes(&b, in.Volumes)

	if concerns := specificConcerns(in); len(concerns) > 0 {
		b.WriteString("\nSpecific concerns to address:\n")
		for _, c := range concerns {
			_, _ = fmt.Fprintf(&b, "- %s\n", c)
		}
	}

	if p := in.Profile; p != nil {
		b.WriteString("\nUser profile:\n")
		_, _ = fmt.Fprintf(&b, "- Age: %s\n", orDefault(p.Age, "Unknown"))
		_, _ = fmt.Fprintf(&b, "- Gender: %s\n", orDefault(p.Gender, "Unknown"))
		_, _ = fmt.Fprintf(&b, "- Diet Type: %s\n", orDefault(p.Diet, "Regular"))
		_, _ = fmt.Fprintf(&b, "- Exercise Frequency: %s\n", orDefault(p.Exercise, "Moderate"))
		_, _ = fmt.Fprintf(&b, "- Medical History: %s\n", orDefault(p.Conditions, "None"))
		_, _ = fmt.Fprintf(&b, "- Allergies: %s\n", orDefault(p.Allergies, "None"))
	}

	if tr := in.Trend; tr != nil {
		b.WriteString("\nTrend analysis:\n")
		_, _ = fmt.Fprintf(&b, "- 7-Day Average: Type %s\n", tr.Average)
		_, _ = fmt.Fprintf(&b, "- Trend Direction: %s\n", tr.Direction)
		_, _ = fmt.Fprintf(&b, "- Change Rate: %s\n", tr.ChangeRate)
		_, _ = fmt.Fprintf(&b, "- Priority: %s\n", tr.Priority)
	}

	b.WriteString("\nRespond with ONLY a JSON object in exactly this structure, with no extra keys and no text outside the JSON:\n\n")
	_, _ = fmt.Fprintf(&b, adviceSchema, in.Score, in.Urgency, in.DoctorNeeded)
	b.WriteString(principles)

	return b.String()
}

func writeColors(b *strings.Builder, colors []domain.ColorWarning) {
	if len(colors) == 0 {
		b.WriteString("- Color Analysis: no color anomalies\n")
		return
	}
	b.WriteString("- Color Warnings:\n")
	for i, w := range colors {
		_, _ = fmt.Fprintf(b, "  %d. %s (%.1f%%), status %s, severity %s", i+1, w.Color, w.Percentage, w.Status, w.Severity)
		if w.Description != "" {
			_, _ = fmt.Fprintf(b, ": %s", w.Description)
		}
		b.WriteString("\n")
	}
}

func writeVolumes(b *strings.Builder, volumes []domain.VolumeIssue) {
	if len(volumes) == 0 {
		b.WriteString("- Volume Assessment: no volume anomalies\n")
		return
	}
	b.WriteString("- Volume Issues:\n")
	for i, v := range volumes {
		_, _ = fmt.Fprintf(b, "  %d. %s", i+1, v.Issue)
		if v.Score != nil {
			_, _ = fmt.Fprintf(b, " (score %.2f)", *v.Score)
		}
		if len(v.Implications) > 0 {
			_, _ = fmt.Fprintf(b, ": %s", strings.Join(v.Implications, "; "))
		}
		b.WriteString("\n")
	}
}

// specificConcerns lists what the model must address explicitly.
func specificConcerns(in Input) []string {
	var out []string
	switch in.Type {
	case 1, 2:
		out = append(out, "Constipation: stool is hard and difficult to pass")
	case 6, 7:
		out = append(out, "Diarrhea: stool is loose and fluid loss is a risk")
	}
	for _, w := range in.Colors {
		if w.Percentage <= urgentShare {
			continue
		}
		switch w.Severity {
		case domain.SeverityCritical:
			out = append(out, fmt.Sprintf("URGENT: %s stool color (%.1f%%) may indicate bleeding", w.Color, w.Percentage))
		case domain.SeverityHigh:
			out = append(out, fmt.Sprintf("%s stool color (%.1f%%) flagged as %s", w.Color, w.Percentage, w.Status))
		}
	}
	for _, v := range in.Volumes {
		if len(v.Implications) > 0 {
			out = append(out, fmt.Sprintf("%s: %s", v.Issue, v.Implications[0]))
		}
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

const principles = `
Important principles:
1. All recommendations must be specific, actionable and personalized
2. Include specific amounts, times and frequencies
3. Adjust tone to severity: clear but not panic-inducing for serious cases
4. Address every specific concern listed above
`

// adviceSchema takes the score, urgency and doctor flag, in that order.
const adviceSchema = `{
  "healthStatus": {
    "level": "excellent | good | attention | warning | critical",
    "summary": "2-3 sentences summarizing current health status",
    "score": %d,
    "confidence": 0.85,
    "mainConcern": "Primary concern to address",
    "positiveAspects": "What's going well"
  },
  "dietaryAdvice": {
    "immediateActions": ["Dietary adjustment for today", "Dietary adjustment for today"],
    "recommendations": ["Specific food recommendation with amounts"],
    "avoidFoods": ["Specific food to avoid and why"],
    "mealPlan": {
      "breakfast": "Breakfast with specific foods and portions",
      "lunch": "Lunch with specific foods and portions",
      "dinner": "Dinner with specific foods and portions",
      "snacks": "Snack suggestions"
    },
    "waterIntake": "Water amount in ml and timing",
    "supplements": [
      {"name": "Probiotics", "dosage": "10 billion CFU", "timing": "After breakfast", "reason": "Improve gut flora"}
    ]
  },
  "lifestyleAdvice": {
    "exercise": {
      "type": "Recommended exercise types",
      "duration": "Duration per session",
      "frequency": "Weekly frequency",
      "bestTime": "Best time to exercise",
      "specific": "Specific movements"
    },
    "toiletHabits": {
      "timing": "Best time for bowel movements",
      "position": "Recommended posture",
      "duration": "Recommended duration",
      "tips": "Specific techniques"
    },
    "stress": {
      "techniques": ["Stress reduction method"],
      "dailyPractice": "Daily practice"
    },
    "sleep": {
      "duration": "Recommended sleep duration",
      "bedtime": "Recommended bedtime",
      "tips": "How to improve sleep quality"
    }
  },
  "warningSignals": ["Signal that needs immediate attention"],
  "followUp": {
    "nextCheck": "Next check time, e.g. Tomorrow morning",
    "frequency": "Recording frequency",
    "expectations": {
      "shortTerm": "Expected improvement in 3 days",
      "mediumTerm": "Expected improvement in 1 week",
      "longTerm": "Expected improvement in 1 month"
    },
    "monitoringPoints": ["Indicator to monitor"],
    "adjustmentTriggers": ["When to adjust the plan"]
  },
  "personalizedTips": ["Personalized tip 1", "Personalized tip 2", "Personalized tip 3"],
  "motivationalMessage": "Personalized encouraging message",
  "urgencyLevel": "%s",
  "doctorConsultation": {
    "needed": %t,
    "reason": "Reason for medical consultation",
    "specialty": "Recommended specialty, e.g. Gastroenterology",
    "preparation": "What to prepare before seeing a doctor"
  },
  "naturalRemedies": [
    {"name": "Remedy name", "method": "How to use", "frequency": "How often", "benefit": "Expected benefit"}
  ],
  "preventionStrategies": ["Long-term prevention strategy"]
}
`
