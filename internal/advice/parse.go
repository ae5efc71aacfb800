package advice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

// Parse extracts an advice document from model output. The text may be wrapped
// in prose or a markdown code fence; the object itself must match the document
// shape exactly. Every failure wraps domain.ErrUnparseableAdvice.
func Parse(text string) (domain.AdviceDocument, error) {
	var doc domain.AdviceDocument

	raw, err := extractObject(text)
	if err != nil {
		return doc, err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return doc, fmt.Errorf("%w: %v", domain.ErrUnparseableAdvice, err)
	}
	for _, k := range domain.RequiredAdviceKeys {
		v, ok := keys[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return doc, fmt.Errorf("%w: missing %q", domain.ErrUnparseableAdvice, k)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return domain.AdviceDocument{}, fmt.Errorf("%w: %v", domain.ErrUnparseableAdvice, err)
	}
	if err := validate(&doc); err != nil {
		return domain.AdviceDocument{}, fmt.Errorf("%w: %v", domain.ErrUnparseableAdvice, err)
	}
	normalizeLists(&doc)
	return doc, nil
}

func extractObject(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", domain.ErrUnparseableAdvice)
	}
	return []byte(text[start : end+1]), nil
}

func validate(doc *domain.AdviceDocument) error {
	switch {
	case doc.HealthStatus.Level == "":
		return fmt.Errorf("healthStatus.level is empty")
	case doc.HealthStatus.Summary == "":
		return fmt.Errorf("healthStatus.summary is empty")
	case !doc.UrgencyLevel.Valid():
		return fmt.Errorf("urgencyLevel %q is not low, medium or high", doc.UrgencyLevel)
	case len(doc.DietaryAdvice.Recommendations) == 0:
		return fmt.Errorf("dietaryAdvice.recommendations is empty")
	case doc.FollowUp.NextCheck == "":
		return fmt.Errorf("followUp.nextCheck is empty")
	case doc.MotivationalMessage == "":
		return fmt.Errorf("motivationalMessage is empty")
	}
	if _, ok := levelRank[doc.HealthStatus.Level]; !ok {
		return fmt.Errorf("healthStatus.level %q is unknown", doc.HealthStatus.Level)
	}
	return nil
}

// normalizeLists turns absent nested lists into empty ones so clients always
// see arrays.
func normalizeLists(doc *domain.AdviceDocument) {
	lists := []*[]string{
		&doc.DietaryAdvice.ImmediateActions,
		&doc.DietaryAdvice.AvoidFoods,
		&doc.LifestyleAdvice.Stress.Techniques,
		&doc.FollowUp.MonitoringPoints,
		&doc.FollowUp.AdjustmentTriggers,
	}
	for _, l := range lists {
		if *l == nil {
			*l = []string{}
		}
	}
	if doc.DietaryAdvice.Supplements == nil {
		doc.DietaryAdvice.Supplements = []domain.Supplement{}
	}
}

// Reconcile pins the values computed from the observation onto a document,
// so the AI and fallback paths agree on score, urgency and consultation.
func Reconcile(doc *domain.AdviceDocument, score int, urgency domain.Urgency, doctorNeeded bool) {
	doc.HealthStatus.Score = score
	doc.UrgencyLevel = urgency
	doc.DoctorConsultation.Needed = doctorNeeded
	if doc.DoctorConsultation.Specialty == "" {
		doc.DoctorConsultation.Specialty = specialty
	}
}
