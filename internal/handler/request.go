package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var errMissingType = errors.New("bristol type is missing")

// adviceRequest keeps the optional sections raw. Each one is normalized on its
// own so a malformed section is dropped instead of failing the request.
type adviceRequest struct {
	BristolType     flexNumber      `json:"bristolType"`
	ColorAnalysis   json.RawMessage `json:"colorAnalysis"`
	VolumeAnalysis  json.RawMessage `json:"volumeAnalysis"`
	UserProfile     json.RawMessage `json:"userProfile"`
	PreviousRecords json.RawMessage `json:"previousRecords"`
}

type quickRequest struct {
	BristolType flexNumber `json:"bristolType"`
}

type colorEntry struct {
	HealthStatus flexString `json:"health_status"`
	Status       flexString `json:"status"`
	Percentage   flexNumber `json:"percentage"`
	Description  flexString `json:"description"`
	Color        flexString `json:"color"`
}

type volumeRequest struct {
	Class flexString `json:"overall_volume_class"`
	Score flexNumber `json:"volume_score"`
}

type profileRequest struct {
	Age               flexString `json:"age"`
	Gender            flexString `json:"gender"`
	Diet              flexString `json:"diet"`
	DietType          flexString `json:"dietType"`
	Exercise          flexString `json:"exercise"`
	ExerciseFrequency flexString `json:"exerciseFrequency"`
	Conditions        flexString `json:"conditions"`
	MedicalConditions flexString `json:"medicalConditions"`
	Allergies         flexString `json:"allergies"`
}

type recordRequest struct {
	Type        flexNumber `json:"type"`
	BristolType flexNumber `json:"bristolType"`
}

// flexNumber accepts a JSON number or a numeric string. Anything else,
// including null, "" and "n/a", decodes as unset.
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	*n = flexNumber{}
	s := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.value, n.set = v, true
	return nil
}

// integer returns the value when it is set and has no fractional part.
func (n flexNumber) integer() (int, bool) {
	if !n.set || n.value != math.Trunc(n.value) || math.IsInf(n.value, 0) {
		return 0, false
	}
	return int(n.value), true
}

// flexString accepts a string, a number, a bool, or a list of strings.
// Objects decode as empty.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = flexString(strings.TrimSpace(x))
	case float64:
		*s = flexString(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		*s = flexString(strconv.FormatBool(x))
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				parts = append(parts, strings.TrimSpace(str))
			}
		}
		*s = flexString(strings.Join(parts, ", "))
	default:
		*s = ""
	}
	return nil
}

// orderedColors keeps the summary entries in the order the client sent them.
// A summary that is not an object yields no entries, and entries that are not
// objects are skipped.
type orderedColors []domain.ColorReading

func (c *orderedColors) UnmarshalJSON(data []byte) error {
	*c = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var out []domain.ColorReading
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("color %q: %w", key, err)
		}
		var e colorEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}

		name := strings.TrimSpace(string(e.Color))
		if name == "" {
			name = key
		}
		status := string(e.HealthStatus)
		if status == "" {
			status = string(e.Status)
		}
		out = append(out, domain.ColorReading{
			Color:       name,
			Status:      status,
			Percentage:  e.Percentage.value,
			Description: string(e.Description),
		})
	}
	*c = out
	return nil
}

func firstNonEmpty(values ...flexString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// observation normalizes the request into the canonical domain form. Only the
// Bristol type can make it fail.
func (r adviceRequest) observation() (domain.Observation, error) {
	raw, ok := r.BristolType.integer()
	if !ok {
		return domain.Observation{}, errMissingType
	}
	t, err := domain.ParseBristolType(raw)
	if err != nil {
		return domain.Observation{}, err
	}

	obs := domain.Observation{Type: t}
	obs.Colors, obs.ColorPresent = parseColors(r.ColorAnalysis)
	obs.Volume = parseVolume(r.VolumeAnalysis)
	obs.Profile = parseProfile(r.UserProfile)
	obs.History = parseHistory(r.PreviousRecords)
	return obs, nil
}

// parseColors reads the color payload. present reports a non-empty object,
// whether or not it held a usable summary.
func parseColors(raw json.RawMessage) ([]domain.ColorReading, bool) {
	var sections map[string]json.RawMessage
	if !decodeObject(raw, &sections) || len(sections) == 0 {
		return nil, false
	}

	var colors orderedColors
	if summary, ok := sections["summary"]; ok {
		if err := json.Unmarshal(summary, &colors); err != nil {
			colors = nil
		}
	}
	return colors, true
}

func parseVolume(raw json.RawMessage) *domain.VolumeReading {
	var v volumeRequest
	if !decodeObject(raw, &v) {
		return nil
	}
	class := strings.TrimSpace(string(v.Class))
	if class == "" {
		return nil
	}

	volume := &domain.VolumeReading{Class: class}
	if v.Score.set {
		score := v.Score.value
		volume.Score = &score
	}
	return volume
}

func parseProfile(raw json.RawMessage) *domain.UserProfile {
	var p profileRequest
	if !decodeObject(raw, &p) {
		return nil
	}
	return &domain.UserProfile{
		Age:        string(p.Age),
		Gender:     string(p.Gender),
		Diet:       firstNonEmpty(p.Diet, p.DietType),
		Exercise:   firstNonEmpty(p.Exercise, p.ExerciseFrequency),
		Conditions: firstNonEmpty(p.Conditions, p.MedicalConditions),
		Allergies:  string(p.Allergies),
	}
}

// parseHistory keeps records whose type (or bristolType) is an integer in
// 1..7 and drops everything else.
func parseHistory(raw json.RawMessage) []domain.BristolType {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	var history []domain.BristolType
	for _, item := range items {
		var rec recordRequest
		if !decodeObject(item, &rec) {
			continue
		}
		n := rec.Type
		if !n.set {
			n = rec.BristolType
		}
		if v, ok := n.integer(); ok && domain.BristolType(v).Valid() {
			history = append(history, domain.BristolType(v))
		}
	}
	return history
}

// decodeObject unmarshals raw into v when raw is a JSON object. It reports
// false for anything else, or when a field has the wrong shape.
func decodeObject(raw json.RawMessage, v any) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
