package domain

// Color status values reported by the color analyzer.
const (
	StatusNormal    = "Normal"
	StatusWarning   = "Warning"
	StatusAttention = "Attention"
	StatusAlert     = "Alert"
	StatusAbnormal  = "Abnormal"
)

// Volume classes reported by the volume analyzer.
const (
	VolumeSmall  = "small"
	VolumeNormal = "normal"
	VolumeLarge  = "large"
)

// Severity of a derived color warning.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Urgency of a health-advice response.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// ColorReading is one entry of a color-analysis summary, in source order.
type ColorReading struct {
	Color       string
	Status      string
	Percentage  float64
	Description string
}

// VolumeReading is the normalized volume-analysis payload.
type VolumeReading struct {
	Class string
	Score *float64
}

// UserProfile carries free-form personalization context. Nothing here is validated.
type UserProfile struct {
	Age        string `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Diet       string `json:"diet,omitempty"`
	Exercise   string `json:"exercise,omitempty"`
	Conditions string `json:"conditions,omitempty"`
	Allergies  string `json:"allergies,omitempty"`
}

// Observation is the canonical form of a health-advice request.
type Observation struct {
	Type BristolType
	// ColorPresent is true when the client sent a non-empty color payload,
	// even if none of its entries produced a reading.
	ColorPresent bool
	Colors       []ColorReading
	Volume       *VolumeReading
	Profile      *UserProfile
	// History is chronological, oldest first.
	History []BristolType
}

// ColorWarning is a derived anomaly for a non-normal stool color.
type ColorWarning struct {
	Color       string   `json:"color"`
	Percentage  float64  `json:"percentage"`
	Status      string   `json:"status"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity"`
}

// VolumeIssue is a derived anomaly for a small or large stool volume.
type VolumeIssue struct {
	Issue        string   `json:"issue"`
	Class        string   `json:"class"`
	Score        *float64 `json:"score,omitempty"`
	Implications []string `json:"implications"`
}

// Trend summarizes the last records of a user's history.
type Trend struct {
	Average    string `json:"average"`
	Direction  string `json:"direction"`
	ChangeRate string `json:"changeRate"`
	Priority   string `json:"priority"`
	Records    int    `json:"records"`
}

// Trend directions.
const (
	TrendStable    = "Stable"
	TrendImproving = "Improving"
	TrendWorsening = "Worsening"
)
