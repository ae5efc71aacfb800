package domain

// AdviceDocument is the structured advice returned to clients. The AI path and
// the deterministic fallback both produce exactly this shape.
type AdviceDocument struct {
	HealthStatus         HealthStatus       `json:"healthStatus"`
	DietaryAdvice        DietaryAdvice      `json:"dietaryAdvice"`
	LifestyleAdvice      LifestyleAdvice    `json:"lifestyleAdvice"`
	WarningSignals       []string           `json:"warningSignals"`
	FollowUp             FollowUp           `json:"followUp"`
	PersonalizedTips     []string           `json:"personalizedTips"`
	MotivationalMessage  string             `json:"motivationalMessage"`
	UrgencyLevel         Urgency            `json:"urgencyLevel"`
	DoctorConsultation   DoctorConsultation `json:"doctorConsultation"`
	NaturalRemedies      []Remedy           `json:"naturalRemedies"`
	PreventionStrategies []string           `json:"preventionStrategies"`
	Metadata             *AdviceMetadata    `json:"metadata,omitempty"`
}

// RequiredAdviceKeys lists the top-level keys every advice document must carry.
var RequiredAdviceKeys = []string{
	"healthStatus",
	"dietaryAdvice",
	"lifestyleAdvice",
	"warningSignals",
	"followUp",
	"personalizedTips",
	"motivationalMessage",
	"urgencyLevel",
	"doctorConsultation",
	"naturalRemedies",
	"preventionStrategies",
}

type HealthStatus struct {
	Level           string  `json:"level"`
	Summary         string  `json:"summary"`
	Score           int     `json:"score"`
	Confidence      float64 `json:"confidence"`
	MainConcern     string  `json:"mainConcern"`
	PositiveAspects string  `json:"positiveAspects"`
}

// Health levels, best to worst.
const (
	LevelExcellent = "excellent"
	LevelGood      = "good"
	LevelAttention = "attention"
	LevelWarning   = "warning"
	LevelCritical  = "critical"
)

type DietaryAdvice struct {
	ImmediateActions []string     `json:"immediateActions"`
	Recommendations  []string     `json:"recommendations"`
	AvoidFoods       []string     `json:"avoidFoods"`
	MealPlan         MealPlan     `json:"mealPlan"`
	WaterIntake      string       `json:"waterIntake"`
	Supplements      []Supplement `json:"supplements"`
}

type MealPlan struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snacks    string `json:"snacks"`
}

type Supplement struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Timing string `json:"timing"`
	Reason string `json:"reason"`
}

type LifestyleAdvice struct {
	Exercise     Exercise     `json:"exercise"`
	ToiletHabits ToiletHabits `json:"toiletHabits"`
	Stress       Stress       `json:"stress"`
	Sleep        Sleep        `json:"sleep"`
}

type Exercise struct {
	Type      string `json:"type"`
	Duration  string `json:"duration"`
	Frequency string `json:"frequency"`
	BestTime  string `json:"bestTime"`
	Specific  string `json:"specific"`
}

type ToiletHabits struct {
	Timing   string `json:"timing"`
	Position string `json:"position"`
	Duration string `json:"duration"`
	Tips     string `json:"tips"`
}

type Stress struct {
	Techniques    []string `json:"techniques"`
	DailyPractice string   `json:"dailyPractice"`
}

type Sleep struct {
	Duration string `json:"duration"`
	Bedtime  string `json:"bedtime"`
	Tips     string `json:"tips"`
}

type FollowUp struct {
	NextCheck          string       `json:"nextCheck"`
	Frequency          string       `json:"frequency"`
	Expectations       Expectations `json:"expectations"`
	MonitoringPoints   []string     `json:"monitoringPoints"`
	AdjustmentTriggers []string     `json:"adjustmentTriggers"`
}

type Expectations struct {
	ShortTerm  string `json:"shortTerm"`
	MediumTerm string `json:"mediumTerm"`
	LongTerm   string `json:"longTerm"`
}

type DoctorConsultation struct {
	Needed      bool   `json:"needed"`
	Reason      string `json:"reason"`
	Specialty   string `json:"specialty"`
	Preparation string `json:"preparation"`
}

type Remedy struct {
	Name      string `json:"name"`
	Method    string `json:"method"`
	Frequency string `json:"frequency"`
	Benefit   string `json:"benefit"`
}

// AdviceMetadata is attached by the service after a document is produced.
type AdviceMetadata struct {
	GeneratedAt   string `json:"generatedAt"`
	Model         string `json:"model"`
	RequestID     string `json:"requestId"`
	Version       string `json:"version"`
	Source        string `json:"source"`
	ResponseTime  int64  `json:"responseTime"`
	ColorWarnings int    `json:"colorWarnings"`
	VolumeIssues  int    `json:"volumeIssues"`
}

// Advice sources recorded in metadata.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// QuickAdvice is the deterministic one-liner returned by the quick endpoint.
type QuickAdvice struct {
	QuickTip string  `json:"quickTip"`
	Urgency  Urgency `json:"urgency"`
	Action   string  `json:"action"`
}

// AdviceResult is what the service hands back to the transport layer.
type AdviceResult struct {
	Advice       AdviceDocument
	Model        string
	Source       string
	Confidence   float64
	ResponseTime int64
	Trend        *Trend
	CacheHit     bool
	Note         string
}
