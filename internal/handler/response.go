package handler

import "github.com/actuallystonmai/health-advisor/internal/domain"

type AdviceResponse struct {
	Success      bool                  `json:"success"`
	Advice       domain.AdviceDocument `json:"advice"`
	Model        string                `json:"model"`
	Timestamp    string                `json:"timestamp"`
	Confidence   float64               `json:"confidence"`
	ResponseTime int64                 `json:"responseTime"`
	Note         string                `json:"note,omitempty"`
	Trend        *domain.Trend         `json:"trend,omitempty"`
	CacheHit     bool                  `json:"cacheHit,omitempty"`
}

type QuickAdviceResponse struct {
	Success   bool               `json:"success"`
	Advice    domain.QuickAdvice `json:"advice"`
	Type      string             `json:"type"`
	Timestamp string             `json:"timestamp"`
}

type BannerResponse struct {
	Message      string   `json:"message"`
	Status       string   `json:"status"`
	Timestamp    string   `json:"timestamp"`
	Version      string   `json:"version"`
	CurrentModel string   `json:"currentModel"`
	ModelState   string   `json:"modelState"`
	Features     []string `json:"features"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type RateLimitResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

type NotFoundResponse struct {
	Success            bool     `json:"success"`
	Error              string   `json:"error"`
	AvailableEndpoints []string `json:"availableEndpoints"`
	Timestamp          string   `json:"timestamp"`
}
