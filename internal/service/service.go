package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/actuallystonmai/health-advisor/internal/advice"
	"github.com/actuallystonmai/health-advisor/internal/cache"
	"github.com/actuallystonmai/health-advisor/internal/domain"
	"github.com/actuallystonmai/health-advisor/internal/model"
	"github.com/actuallystonmai/health-advisor/internal/prompt"
	"github.com/actuallystonmai/health-advisor/internal/scoring"
)

// Version is reported in the banner and in advice metadata.
const Version = "2.5.0"

const (
	fallbackModel      = "fallback"
	fallbackConfidence = 0.7
	fallbackNote       = "Using fallback advice due to AI service issue"
)

// Gateway is the part of model.Gateway the service depends on.
type Gateway interface {
	Generate(ctx context.Context, prompt string) (text, modelID string, err error)
	CurrentModel() string
	State() model.State
}

// Limiter is the advice endpoint budget.
type Limiter interface {
	Allow() bool
}

type Service struct {
	gateway       Gateway
	limiter       Limiter
	cache         cache.Store
	hasCredential bool
	now           func() time.Time
}

// NewService wires the advice pipeline. store may be nil to disable caching.
func NewService(gateway Gateway, limiter Limiter, store cache.Store, hasCredential bool) *Service {
	return &Service{
		gateway:       gateway,
		limiter:       limiter,
		cache:         store,
		hasCredential: hasCredential,
		now:           time.Now,
	}
}

// derived holds everything computed from an observation before any AI call.
type derived struct {
	colors       []domain.ColorWarning
	volumes      []domain.VolumeIssue
	trend        *domain.Trend
	score        int
	urgency      domain.Urgency
	doctorNeeded bool
	confidence   float64
}

func derive(obs domain.Observation) derived {
	colors := scoring.ColorWarnings(obs.Colors)
	volumes := scoring.VolumeIssues(obs.Volume)
	urgency := scoring.AssessUrgency(obs.Type, colors)

	volumeClass := ""
	if obs.Volume != nil {
		volumeClass = obs.Volume.Class
	}

	return derived{
		colors:       colors,
		volumes:      volumes,
		trend:        scoring.AnalyzeTrend(obs.History),
		score:        scoring.HealthScore(obs.Type, colors, volumes),
		urgency:      urgency,
		doctorNeeded: scoring.DoctorNeeded(urgency, colors),
		confidence:   scoring.Confidence(obs.Type, obs.ColorPresent, volumeClass),
	}
}

// GetHealthAdvice returns AI advice for the observation, or the deterministic
// document when the AI path fails for any reason. Only validation,
// configuration and rate-limit problems are returned as errors.
func (s *Service) GetHealthAdvice(ctx context.Context, obs domain.Observation) (*domain.AdviceResult, error) {
	start := s.now()
	logger := zerolog.Ctx(ctx)

	if !obs.Type.Valid() {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidBristolType, obs.Type)
	}
	if !s.hasCredential {
		return nil, domain.ErrMissingCredential
	}
	if !s.limiter.Allow() {
		return nil, domain.ErrRateLimited
	}

	d := derive(obs)
	key := cache.Key(obs.Type, d.colors, d.volumes, obs.Profile, d.trend)

	// Check cache
	if s.cache != nil {
		entry, found, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Msg("advice cache get failed")
		}
		if found {
			result := s.result(entry.Advice, entry.Model, domain.SourceAI, d, start)
			result.CacheHit = true
			return result, nil
		}
	}

	// Cache miss -> ask the model
	doc, modelID, err := s.generate(ctx, obs, d)
	if err != nil {
		logger.Warn().Err(err).
			Bool("generation_error", model.IsGenerationError(err)).
			Bool("unavailable", errors.Is(err, domain.ErrModelUnavailable)).
			Msg("ai advice failed, using fallback")

		fallback := advice.Generate(advice.Input{
			Type:    obs.Type,
			Colors:  d.colors,
			Volumes: d.volumes,
			Profile: obs.Profile,
		})
		result := s.result(fallback, fallbackModel, domain.SourceFallback, d, start)
		result.Confidence = fallbackConfidence
		result.Note = fallbackNote
		return result, nil
	}

	// Store advice in cache
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cache.Entry{Advice: doc, Model: modelID}); err != nil {
			logger.Warn().Err(err).Msg("advice cache set failed")
		}
	}

	return s.result(doc, modelID, domain.SourceAI, d, start), nil
}

func (s *Service) generate(ctx context.Context, obs domain.Observation, d derived) (domain.AdviceDocument, string, error) {
	text, modelID, err := s.gateway.Generate(ctx, prompt.Build(prompt.Input{
		Type:         obs.Type,
		Score:        d.score,
		Urgency:      d.urgency,
		DoctorNeeded: d.doctorNeeded,
		Colors:       d.colors,
		Volumes:      d.volumes,
		Profile:      obs.Profile,
		Trend:        d.trend,
	}))
	if err != nil {
		return domain.AdviceDocument{}, modelID, err
	}

	doc, err := advice.Parse(text)
	if err != nil {
		return domain.AdviceDocument{}, modelID, fmt.Errorf("model %s: %w", modelID, err)
	}
	advice.Reconcile(&doc, d.score, d.urgency, d.doctorNeeded)
	return doc, modelID, nil
}

func (s *Service) result(doc domain.AdviceDocument, modelID, source string, d derived, start time.Time) *domain.AdviceResult {
	now := s.now()
	elapsed := now.Sub(start).Milliseconds()

	doc.Metadata = &domain.AdviceMetadata{
		GeneratedAt:   now.UTC().Format(time.RFC3339Nano),
		Model:         modelID,
		RequestID:     "req_" + uuid.NewString(),
		Version:       Version,
		Source:        source,
		ResponseTime:  elapsed,
		ColorWarnings: len(d.colors),
		VolumeIssues:  len(d.volumes),
	}

	return &domain.AdviceResult{
		Advice:       doc,
		Model:        modelID,
		Source:       source,
		Confidence:   d.confidence,
		ResponseTime: elapsed,
		Trend:        d.trend,
	}
}

// QuickAdvice is always deterministic and never touches the model.
func (s *Service) QuickAdvice(t domain.BristolType) (domain.QuickAdvice, error) {
	if !t.Valid() {
		return domain.QuickAdvice{}, fmt.Errorf("%w: got %d", domain.ErrInvalidBristolType, t)
	}
	return advice.Quick(t), nil
}

// ModelStatus reports the cached model and the gateway state for the banner.
func (s *Service) ModelStatus() (string, model.State) {
	return s.gateway.CurrentModel(), s.gateway.State()
}
