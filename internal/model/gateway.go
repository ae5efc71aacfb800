package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

const probePrompt = "test"

// DefaultModels is the candidate list, most preferred first.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash-lite",
}

// ErrModelNotFound is returned by a Generator when the model id does not exist.
var ErrModelNotFound = errors.New("model not found")

// Generator runs a single text generation against a named model.
type Generator interface {
	Generate(ctx context.Context, modelID, prompt string) (string, error)
}

// GenerationError wraps a failed generation on a resolved model.
type GenerationError struct {
	Model    string
	Err      error
	timeout  bool
	notFound bool
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate with %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call ran out of time.
func (e *GenerationError) Timeout() bool {
	return e.timeout
}

// NotFound reports whether the model no longer exists.
func (e *GenerationError) NotFound() bool {
	return e.notFound
}

func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}

func newGenerationError(model string, err error) *GenerationError {
	msg := strings.ToLower(err.Error())
	return &GenerationError{
		Model:    model,
		Err:      err,
		timeout:  errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout"),
		notFound: errors.Is(err, ErrModelNotFound) || strings.Contains(msg, "404") || strings.Contains(msg, "not found"),
	}
}

// State is the lifecycle of the gateway's model selection.
type State int

const (
	StateUninitialized State = iota
	StateProbing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateProbing:
		return "probing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

type Options struct {
	Models          []string
	ProbeTimeout    time.Duration
	GenerateTimeout time.Duration
}

// Gateway picks the first working model from a prioritized list, remembers
// it, and forgets it again when it times out or disappears.
type Gateway struct {
	gen             Generator
	models          []string
	probeTimeout    time.Duration
	generateTimeout time.Duration

	mu      sync.RWMutex
	current string
	state   State

	probes singleflight.Group
}

func NewGateway(gen Generator, opts Options) *Gateway {
	models := opts.Models
	if len(models) == 0 {
		models = DefaultModels
	}
	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	generateTimeout := opts.GenerateTimeout
	if generateTimeout <= 0 {
		generateTimeout = 45 * time.Second
	}

	return &Gateway{
		gen:             gen,
		models:          append([]string(nil), models...),
		probeTimeout:    probeTimeout,
		generateTimeout: generateTimeout,
	}
}

// CurrentModel returns the cached model id, or "" before a successful probe.
func (g *Gateway) CurrentModel() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

func (g *Gateway) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Model returns the cached model, probing the candidates if there is none.
// Concurrent callers share a single probe sequence, which keeps running even
// if the caller that started it goes away.
func (g *Gateway) Model(ctx context.Context) (string, error) {
	if m := g.CurrentModel(); m != "" {
		return m, nil
	}

	probeCtx := context.WithoutCancel(ctx)
	ch := g.probes.DoChan("probe", func() (any, error) {
		return g.probe(probeCtx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (g *Gateway) probe(ctx context.Context) (string, error) {
	g.mu.Lock()
	if g.current != "" {
		m := g.current
		g.mu.Unlock()
		return m, nil
	}
	g.state = StateProbing
	g.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	for _, m := range g.models {
		attemptCtx, cancel := context.WithTimeout(ctx, g.probeTimeout)
		_, err := g.gen.Generate(attemptCtx, m, probePrompt)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("model", m).Msg("model probe failed")
			continue
		}

		g.mu.Lock()
		g.current = m
		g.state = StateReady
		g.mu.Unlock()

		logger.Info().Str("model", m).Msg("model selected")
		return m, nil
	}

	g.mu.Lock()
	g.state = StateFailed
	g.mu.Unlock()

	logger.Error().Strs("models", g.models).Msg("no model passed the probe")
	return "", domain.ErrModelUnavailable
}

// Generate runs prompt on the current model. Timeouts and missing models
// clear the cache so the next call probes again.
func (g *Gateway) Generate(ctx context.Context, prompt string) (text, modelID string, err error) {
	modelID, err = g.Model(ctx)
	if err != nil {
		return "", "", err
	}

	genCtx, cancel := context.WithTimeout(ctx, g.generateTimeout)
	defer cancel()

	text, err = g.gen.Generate(genCtx, modelID, prompt)
	if err != nil {
		gerr := newGenerationError(modelID, err)
		if gerr.Timeout() || gerr.NotFound() {
			g.invalidate(ctx, modelID)
		}
		return "", modelID, gerr
	}
	return text, modelID, nil
}

func (g *Gateway) invalidate(ctx context.Context, modelID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// another caller may already have re-probed
	if g.current != modelID {
		return
	}
	g.current = ""
	g.state = StateUninitialized
	zerolog.Ctx(ctx).Warn().Str("model", modelID).Msg("model cache cleared")
}
