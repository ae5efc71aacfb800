package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

// fakeGenerator answers probes and prompts through configurable functions.
type fakeGenerator struct {
	probes atomic.Int32
	calls  atomic.Int32

	probe    func(ctx context.Context, modelID string) error
	generate func(ctx context.Context, modelID, prompt string) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	if prompt == probePrompt {
		f.probes.Add(1)
		if f.probe != nil {
			if err := f.probe(ctx, modelID); err != nil {
				return "", err
			}
		}
		return "ok", nil
	}
	f.calls.Add(1)
	if f.generate != nil {
		return f.generate(ctx, modelID, prompt)
	}
	return "advice from " + modelID, nil
}

func failModels(ids ...string) func(context.Context, string) error {
	return func(_ context.Context, modelID string) error {
		for _, id := range ids {
			if id == modelID {
				return fmt.Errorf("%s unavailable", modelID)
			}
		}
		return nil
	}
}

func TestGatewayProbeOrder(t *testing.T) {
	gen := &fakeGenerator{probe: failModels("gemini-2.5-flash")}
	gw := NewGateway(gen, Options{})

	if gw.State() != StateUninitialized || gw.CurrentModel() != "" {
		t.Fatalf("new gateway should be uninitialized, got %s %q", gw.State(), gw.CurrentModel())
	}

	text, modelID, err := gw.Generate(context.Background(), "advise me")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if modelID != "gemini-2.0-flash" {
		t.Errorf("expected second model, got %s", modelID)
	}
	if text != "advice from gemini-2.0-flash" {
		t.Errorf("unexpected text %q", text)
	}
	if gw.State() != StateReady {
		t.Errorf("expected ready, got %s", gw.State())
	}

	// Cached model is reused without probing
	if _, _, err := gw.Generate(context.Background(), "again"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := gen.probes.Load(); got != 2 {
		t.Errorf("expected 2 probes, got %d", got)
	}
}

func TestGatewayAllModelsFail(t *testing.T) {
	gen := &fakeGenerator{probe: failModels(DefaultModels...)}
	gw := NewGateway(gen, Options{})

	_, _, err := gw.Generate(context.Background(), "advise me")
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if gw.State() != StateFailed {
		t.Errorf("expected failed, got %s", gw.State())
	}

	// Failure is not cached
	gen.probe = nil
	if _, _, err := gw.Generate(context.Background(), "advise me"); err != nil {
		t.Fatalf("Generate after recovery: %v", err)
	}
	if gw.CurrentModel() != DefaultModels[0] {
		t.Errorf("expected %s, got %q", DefaultModels[0], gw.CurrentModel())
	}
}

func TestGatewaySharedProbe(t *testing.T) {
	gen := &fakeGenerator{probe: func(context.Context, string) error {
		time.Sleep(30 * time.Millisecond)
		return nil
	}}
	gw := NewGateway(gen, Options{Models: []string{"only-model"}})

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gw.Model(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Model: %v", err)
	}
	if got := gen.probes.Load(); got != 1 {
		t.Errorf("expected a single probe, got %d", got)
	}
}

func TestGatewayProbeSurvivesCallerCancel(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{probe: func(ctx context.Context, _ string) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
	gw := NewGateway(gen, Options{Models: []string{"slow-model"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gw.Model(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	close(release)
	deadline := time.Now().Add(time.Second)
	for gw.CurrentModel() == "" {
		if time.Now().After(deadline) {
			t.Fatal("probe did not finish after caller cancelled")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if gw.CurrentModel() != "slow-model" {
		t.Errorf("unexpected model %q", gw.CurrentModel())
	}
}

func TestGatewayInvalidation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		invalidate bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"timeout message", errors.New("upstream request timeout"), true},
		{"not found sentinel", fmt.Errorf("%w: gemini-2.5-flash", ErrModelNotFound), true},
		{"404 message", errors.New("googleapi: Error 404: model is gone"), true},
		{"quota", errors.New("quota exceeded"), false},
		{"cancelled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{generate: func(context.Context, string, string) (string, error) {
				return "", tt.err
			}}
			gw := NewGateway(gen, Options{})

			_, modelID, err := gw.Generate(context.Background(), "advise me")
			if !IsGenerationError(err) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("GenerationError should unwrap to %v", tt.err)
			}
			if modelID != DefaultModels[0] {
				t.Errorf("expected model id %s, got %q", DefaultModels[0], modelID)
			}

			cleared := gw.CurrentModel() == ""
			if cleared != tt.invalidate {
				t.Errorf("cache cleared = %v, want %v", cleared, tt.invalidate)
			}
		})
	}
}

func TestGatewayGenerateTimeout(t *testing.T) {
	gen := &fakeGenerator{generate: func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	gw := NewGateway(gen, Options{GenerateTimeout: 20 * time.Millisecond})

	_, _, err := gw.Generate(context.Background(), "advise me")

	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !gerr.Timeout() {
		t.Error("expected a timeout")
	}
	if gerr.NotFound() {
		t.Error("timeout should not be classified as not found")
	}
	if gw.State() != StateUninitialized {
		t.Errorf("expected uninitialized after timeout, got %s", gw.State())
	}
}

func TestStateString(t *testing.T) {
	want := map[State]string{
		StateUninitialized: "uninitialized",
		StateProbing:       "probing",
		StateReady:         "ready",
		StateFailed:        "failed",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), name)
		}
	}
}
