package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/actuallystonmai/health-advisor/internal/advice"
	"github.com/actuallystonmai/health-advisor/internal/domain"
	"github.com/actuallystonmai/health-advisor/internal/model"
	"github.com/actuallystonmai/health-advisor/internal/ratelimit"
	"github.com/actuallystonmai/health-advisor/internal/service"
)

type fakeGateway struct {
	text    string
	modelID string
	err     error
	state   model.State
}

func (f *fakeGateway) Generate(context.Context, string) (string, string, error) {
	return f.text, f.modelID, f.err
}

func (f *fakeGateway) CurrentModel() string { return f.modelID }
func (f *fakeGateway) State() model.State  { return f.state }

func newTestHandler(gw *fakeGateway, hasCredential bool) *Handler {
	svc := service.NewService(gw, ratelimit.NewWindow(10, time.Minute), nil, hasCredential)
	return NewHandler(svc)
}

func failingGateway() *fakeGateway {
	return &fakeGateway{err: domain.ErrModelUnavailable, state: model.StateFailed}
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthAdviceInvalidType(t *testing.T) {
	h := newTestHandler(failingGateway(), true)

	bodies := []string{
		`{"bristolType": 0}`,
		`{"bristolType": 8}`,
		`{"bristolType": "abc"}`,
		`{"bristolType": 3.5}`,
		`{}`,
	}
	for _, body := range bodies {
		rec := postJSON(h.HealthAdvice, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
			continue
		}
		var resp ErrorResponse
		decode(t, rec, &resp)
		if resp.Success || resp.Error != msgInvalidType {
			t.Errorf("%s: unexpected error body %+v", body, resp)
		}
	}
}

func TestHealthAdviceMissingCredential(t *testing.T) {
	h := newTestHandler(failingGateway(), false)

	rec := postJSON(h.HealthAdvice, `{"bristolType": 4}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp ErrorResponse
	decode(t, rec, &resp)
	if resp.Error != msgMissingKey {
		t.Errorf("expected %q, got %q", msgMissingKey, resp.Error)
	}
}

func TestHealthAdviceFallback(t *testing.T) {
	h := newTestHandler(failingGateway(), true)

	rec := postJSON(h.HealthAdvice, `{
		"bristolType": "1",
		"colorAnalysis": {"summary": {"Brown": {"health_status": "Normal", "percentage": 95}}},
		"userProfile": {"age": 25, "dietType": "vegan"},
		"previousRecords": [{"type": 1}, {"bristolType": 2}, {"type": 9}]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AdviceResponse
	decode(t, rec, &resp)
	if !resp.Success || resp.Model != "fallback" {
		t.Errorf("expected fallback success, got success=%v model=%s", resp.Success, resp.Model)
	}
	if resp.Note == "" {
		t.Error("expected fallback note")
	}
	if resp.Confidence != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", resp.Confidence)
	}
	if resp.Advice.UrgencyLevel != domain.UrgencyHigh {
		t.Errorf("expected high urgency for type 1, got %s", resp.Advice.UrgencyLevel)
	}
	if resp.Trend == nil {
		t.Error("expected trend from two valid previous records")
	}
	if resp.Timestamp == "" {
		t.Error("expected timestamp")
	}
}

func TestHealthAdviceAI(t *testing.T) {
	doc := advice.Generate(advice.Input{Type: 4})
	doc.HealthStatus.Summary = "From the model"
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	gw := &fakeGateway{text: string(data), modelID: "gemini-2.5-flash", state: model.StateReady}
	h := newTestHandler(gw, true)

	rec := postJSON(h.HealthAdvice, `{"bristolType": 4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp AdviceResponse
	decode(t, rec, &resp)
	if resp.Model != "gemini-2.5-flash" || resp.Note != "" {
		t.Errorf("expected ai response, got model=%s note=%q", resp.Model, resp.Note)
	}
	if resp.Advice.HealthStatus.Summary != "From the model" {
		t.Errorf("expected model summary, got %q", resp.Advice.HealthStatus.Summary)
	}
	if resp.Advice.HealthStatus.Score != 100 {
		t.Errorf("expected score 100, got %d", resp.Advice.HealthStatus.Score)
	}
}

func TestHealthAdviceRateLimit(t *testing.T) {
	h := newTestHandler(failingGateway(), true)

	for i := 0; i < 10; i++ {
		if rec := postJSON(h.HealthAdvice, `{"bristolType": 4}`); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := postJSON(h.HealthAdvice, `{"bristolType": 4}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var resp RateLimitResponse
	decode(t, rec, &resp)
	if resp.Error != msgTooManyRequests || resp.RetryAfter != 60 {
		t.Errorf("unexpected rate limit body %+v", resp)
	}

	// Quick advice has no budget
	if rec := postJSON(h.QuickAdvice, `{"bristolType": 4}`); rec.Code != http.StatusOK {
		t.Errorf("expected quick advice to bypass the limit, got %d", rec.Code)
	}
}

func TestHealthAdviceInvalidBody(t *testing.T) {
	h := newTestHandler(failingGateway(), true)

	rec := postJSON(h.HealthAdvice, `{"bristolType": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestQuickAdvice(t *testing.T) {
	h := newTestHandler(failingGateway(), false)

	tests := []struct {
		body    string
		status  int
		message string
	}{
		{`{"bristolType": 4}`, http.StatusOK, ""},
		{`{"bristolType": "7"}`, http.StatusOK, ""},
		{`{"bristolType": 0}`, http.StatusBadRequest, msgMissingType},
		{`{}`, http.StatusBadRequest, msgMissingType},
		{`{"bristolType": 9}`, http.StatusBadRequest, msgInvalidType},
	}

	for _, tt := range tests {
		rec := postJSON(h.QuickAdvice, tt.body)
		if rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.body, tt.status, rec.Code)
			continue
		}
		if tt.status == http.StatusOK {
			var resp QuickAdviceResponse
			decode(t, rec, &resp)
			if !resp.Success || resp.Type != "quick" || resp.Advice.QuickTip == "" || resp.Advice.Action == "" {
				t.Errorf("%s: unexpected quick body %+v", tt.body, resp)
			}
			continue
		}
		var resp ErrorResponse
		decode(t, rec, &resp)
		if resp.Error != tt.message {
			t.Errorf("%s: expected %q, got %q", tt.body, tt.message, resp.Error)
		}
	}
}

func TestQuickAdviceUrgency(t *testing.T) {
	h := newTestHandler(failingGateway(), false)

	rec := postJSON(h.QuickAdvice, `{"bristolType": 7}`)
	var resp QuickAdviceResponse
	decode(t, rec, &resp)
	if resp.Advice.Urgency != domain.UrgencyHigh {
		t.Errorf("expected high urgency for type 7, got %s", resp.Advice.Urgency)
	}
}

func TestBanner(t *testing.T) {
	h := newTestHandler(&fakeGateway{}, false)

	rec := httptest.NewRecorder()
	h.Banner(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp BannerResponse
	decode(t, rec, &resp)
	if resp.Status != "healthy" || resp.Version != service.Version {
		t.Errorf("unexpected banner %+v", resp)
	}
	if resp.CurrentModel != "not initialized" {
		t.Errorf("expected not initialized, got %q", resp.CurrentModel)
	}
	if resp.ModelState != model.StateUninitialized.String() {
		t.Errorf("expected uninitialized state, got %q", resp.ModelState)
	}
	if len(resp.Features) == 0 {
		t.Error("expected features")
	}
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp NotFoundResponse
	decode(t, rec, &resp)
	if resp.Success || resp.Error != "Endpoint not found" {
		t.Errorf("unexpected body %+v", resp)
	}
	if len(resp.AvailableEndpoints) != len(Endpoints) {
		t.Errorf("expected %d endpoints, got %v", len(Endpoints), resp.AvailableEndpoints)
	}
}

func TestRecoverer(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})

	rec := httptest.NewRecorder()
	Recoverer(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp ErrorResponse
	decode(t, rec, &resp)
	if resp.Error != "Server error occurred" || resp.Message != "boom" || resp.Timestamp == "" {
		t.Errorf("unexpected body %+v", resp)
	}
}

func TestObservationColorOrder(t *testing.T) {
	var req adviceRequest
	body := `{
		"bristolType": 5,
		"colorAnalysis": {"summary": {
			"Red": {"status": "Alert", "percentage": "40"},
			"Brown": {"health_status": "Normal", "percentage": 50},
			"Green": {"health_status": "Attention", "percentage": 10, "color": "Greenish"}
		}},
		"volumeAnalysis": {"overall_volume_class": " Small ", "volume_score": 0.2},
		"userProfile": {"diet": ["vegetarian", "low salt"], "exerciseFrequency": "light"}
	}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	obs, err := req.observation()
	if err != nil {
		t.Fatalf("observation: %v", err)
	}

	want := []string{"Red", "Brown", "Greenish"}
	if len(obs.Colors) != len(want) {
		t.Fatalf("expected %d colors, got %d", len(want), len(obs.Colors))
	}
	for i, name := range want {
		if obs.Colors[i].Color != name {
			t.Errorf("color %d: expected %s, got %s", i, name, obs.Colors[i].Color)
		}
	}
	if obs.Colors[0].Status != "Alert" || obs.Colors[0].Percentage != 40 {
		t.Errorf("expected alternate status spelling to be read, got %+v", obs.Colors[0])
	}
	if !obs.ColorPresent {
		t.Error("expected color payload to be present")
	}

	if obs.Volume == nil || obs.Volume.Class != "Small" || obs.Volume.Score == nil {
		t.Errorf("unexpected volume %+v", obs.Volume)
	}
	if obs.Profile == nil || obs.Profile.Diet != "vegetarian, low salt" || obs.Profile.Exercise != "light" {
		t.Errorf("unexpected profile %+v", obs.Profile)
	}
}

func TestObservationColorPresence(t *testing.T) {
	tests := []struct {
		payload string
		present bool
	}{
		{`null`, false},
		{`{}`, false},
		{`{"dominant": "Brown"}`, true},
		{`{"summary": {}}`, true},
	}

	for _, tt := range tests {
		colors, present := parseColors(json.RawMessage(tt.payload))
		if present != tt.present {
			t.Errorf("%s: expected present=%v, got %v", tt.payload, tt.present, present)
		}
		if len(colors) != 0 {
			t.Errorf("%s: expected no readings, got %v", tt.payload, colors)
		}
	}
}

func TestHealthAdviceMalformedOptionalFields(t *testing.T) {
	bodies := []string{
		`{"bristolType": 4, "colorAnalysis": {"summary": {"Black": {"status": "Abnormal", "percentage": "40%"}}}}`,
		`{"bristolType": 4, "colorAnalysis": {"summary": {"Brown": "Normal"}}}`,
		`{"bristolType": 4, "colorAnalysis": {"summary": []}}`,
		`{"bristolType": 4, "colorAnalysis": "Brown"}`,
		`{"bristolType": 4, "volumeAnalysis": "small"}`,
		`{"bristolType": 4, "volumeAnalysis": {"overall_volume_class": "small", "volume_score": "n/a"}}`,
		`{"bristolType": 4, "userProfile": "adult"}`,
		`{"bristolType": 4, "userProfile": {"age": {"years": 30}}}`,
		`{"bristolType": 4, "previousRecords": [{"type": "abc"}, {"type": 3}]}`,
		`{"bristolType": 4, "previousRecords": [3, 4]}`,
		`{"bristolType": 4, "previousRecords": {"type": 3}}`,
	}

	for _, body := range bodies {
		h := newTestHandler(failingGateway(), true)
		rec := postJSON(h.HealthAdvice, body)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", body, rec.Code, rec.Body.String())
			continue
		}
		var resp AdviceResponse
		decode(t, rec, &resp)
		if !resp.Success {
			t.Errorf("%s: expected success", body)
		}
	}
}

func TestObservationDropsMalformedSections(t *testing.T) {
	var req adviceRequest
	body := `{
		"bristolType": 4,
		"colorAnalysis": {"summary": {
			"Black": {"status": "Abnormal", "percentage": "40%"},
			"Brown": "Normal",
			"Red": {"status": "Alert", "percentage": 12}
		}},
		"volumeAnalysis": {"overall_volume_class": "small", "volume_score": "n/a"},
		"previousRecords": [{"type": "abc"}, {"type": 3}, 5, {"type": 2.5}, {"bristolType": "6"}]
	}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	obs, err := req.observation()
	if err != nil {
		t.Fatalf("observation: %v", err)
	}

	if len(obs.Colors) != 2 || obs.Colors[0].Color != "Black" || obs.Colors[1].Color != "Red" {
		t.Fatalf("expected Black and Red readings, got %+v", obs.Colors)
	}
	if obs.Colors[0].Percentage != 0 || obs.Colors[0].Status != "Abnormal" {
		t.Errorf("expected unset percentage with status kept, got %+v", obs.Colors[0])
	}
	if obs.Volume == nil || obs.Volume.Class != "small" || obs.Volume.Score != nil {
		t.Errorf("expected small volume without score, got %+v", obs.Volume)
	}
	want := []domain.BristolType{3, 6}
	if len(obs.History) != len(want) || obs.History[0] != want[0] || obs.History[1] != want[1] {
		t.Errorf("expected history %v, got %v", want, obs.History)
	}

	req = adviceRequest{}
	if err := json.Unmarshal([]byte(`{"bristolType": 4, "volumeAnalysis": "small", "userProfile": "adult"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	obs, err = req.observation()
	if err != nil {
		t.Fatalf("observation: %v", err)
	}
	if obs.Volume != nil || obs.Profile != nil {
		t.Errorf("expected non-object sections to be ignored, got volume=%+v profile=%+v", obs.Volume, obs.Profile)
	}
}
