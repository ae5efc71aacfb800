package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/health-advisor/internal/config"
	"github.com/actuallystonmai/health-advisor/internal/domain"
	"github.com/actuallystonmai/health-advisor/internal/handler"
	"github.com/actuallystonmai/health-advisor/internal/model"
	"github.com/actuallystonmai/health-advisor/internal/ratelimit"
	"github.com/actuallystonmai/health-advisor/internal/service"
)

type unavailableGateway struct{}

func (unavailableGateway) Generate(context.Context, string) (string, string, error) {
	return "", "", domain.ErrModelUnavailable
}
func (unavailableGateway) CurrentModel() string { return "" }
func (unavailableGateway) State() model.State  { return model.StateFailed }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithConfig(t, &config.Config{
		RequestTimeout:     5 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	})
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	svc := service.NewService(unavailableGateway{}, ratelimit.NewWindow(10, time.Minute), nil, true)
	srv := httptest.NewServer(Setup(handler.NewHandler(svc), cfg, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/api/health-advice", `{"bristolType": 4}`, http.StatusOK},
		{http.MethodPost, "/api/quick-advice", `{"bristolType": 2}`, http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
		{http.MethodGet, "/api/health-advice", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		var body io.Reader
		if tt.body != "" {
			body = strings.NewReader(tt.body)
		}
		req, err := http.NewRequest(tt.method, srv.URL+tt.path, body)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.status, resp.StatusCode)
		}
	}
}

func TestNotFoundBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body handler.NotFoundResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Endpoint not found" || len(body.AvailableEndpoints) == 0 {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Errorf("expected echoed request id, got %q", got)
	}

	resp, err = http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("expected generated request id")
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/health-advice", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected Access-Control-Allow-Origin on preflight")
	}
}

func TestClientLimitForwardedFor(t *testing.T) {
	tests := []struct {
		name   string
		trust  bool
		second int
	}{
		{"untrusted", false, http.StatusTooManyRequests},
		{"trusted", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServerWithConfig(t, &config.Config{
				RequestTimeout:       5 * time.Second,
				CORSAllowedOrigins:   []string{"*"},
				ClientRateLimitRPS:   0.01,
				ClientRateLimitBurst: 1,
				TrustProxyHeaders:    tt.trust,
			})

			var codes []int
			for _, xff := range []string{"203.0.113.1", "203.0.113.2"} {
				req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
				req.Header.Set("X-Forwarded-For", xff)
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					t.Fatal(err)
				}
				resp.Body.Close()
				codes = append(codes, resp.StatusCode)
			}

			if codes[0] != http.StatusOK {
				t.Errorf("first request: expected 200, got %d", codes[0])
			}
			if codes[1] != tt.second {
				t.Errorf("second request: expected %d, got %d", tt.second, codes[1])
			}
		})
	}
}
