package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/packer/internal/application"
	"github.com/eugenenazirov/packer/internal/config"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Port:         "0",
		LogLevel:     "info",
		CacheSize:    64,
		Workers:      4,
		MaxBodyBytes: 1 << 20,
		WriteTimeout: 5 * time.Second,
	}
	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("application.New returned error: %v", err)
	}

	srv := httptest.NewServer(app.Server().Handler)
	t.Cleanup(srv.Close)
	return srv
}

func postPack(t *testing.T, srv *httptest.Server, payload any) (*http.Response, map[string]any) {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(srv.URL+"/api/pack", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /api/pack: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, body
}

func TestIntegrationExampleInput(t *testing.T) {
	srv := newServer(t)

	input, err := os.ReadFile("../../internal/packfile/testdata/example_input")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	resp, body := postPack(t, srv, map[string]any{"input": string(input)})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if got := body["output"]; got != "4\n-\n2,7\n8,9" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestIntegrationTooManyItems(t *testing.T) {
	srv := newServer(t)

	tokens := make([]string, 16)
	for i := range tokens {
		tokens[i] = "(1,1,€1)"
	}
	resp, body := postPack(t, srv, map[string]any{"lines": []string{"100 : " + strings.Join(tokens, " ")}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := body["output"]; got != "-" {
		t.Fatalf("expected sentinel output, got %q", got)
	}
}

func TestIntegrationMalformedToken(t *testing.T) {
	srv := newServer(t)

	resp, body := postPack(t, srv, map[string]any{"lines": []string{"8 : (1,A,€34)"}})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	details, _ := body["details"].(string)
	if !strings.Contains(details, "(1,A,€34)") {
		t.Fatalf("expected details to name the token, got %q", details)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestIntegrationHealthAndLimits(t *testing.T) {
	srv := newServer(t)

	for _, path := range []string{"/api/health", "/api/limits", "/api/cache", "/"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, resp.StatusCode)
		}
	}
}
