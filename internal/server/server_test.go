package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/promptguard/promptguard/internal/config"
	"github.com/promptguard/promptguard/internal/guard"
	"github.com/promptguard/promptguard/internal/store"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Bot.Nickname = "麦麦"
	cfg.Bot.Identities = []string{"qq:10001"}
	return cfg
}

func testServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctrl, err := guard.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("guard.New: %v", err)
	}
	ctrl.Activate()

	return New(ctrl, db, cfg, "test-version", zerolog.Nop())
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, testConfig())

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
	if body["active"] != true {
		t.Errorf("active = %v, want true", body["active"])
	}
	if body["db"] != true {
		t.Errorf("db = %v, want true", body["db"])
	}
}
