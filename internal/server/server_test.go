package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"distritoeldorado/internal/config"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func newTestConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	pending := writeCSV(t, dir, "pendentes.csv",
		"Status,Unidade Solicitante,Data Início da Pendência,Usuário\n"+
			"Aberto,UBS Eldorado,05/01/2024,maria\n"+
			"Aberto,UBS Jardim,06/01/2024,\n")
	resolved := writeCSV(t, dir, "resolvidos.csv",
		"Status,Unidade Solicitante\n"+
			"Resolvido,UBS Eldorado\n")

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	cfg.Sources = []config.SourceConfig{
		{Name: "PENDÊNCIAS", URL: "file://" + pending, District: "ELDORADO", Kind: "PENDENTE"},
		{Name: "RESOLVIDOS", URL: "file://" + resolved, District: "ELDORADO", Kind: "RESOLVIDO"},
	}
	return cfg
}

func TestServer_InitialLoadAndStatus(t *testing.T) {
	srv, err := NewServer(newTestConfig(t))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	srv.InitialLoad(context.Background())

	if got := srv.GetStore().Count(); got != 3 {
		t.Fatalf("expected 3 records, got %d", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["loaded"] != true {
		t.Fatalf("expected loaded=true: %v", body)
	}
}

func TestServer_InitialLoadFailureStillServes(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Sources[1].URL = "file://" + filepath.Join(t.TempDir(), "inexistente.csv")

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	srv.InitialLoad(context.Background())

	if srv.GetStore().Loaded() {
		t.Fatalf("nothing should be loaded")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

func TestServer_InvalidAliasesPath(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Fields.AliasesPath = filepath.Join(t.TempDir(), "faltando.yaml")
	if _, err := NewServer(cfg); err == nil {
		t.Fatalf("expected error for missing aliases file")
	}
}

func TestServer_NoRoute(t *testing.T) {
	srv, err := NewServer(newTestConfig(t))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/nada", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
