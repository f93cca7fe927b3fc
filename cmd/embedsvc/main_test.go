package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/newnotes/embedsvc/internal/cli"
	"github.com/newnotes/embedsvc/internal/models"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after text are moved first",
			args:     []string{"machine learning", "-output", "json"},
			expected: []string{"-output", "json", "machine learning"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-output", "json", "machine learning"},
			expected: []string{"-output", "json", "machine learning"},
		},
		{
			name:     "text only returns unchanged",
			args:     []string{"machine learning"},
			expected: []string{"machine learning"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one", "two", "-server", ""},
			expected: []string{"-server", "", "one", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildText(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"hello"}, "hello"},
		{"multiple words", []string{"machine", "learning"}, "machine learning"},
		{"single quoted phrase", []string{"machine learning"}, "machine learning"},
		{"three words", []string{"machine", "learning", "algorithms"}, "machine learning algorithms"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
		{"one space", []string{" "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildText(tt.args)
			if got != tt.expected {
				t.Errorf("buildText(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestOutputFormatFromFlag(t *testing.T) {
	if got := outputFormatFromFlag("text"); got != cli.OutputText {
		t.Errorf("text: got %q", got)
	}
	if got := outputFormatFromFlag("json"); got != cli.OutputJSON {
		t.Errorf("json: got %q", got)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8001
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
model:
  name: "all-MiniLM-L6-v2"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestGenerateViaHTTP(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/embeddings/generate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req models.EmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "hello" {
			t.Errorf("text: got %q", req.Text)
		}
		_ = json.NewEncoder(w).Encode(models.EmbedResponse{
			Embedding: []float32{0.1, 0.2},
			Model:     "all-MiniLM-L6-v2",
			Dimension: 2,
		})
	}))
	defer stub.Close()

	response, err := generateViaHTTP(stub.URL, &models.EmbedRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("generateViaHTTP: %v", err)
	}
	if len(response.Embedding) != 2 || response.Dimension != 2 {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestGenerateViaHTTP_serverError(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"text cannot be empty"}`))
	}))
	defer stub.Close()

	_, err := generateViaHTTP(stub.URL, &models.EmbedRequest{Text: ""})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "text cannot be empty") {
		t.Errorf("error: got %v", err)
	}
}

func TestGenerateBatchViaHTTP(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings/generate/batch" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req models.BatchEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		out := models.BatchEmbedResponse{
			Embeddings: make([][]float32, len(req.Texts)),
			Model:      "all-MiniLM-L6-v2",
			Dimension:  2,
			Count:      len(req.Texts),
		}
		for i := range out.Embeddings {
			out.Embeddings[i] = []float32{0.1, 0.2}
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer stub.Close()

	response, err := generateBatchViaHTTP(stub.URL, &models.BatchEmbedRequest{Texts: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("generateBatchViaHTTP: %v", err)
	}
	if response.Count != 2 || len(response.Embeddings) != 2 {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestHealthViaHTTP(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/health" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(models.HealthResponse{
			Status:    "healthy",
			Model:     "all-MiniLM-L6-v2",
			Device:    "cpu",
			Dimension: 384,
		})
	}))
	defer stub.Close()

	response, err := healthViaHTTP(stub.URL)
	if err != nil {
		t.Fatalf("healthViaHTTP: %v", err)
	}
	if response.Status != "healthy" || response.Dimension != 384 {
		t.Errorf("unexpected response: %+v", response)
	}
}
