package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/p-n-ai/worksheet-gen/internal/platform/config"
)

func TestSetup_InMemory(t *testing.T) {
	t.Setenv("WS_DATABASE_URL", "")
	t.Setenv("WS_CACHE_URL", "")
	t.Setenv("WS_AI_ANTHROPIC_API_KEY", "")
	t.Setenv("WS_AI_GOOGLE_API_KEY", "")
	t.Setenv("WS_CURRICULUM_PATH", "../../standards")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	handler, cleanup, err := setup(t.Context(), cfg)
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	defer cleanup()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "healthz returns 200",
			method:     http.MethodGet,
			path:       "/healthz",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "readyz returns 200",
			method:     http.MethodGet,
			path:       "/readyz",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "no AI providers listed",
			method:     http.MethodGet,
			path:       "/v1/ai",
			wantStatus: http.StatusOK,
			wantBody:   "{\"providers\":[]}\n",
		},
		{
			name:       "math worksheet without AI",
			method:     http.MethodPost,
			path:       "/v1/worksheets",
			body:       `{"standards": [{"standard": "3.MD.A.2", "count": 2}]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "ELA worksheet without AI",
			method:     http.MethodPost,
			path:       "/v1/worksheets",
			body:       `{"standards": [{"standard": "RL.2", "count": 2}]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestLoadCatalog_FallsBackToEmbedded(t *testing.T) {
	loader, err := loadCatalog(t.TempDir() + "/missing")
	if err != nil {
		t.Fatalf("loadCatalog() error = %v", err)
	}
	if _, ok := loader.Get("RI.2"); !ok {
		t.Error("embedded catalog is missing RI.2")
	}
}

func TestNewRouter(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AIConfig
		want []string
	}{
		{name: "none", want: nil},
		{
			name: "anthropic then google",
			cfg: config.AIConfig{
				Anthropic: config.AnthropicConfig{APIKey: "sk-test", Model: "claude-sonnet-4-6"},
				Google:    config.GoogleConfig{APIKey: "g-test", Model: "gemini-2.5-flash", ImageModel: "gemini-2.5-flash-image"},
			},
			want: []string{"anthropic", "google"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, err := newRouter(tt.cfg)
			if err != nil {
				t.Fatalf("newRouter() error = %v", err)
			}
			got := router.Providers()
			if len(got) != len(tt.want) {
				t.Fatalf("Providers() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Providers()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		logger := newLogger(config.LogConfig{Level: tt.level, Format: "text"})
		if !logger.Enabled(t.Context(), tt.want) {
			t.Errorf("level %q: %v not enabled", tt.level, tt.want)
		}
		if tt.want > slog.LevelDebug && logger.Enabled(t.Context(), tt.want-4) {
			t.Errorf("level %q: %v enabled", tt.level, tt.want-4)
		}
	}
}
