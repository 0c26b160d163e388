package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != "8080" || cfg.Mongo.Database != "interviewcoach" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.TTL != 2*time.Hour || cfg.Session.LockTTL != 30*time.Second {
		t.Errorf("session defaults = %+v", cfg.Session)
	}
	if cfg.AI.Models.Embedding != "text-embedding-004" || cfg.AI.MaxRetries != 2 {
		t.Errorf("ai defaults = %+v", cfg.AI)
	}
	if !cfg.UsesDevSecret() {
		t.Error("expected the development secret by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_DATABASE", "coach_test")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("AI_TIMEOUT_MS", "2500")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != "9090" || cfg.Mongo.Database != "coach_test" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.UsesDevSecret() {
		t.Error("JWT_SECRET was not applied")
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.HTTP.AllowedOrigins, want) {
		t.Errorf("origins = %v, want %v", cfg.HTTP.AllowedOrigins, want)
	}
	if cfg.Session.TTL != 45*time.Minute {
		t.Errorf("session ttl = %v", cfg.Session.TTL)
	}
	if cfg.AI.Timeout() != 2500*time.Millisecond || !cfg.AI.IsEnabled() {
		t.Errorf("ai = %+v", cfg.AI)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interviewcoach.yaml")
	data := "http:\n  port: \"7000\"\nai:\n  models:\n    claims: gemini-custom\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != "7000" || cfg.AI.Models.Claims != "gemini-custom" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.AI.Models.Feedback != "gemini-2.0-flash" {
		t.Errorf("defaults lost: %+v", cfg.AI.Models)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty config")
	}
	for _, want := range []string{"mongo.uri", "redis.uri", "auth.jwt-secret", "session.ttl", "session.lock-ttl"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("INTERVIEWCOACH_TEST_VALUE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("INTERVIEWCOACH_TEST_VALUE") })
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("INTERVIEWCOACH_TEST_VALUE"); got != "loaded" {
		t.Errorf("env value = %q", got)
	}
}

func TestValidateLockTTL(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Session.LockTTL = 0
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "session.lock-ttl") {
		t.Fatalf("expected lock-ttl error, got %v", err)
	}
}
