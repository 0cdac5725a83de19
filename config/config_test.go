package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var configEnvVars = []string{
	"TRANSPARENCY_SERVER_HOST",
	"TRANSPARENCY_SERVER_PORT",
	"TRANSPARENCY_SERVER_ENVIRONMENT",
	"TRANSPARENCY_SERVER_DEBUG",
	"TRANSPARENCY_SERVER_ALLOWED_ORIGINS",
	"TRANSPARENCY_LOG_LEVEL",
	"TRANSPARENCY_LOG_FILE",
	"TRANSPARENCY_LOG_FORMAT",
	"TRANSPARENCY_GENERATOR_PROVIDER",
	"TRANSPARENCY_GENERATOR_MODEL",
	"TRANSPARENCY_GENERATOR_BASE_URL",
	"TRANSPARENCY_GENERATOR_API_KEY",
	"TRANSPARENCY_GENERATOR_TIMEOUT",
	"TRANSPARENCY_GENERATOR_TRY_MULTIPLIER",
	"TRANSPARENCY_GENERATOR_FALLBACK_MODE",
	"TRANSPARENCY_GENERATOR_SERIALIZE",
	"TRANSPARENCY_SCORER_MODEL_NAME",
	"TRANSPARENCY_RATELIMIT_PER_IP",
	"TRANSPARENCY_RATELIMIT_INFERENCE",
}

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		for _, key := range configEnvVars {
			os.Unsetenv(key)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("Server.Host = %s, want 0.0.0.0", cfg.Server.Host)
		}
		if cfg.Server.Port != "8000" {
			t.Errorf("Server.Port = %s, want 8000", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.Debug {
			t.Errorf("Server.Debug = true, want false")
		}
		if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:3000" {
			t.Errorf("Server.AllowedOrigins = %v, want [http://localhost:3000]", cfg.Server.AllowedOrigins)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
		if cfg.Generator.Provider != ProviderHuggingFace {
			t.Errorf("Generator.Provider = %s, want huggingface", cfg.Generator.Provider)
		}
		if cfg.Generator.Model != "google/flan-t5-base" {
			t.Errorf("Generator.Model = %s, want google/flan-t5-base", cfg.Generator.Model)
		}
		if cfg.Generator.MaxNewTokens != 64 {
			t.Errorf("Generator.MaxNewTokens = %d, want 64", cfg.Generator.MaxNewTokens)
		}
		if cfg.Generator.TopK != 50 {
			t.Errorf("Generator.TopK = %d, want 50", cfg.Generator.TopK)
		}
		if cfg.Generator.Timeout != 30*time.Second {
			t.Errorf("Generator.Timeout = %v, want 30s", cfg.Generator.Timeout)
		}
		if cfg.Generator.TryMultiplier != 5 {
			t.Errorf("Generator.TryMultiplier = %d, want 5", cfg.Generator.TryMultiplier)
		}
		if cfg.Generator.FallbackMode != FallbackNumbered {
			t.Errorf("Generator.FallbackMode = %s, want numbered", cfg.Generator.FallbackMode)
		}
		if !cfg.Generator.Serialize {
			t.Errorf("Generator.Serialize = false, want true")
		}
		if cfg.Scorer.ModelName != "transparency-scorer-v1" {
			t.Errorf("Scorer.ModelName = %s, want transparency-scorer-v1", cfg.Scorer.ModelName)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TRANSPARENCY_SERVER_PORT", "9090")
		os.Setenv("TRANSPARENCY_SERVER_ENVIRONMENT", "production")
		os.Setenv("TRANSPARENCY_SERVER_DEBUG", "true")
		os.Setenv("TRANSPARENCY_SERVER_ALLOWED_ORIGINS", "http://a.example,http://b.example")
		os.Setenv("TRANSPARENCY_LOG_LEVEL", "warn")
		os.Setenv("TRANSPARENCY_GENERATOR_PROVIDER", "OpenAI")
		os.Setenv("TRANSPARENCY_GENERATOR_MODEL", "gpt-4o-mini")
		os.Setenv("TRANSPARENCY_GENERATOR_API_KEY", "sk-test")
		os.Setenv("TRANSPARENCY_GENERATOR_TIMEOUT", "5s")
		os.Setenv("TRANSPARENCY_GENERATOR_FALLBACK_MODE", "repeat")
		os.Setenv("TRANSPARENCY_SCORER_MODEL_NAME", "transparency-scorer-v2")
		os.Setenv("TRANSPARENCY_RATELIMIT_PER_IP", "0")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if !cfg.Server.Debug {
			t.Errorf("Server.Debug = false, want true")
		}
		if strings.Join(cfg.Server.AllowedOrigins, ";") != "http://a.example;http://b.example" {
			t.Errorf("Server.AllowedOrigins = %v, want two origins", cfg.Server.AllowedOrigins)
		}
		if cfg.Log.Level != "warn" {
			t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
		}
		if cfg.Generator.Provider != ProviderOpenAI {
			t.Errorf("Generator.Provider = %s, want openai", cfg.Generator.Provider)
		}
		if cfg.Generator.Model != "gpt-4o-mini" {
			t.Errorf("Generator.Model = %s, want gpt-4o-mini", cfg.Generator.Model)
		}
		if cfg.Generator.Timeout != 5*time.Second {
			t.Errorf("Generator.Timeout = %v, want 5s", cfg.Generator.Timeout)
		}
		if cfg.Generator.FallbackMode != FallbackRepeat {
			t.Errorf("Generator.FallbackMode = %s, want repeat", cfg.Generator.FallbackMode)
		}
		if cfg.Scorer.ModelName != "transparency-scorer-v2" {
			t.Errorf("Scorer.ModelName = %s, want transparency-scorer-v2", cfg.Scorer.ModelName)
		}
		if cfg.RateLimit.PerIP != 0 {
			t.Errorf("RateLimit.PerIP = %d, want 0", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation when openai key is missing", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TRANSPARENCY_GENERATOR_PROVIDER", "openai")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing API key")
		}
		if err.Error() != "invalid configuration: API key is required for the openai provider (set TRANSPARENCY_GENERATOR_API_KEY)" {
			t.Errorf("Load() error = %v, want 'API key is required'", err)
		}
	})

	t.Run("fails validation for unknown provider", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TRANSPARENCY_GENERATOR_PROVIDER", "llama")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for unknown provider")
		}
		if !strings.Contains(err.Error(), "generator provider must be") {
			t.Errorf("Load() error = %v, want provider validation error", err)
		}
	})

	t.Run("fails validation for unknown fallback mode", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TRANSPARENCY_GENERATOR_FALLBACK_MODE", "loop")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for unknown fallback mode")
		}
		if !strings.Contains(err.Error(), "fallback mode must be") {
			t.Errorf("Load() error = %v, want fallback validation error", err)
		}
	})

	t.Run("fails validation for zero try multiplier", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("TRANSPARENCY_GENERATOR_TRY_MULTIPLIER", "0")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for zero try multiplier")
		}
	})
}

func TestServerConfigAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: "8000"}
	if got := s.Address(); got != "127.0.0.1:8000" {
		t.Errorf("Address() = %s, want 127.0.0.1:8000", got)
	}
}
