package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported generator providers
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

// Supported fallback padding modes
const (
	FallbackNumbered = "numbered"
	FallbackRepeat   = "repeat"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Generator GeneratorConfig
	Scorer    ScorerConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	Debug          bool     `mapstructure:"debug"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Address returns the host:port pair the HTTP server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// GeneratorConfig holds text generation model configuration
type GeneratorConfig struct {
	Provider      string        `mapstructure:"provider"` // "huggingface" or "openai"
	Model         string        `mapstructure:"model"`
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	MaxNewTokens  int           `mapstructure:"max_new_tokens"`
	Temperature   float32       `mapstructure:"temperature"`
	TopK          int           `mapstructure:"top_k"`
	TopP          float32       `mapstructure:"top_p"`
	Timeout       time.Duration `mapstructure:"timeout"`
	TryMultiplier int           `mapstructure:"try_multiplier"`
	FallbackMode  string        `mapstructure:"fallback_mode"` // "numbered" or "repeat"
	Serialize     bool          `mapstructure:"serialize"`
}

// ScorerConfig holds transparency scorer configuration
type ScorerConfig struct {
	ModelName string `mapstructure:"model_name"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP     int     `mapstructure:"per_ip"`    // requests per minute per client IP, 0 disables
	Inference float64 `mapstructure:"inference"` // outbound inference requests per second
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments use the environment
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/transparency-ai/")

	v.SetEnvPrefix("TRANSPARENCY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.Generator.Provider = strings.ToLower(strings.TrimSpace(config.Generator.Provider))
	config.Generator.FallbackMode = strings.ToLower(strings.TrimSpace(config.Generator.FallbackMode))

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.format", "console")

	// Generator defaults
	v.SetDefault("generator.provider", ProviderHuggingFace)
	v.SetDefault("generator.model", "google/flan-t5-base")
	v.SetDefault("generator.base_url", "https://api-inference.huggingface.co/models")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.max_new_tokens", 64)
	v.SetDefault("generator.temperature", 0.85)
	v.SetDefault("generator.top_k", 50)
	v.SetDefault("generator.top_p", 0.95)
	v.SetDefault("generator.timeout", "30s")
	v.SetDefault("generator.try_multiplier", 5)
	v.SetDefault("generator.fallback_mode", FallbackNumbered)
	v.SetDefault("generator.serialize", true)

	// Scorer defaults
	v.SetDefault("scorer.model_name", "transparency-scorer-v1")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.inference", 5.0)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Generator.Provider {
	case ProviderHuggingFace, ProviderOpenAI:
	default:
		return fmt.Errorf("generator provider must be 'huggingface' or 'openai', got: %s", config.Generator.Provider)
	}

	if config.Generator.Provider == ProviderOpenAI && config.Generator.APIKey == "" {
		return fmt.Errorf("API key is required for the openai provider (set TRANSPARENCY_GENERATOR_API_KEY)")
	}

	if config.Generator.Model == "" {
		return fmt.Errorf("generator model must not be empty")
	}

	switch config.Generator.FallbackMode {
	case FallbackNumbered, FallbackRepeat:
	default:
		return fmt.Errorf("fallback mode must be 'numbered' or 'repeat', got: %s", config.Generator.FallbackMode)
	}

	if config.Generator.TryMultiplier < 1 {
		return fmt.Errorf("try multiplier must be at least 1, got: %d", config.Generator.TryMultiplier)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
