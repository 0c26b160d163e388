package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Debug   bool          `mapstructure:"debug"`
	JSON    bool          `mapstructure:"json"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Auth    AuthConfig    `mapstructure:"auth"`
	AI      AIConfig      `mapstructure:"ai"`
	Session SessionConfig `mapstructure:"session"`
}

type HTTPConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	URI string `mapstructure:"uri"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt-secret"`
	TokenTTL      time.Duration `mapstructure:"token-ttl"`
	AdminEmail    string        `mapstructure:"admin-email"`
	AdminPassword string        `mapstructure:"admin-password"`
}

type SessionConfig struct {
	// TTL is how long live session state stays in Redis
	TTL time.Duration `mapstructure:"ttl"`
	// LockTTL bounds how long one answer may hold the session lock
	LockTTL time.Duration `mapstructure:"lock-ttl"`
}

// envBindings maps config keys to their environment variables
var envBindings = map[string]string{
	"http.port":            "PORT",
	"http.allowed-origins": "CORS_ALLOWED_ORIGINS",
	"mongo.uri":            "MONGO_URI",
	"mongo.database":       "MONGO_DATABASE",
	"redis.uri":            "REDIS_URI",
	"auth.jwt-secret":      "JWT_SECRET",
	"auth.admin-email":     "ADMIN_EMAIL",
	"auth.admin-password":  "ADMIN_PASSWORD",
	"ai.api-key":           "GEMINI_API_KEY",
	"ai.models.claims":     "GEMINI_MODEL_CLAIMS",
	"ai.models.follow-up":  "GEMINI_MODEL_FOLLOWUP",
	"ai.models.feedback":   "GEMINI_MODEL_FEEDBACK",
	"ai.models.embedding":  "GEMINI_MODEL_EMBEDDING",
	"ai.timeout-ms":        "AI_TIMEOUT_MS",
	"ai.max-retries":       "AI_MAX_RETRIES",
	"ai.use-embeddings":    "AI_USE_EMBEDDINGS",
	"session.ttl":          "SESSION_TTL",
	"session.lock-ttl":     "SESSION_LOCK_TTL",
}

// SetDefaults registers default values and environment bindings on v
func SetDefaults(v *viper.Viper) error {
	ai := DefaultAIConfig()
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.allowed-origins", []string{"http://localhost:3000"})
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "interviewcoach")
	v.SetDefault("redis.uri", "redis://localhost:6379/0")
	v.SetDefault("auth.jwt-secret", devJWTSecret)
	v.SetDefault("auth.token-ttl", 24*time.Hour)
	v.SetDefault("ai.models.claims", ai.Models.Claims)
	v.SetDefault("ai.models.follow-up", ai.Models.FollowUp)
	v.SetDefault("ai.models.feedback", ai.Models.Feedback)
	v.SetDefault("ai.models.embedding", ai.Models.Embedding)
	v.SetDefault("ai.timeout-ms", ai.TimeoutMS)
	v.SetDefault("ai.max-retries", ai.MaxRetries)
	v.SetDefault("ai.use-embeddings", ai.UseEmbeddings)
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.lock-ttl", 30*time.Second)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s environment variable: %w", env, err)
		}
	}
	return nil
}

// LoadDotEnv loads a local .env file if present. Existing variables win.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load unmarshals v into a Config and checks it
func Load(v *viper.Viper) (*Config, error) {
	if err := SetDefaults(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.HTTP.AllowedOrigins = splitOrigins(cfg.HTTP.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the server cannot start with
func (c *Config) Validate() error {
	var problems []string
	if c.Mongo.URI == "" {
		problems = append(problems, "mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		problems = append(problems, "mongo.database is required")
	}
	if c.Redis.URI == "" {
		problems = append(problems, "redis.uri is required")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt-secret is required")
	}
	if c.Session.TTL <= 0 {
		problems = append(problems, "session.ttl must be positive")
	}
	if c.Session.LockTTL <= 0 {
		problems = append(problems, "session.lock-ttl must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// UsesDevSecret reports whether the JWT secret is the built-in default
func (c *Config) UsesDevSecret() bool {
	return c.Auth.JWTSecret == devJWTSecret
}

// splitOrigins accepts both a list and a single comma separated value
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
