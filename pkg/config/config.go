package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/care4u/backend/pkg/secrets"
)

const defaultJWTSecret = "care4u-dev-secret-change-me"

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Typesense   TypesenseConfig
	Geolocation GeolocationConfig
	OpenAI      OpenAIConfig
	Auth        AuthConfig
	Catalog     CatalogConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// GeolocationConfig holds geolocation provider configuration
type GeolocationConfig struct {
	Provider string
}

// OpenAIConfig holds configuration for the LLM collaborator
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	RateLimitRPM   int
	RateLimitBurst int
	Timeout        time.Duration
	AnalysisTTL    time.Duration
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
}

// CatalogConfig selects where the hospital catalog is read from
type CatalogConfig struct {
	Source string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "care4u")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("TYPESENSE_URL", "http://localhost:8108")
	v.SetDefault("TYPESENSE_API_KEY", "xyz")

	v.SetDefault("GEOLOCATION_PROVIDER", "haversine")

	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("OPENAI_RATE_LIMIT_RPM", 60)
	v.SetDefault("OPENAI_RATE_LIMIT_BURST", 5)
	v.SetDefault("OPENAI_TIMEOUT_SECONDS", 30)
	v.SetDefault("ANALYSIS_CACHE_TTL_SECONDS", 600)

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRE_HOURS", 168)
	v.SetDefault("COOKIE_SECURE", false)

	v.SetDefault("CATALOG_SOURCE", "postgres")

	v.SetDefault("OTEL_SERVICE_NAME", "care4u-api")
	v.SetDefault("OTEL_SERVICE_VERSION", "1.0.0")
	v.SetDefault("OTEL_ENDPOINT", "")
	v.SetDefault("OTEL_ENABLED", false)

	v.SetDefault("VAULT_ENABLED", false)
	v.SetDefault("VAULT_MOUNT", "secret")
	v.SetDefault("VAULT_KV_VERSION", 2)
	v.SetDefault("VAULT_TIMEOUT_MS", 5000)
	v.SetDefault("VAULT_OVERWRITE", false)

	// .env is optional
	_ = v.ReadInConfig()

	if v.GetBool("VAULT_ENABLED") {
		if err := overlayVaultSecrets(v); err != nil {
			return nil, fmt.Errorf("failed to load vault secrets: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			Env:            v.GetString("ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Typesense: TypesenseConfig{
			URL:    v.GetString("TYPESENSE_URL"),
			APIKey: v.GetString("TYPESENSE_API_KEY"),
		},
		Geolocation: GeolocationConfig{
			Provider: v.GetString("GEOLOCATION_PROVIDER"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         v.GetString("OPENAI_API_KEY"),
			Model:          v.GetString("OPENAI_MODEL"),
			BaseURL:        v.GetString("OPENAI_BASE_URL"),
			RateLimitRPM:   v.GetInt("OPENAI_RATE_LIMIT_RPM"),
			RateLimitBurst: v.GetInt("OPENAI_RATE_LIMIT_BURST"),
			Timeout:        time.Duration(v.GetInt("OPENAI_TIMEOUT_SECONDS")) * time.Second,
			AnalysisTTL:    time.Duration(v.GetInt("ANALYSIS_CACHE_TTL_SECONDS")) * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			TokenTTL:     time.Duration(v.GetInt("JWT_EXPIRE_HOURS")) * time.Hour,
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(v.GetString("CATALOG_SOURCE")),
		},
		OTEL: OTELConfig{
			ServiceName:    v.GetString("OTEL_SERVICE_NAME"),
			ServiceVersion: v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:       v.GetString("OTEL_ENDPOINT"),
			Enabled:        v.GetBool("OTEL_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that must not reach production
func (c *Config) Validate() error {
	if c.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	switch c.Catalog.Source {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported CATALOG_SOURCE %q", c.Catalog.Source)
	}
	if c.OpenAI.RateLimitRPM <= 0 {
		return fmt.Errorf("OPENAI_RATE_LIMIT_RPM must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// overlayVaultSecrets copies the Vault KV secret into v. Values already set in
// the process environment win unless VAULT_OVERWRITE is true.
func overlayVaultSecrets(v *viper.Viper) error {
	vault, err := secrets.NewVault(secrets.VaultConfig{
		Addr:      v.GetString("VAULT_ADDR"),
		Token:     v.GetString("VAULT_TOKEN"),
		Namespace: v.GetString("VAULT_NAMESPACE"),
		Mount:     v.GetString("VAULT_MOUNT"),
		Path:      v.GetString("VAULT_PATH"),
		KVVersion: v.GetInt("VAULT_KV_VERSION"),
		Timeout:   time.Duration(v.GetInt("VAULT_TIMEOUT_MS")) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data, err := vault.Read(ctx)
	if err != nil {
		return err
	}

	overwrite := v.GetBool("VAULT_OVERWRITE")
	for key, value := range data {
		key = strings.ToUpper(key)
		if _, inEnv := os.LookupEnv(key); inEnv && !overwrite {
			continue
		}
		v.Set(key, value)
	}
	return nil
}
