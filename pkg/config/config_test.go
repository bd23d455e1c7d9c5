package config

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_TypesenseConfig(t *testing.T) {
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	t.Setenv("TYPESENSE_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "postgres", cfg.Catalog.Source)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_SOURCE", "MEMORY")
	t.Setenv("JWT_EXPIRE_HOURS", "24")
	t.Setenv("ALLOWED_ORIGINS", "https://care4u.app, https://admin.care4u.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Catalog.Source)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://care4u.app", "https://admin.care4u.app"}, cfg.Server.AllowedOrigins)
}

func TestLoad_RejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownCatalogSource(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "care", Password: "pw", Database: "care4u", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=care password=pw dbname=care4u sslmode=disable", c.DatabaseDSN())
}

func TestLoad_OverlaysVaultSecrets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/care4u/api", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"data":{"jwt_secret":"from-vault","OPENAI_MODEL":"gpt-from-vault"}}}`))
	}))
	defer srv.Close()

	t.Setenv("ENV", "production")
	t.Setenv("VAULT_ENABLED", "true")
	t.Setenv("VAULT_ADDR", srv.URL)
	t.Setenv("VAULT_TOKEN", "root-token")
	t.Setenv("VAULT_PATH", "care4u/api")
	t.Setenv("OPENAI_MODEL", "gpt-from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-vault", cfg.Auth.JWTSecret)
	assert.Equal(t, "gpt-from-env", cfg.OpenAI.Model, "environment wins without VAULT_OVERWRITE")
}

func TestLoad_VaultMisconfigured(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "true")
	t.Setenv("VAULT_ADDR", "")

	_, err := Load()
	assert.Error(t, err)
}
