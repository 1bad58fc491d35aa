package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/binko-idea-agent/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "PORT", "CORS_ORIGINS", "RATE_LIMIT_PER_MINUTE",
		"DATABASE_DRIVER", "DATABASE_URL", "LLM_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"LLM_MODEL", "GENERATION_MAX_ATTEMPTS", "MODEL_MAX_RETRIES", "CANDIDATE_LIMIT",
		"CANDIDATE_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 60, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 15, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 0.8, cfg.LLM.Temperature)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, 15, cfg.Generation.CandidateLimit)
}

func TestProductionRequiresCredential(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestGeminiSelectedWhenOnlyGeminiKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.LLM.Model)
}

func TestDatabaseURLMustBePostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "mysql://root@localhost/binko")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:ideas.db")
	_, err = Load()
	assert.NoError(t, err)
}

func TestCORSOriginsList(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}
