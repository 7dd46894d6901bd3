package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		DatabaseURL:      "postgres://localhost/accounts",
		DBMaxConns:       10,
		DBMinConns:       2,
		JWTSecret:        "some-secret",
		TokenTTL:         24 * time.Hour,
		BcryptCost:       12,
		RateLimitRPM:     100,
		AuthRateLimitRPM: 10,
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bcrypt cost out of band", func(t *testing.T) {
		for _, cost := range []int{0, 9, 15} {
			cfg := validConfig()
			cfg.BcryptCost = cost
			assert.Error(t, cfg.Validate(), "cost %d", cost)
		}
	})

	t.Run("inconsistent pool bounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.DBMinConns = 20
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/accounts")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)

	// Unset knobs fall back to defaults.
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDuration_BadValueFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")
	assert.Equal(t, time.Minute, getDuration("SOME_DURATION", time.Minute))
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV("  "))
	assert.Equal(t, []string{"a"}, splitCSV("a"))
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a , b , "))
}
