package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DATABASE_URL": "postgres://localhost/hub",
		"JWT_SECRET":   "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ModePersistent, cfg.Mode)
	assert.True(t, cfg.Persistent())
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "submissions.received", cfg.AMQP.Queue)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Mongo.URI)
}

func TestLoadWith_PersistentRequiresDatabaseURL(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoadWith_PersistentRequiresJWTSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DATABASE_URL": "postgres://localhost/hub",
	}))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadWith_StatelessNeedsNoSecrets(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"APP_MODE": "stateless",
		"PORT":     "8080",
	}))
	require.NoError(t, err)
	assert.False(t, cfg.Persistent())
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.AllowedOrigins())
}

func TestLoadWith_UnknownMode(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"APP_MODE": "hybrid",
	}))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestAllowedOrigins_IncludesProduction(t *testing.T) {
	cfg := &Config{Port: "3000", ProductionOrigin: "https://hub.example.com"}
	assert.Equal(t, []string{"http://localhost:3000", "https://hub.example.com"}, cfg.AllowedOrigins())
}

func TestLoadWith_RejectsNonPositiveRateLimit(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"zero window":  {"APP_MODE": "stateless", "RATE_LIMIT_WINDOW": "0s"},
		"zero max":     {"APP_MODE": "stateless", "RATE_LIMIT_MAX": "0"},
		"negative max": {"APP_MODE": "stateless", "RATE_LIMIT_MAX": "-5"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			assert.ErrorIs(t, err, ErrInvalidRateLimit)
		})
	}
}

func TestLoadWith_TrustedProxies(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"APP_MODE":        "stateless",
		"TRUSTED_PROXIES": "10.0.0.0/8,203.0.113.7,::1",
	}))
	require.NoError(t, err)

	nets, err := cfg.TrustedProxyNets()
	require.NoError(t, err)
	require.Len(t, nets, 3)
	assert.Equal(t, "10.0.0.0/8", nets[0].String())
	assert.Equal(t, "203.0.113.7/32", nets[1].String())
	assert.Equal(t, "::1/128", nets[2].String())
}

func TestLoadWith_NoTrustedProxiesByDefault(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"APP_MODE": "stateless",
	}))
	require.NoError(t, err)

	nets, err := cfg.TrustedProxyNets()
	require.NoError(t, err)
	assert.Empty(t, nets)
}

func TestLoadWith_InvalidTrustedProxy(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"APP_MODE":        "stateless",
		"TRUSTED_PROXIES": "proxy.internal",
	}))
	assert.ErrorIs(t, err, ErrInvalidProxy)
}
