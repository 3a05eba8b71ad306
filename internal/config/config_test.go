package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "postboard")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "30")
}

func TestFromEnvDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "postboard.activity", cfg.Events.Queue)
	assert.False(t, cfg.Events.Enabled)
}

func TestFromEnvReportsEveryMissingVariable(t *testing.T) {
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "")

	_, err := FromEnv()
	require.Error(t, err)
	for _, key := range []string{"DB_USER", "DB_HOST", "DB_NAME", "JWT_SECRET", "ACCESS_TOKEN_TTL_MIN"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"asymmetric algorithm", "JWT_ALGORITHM", "RS256", "JWT_ALGORITHM"},
		{"non numeric ttl", "ACCESS_TOKEN_TTL_MIN", "soon", "ACCESS_TOKEN_TTL_MIN"},
		{"zero ttl", "ACCESS_TOKEN_TTL_MIN", "0", "must be positive"},
		{"cost too low", "BCRYPT_COST", "2", "BCRYPT_COST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRateLimitConfigClampsValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestLoadRedisConfigJoinsHostPort(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	assert.Equal(t, "cache:6380", LoadRedisConfig().Addr)
}
