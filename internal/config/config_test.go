package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/matching"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "routematch", cfg.DBConfig.DBName)
	assert.Equal(t, matching.StrategyStrict, cfg.Matching.DefaultStrategy)
	assert.Equal(t, matching.DefaultStrictRadiusKm, cfg.Matching.StrictRadiusKm)
	assert.Equal(t, matching.DefaultFlexibleRadiusKm, cfg.Matching.FlexibleRadiusKm)
	assert.Equal(t, 500, cfg.Matching.CandidatePageSize)
	assert.Equal(t, 24*time.Hour, cfg.OTPTTL)
}

func TestLoad_MatchingFromEnv(t *testing.T) {
	t.Setenv("ROUTEMATCH_MATCHING_DEFAULT_STRATEGY", "flexible")
	t.Setenv("ROUTEMATCH_MATCHING_FLEXIBLE_RADIUS_KM", "3.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, matching.StrategyFlexible, cfg.Matching.DefaultStrategy)
	assert.Equal(t, 3.5, cfg.Matching.FlexibleRadiusKm)
}

func TestLoad_RejectsBadMatching(t *testing.T) {
	t.Setenv("ROUTEMATCH_MATCHING_DEFAULT_STRATEGY", "closest")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ROUTEMATCH_MATCHING_DEFAULT_STRATEGY", "strict")
	t.Setenv("ROUTEMATCH_MATCHING_STRICT_RADIUS_KM", "-1")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_ProductionNeedsJWTSecret(t *testing.T) {
	t.Setenv("ROUTEMATCH_APP_ENV", "production")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("ROUTEMATCH_JWT_SECRET", "s3cr3t-from-vault")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "s3cr3t-from-vault", cfg.JWTConfig.Secret)
}
