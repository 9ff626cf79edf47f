package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsPrefixedEnv(t *testing.T) {
	t.Setenv("RMTEST_DB_HOST", "db.internal")
	t.Setenv("RMTEST_DB_NAME", "routematch")
	t.Setenv("RMTEST_KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RMTEST_JWT_ACCESS_TTL", "30m")
	t.Setenv("RMTEST_SERVICE_PORT", "8090")

	v, err := Load("RMTEST")
	require.NoError(t, err)

	db := LoadDatabaseConfig(v, "DB_NAME")
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, "routematch", db.DBName)
	assert.Equal(t, "5432", db.Port)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, LoadKafkaConfig(v).Brokers)
	assert.Equal(t, 30*time.Minute, LoadJWTConfig(v).AccessTokenTTL)
	assert.Equal(t, ":8090", GetServicePort(v, "SERVICE_PORT"))
	assert.Equal(t, "development", GetAppEnv(v))
}

func TestGetServicePort_Default(t *testing.T) {
	v, err := Load("RMEMPTY")
	require.NoError(t, err)

	assert.Equal(t, ":8080", GetServicePort(v, "SERVICE_PORT"))
	assert.Equal(t, "localhost:6379", LoadRedisConfig(v).Addr)
}

func TestJWTConfig_Validate(t *testing.T) {
	v, err := Load("RMJWT")
	require.NoError(t, err)
	jwtCfg := LoadJWTConfig(v)
	assert.Equal(t, DefaultJWTSecret, jwtCfg.Secret)

	assert.NoError(t, jwtCfg.Validate("development"))
	assert.Error(t, jwtCfg.Validate("production"))

	jwtCfg.Secret = "a-real-secret"
	assert.NoError(t, jwtCfg.Validate("production"))

	jwtCfg.Secret = "  "
	assert.Error(t, jwtCfg.Validate("development"))
}
