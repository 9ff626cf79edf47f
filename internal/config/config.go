package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/config"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/matching"
)

// MatchingConfig holds the route matching defaults applied when a request leaves them out.
type MatchingConfig struct {
	DefaultStrategy   matching.Strategy
	StrictRadiusKm    float64
	FlexibleRadiusKm  float64
	// CandidatePageSize is how many pending deliveries an order check loads per page.
	CandidatePageSize int
}

// ServiceConfig holds all configuration for the route matching service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    config.DatabaseConfig
	JWTConfig   config.JWTConfig
	KafkaConfig config.KafkaConfig
	RedisConfig config.RedisConfig
	Matching    MatchingConfig
	OTPTTL      time.Duration

	v *viper.Viper
}

// Load reads configuration from ROUTEMATCH_* environment variables and an optional config.yaml.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("ROUTEMATCH")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "routematch")
	v.SetDefault("OTP_TTL", "24h")
	v.SetDefault("MATCHING.DEFAULT_STRATEGY", string(matching.StrategyStrict))
	v.SetDefault("MATCHING.STRICT_RADIUS_KM", matching.DefaultStrictRadiusKm)
	v.SetDefault("MATCHING.FLEXIBLE_RADIUS_KM", matching.DefaultFlexibleRadiusKm)
	v.SetDefault("MATCHING.CANDIDATE_PAGE_SIZE", 500)

	m, err := loadMatching(v)
	if err != nil {
		return nil, err
	}

	appEnv := config.GetAppEnv(v)
	jwtCfg := config.LoadJWTConfig(v)
	if err := jwtCfg.Validate(appEnv); err != nil {
		return nil, err
	}

	return &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      appEnv,
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:   jwtCfg,
		KafkaConfig: config.LoadKafkaConfig(v),
		RedisConfig: config.LoadRedisConfig(v),
		Matching:    m,
		OTPTTL:      v.GetDuration("OTP_TTL"),
		v:           v,
	}, nil
}

func loadMatching(v *viper.Viper) (MatchingConfig, error) {
	strategy, err := matching.ParseStrategy(v.GetString("MATCHING.DEFAULT_STRATEGY"), matching.StrategyStrict)
	if err != nil {
		return MatchingConfig{}, fmt.Errorf("matching.default_strategy: %w", err)
	}
	m := MatchingConfig{
		DefaultStrategy:   strategy,
		StrictRadiusKm:    v.GetFloat64("MATCHING.STRICT_RADIUS_KM"),
		FlexibleRadiusKm:  v.GetFloat64("MATCHING.FLEXIBLE_RADIUS_KM"),
		CandidatePageSize: v.GetInt("MATCHING.CANDIDATE_PAGE_SIZE"),
	}
	if m.StrictRadiusKm <= 0 || m.FlexibleRadiusKm <= 0 {
		return MatchingConfig{}, fmt.Errorf("matching radii must be positive")
	}
	if m.CandidatePageSize <= 0 {
		return MatchingConfig{}, fmt.Errorf("matching.candidate_page_size must be positive")
	}
	return m, nil
}

// WatchMatching reloads the matching section whenever the config file changes and passes valid
// results to onChange. It does nothing when no config file was found.
func (c *ServiceConfig) WatchMatching(log *zap.Logger, onChange func(MatchingConfig)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		m, err := loadMatching(c.v)
		if err != nil {
			log.Warn("ignoring invalid matching config", zap.String("file", e.Name), zap.Error(err))
			return
		}
		log.Info("matching config reloaded",
			zap.String("strategy", string(m.DefaultStrategy)),
			zap.Float64("strict_radius_km", m.StrictRadiusKm),
			zap.Float64("flexible_radius_km", m.FlexibleRadiusKm),
		)
		onChange(m)
	})
	c.v.WatchConfig()
}
