package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"expert-match/internal/domain/matching"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Scoring  ScoringConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	// MigrationsDir overrides the embedded migrations when set.
	MigrationsDir  string
	MigrateOnStart bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int

	// RecommendationTTL of zero disables the recommendation cache.
	RecommendationTTL time.Duration
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
}

type ScoringConfig struct {
	Weights matching.Weights
	Policy  matching.Policy

	DefaultTopN     int
	DefaultMinScore float64
	Parallelism     int
}

// DSN renders the libpq keyword/value connection string understood by both
// pgxpool and the pgx database/sql driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSSLMode,
	)
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_MIGRATE_ON_START", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RECOMMENDATION_CACHE_TTL", "60s")

	v.SetDefault("JWT_ACCESS_EXPIRES_IN", "30m")

	w := matching.DefaultWeights()
	v.SetDefault("SCORING_WEIGHT_SPECIALTY", w.Specialty)
	v.SetDefault("SCORING_WEIGHT_QUALIFICATION", w.Qualification)
	v.SetDefault("SCORING_WEIGHT_CAREER", w.Career)
	v.SetDefault("SCORING_WEIGHT_EVALUATION", w.Evaluation)
	v.SetDefault("SCORING_WEIGHT_AVAILABILITY", w.Availability)

	p := matching.DefaultPolicy()
	v.SetDefault("SCORING_CAREER_CAP_YEARS", p.CareerCapYears)
	v.SetDefault("SCORING_NEUTRAL_SPECIALTY", p.NeutralSpecialty)
	v.SetDefault("SCORING_NEUTRAL_EVALUATION", p.NeutralEvaluation)
	v.SetDefault("SCORING_NEUTRAL_AVAILABILITY", p.NeutralAvailability)
	v.SetDefault("SCORING_DEFAULT_TOP_N", matching.DefaultTopN)
	v.SetDefault("SCORING_DEFAULT_MIN_SCORE", matching.DefaultMinScore)
	v.SetDefault("SCORING_PARALLELISM", 0)

	return v
}

func load(v *viper.Viper) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Log = LogConfig{
		Level:  strings.ToLower(opt("LOG_LEVEL")),
		Format: strings.ToLower(opt("LOG_FORMAT")),
	}

	cfg.Database = loadDatabase(v)

	cfg.Redis = RedisConfig{
		Host:              opt("REDIS_HOST"),
		Port:              opt("REDIS_PORT"),
		Password:          v.GetString("REDIS_PASSWORD"),
		DB:                v.GetInt("REDIS_DB"),
		RecommendationTTL: v.GetDuration("RECOMMENDATION_CACHE_TTL"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET"),
		AccessExpiresIn: v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	scoring, err := loadScoring(v)
	if err != nil {
		return Config{}, err
	}
	cfg.Scoring = scoring

	return cfg, nil
}

// LoadDatabase reads only the DB_* keys, for tooling that never serves HTTP.
func LoadDatabase() (DatabaseConfig, error) {
	_ = godotenv.Load()
	cfg := loadDatabase(newViper())

	var missing []string
	for key, val := range map[string]string{
		"DB_HOST": cfg.DBHost,
		"DB_PORT": cfg.DBPort,
		"DB_NAME": cfg.DBName,
		"DB_USER": cfg.DBUser,
	} {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return DatabaseConfig{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	return cfg, nil
}

func loadDatabase(v *viper.Viper) DatabaseConfig {
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}
	return DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),

		MigrationsDir:  opt("DB_MIGRATIONS_DIR"),
		MigrateOnStart: v.GetBool("DB_MIGRATE_ON_START"),
	}
}

// LoadScoring reads only the SCORING_* keys.
func LoadScoring() (ScoringConfig, error) {
	_ = godotenv.Load()
	return loadScoring(newViper())
}

func loadScoring(v *viper.Viper) (ScoringConfig, error) {
	w := matching.Weights{
		Specialty:     v.GetFloat64("SCORING_WEIGHT_SPECIALTY"),
		Qualification: v.GetFloat64("SCORING_WEIGHT_QUALIFICATION"),
		Career:        v.GetFloat64("SCORING_WEIGHT_CAREER"),
		Evaluation:    v.GetFloat64("SCORING_WEIGHT_EVALUATION"),
		Availability:  v.GetFloat64("SCORING_WEIGHT_AVAILABILITY"),
	}
	if err := w.Validate(); err != nil {
		return ScoringConfig{}, fmt.Errorf("scoring config: %w", err)
	}

	p := matching.DefaultPolicy()
	p.CareerCapYears = v.GetInt("SCORING_CAREER_CAP_YEARS")
	p.NeutralSpecialty = v.GetFloat64("SCORING_NEUTRAL_SPECIALTY")
	p.NeutralEvaluation = v.GetFloat64("SCORING_NEUTRAL_EVALUATION")
	p.NeutralAvailability = v.GetFloat64("SCORING_NEUTRAL_AVAILABILITY")

	sc := ScoringConfig{
		Weights:         w,
		DefaultTopN:     v.GetInt("SCORING_DEFAULT_TOP_N"),
		DefaultMinScore: v.GetFloat64("SCORING_DEFAULT_MIN_SCORE"),
		Parallelism:     v.GetInt("SCORING_PARALLELISM"),
	}

	if sc.DefaultTopN <= 0 || sc.DefaultTopN > matching.MaxTopN {
		return ScoringConfig{}, fmt.Errorf("scoring config: default top_n must be within [1, %d], got %d", matching.MaxTopN, sc.DefaultTopN)
	}
	if sc.DefaultMinScore < 0 || sc.DefaultMinScore > 100 {
		return ScoringConfig{}, fmt.Errorf("scoring config: default min_score must be within [0, 100], got %v", sc.DefaultMinScore)
	}

	// POSSIBLE starts where recommendations start so the two never disagree.
	p.PossibleAt = sc.DefaultMinScore
	if p.RecommendedAt < p.PossibleAt {
		p.RecommendedAt = p.PossibleAt
	}
	if p.HighlyRecommendedAt < p.RecommendedAt {
		p.HighlyRecommendedAt = p.RecommendedAt
	}
	if err := p.Validate(); err != nil {
		return ScoringConfig{}, fmt.Errorf("scoring config: %w", err)
	}
	sc.Policy = p

	return sc, nil
}
