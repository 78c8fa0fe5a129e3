package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expert-match/internal/config"
	"expert-match/internal/database"
	dbpostgres "expert-match/internal/database/postgres"
	"expert-match/internal/domain/matching"
	"expert-match/internal/infrastructure/cache"
	"expert-match/internal/pkg/jwt"
	"expert-match/internal/pkg/logger"
	"expert-match/internal/repository"
	"expert-match/internal/usecase"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	JWT    jwt.Service

	Recommendations usecase.RecommendationUsecase
	Compatibility   usecase.CompatibilityUsecase
	Proposals       usecase.ProposalUsecase
	Analytics       usecase.AnalyticsUsecase
	Lifecycle       usecase.LifecycleUsecase
}

func NewContainer(cfg config.Config) (*Container, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	redisCache := cache.NewRedis(ctx, cfg.Redis, log.Named("cache"))

	c, err := wire(cfg, log, db, redisCache)
	if err != nil {
		_ = db.Close()
		_ = redisCache.Close()
		return nil, err
	}
	return c, nil
}

// wire assembles repositories and usecases on top of already opened
// connections.
func wire(cfg config.Config, log *zap.Logger, db database.DB, redisCache *cache.Redis) (*Container, error) {
	calc, err := matching.NewCalculator(cfg.Scoring.Weights, cfg.Scoring.Policy)
	if err != nil {
		return nil, fmt.Errorf("build calculator: %w", err)
	}
	recommender := matching.NewRecommender(calc, cfg.Scoring.Parallelism)

	experts := repository.NewPostgresExpertRepository(db)
	demands := repository.NewPostgresDemandRepository(db)
	matchings := repository.NewPostgresMatchingRepository(db)

	ucLog := log.Named("usecase")

	return &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Cache:  redisCache,
		JWT:    jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn),

		Recommendations: usecase.NewRecommendationUsecase(demands, experts, recommender, redisCache, usecase.RecommendationOptions{
			DefaultTopN:     cfg.Scoring.DefaultTopN,
			DefaultMinScore: cfg.Scoring.DefaultMinScore,
			CacheTTL:        cfg.Redis.RecommendationTTL,
		}, ucLog),
		Compatibility: usecase.NewCompatibilityUsecase(demands, experts, calc, ucLog),
		Proposals:     usecase.NewProposalUsecase(demands, experts, matchings, calc, redisCache, ucLog),
		Analytics:     usecase.NewAnalyticsUsecase(matchings, ucLog),
		Lifecycle:     usecase.NewLifecycleUsecase(matchings, redisCache, ucLog),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}
