package cli

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"jleague-quiz/internal/app"
	"jleague-quiz/internal/config"
	"jleague-quiz/internal/dataset"
	"jleague-quiz/internal/infra/memory"
	pgloader "jleague-quiz/internal/infra/postgres"
	redisinfra "jleague-quiz/internal/infra/redis"
	"jleague-quiz/internal/report"
	"jleague-quiz/internal/scoring"
)

var errConflictingDatasetSources = errors.New("quiz.datasetFile and postgres.url are both set; seed the file with migrate --seed instead")

// buildService wires the quiz service from config. The returned cleanup closes backing clients.
func buildService(ctx context.Context, cfg config.Config) (*app.QuizService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	aliases := scoring.DefaultAliases()
	if cfg.Quiz.AliasesFile != "" {
		table, err := scoring.LoadAliases(cfg.Quiz.AliasesFile)
		if err != nil {
			return nil, cleanup, err
		}
		aliases = table
	}

	if cfg.Quiz.DatasetFile != "" && cfg.Postgres.URL != "" {
		return nil, cleanup, errConflictingDatasetSources
	}

	var loader memory.DatasetLoader = memory.NewStaticDatasetLoader(dataset.Default())
	if cfg.Quiz.DatasetFile != "" {
		ds, err := dataset.LoadFile(cfg.Quiz.DatasetFile)
		if err != nil {
			return nil, cleanup, err
		}
		loader = memory.NewStaticDatasetLoader(dataset.Default(), ds)
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pool.Close)
		loader = pgloader.NewDatasetLoader(pool)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	datasetTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var datasets app.DatasetRepository
	if redisClient != nil {
		datasets = redisinfra.NewDatasetRepository(redisClient, loader, datasetTTL)
	} else {
		datasets = memory.NewDatasetRepository(loader, datasetTTL)
	}

	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore(sessionTTL)
	}

	service := app.NewQuizService(store, datasets, scoring.NewScorer(aliases),
		app.WithLocale(report.ParseLocale(cfg.Quiz.Locale)))
	return service, cleanup, nil
}

func datasetID(flagValue string, cfg config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Quiz.Dataset != "" {
		return cfg.Quiz.Dataset
	}
	return dataset.DefaultID
}
