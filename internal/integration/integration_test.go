package integration

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"jleague-quiz/internal/app"
	"jleague-quiz/internal/domain"
	pgloader "jleague-quiz/internal/infra/postgres"
	pgmigrations "jleague-quiz/internal/infra/postgres/migrations"
	infraredis "jleague-quiz/internal/infra/redis"
	"jleague-quiz/internal/report"
)

func TestQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedDataset(t, ctx, pgURL, sampleDataset())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewDatasetLoader(pool)

	// The default dataset is seeded by the migrations.
	jleague, err := loader.LoadDataset(ctx, "jleague")
	if err != nil {
		t.Fatalf("load seeded dataset: %v", err)
	}
	if len(jleague.Prefectures) == 0 || jleague.Prefectures[0].Name != "北海道" {
		t.Fatalf("unexpected seeded dataset %+v", jleague.Prefectures)
	}
	loaded, err := loader.LoadDataset(ctx, "mini")
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	if !reflect.DeepEqual(loaded, sampleDataset()) {
		t.Fatalf("dataset round trip mismatch:\n%+v\n%+v", loaded, sampleDataset())
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	datasets := infraredis.NewDatasetRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(sessionStore, datasets, nil,
		app.WithLocale(report.English),
		app.WithShuffler(func([]domain.Prefecture) {}),
	)

	q, err := service.Start(ctx, "mini")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	outcome, err := service.SubmitAnswer(ctx, q.SessionID, []string{"Team A", "Team A"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !reflect.DeepEqual(outcome.Result.Results, []bool{true, false}) {
		t.Fatalf("expected duplicate suppressed, got %v", outcome.Result.Results)
	}
	if _, err := service.SubmitAnswer(ctx, q.SessionID, []string{"team c"}); err != nil {
		t.Fatalf("submit last: %v", err)
	}
	rep, err := service.Finish(ctx, q.SessionID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if rep.Summary != "score: 2/3" {
		t.Fatalf("unexpected summary %q", rep.Summary)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedDataset(t *testing.T, ctx context.Context, dsn string, ds domain.Dataset) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := pgmigrations.SeedDataset(ctx, db, ds); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
}

func sampleDataset() domain.Dataset {
	return domain.Dataset{
		ID:    "mini",
		Title: "mini quiz",
		Prefectures: []domain.Prefecture{
			{Name: "Alpha", Teams: []string{"Team A", "Team B"}},
			{Name: "Beta", Teams: []string{"Team C"}},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
