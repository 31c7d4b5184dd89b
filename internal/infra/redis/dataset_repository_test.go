package redis

import (
	"context"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"jleague-quiz/internal/domain"
	"jleague-quiz/internal/infra/memory"
)

func TestDatasetRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		DatasetLoader: memory.NewStaticDatasetLoader(sampleDataset()),
	}
	repo := NewDatasetRepository(client, loader, time.Minute)

	first, err := repo.GetDataset(context.Background(), "mini")
	if err != nil {
		t.Fatalf("get dataset: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:dataset:mini:order") || !mr.Exists("quiz:dataset:mini:teams") {
		t.Fatalf("expected dataset keys in redis")
	}

	// Second call should hit cache, loader not incremented.
	second, err := repo.GetDataset(context.Background(), "mini")
	if err != nil {
		t.Fatalf("get cached dataset: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached dataset differs:\n%+v\n%+v", first, second)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := repo.GetDataset(context.Background(), "mini"); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", loader.calls)
	}
}

func TestDatasetRepositoryIgnoresCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if _, err := mr.Push("quiz:dataset:mini:order", "埼玉県"); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	mr.HSet("quiz:dataset:mini:teams", "埼玉県", "not json")

	loader := &countingLoader{DatasetLoader: memory.NewStaticDatasetLoader(sampleDataset())}
	repo := NewDatasetRepository(newClient(mr), loader, time.Minute)

	ds, err := repo.GetDataset(context.Background(), "mini")
	if err != nil {
		t.Fatalf("get dataset: %v", err)
	}
	if loader.calls != 1 || len(ds.Prefectures) != 2 {
		t.Fatalf("expected reload from loader, calls=%d dataset=%+v", loader.calls, ds)
	}
}

type countingLoader struct {
	memory.DatasetLoader
	calls int
}

func (l *countingLoader) LoadDataset(ctx context.Context, datasetID string) (domain.Dataset, error) {
	l.calls++
	return l.DatasetLoader.LoadDataset(ctx, datasetID)
}

func sampleDataset() domain.Dataset {
	return domain.Dataset{
		ID:    "mini",
		Title: "ミニ",
		Prefectures: []domain.Prefecture{
			{Name: "埼玉県", Teams: []string{"浦和レッズ", "大宮アルディージャ"}},
			{Name: "愛知県", Teams: []string{"名古屋グランパス"}},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
