package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"jleague-quiz/internal/domain"
)

// DatasetLoader fetches a dataset from a backing store (e.g., Postgres).
type DatasetLoader interface {
	LoadDataset(ctx context.Context, datasetID string) (domain.Dataset, error)
}

// DatasetRepository caches datasets in Redis and falls back to a loader on cache miss.
// Prefecture order is stored as: RPUSH quiz:dataset:{id}:order {name}...
// Teams are stored as:           HSET  quiz:dataset:{id}:teams {name} {json array}
// The title is stored as:        SET   quiz:dataset:{id}:title {title}
type DatasetRepository struct {
	client *redis.Client
	loader DatasetLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewDatasetRepository(client *redis.Client, loader DatasetLoader, ttl time.Duration) *DatasetRepository {
	return &DatasetRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *DatasetRepository) GetDataset(ctx context.Context, datasetID string) (domain.Dataset, error) {
	if ds, ok := r.fromCache(ctx, datasetID); ok {
		return ds, nil
	}

	result, err, _ := r.sf.Do(datasetID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if ds, ok := r.fromCache(ctx, datasetID); ok {
			return ds, nil
		}

		ds, err := r.loader.LoadDataset(ctx, datasetID)
		if err != nil {
			return domain.Dataset{}, err
		}
		r.store(ctx, ds)
		return ds, nil
	})
	if err != nil {
		return domain.Dataset{}, err
	}
	return result.(domain.Dataset), nil
}

func (r *DatasetRepository) fromCache(ctx context.Context, datasetID string) (domain.Dataset, bool) {
	names, err := r.client.LRange(ctx, r.orderKey(datasetID), 0, -1).Result()
	if err != nil || len(names) == 0 {
		return domain.Dataset{}, false
	}
	teams, err := r.client.HGetAll(ctx, r.teamsKey(datasetID)).Result()
	if err != nil {
		return domain.Dataset{}, false
	}
	title, _ := r.client.Get(ctx, r.titleKey(datasetID)).Result()
	ds, err := buildDatasetFromCache(datasetID, title, names, teams)
	if err != nil {
		return domain.Dataset{}, false
	}
	return ds, true
}

func (r *DatasetRepository) store(ctx context.Context, ds domain.Dataset) {
	ttl := r.ttlWithJitter()
	orderKey, teamsKey, titleKey := r.orderKey(ds.ID), r.teamsKey(ds.ID), r.titleKey(ds.ID)

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, orderKey, teamsKey, titleKey)
	for _, p := range ds.Prefectures {
		raw, err := json.Marshal(p.Teams)
		if err != nil {
			return
		}
		pipe.RPush(ctx, orderKey, p.Name)
		pipe.HSet(ctx, teamsKey, p.Name, raw)
	}
	pipe.Set(ctx, titleKey, ds.Title, ttl)
	if ttl > 0 {
		pipe.Expire(ctx, orderKey, ttl)
		pipe.Expire(ctx, teamsKey, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (r *DatasetRepository) orderKey(datasetID string) string {
	return "quiz:dataset:" + datasetID + ":order"
}

func (r *DatasetRepository) teamsKey(datasetID string) string {
	return "quiz:dataset:" + datasetID + ":teams"
}

func (r *DatasetRepository) titleKey(datasetID string) string {
	return "quiz:dataset:" + datasetID + ":title"
}

func buildDatasetFromCache(datasetID, title string, names []string, teams map[string]string) (domain.Dataset, error) {
	if title == "" {
		title = datasetID
	}
	ds := domain.Dataset{ID: datasetID, Title: title, Prefectures: make([]domain.Prefecture, 0, len(names))}
	for _, name := range names {
		raw, ok := teams[name]
		if !ok {
			return domain.Dataset{}, fmt.Errorf("cached dataset %s missing teams for %s", datasetID, name)
		}
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return domain.Dataset{}, fmt.Errorf("decode cached teams: %w", err)
		}
		ds.Prefectures = append(ds.Prefectures, domain.Prefecture{Name: name, Teams: list})
	}
	return ds, nil
}

func (r *DatasetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
