package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"jleague-quiz/internal/dataset"
	"jleague-quiz/internal/domain"
)

// DatasetLoader fetches a prefecture dataset from a backing store (embedded file, Postgres, ...).
type DatasetLoader interface {
	LoadDataset(ctx context.Context, datasetID string) (domain.Dataset, error)
}

// DatasetRepository caches datasets with TTL to avoid repeated loads.
type DatasetRepository struct {
	loader DatasetLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedDataset
}

type cachedDataset struct {
	dataset   domain.Dataset
	expiresAt time.Time
}

func NewDatasetRepository(loader DatasetLoader, ttl time.Duration) *DatasetRepository {
	return &DatasetRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedDataset),
	}
}

func (r *DatasetRepository) GetDataset(ctx context.Context, datasetID string) (domain.Dataset, error) {
	if ds, ok := r.lookup(datasetID); ok {
		return ds, nil
	}

	result, err, _ := r.sf.Do(datasetID, func() (interface{}, error) {
		if ds, ok := r.lookup(datasetID); ok {
			return ds, nil
		}

		ds, err := r.loader.LoadDataset(ctx, datasetID)
		if err != nil {
			return domain.Dataset{}, err
		}

		r.mu.Lock()
		r.cache[datasetID] = cachedDataset{
			dataset:   ds,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return domain.Dataset{}, err
	}
	return result.(domain.Dataset), nil
}

func (r *DatasetRepository) lookup(datasetID string) (domain.Dataset, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[datasetID]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Dataset{}, false
	}
	return entry.dataset, true
}

func (r *DatasetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticDatasetLoader is a loader backed by an in-memory map (embedded data, tests, demos).
type StaticDatasetLoader struct {
	datasets map[string]domain.Dataset
}

func NewStaticDatasetLoader(datasets ...domain.Dataset) *StaticDatasetLoader {
	m := make(map[string]domain.Dataset, len(datasets))
	for _, ds := range datasets {
		m[ds.ID] = ds
	}
	return &StaticDatasetLoader{datasets: m}
}

func (l *StaticDatasetLoader) LoadDataset(_ context.Context, datasetID string) (domain.Dataset, error) {
	if ds, ok := l.datasets[datasetID]; ok {
		return dataset.Clone(ds), nil
	}
	return domain.Dataset{}, domain.ErrDatasetNotFound
}
