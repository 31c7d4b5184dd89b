package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"jleague-quiz/internal/domain"
)

// DatasetLoader loads prefecture datasets from Postgres.
type DatasetLoader struct {
	pool *pgxpool.Pool
}

func NewDatasetLoader(pool *pgxpool.Pool) *DatasetLoader {
	return &DatasetLoader{pool: pool}
}

func (l *DatasetLoader) LoadDataset(ctx context.Context, datasetID string) (domain.Dataset, error) {
	ds := domain.Dataset{ID: datasetID}
	err := l.pool.QueryRow(ctx, `SELECT title FROM quiz_datasets WHERE id=$1`, datasetID).Scan(&ds.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Dataset{}, fmt.Errorf("load dataset %s: %w", datasetID, domain.ErrDatasetNotFound)
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load dataset: %w", err)
	}

	rows, err := l.pool.Query(ctx,
		`SELECT name, teams FROM prefectures WHERE dataset_id=$1 ORDER BY position`, datasetID)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load prefectures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Prefecture
		if err := rows.Scan(&p.Name, &p.Teams); err != nil {
			return domain.Dataset{}, fmt.Errorf("scan prefecture: %w", err)
		}
		ds.Prefectures = append(ds.Prefectures, p)
	}
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("load prefectures: %w", err)
	}
	return ds, nil
}
