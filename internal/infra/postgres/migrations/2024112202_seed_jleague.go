package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"jleague-quiz/internal/dataset"
	"jleague-quiz/internal/domain"
)

type datasetRow struct {
	bun.BaseModel `bun:"table:quiz_datasets"`

	ID    string `bun:"id,pk"`
	Title string `bun:"title,notnull"`
}

type prefectureRow struct {
	bun.BaseModel `bun:"table:prefectures"`

	DatasetID string   `bun:"dataset_id,pk"`
	Name      string   `bun:"name,pk"`
	Position  int      `bun:"position,notnull"`
	Teams     []string `bun:"teams,array"`
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return SeedDataset(ctx, db, dataset.Default())
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDelete().Model((*datasetRow)(nil)).Where("id = ?", dataset.DefaultID).Exec(ctx)
			return err
		},
	)
}

// SeedDataset upserts a dataset and replaces its prefectures.
func SeedDataset(ctx context.Context, db *bun.DB, ds domain.Dataset) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&datasetRow{ID: ds.ID, Title: ds.Title}).
			On("CONFLICT (id) DO UPDATE").
			Set("title = EXCLUDED.title").
			Exec(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*prefectureRow)(nil)).Where("dataset_id = ?", ds.ID).Exec(ctx); err != nil {
			return err
		}
		rows := make([]prefectureRow, 0, len(ds.Prefectures))
		for i, p := range ds.Prefectures {
			rows = append(rows, prefectureRow{DatasetID: ds.ID, Name: p.Name, Position: i, Teams: p.Teams})
		}
		if len(rows) == 0 {
			return nil
		}
		_, err = tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
}
