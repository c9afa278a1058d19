// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package image

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/tagraph/internal/platform/database/schema"
	"github.com/taibuivan/tagraph/internal/platform/dberr"
	"github.com/taibuivan/tagraph/internal/platform/postgres"
)

// TaggingStore reads and rewrites image taggings through q, which is either
// the pool or an open transaction.
type TaggingStore struct {
	q postgres.Querier
}

// NewTaggingStore binds a tagging store to q.
func NewTaggingStore(q postgres.Querier) *TaggingStore {
	return &TaggingStore{q: q}
}

// # Relinking

// CopyTaggings tags every image carrying source with target too. Images that
// already carry target are left alone.
func (store *TaggingStore) CopyTaggings(context context.Context, source, target int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT %s, $2 FROM %s WHERE %s = $1
		ON CONFLICT DO NOTHING`,
		schema.ImageTagging.Table, schema.ImageTagging.ImageID, schema.ImageTagging.TagID,
		schema.ImageTagging.ImageID, schema.ImageTagging.Table, schema.ImageTagging.TagID,
	)

	_, err := store.q.Exec(context, query, source, target)
	return dberr.Wrap(err, "Image tagging")
}

// RemoveTaggings deletes every tagging of tagID and returns the affected images.
func (store *TaggingStore) RemoveTaggings(context context.Context, tagID int64) ([]int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`,
		schema.ImageTagging.Table, schema.ImageTagging.TagID, schema.ImageTagging.ImageID)

	return store.ids(context, query, tagID)
}

// CountImages counts the images tagged with tagID.
func (store *TaggingStore) CountImages(context context.Context, tagID int64) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.ImageTagging.Table, schema.ImageTagging.TagID)

	var count int
	if err := store.q.QueryRow(context, query, tagID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "Image tagging")
	}
	return count, nil
}

// ImageIDs lists the images tagged with tagID, ascending.
func (store *TaggingStore) ImageIDs(context context.Context, tagID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		schema.ImageTagging.ImageID, schema.ImageTagging.Table,
		schema.ImageTagging.TagID, schema.ImageTagging.ImageID)

	return store.ids(context, query, tagID)
}

// # Image Side

// TagIDs lists the tags currently on an image.
func (store *TaggingStore) TagIDs(context context.Context, imageID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		schema.ImageTagging.TagID, schema.ImageTagging.Table,
		schema.ImageTagging.ImageID, schema.ImageTagging.TagID)

	return store.ids(context, query, imageID)
}

// ReplaceTaggings makes tagIDs the exact tag set of an image.
func (store *TaggingStore) ReplaceTaggings(context context.Context, imageID int64, tagIDs []int64) error {
	batch := &pgx.Batch{}

	// 1. Clear existing
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ImageTagging.Table, schema.ImageTagging.ImageID), imageID)

	// 2. Insert new
	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.ImageTagging.Table, schema.ImageTagging.ImageID, schema.ImageTagging.TagID)
	for _, tagID := range tagIDs {
		batch.Queue(insert, imageID, tagID)
	}

	results := store.q.SendBatch(context, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return dberr.Wrap(err, "Image tagging")
		}
	}

	return nil
}

// RecountTags recomputes images_count of the given tags from the taggings table.
func (store *TaggingStore) RecountTags(context context.Context, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s t SET %s = (SELECT COUNT(*) FROM %s it WHERE it.%s = t.%s), %s = NOW()
		WHERE t.%s = ANY($1)`,
		schema.CoreTag.Table, schema.CoreTag.ImagesCount,
		schema.ImageTagging.Table, schema.ImageTagging.TagID, schema.CoreTag.ID,
		schema.CoreTag.UpdatedAt, schema.CoreTag.ID,
	)

	_, err := store.q.Exec(context, query, tagIDs)
	return dberr.Wrap(err, "Tag")
}

func (store *TaggingStore) ids(context context.Context, query string, args ...any) ([]int64, error) {
	rows, err := store.q.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "Image tagging")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, dberr.Wrap(err, "Image tagging")
	}
	return ids, nil
}
