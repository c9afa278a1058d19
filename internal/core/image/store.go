// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tagraph/internal/platform/apperr"
	"github.com/taibuivan/tagraph/internal/platform/database/schema"
	"github.com/taibuivan/tagraph/internal/platform/dberr"
	"github.com/taibuivan/tagraph/internal/platform/postgres"
	"github.com/taibuivan/tagraph/internal/search"
	"github.com/taibuivan/tagraph/pkg/slice"
)

// errTagRetired aborts a tagging update that raced an alias merge.
var errTagRetired = errors.New("image: tag was aliased while tagging")

// Repository defines data access for images.
type Repository interface {
	GetByID(context context.Context, id int64) (*Image, error)

	// LoadDocuments reads the current search documents of the given images.
	LoadDocuments(context context.Context, ids []int64) ([]*search.Document, error)

	// ReplaceTags makes tagIDs the exact tag set of an image in one
	// SERIALIZABLE transaction and recounts every tag that gained or lost it.
	// It returns the ids of those tags.
	ReplaceTags(context context.Context, imageID int64, tagIDs []int64) ([]int64, error)
}

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates an image repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Reads

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Image, error) {
	images, err := repository.loadImages(context, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperr.NotFound("Image")
	}
	return images[0], nil
}

func (repository *PostgresRepository) LoadDocuments(context context.Context, ids []int64) ([]*search.Document, error) {
	images, err := repository.loadImages(context, ids)
	if err != nil {
		return nil, err
	}
	return slice.Map(images, Document), nil
}

// loadImages fetches images with their tags in two queries.
func (repository *PostgresRepository) loadImages(context context.Context, ids []int64) ([]*Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s`,
		schema.CoreImage.ID, schema.CoreImage.Description, schema.CoreImage.CreatedAt, schema.CoreImage.UpdatedAt,
		schema.CoreImage.Table, schema.CoreImage.ID, schema.CoreImage.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "Image")
	}
	defer rows.Close()

	var images []*Image
	byID := make(map[int64]*Image, len(ids))
	for rows.Next() {
		image := &Image{Tags: []TagRef{}}
		if err := rows.Scan(&image.ID, &image.Description, &image.CreatedAt, &image.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "Image")
		}
		images = append(images, image)
		byID[image.ID] = image
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Image")
	}

	if err := repository.preloadTags(context, byID); err != nil {
		return nil, err
	}

	return images, nil
}

func (repository *PostgresRepository) preloadTags(context context.Context, byID map[int64]*Image) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := fmt.Sprintf(`
		SELECT it.%s, t.%s, t.%s, t.%s
		FROM %s it
		JOIN %s t ON t.%s = it.%s
		WHERE it.%s = ANY($1)
		ORDER BY t.%s`,
		schema.ImageTagging.ImageID, schema.CoreTag.ID, schema.CoreTag.Name, schema.CoreTag.Slug,
		schema.ImageTagging.Table,
		schema.CoreTag.Table, schema.CoreTag.ID, schema.ImageTagging.TagID,
		schema.ImageTagging.ImageID,
		schema.CoreTag.Name,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "Image tagging")
	}
	defer rows.Close()

	for rows.Next() {
		var imageID int64
		var ref TagRef
		if err := rows.Scan(&imageID, &ref.ID, &ref.Name, &ref.Slug); err != nil {
			return dberr.Wrap(err, "Image tagging")
		}
		if image, ok := byID[imageID]; ok {
			image.Tags = append(image.Tags, ref)
		}
	}

	return dberr.Wrap(rows.Err(), "Image tagging")
}

// # Writes

func (repository *PostgresRepository) ReplaceTags(context context.Context, imageID int64, tagIDs []int64) ([]int64, error) {
	var changed []int64

	err := postgres.InTx(context, repository.db, postgres.SerializableTx, func(transaction pgx.Tx) error {
		// 1. Lock the image
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			schema.CoreImage.ID, schema.CoreImage.Table, schema.CoreImage.ID)
		var locked int64
		if err := transaction.QueryRow(context, lock, imageID).Scan(&locked); err != nil {
			return dberr.Wrap(err, "Image")
		}

		// 2. Every tag must still be canonical
		if err := lockCanonicalTags(context, transaction, tagIDs); err != nil {
			return err
		}

		// 3. Diff, replace, recount
		store := NewTaggingStore(transaction)
		previous, err := store.TagIDs(context, imageID)
		if err != nil {
			return err
		}

		changed = slice.SymmetricDifference(previous, tagIDs)
		if len(changed) == 0 {
			return nil
		}

		if err := store.ReplaceTaggings(context, imageID, tagIDs); err != nil {
			return err
		}
		return store.RecountTags(context, changed)
	})
	if err != nil {
		return nil, err
	}

	return changed, nil
}

// lockCanonicalTags share-locks the tags and fails when one of them is
// missing or has become an alias since it was resolved.
func lockCanonicalTags(context context.Context, q postgres.Querier, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1) AND %s IS NULL FOR SHARE`,
		schema.CoreTag.ID, schema.CoreTag.Table, schema.CoreTag.ID, schema.CoreTag.AliasedTagID)

	rows, err := q.Query(context, query, tagIDs)
	if err != nil {
		return dberr.Wrap(err, "Tag")
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return dberr.Wrap(err, "Tag")
	}
	if len(found) != len(tagIDs) {
		return apperr.ConflictAbort(errTagRetired)
	}

	return nil
}
