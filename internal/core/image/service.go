// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package image

import (
	"context"
	"log/slog"
	"slices"

	"github.com/taibuivan/tagraph/internal/core/tag"
	"github.com/taibuivan/tagraph/pkg/slice"
)

// TagResolver turns tag-list text into canonical tags.
type TagResolver interface {
	Resolve(context context.Context, input string) ([]*tag.Tag, error)
}

// Service implements image tagging.
type Service struct {
	repo      Repository
	resolver  TagResolver
	reindexer tag.Reindexer
	logger    *slog.Logger
}

// NewService creates an image service.
func NewService(repo Repository, resolver TagResolver, reindexer tag.Reindexer, logger *slog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, reindexer: reindexer, logger: logger}
}

func (service *Service) Get(context context.Context, id int64) (*Image, error) {
	return service.repo.GetByID(context, id)
}

/*
UpdateTags replaces the tags of an image with the tags named in input.

Description: Names are resolved to canonical tags (unknown names are created)
and the direct implications of each are added. The image and every tag that
gained or lost it are reindexed after commit.

Returns:
  - *Image: The image with its new tags
  - error: NOT_FOUND, VALIDATION_ERROR, CONFLICT_ABORT
*/
func (service *Service) UpdateTags(context context.Context, imageID int64, input string) (*Image, error) {
	if _, err := service.repo.GetByID(context, imageID); err != nil {
		return nil, err
	}

	resolved, err := service.resolver.Resolve(context, input)
	if err != nil {
		return nil, err
	}

	tags := tag.WithImplied(resolved...)
	tagIDs := slice.Map(tags, func(t *tag.Tag) int64 { return t.ID })
	slices.Sort(tagIDs)

	changed, err := service.repo.ReplaceTags(context, imageID, tagIDs)
	if err != nil {
		return nil, err
	}

	service.reindexer.ReindexImages(imageID)
	if len(changed) > 0 {
		service.reindexer.ReindexTags(changed...)
	}

	service.logger.Info("image_tags_updated",
		slog.Int64("image_id", imageID),
		slog.Int("tag_count", len(tagIDs)),
		slog.Int("changed_tags", len(changed)),
	)

	return service.repo.GetByID(context, imageID)
}
