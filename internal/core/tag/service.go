// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tag implements the tag graph: tag identities, alias merges and
implications, plus the bookkeeping that keeps every dependent record and the
search index consistent with them.

# Components

  - [Repository] / [Tx]: storage, with structural changes in SERIALIZABLE units.
  - [NameResolver]: tag-list text to canonical tags, creating unknown names.
  - [AliasMerger]: retires a tag into another one across all dependents.
  - [Service]: attribute edits, implication edits and deletion.

Search documents are never written inline. Every mutation hands the affected
ids to a [Reindexer] once its transaction has committed.
*/
package tag

import (
	"context"
	"log/slog"
	"slices"

	"github.com/taibuivan/tagraph/internal/platform/apperr"
	"github.com/taibuivan/tagraph/internal/platform/constants"
	"github.com/taibuivan/tagraph/internal/platform/validate"
	"github.com/taibuivan/tagraph/pkg/slice"
)

// # Service Layer

// Service is the entry point for every tag operation.
type Service struct {
	repo      Repository
	resolver  *NameResolver
	merger    *AliasMerger
	reindexer Reindexer
	logger    *slog.Logger
}

// NewService wires a [Service] and its resolver and merger.
func NewService(repo Repository, reindexer Reindexer, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		resolver:  NewNameResolver(repo, reindexer, logger),
		merger:    NewAliasMerger(repo, reindexer, logger),
		reindexer: reindexer,
		logger:    logger,
	}
}

// Resolver exposes the name resolver to other domains (image tagging).
func (service *Service) Resolver() *NameResolver {
	return service.resolver
}

// # Lookups

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Tag, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id int64) (*Tag, error) {
	return service.repo.GetByID(context, id)
}

func (service *Service) GetBySlug(context context.Context, slug string) (*Tag, error) {
	return service.repo.GetBySlug(context, slug)
}

// Resolve delegates to [NameResolver.Resolve].
func (service *Service) Resolve(context context.Context, input string) ([]*Tag, error) {
	return service.resolver.Resolve(context, input)
}

// # Attribute Edits

// CreateInput carries an explicit administrative creation.
type CreateInput struct {
	Name        string
	Description string
	Category    string
}

// Create adds a tag. A taken name is a CONFLICT.
func (service *Service) Create(context context.Context, input CreateInput) (*Tag, error) {
	name := NormalizeName(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.
		MaxLen("description", input.Description, constants.TagDescriptionMaxLength).
		MaxLen("category", input.Category, constants.TagCategoryMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	tag := newTag(name)
	tag.Description = input.Description
	if input.Category != "" {
		tag.Category = input.Category
	}

	if err := service.repo.Create(context, tag); err != nil {
		return nil, err
	}

	service.reindexer.ReindexTags(tag.ID)
	service.logger.Info("tag_created", slog.Int64("tag_id", tag.ID), slog.String("name", tag.Name))

	return tag, nil
}

// UpdateInput patches free-form attributes. Nil fields are left unchanged.
type UpdateInput struct {
	Description *string
	Category    *string
}

func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Tag, error) {
	validator := &validate.Validator{}
	if input.Description != nil {
		validator.MaxLen("description", *input.Description, constants.TagDescriptionMaxLength)
	}
	if input.Category != nil {
		validator.MaxLen("category", *input.Category, constants.TagCategoryMaxLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	tag, err := service.repo.UpdateAttributes(context, id, input.Description, input.Category)
	if err != nil {
		return nil, err
	}

	service.reindexer.ReindexTags(id)
	return tag, nil
}

// # Structural Edits

// Alias delegates to [AliasMerger.Merge].
func (service *Service) Alias(context context.Context, sourceID int64, targetName string) (*MergeResult, error) {
	return service.merger.Merge(context, sourceID, targetName)
}

/*
SetImplications replaces the set of tags id implies with the tags named in input.

Description: Implied tags are never created. Unknown names are dropped, aliased
names are replaced by their target, and a tag implying itself is ignored. The
tag and every tag whose implied-by view changed are reindexed.

Returns:
  - *Tag: The tag with its new implications
  - error: NOT_FOUND, VALIDATION_ERROR (aliased tag), CONFLICT_ABORT
*/
func (service *Service) SetImplications(context context.Context, id int64, input string) (*Tag, error) {
	names, err := ParseTagList(input)
	if err != nil {
		return nil, err
	}

	var changed []int64

	err = service.repo.InTx(context, func(tx Tx) error {
		tag, err := tx.GetForUpdate(context, id)
		if err != nil {
			return err
		}
		if tag.IsAlias() {
			return validate.Invalid("id", "An aliased tag cannot have implications")
		}

		found, err := tx.FindByNames(context, names)
		if err != nil {
			return err
		}

		byName := make(map[string]*Tag, len(found))
		for _, candidate := range found {
			byName[candidate.Name] = candidate
		}

		implied := make([]int64, 0, len(found))
		for _, name := range names {
			candidate, ok := byName[name]
			if !ok {
				continue
			}
			impliedID := candidate.ID
			if candidate.AliasedTagID != nil {
				impliedID = *candidate.AliasedTagID
			}
			if impliedID == id {
				continue
			}
			implied = append(implied, impliedID)
		}
		implied = slice.Unique(implied)

		previous, err := tx.ImpliedIDs(context, id)
		if err != nil {
			return err
		}

		if err := tx.ReplaceImplications(context, id, implied); err != nil {
			return err
		}

		changed = slice.SymmetricDifference(previous, implied)
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.reindexer.ReindexTags(append([]int64{id}, changed...)...)
	service.logger.Info("tag_implications_updated", slog.Int64("tag_id", id), slog.Int("changed", len(changed)))

	return service.repo.GetByID(context, id)
}

/*
Delete removes a tag and everything attached to it.

Description: Taggings are removed first, the id is stripped from filter and
watch sets, then the row is dropped. Implication edges cascade, user links are
nulled, and DNP entries block the delete. A tag that other tags alias to
cannot be deleted; those aliases would lose their target.

Returns:
  - error: NOT_FOUND, CONFLICT (aliases or DNP entries), CONFLICT_ABORT
*/
func (service *Service) Delete(context context.Context, id int64) error {
	var imageIDs, neighbours []int64

	err := service.repo.InTx(context, func(tx Tx) error {
		if _, err := tx.GetForUpdate(context, id); err != nil {
			return err
		}

		aliases, err := tx.AliasIDs(context, id)
		if err != nil {
			return err
		}
		if len(aliases) > 0 {
			return apperr.Conflict("Tag is the target of aliases and cannot be deleted")
		}

		imageIDs, err = tx.Images().RemoveTaggings(context, id)
		if err != nil {
			return err
		}

		if err := tx.RewriteTagSets(context, id, 0); err != nil {
			return err
		}

		implied, err := tx.ImpliedIDs(context, id)
		if err != nil {
			return err
		}
		impliedBy, err := tx.ImpliedByIDs(context, id)
		if err != nil {
			return err
		}
		neighbours = slices.Concat(implied, impliedBy)

		return tx.Delete(context, id)
	})
	if err != nil {
		return err
	}

	service.reindexer.ReindexImages(imageIDs...)
	service.reindexer.ReindexTags(append([]int64{id}, neighbours...)...)

	service.logger.Info("tag_deleted", slog.Int64("tag_id", id), slog.Int("images", len(imageIDs)))
	return nil
}
