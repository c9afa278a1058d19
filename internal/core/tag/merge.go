// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tagraph/internal/platform/validate"
)

// MergeResult summarizes an alias merge.
type MergeResult struct {
	SourceID          int64   `json:"source_id"`
	TargetID          int64   `json:"target_id"`
	TargetImagesCount int     `json:"target_images_count"`
	ReindexedImages   int     `json:"reindexed_images"`
	FlattenedAliases  []int64 `json:"flattened_aliases"`
}

// AliasMerger retires a tag into another one.
type AliasMerger struct {
	repo      Repository
	reindexer Reindexer
	logger    *slog.Logger
}

// NewAliasMerger constructs an [AliasMerger].
func NewAliasMerger(repo Repository, reindexer Reindexer, logger *slog.Logger) *AliasMerger {
	return &AliasMerger{repo: repo, reindexer: reindexer, logger: logger}
}

/*
Merge retires the source tag into the tag named targetName.

Description: Every step runs in one SERIALIZABLE transaction, so a failure at
any point, or a concurrent conflicting mutation, leaves the pre-merge state
untouched. After commit no image, filter, watch list, user link or DNP entry
references the source, and the source row remains only to redirect its name.

 1. Lock the source, resolve the target by name (one alias hop) and lock it.
 2. Rewrite hidden, spoilered and watched tag sets.
 3. Copy the source's taggings onto the target, skipping duplicates.
 4. Remove the source's taggings.
 5. Repoint user links and DNP entries.
 6. Recount the target's images from the taggings table.
 7. Flatten aliases of the source, move "X implies source" edges, retire the source.
 8. Collect the target's images for reindexing.

Returns:
  - *MergeResult: Ids involved and the recounted image total
  - error: NOT_FOUND (source or target), VALIDATION_ERROR (self or cyclic
    alias), CONFLICT_ABORT (concurrent mutation, safe to retry)
*/
func (merger *AliasMerger) Merge(context context.Context, sourceID int64, targetName string) (*MergeResult, error) {
	targetName = NormalizeName(targetName)
	if targetName == "" {
		return nil, validate.Invalid("target_name", "This field is required")
	}

	result := &MergeResult{SourceID: sourceID}
	var imageIDs, touchedTags []int64

	err := merger.repo.InTx(context, func(tx Tx) error {
		source, err := tx.GetForUpdate(context, sourceID)
		if err != nil {
			return err
		}
		if source.IsAlias() {
			return validate.Invalid("id", "Tag is already an alias")
		}

		// 1. Target, one alias hop at most
		named, err := tx.FindByName(context, targetName)
		if err != nil {
			return err
		}

		targetID := named.ID
		if named.AliasedTagID != nil {
			targetID = *named.AliasedTagID
		}
		if targetID == source.ID {
			return validate.Invalid("target_name", "A tag cannot be aliased to itself")
		}

		target, err := tx.GetForUpdate(context, targetID)
		if err != nil {
			return err
		}
		if target.IsAlias() {
			return validate.Invalid("target_name", "Target resolves through more than one alias")
		}
		result.TargetID = target.ID

		// 2. Tag sets
		if err := tx.RewriteTagSets(context, source.ID, target.ID); err != nil {
			return err
		}

		// 3-4. Taggings
		images := tx.Images()
		if err := images.CopyTaggings(context, source.ID, target.ID); err != nil {
			return err
		}
		if _, err := images.RemoveTaggings(context, source.ID); err != nil {
			return err
		}

		// 5. Single-valued references
		if err := tx.RepointReferences(context, source.ID, target.ID); err != nil {
			return err
		}

		// 6. Recount, never increment
		count, err := images.CountImages(context, target.ID)
		if err != nil {
			return err
		}
		if err := tx.SetImagesCount(context, target.ID, count); err != nil {
			return err
		}
		result.TargetImagesCount = count

		// 7. Retire
		flattened, err := tx.FlattenAliases(context, source.ID, target.ID)
		if err != nil {
			return err
		}
		result.FlattenedAliases = flattened

		implying, err := tx.MoveImpliedBy(context, source.ID, target.ID)
		if err != nil {
			return err
		}

		implied, err := tx.ImpliedIDs(context, source.ID)
		if err != nil {
			return err
		}

		if err := tx.Retire(context, source.ID, target.ID); err != nil {
			return err
		}

		// 8. Images whose tag list changed
		imageIDs, err = images.ImageIDs(context, target.ID)
		if err != nil {
			return err
		}

		touchedTags = append([]int64{source.ID, target.ID}, flattened...)
		touchedTags = append(touchedTags, implying...)
		touchedTags = append(touchedTags, implied...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ReindexedImages = len(imageIDs)
	if result.FlattenedAliases == nil {
		result.FlattenedAliases = []int64{}
	}

	merger.reindexer.ReindexImages(imageIDs...)
	merger.reindexer.ReindexTags(touchedTags...)

	merger.logger.Info("tag_alias_merged",
		slog.Int64("source_id", result.SourceID),
		slog.Int64("target_id", result.TargetID),
		slog.Int("images_count", result.TargetImagesCount),
		slog.Int("flattened_aliases", len(result.FlattenedAliases)),
	)

	return result, nil
}
