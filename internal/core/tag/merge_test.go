// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tagraph/internal/platform/apperr"
)

func setupMerger(t *testing.T) (*AliasMerger, *memStore, *recordingReindexer) {
	t.Helper()

	store := newMemStore()
	reindexer := &recordingReindexer{}
	return NewAliasMerger(store, reindexer, discardLogger()), store, reindexer
}

func sorted(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

func TestMerge_RecountsTargetImages(t *testing.T) {
	merger, store, reindexer := setupMerger(t)
	store.seedTag(1, "source")
	store.seedTag(2, "target")
	store.seedImages(1, 100, 101, 102, 103, 104)
	store.seedImages(2, 104, 105, 106)

	result, err := merger.Merge(context.Background(), 1, "Target")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TargetID)
	assert.Equal(t, 7, result.TargetImagesCount)
	assert.Equal(t, 7, result.ReindexedImages)
	assert.Empty(t, result.FlattenedAliases)

	source := store.tag(1)
	require.NotNil(t, source.AliasedTagID)
	assert.Equal(t, int64(2), *source.AliasedTagID)
	assert.Zero(t, source.ImagesCount)
	assert.Equal(t, 7, store.tag(2).ImagesCount)

	assert.Empty(t, store.imagesOf(1))
	assert.Equal(t, []int64{100, 101, 102, 103, 104, 105, 106}, store.imagesOf(2))

	assert.Equal(t, []int64{100, 101, 102, 103, 104, 105, 106}, sorted(reindexer.images))
	assert.Subset(t, reindexer.tags, []int64{1, 2})
}

func TestMerge_RewritesDependents(t *testing.T) {
	merger, store, _ := setupMerger(t)
	store.seedTag(1, "one")
	store.seedTag(2, "two")
	store.seedTag(3, "three")
	store.seedTag(9, "nine")

	store.state.filters[50] = &memFilter{hidden: []int64{1, 2, 3}, spoilered: []int64{2}}
	store.state.filters[51] = &memFilter{hidden: []int64{3}}
	store.state.watched[7] = []int64{2, 9}
	store.state.links[20] = 2
	store.state.dnp[30] = 2

	_, err := merger.Merge(context.Background(), 2, "nine")
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3, 9}, store.state.filters[50].hidden)
	assert.Equal(t, []int64{9}, store.state.filters[50].spoilered)
	assert.Equal(t, []int64{3}, store.state.filters[51].hidden)
	assert.Equal(t, []int64{9}, store.state.watched[7])
	assert.Equal(t, int64(9), store.state.links[20])
	assert.Equal(t, int64(9), store.state.dnp[30])
}

func TestMerge_FlattensAliasesAndMovesImplications(t *testing.T) {
	merger, store, reindexer := setupMerger(t)
	store.seedTag(1, "source")
	store.seedTag(2, "target")
	store.seedTag(3, "old name")
	store.seedTag(4, "implier")
	store.seedTag(5, "implied")
	store.seedAlias(3, 1)
	store.seedImplication(4, 1)
	store.seedImplication(2, 1)
	store.seedImplication(1, 5)

	result, err := merger.Merge(context.Background(), 1, "target")
	require.NoError(t, err)

	assert.Equal(t, []int64{3}, result.FlattenedAliases)
	assert.Equal(t, int64(2), *store.tag(3).AliasedTagID)

	assert.Contains(t, store.state.implications, edge{4, 2})
	assert.NotContains(t, store.state.implications, edge{2, 2})
	assert.NotContains(t, store.state.implications, edge{4, 1})
	assert.NotContains(t, store.state.implications, edge{1, 5})

	assert.Subset(t, reindexer.tags, []int64{1, 2, 3, 4, 5})
}

func TestMerge_TargetThroughAlias(t *testing.T) {
	merger, store, _ := setupMerger(t)
	store.seedTag(1, "source")
	store.seedTag(2, "target")
	store.seedTag(3, "target alias")
	store.seedAlias(3, 2)

	result, err := merger.Merge(context.Background(), 1, "target alias")
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TargetID)
	assert.Equal(t, int64(2), *store.tag(1).AliasedTagID)
}

func TestMerge_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		sourceID int64
		target   string
		wantCode string
	}{
		{"self", 1, "source", apperr.CodeValidation},
		{"cycle_through_alias", 1, "points at source", apperr.CodeValidation},
		{"source_already_alias", 3, "target", apperr.CodeValidation},
		{"blank_target", 1, "  ", apperr.CodeValidation},
		{"missing_target", 1, "nobody", apperr.CodeNotFound},
		{"missing_source", 99, "target", apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merger, store, reindexer := setupMerger(t)
			store.seedTag(1, "source")
			store.seedTag(2, "target")
			store.seedTag(3, "points at source")
			store.seedAlias(3, 1)
			store.seedImages(1, 100)

			_, err := merger.Merge(context.Background(), tt.sourceID, tt.target)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.wantCode), err.Error())

			assert.Nil(t, store.tag(1).AliasedTagID)
			assert.Equal(t, []int64{100}, store.imagesOf(1))
			assert.Zero(t, reindexer.calls)
		})
	}
}

func TestMerge_FailureRollsBack(t *testing.T) {
	merger, store, reindexer := setupMerger(t)
	store.seedTag(1, "source")
	store.seedTag(2, "target")
	store.seedImages(1, 100, 101)
	store.seedImages(2, 102)
	store.state.filters[50] = &memFilter{hidden: []int64{1}}

	store.failOn = "Retire"
	store.failErr = apperr.ConflictAbort(errors.New("could not serialize access"))

	_, err := merger.Merge(context.Background(), 1, "target")
	require.Error(t, err)
	assert.True(t, apperr.IsRetryable(err))

	assert.Equal(t, []int64{100, 101}, store.imagesOf(1))
	assert.Equal(t, []int64{102}, store.imagesOf(2))
	assert.Equal(t, 1, store.tag(2).ImagesCount)
	assert.Equal(t, []int64{1}, store.state.filters[50].hidden)
	assert.Nil(t, store.tag(1).AliasedTagID)
	assert.Zero(t, reindexer.calls)

	// Retried after the conflict clears.
	store.failOn = ""
	result, err := merger.Merge(context.Background(), 1, "target")
	require.NoError(t, err)
	assert.Equal(t, 3, result.TargetImagesCount)
}
