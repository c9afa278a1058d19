// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tagraph/internal/platform/apperr"
	"github.com/taibuivan/tagraph/pkg/slice"
)

func setupResolver(t *testing.T) (*NameResolver, *memStore, *recordingReindexer) {
	t.Helper()

	store := newMemStore()
	reindexer := &recordingReindexer{}
	return NewNameResolver(store, reindexer, discardLogger()), store, reindexer
}

func tagNames(tags []*Tag) []string {
	return slice.Map(tags, func(tag *Tag) string { return tag.Name })
}

func TestResolve_CreatesMissingNames(t *testing.T) {
	resolver, store, reindexer := setupResolver(t)
	store.seedTag(1, "safe")

	tags, err := resolver.Resolve(context.Background(), "safe, Solo, SAFE, artist:Foo")
	require.NoError(t, err)

	assert.Equal(t, []string{"safe", "solo", "artist:foo"}, tagNames(tags))
	assert.Equal(t, int64(1), tags[0].ID)

	created := []int64{tags[1].ID, tags[2].ID}
	assert.Equal(t, created, reindexer.tags, "only created tags are indexed")

	artist := store.tag(tags[2].ID)
	assert.Equal(t, "artist", artist.Namespace)
	assert.Equal(t, "origin", artist.Category)
	assert.Equal(t, "artist-colon-foo", artist.Slug)
}

func TestResolve_LongEscapedNames(t *testing.T) {
	resolver, store, _ := setupResolver(t)

	cjk := strings.Repeat("漫", 45)
	dashes := strings.Repeat("-", 70)

	tags, err := resolver.Resolve(context.Background(), cjk+", "+dashes)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	assert.Equal(t, cjk, store.tag(tags[0].ID).Name)
	assert.Len(t, store.tag(tags[1].ID).Slug, 70*len("-dash-"))
}

func TestResolve_EmptyInput(t *testing.T) {
	resolver, _, reindexer := setupResolver(t)

	tags, err := resolver.Resolve(context.Background(), " , ")
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Zero(t, reindexer.calls)
}

func TestResolve_SubstitutesAliasesAndDedupes(t *testing.T) {
	resolver, store, reindexer := setupResolver(t)
	store.seedTag(1, "apple jack")
	store.seedTag(2, "applejack")
	store.seedAlias(1, 2)

	tags, err := resolver.Resolve(context.Background(), "Apple Jack, applejack, apple jack")
	require.NoError(t, err)

	require.Len(t, tags, 1)
	assert.Equal(t, int64(2), tags[0].ID)
	assert.Zero(t, reindexer.calls)
}

func TestResolve_PreloadsImplications(t *testing.T) {
	resolver, store, _ := setupResolver(t)
	store.seedTag(1, "twilight sparkle")
	store.seedTag(2, "unicorn")
	store.seedTag(3, "pony")
	store.seedImplication(1, 2)
	store.seedImplication(2, 3)

	tags, err := resolver.Resolve(context.Background(), "twilight sparkle")
	require.NoError(t, err)

	require.Len(t, tags, 1)
	assert.Equal(t, []string{"unicorn"}, tagNames(tags[0].ImpliedTags))
}

func TestResolve_AliasChainReachesFinalTarget(t *testing.T) {
	resolver, store, _ := setupResolver(t)
	merger := NewAliasMerger(store, &recordingReindexer{}, discardLogger())
	store.seedTag(1, "a")
	store.seedTag(2, "b")
	store.seedTag(3, "c")

	_, err := merger.Merge(context.Background(), 1, "b")
	require.NoError(t, err)
	_, err = merger.Merge(context.Background(), 2, "c")
	require.NoError(t, err)

	tags, err := resolver.Resolve(context.Background(), "a, b, c")
	require.NoError(t, err)

	require.Len(t, tags, 1)
	assert.Equal(t, int64(3), tags[0].ID)
	assert.Equal(t, int64(3), *store.tag(1).AliasedTagID)
}

func TestResolve_InvalidNameCreatesNothing(t *testing.T) {
	resolver, store, reindexer := setupResolver(t)

	_, err := resolver.Resolve(context.Background(), "fresh, broken:")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	assert.Empty(t, store.state.tags)
	assert.Zero(t, reindexer.calls)
}

func TestResolve_ConcurrentCreationReturnsWinner(t *testing.T) {
	resolver, store, reindexer := setupResolver(t)
	store.beforeCreate = func(name string) {
		store.beforeCreate = nil

		store.mu.Lock()
		defer store.mu.Unlock()
		store.seedTag(10, name)
	}

	tags, err := resolver.Resolve(context.Background(), "racy")
	require.NoError(t, err)

	require.Len(t, tags, 1)
	assert.Equal(t, int64(10), tags[0].ID)
	assert.Empty(t, reindexer.tags, "the winner indexes its own tag")
	assert.Len(t, store.state.tags, 1)
}
