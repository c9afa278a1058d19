// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tagraph/internal/platform/dberr"
	"github.com/taibuivan/tagraph/pkg/slug"
)

// # Name Resolution

// NameResolver turns raw tag-list text into canonical tags, creating the
// names nobody used before.
type NameResolver struct {
	repo      Repository
	reindexer Reindexer
	logger    *slog.Logger
}

// NewNameResolver constructs a [NameResolver].
func NewNameResolver(repo Repository, reindexer Reindexer, logger *slog.Logger) *NameResolver {
	return &NameResolver{repo: repo, reindexer: reindexer, logger: logger}
}

/*
Resolve parses input and returns the canonical tag for every name.

Description: Existing tags are loaded in one batch with their alias targets
and implications. Aliased tags are replaced by their target. Missing names are
validated up front, then created one statement each, so a failed creation
never undoes a sibling. Created tags are scheduled for indexing even when a
later creation fails.

Parameters:
  - context: context.Context
  - input: string (comma-separated tag names)

Returns:
  - []*Tag: Canonical tags, each at most once, in order of first appearance
  - error: VALIDATION_ERROR for malformed names, or creation failures
*/
func (resolver *NameResolver) Resolve(context context.Context, input string) ([]*Tag, error) {
	names, err := ParseTagList(input)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []*Tag{}, nil
	}

	existing, err := resolver.repo.FindByNames(context, names)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Tag, len(existing))
	for _, tag := range existing {
		byName[tag.Name] = tag
	}

	// Reject the whole list before creating anything.
	for _, name := range names {
		if _, ok := byName[name]; ok {
			continue
		}
		if err := validateName(name); err != nil {
			return nil, err
		}
	}

	var created []int64
	defer func() {
		if len(created) > 0 {
			resolver.reindexer.ReindexTags(created...)
		}
	}()

	seen := make(map[int64]struct{}, len(names))
	resolved := make([]*Tag, 0, len(names))

	for _, name := range names {
		tag, ok := byName[name]
		if !ok {
			var fresh bool
			tag, fresh, err = resolver.create(context, name)
			if err != nil {
				return nil, err
			}
			if fresh {
				created = append(created, tag.ID)
			}
		}

		canonical := tag.Canonical()
		if canonical.IsAlias() {
			resolver.logger.Warn("tag_alias_chain_too_long",
				slog.Int64("tag_id", tag.ID),
				slog.Int64("canonical_id", canonical.ID),
			)
		}

		if _, dup := seen[canonical.ID]; dup {
			continue
		}
		seen[canonical.ID] = struct{}{}
		resolved = append(resolved, canonical)
	}

	return resolved, nil
}

// create inserts a tag for a validated name. When a concurrent request wins
// the insert, the winner is read back and reported as not fresh.
func (resolver *NameResolver) create(context context.Context, name string) (*Tag, bool, error) {
	tag := newTag(name)

	err := resolver.repo.Create(context, tag)
	if err == nil {
		resolver.logger.Info("tag_created", slog.Int64("tag_id", tag.ID), slog.String("name", tag.Name))
		return tag, true, nil
	}

	if !dberr.IsUniqueViolation(err) {
		return nil, false, err
	}

	winners, findErr := resolver.repo.FindByNames(context, []string{name})
	if findErr != nil {
		return nil, false, findErr
	}
	if len(winners) == 0 {
		return nil, false, err
	}

	return winners[0], false, nil
}

// newTag builds an unsaved tag with every name-derived attribute filled in.
func newTag(name string) *Tag {
	namespace, inNamespace, category := splitNamespace(name)
	return &Tag{
		Name:            name,
		Slug:            slug.Tag(name),
		Namespace:       namespace,
		NameInNamespace: inNamespace,
		Category:        category,
	}
}
