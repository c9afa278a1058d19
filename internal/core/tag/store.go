// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"slices"

	"github.com/taibuivan/tagraph/internal/search"
)

// # Repository

// Repository is the pool-level TagStore: reads, single-statement writes, and
// the entry point to serializable units of work.
type Repository interface {
	// FindByNames loads tags by normalized name in one batch, each with its
	// alias target and implied tags (and the alias target's implied tags).
	FindByNames(context context.Context, names []string) ([]*Tag, error)

	// GetByID and GetBySlug return a tag with every relation preloaded.
	GetByID(context context.Context, id int64) (*Tag, error)
	GetBySlug(context context.Context, slug string) (*Tag, error)

	List(context context.Context, filter Filter, limit, offset int) ([]*Tag, int, error)

	// Create inserts a tag in its own statement. A taken name or slug is a
	// CONFLICT carrying the unique violation as its cause.
	Create(context context.Context, tag *Tag) error

	UpdateAttributes(context context.Context, id int64, description, category *string) (*Tag, error)

	// LoadDocuments reads the current search documents of the given tags.
	LoadDocuments(context context.Context, ids []int64) ([]*search.Document, error)

	// InTx runs fn in a SERIALIZABLE transaction.
	InTx(context context.Context, fn func(tx Tx) error) error
}

// Filter narrows tag listings.
type Filter struct {
	Namespace   string
	Category    string
	NamePrefix  string
	OnlyAliases bool
}

// # Transactional Store

// Tx is the set of mutations a structural change needs. Every method runs in
// the transaction the Tx was opened with.
type Tx interface {
	// GetForUpdate locks a tag row. Alias target is loaded but not locked.
	GetForUpdate(context context.Context, id int64) (*Tag, error)

	// FindByName returns NOT_FOUND when no tag carries the name.
	FindByName(context context.Context, name string) (*Tag, error)

	// FindByNames loads tags without relations.
	FindByNames(context context.Context, names []string) ([]*Tag, error)

	// RewriteTagSets applies [RewriteTagSet] to every hidden, spoilered and
	// watched tag set holding source. target 0 strips source.
	RewriteTagSets(context context.Context, source, target int64) error

	// RepointReferences moves single-valued references (user links, DNP
	// entries) from source to target.
	RepointReferences(context context.Context, source, target int64) error

	// FlattenAliases repoints tags aliased to source onto target and returns
	// their ids.
	FlattenAliases(context context.Context, source, target int64) ([]int64, error)

	// MoveImpliedBy turns "X implies source" into "X implies target", dropping
	// edges that would become self loops or duplicates. It returns every X.
	MoveImpliedBy(context context.Context, source, target int64) ([]int64, error)

	// AliasIDs lists tags aliased to id.
	AliasIDs(context context.Context, id int64) ([]int64, error)

	// ImpliedIDs and ImpliedByIDs list the direct implication edges of a tag.
	ImpliedIDs(context context.Context, id int64) ([]int64, error)
	ImpliedByIDs(context context.Context, id int64) ([]int64, error)

	// ReplaceImplications makes implied the exact set of tags id implies.
	ReplaceImplications(context context.Context, id int64, implied []int64) error

	SetImagesCount(context context.Context, id int64, count int) error

	// Retire marks source as an alias of target: zero images, no implications.
	Retire(context context.Context, source, target int64) error

	Delete(context context.Context, id int64) error

	// Images returns the tagging side of the transaction.
	Images() ImageRelinker
}

// ImageRelinker re-associates images when tags merge or disappear.
type ImageRelinker interface {
	// CopyTaggings tags every image tagged with source with target as well,
	// skipping images already tagged with target.
	CopyTaggings(context context.Context, source, target int64) error

	// RemoveTaggings deletes every tagging of tagID and returns the image ids.
	RemoveTaggings(context context.Context, tagID int64) ([]int64, error)

	// CountImages counts images tagged with tagID.
	CountImages(context context.Context, tagID int64) (int, error)

	// ImageIDs lists images tagged with tagID.
	ImageIDs(context context.Context, tagID int64) ([]int64, error)
}

// Reindexer schedules search documents for refresh. Calls never block on the
// search engine and never fail.
type Reindexer interface {
	ReindexImages(ids ...int64)
	ReindexTags(ids ...int64)
}

// # Tag Sets

// RewriteTagSet replaces source with target in set, then de-duplicates and
// sorts ascending so equal sets compare equal. A target of 0 removes source.
func RewriteTagSet(set []int64, source, target int64) []int64 {
	result := make([]int64, 0, len(set))
	for _, id := range set {
		if id == source {
			if target == 0 {
				continue
			}
			id = target
		}
		result = append(result, id)
	}

	slices.Sort(result)
	return slices.Compact(result)
}
