// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"github.com/taibuivan/tagraph/internal/search"
	"github.com/taibuivan/tagraph/pkg/slice"
)

// Document renders a fully preloaded tag as its search document.
func Document(t *Tag) *search.Document {
	doc := &search.Document{
		ID:            search.DocumentID(search.DocTypeTag, t.ID),
		Type:          search.DocTypeTag,
		EntityID:      t.ID,
		Description:   t.Description,
		Name:          t.Name,
		Slug:          t.Slug,
		Namespace:     t.Namespace,
		Category:      t.Category,
		Aliases:       names(t.Aliases),
		ImpliedTags:   names(t.ImpliedTags),
		ImpliedByTags: names(t.ImpliedByTags),
		ImagesCount:   t.ImagesCount,
		CreatedAt:     t.CreatedAt.UnixMilli(),
		UpdatedAt:     t.UpdatedAt.UnixMilli(),
	}

	if t.AliasedTag != nil {
		doc.AliasedTag = t.AliasedTag.Name
	}

	return doc
}

func names(tags []*Tag) []string {
	return slice.Map(tags, func(t *Tag) string { return t.Name })
}
