// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package image manages catalog entries and their taggings.

The tag graph depends on this package only through [TaggingStore], which
implements the tag package's ImageRelinker on any pgx statement surface. That
keeps every tagging rewrite of an alias merge inside the merge's transaction.
*/
package image

import (
	"time"

	"github.com/taibuivan/tagraph/internal/search"
	"github.com/taibuivan/tagraph/pkg/slice"
)

// Image is a catalog entry.
type Image struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Tags        []TagRef  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TagRef is the slim view of a tag attached to an image.
type TagRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Document renders an image with its tags as a search document.
func Document(image *Image) *search.Document {
	return &search.Document{
		ID:          search.DocumentID(search.DocTypeImage, image.ID),
		Type:        search.DocTypeImage,
		EntityID:    image.ID,
		Description: image.Description,
		Tags:        slice.Map(image.Tags, func(ref TagRef) string { return ref.Name }),
		TagIDs:      slice.Map(image.Tags, func(ref TagRef) int64 { return ref.ID }),
		TagCount:    len(image.Tags),
		CreatedAt:   image.CreatedAt.UnixMilli(),
		UpdatedAt:   image.UpdatedAt.UnixMilli(),
	}
}
