// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package search provides the full-text index the catalog is browsed through.
//
// # Architecture
//
// Images (catalog entries) and tags are indexed as [Document] values in one
// bleve index, discriminated by [DocType]. The package only owns the document
// schema and the upsert/delete contract; callers decide what to (re)index and
// always hand over freshly loaded state.
package search

import (
	"fmt"
	"strconv"
	"strings"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeImage DocType = "image"
	DocTypeTag   DocType = "tag"
)

// DocumentID builds the index key for an entity, e.g. "image:42".
func DocumentID(docType DocType, id int64) string {
	return string(docType) + ":" + strconv.FormatInt(id, 10)
}

// ParseDocumentID splits an index key back into its type and entity id.
func ParseDocumentID(key string) (DocType, int64, error) {
	rawType, rawID, found := strings.Cut(key, ":")
	if !found {
		return "", 0, fmt.Errorf("search: malformed document id %q", key)
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("search: malformed document id %q: %w", key, err)
	}

	return DocType(rawType), id, nil
}

// Document is the unified structure stored in the bleve index.
//
// Tag names are denormalized into image documents so a tag merge only needs
// the affected images re-published, never a join at query time.
type Document struct {
	// Identity
	ID       string  `json:"id"`
	Type     DocType `json:"type"`
	EntityID int64   `json:"entity_id"`

	// Image fields
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	TagIDs      []int64  `json:"tag_ids,omitempty"`
	TagCount    int      `json:"tag_count,omitempty"`

	// Tag fields
	Name          string   `json:"name,omitempty"`
	Slug          string   `json:"slug,omitempty"`
	Namespace     string   `json:"namespace,omitempty"`
	Category      string   `json:"category,omitempty"`
	AliasedTag    string   `json:"aliased_tag,omitempty"`
	Aliases       []string `json:"aliases,omitempty"`
	ImpliedTags   []string `json:"implied_tags,omitempty"`
	ImpliedByTags []string `json:"implied_by_tags,omitempty"`
	ImagesCount   int      `json:"images_count,omitempty"`

	// Timestamps for sorting (Unix millis)
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with the field names used by the mapping.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"type":       string(d.Type),
		"entity_id":  d.EntityID,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.TagIDs) > 0 {
		ids := make([]float64, len(d.TagIDs))
		for i, id := range d.TagIDs {
			ids[i] = float64(id)
		}
		m["tag_ids"] = ids
	}
	if d.Type == DocTypeImage {
		m["tag_count"] = d.TagCount
	}
	if d.Name != "" {
		m["name"] = d.Name
	}
	if d.Slug != "" {
		m["slug"] = d.Slug
	}
	if d.Namespace != "" {
		m["namespace"] = d.Namespace
	}
	if d.Category != "" {
		m["category"] = d.Category
	}
	if d.AliasedTag != "" {
		m["aliased_tag"] = d.AliasedTag
	}
	if len(d.Aliases) > 0 {
		m["aliases"] = d.Aliases
	}
	if len(d.ImpliedTags) > 0 {
		m["implied_tags"] = d.ImpliedTags
	}
	if len(d.ImpliedByTags) > 0 {
		m["implied_by_tags"] = d.ImpliedByTags
	}
	if d.Type == DocTypeTag {
		m["images_count"] = d.ImagesCount
	}

	return m
}
