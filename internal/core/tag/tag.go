// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"strings"
	"time"

	"github.com/taibuivan/tagraph/internal/platform/constants"
)

// Tag is a named label attachable to images.
//
// A tag with AliasedTagID set is retired: it keeps its row so old names still
// resolve, but carries no taggings and no implications of its own.
type Tag struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Namespace       string    `json:"namespace,omitempty"`
	NameInNamespace string    `json:"name_in_namespace"`
	Category        string    `json:"category,omitempty"`
	Description     string    `json:"description"`
	ImagesCount     int       `json:"images_count"`
	AliasedTagID    *int64    `json:"aliased_tag_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Preloaded relations
	AliasedTag    *Tag   `json:"aliased_tag,omitempty"`
	ImpliedTags   []*Tag `json:"implied_tags,omitempty"`
	ImpliedByTags []*Tag `json:"implied_by_tags,omitempty"`
	Aliases       []*Tag `json:"aliases,omitempty"`
}

// IsAlias reports whether the tag has been retired into another tag.
func (t *Tag) IsAlias() bool {
	return t.AliasedTagID != nil
}

// Canonical follows at most [constants.MaxAliasHops] preloaded alias pointers
// and returns the tag that carries the semantics.
func (t *Tag) Canonical() *Tag {
	current := t
	for hop := 0; hop < constants.MaxAliasHops && current.AliasedTag != nil; hop++ {
		current = current.AliasedTag
	}
	return current
}

// # Implications

// WithImplied returns tags followed by the tags they directly imply, each at
// most once, in order of first appearance. Only preloaded ImpliedTags are read.
func WithImplied(tags ...*Tag) []*Tag {
	seen := make(map[int64]struct{}, len(tags))
	out := make([]*Tag, 0, len(tags))

	add := func(tag *Tag) {
		if _, ok := seen[tag.ID]; ok {
			return
		}
		seen[tag.ID] = struct{}{}
		out = append(out, tag)
	}

	for _, tag := range tags {
		add(tag)
	}
	for _, tag := range tags {
		for _, implied := range tag.ImpliedTags {
			add(implied)
		}
	}

	return out
}

// # Namespaces

// namespaceCategories lists the recognized namespaces and the category a tag
// in that namespace is filed under.
var namespaceCategories = map[string]string{
	"artist":       "origin",
	"colorist":     "origin",
	"editor":       "origin",
	"photographer": "origin",
	"prompter":     "origin",
	"oc":           "oc",
	"species":      "species",
	"spoiler":      "spoiler",
	"series":       "content-fanmade",
	"comic":        "content-fanmade",
	"fanfic":       "content-fanmade",
	"art pack":     "content-fanmade",
	"video":        "content-fanmade",
}

// splitNamespace derives namespace, name-in-namespace and category from a
// normalized name. Unknown prefixes are part of the plain name.
func splitNamespace(name string) (namespace, inNamespace, category string) {
	prefix, rest, found := strings.Cut(name, ":")
	if !found || rest == "" {
		return "", name, ""
	}

	category, known := namespaceCategories[prefix]
	if !known {
		return "", name, ""
	}

	return prefix, rest, category
}
