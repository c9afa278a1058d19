// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the bleve index mapping for tag and image documents.
//
// Tag names are indexed twice: with the keyword analyzer so filters match a
// full name exactly ("artist:someone"), and under "name" with the standard
// analyzer for autocomplete.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	// --- Keyword fields (exact match, facetable) ---

	for _, field := range []string{"id", "type", "slug", "namespace", "category", "aliased_tag"} {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = keyword.Name
		fieldMapping.Store = true
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	// Tag name lists keep multi-word names intact ("twilight sparkle").
	for _, field := range []string{"tags", "aliases", "implied_tags", "implied_by_tags"} {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = keyword.Name
		fieldMapping.Store = true
		fieldMapping.IncludeTermVectors = true
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	// --- Text fields (full-text searchable) ---

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = standard.Name
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = standard.Name
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	for _, field := range []string{"entity_id", "tag_ids", "tag_count", "images_count", "created_at", "updated_at"} {
		fieldMapping := bleve.NewNumericFieldMapping()
		fieldMapping.Store = true
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
