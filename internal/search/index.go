// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Index wraps a bleve index with the upsert/delete operations the reindex
// pipeline needs.
//
// All public methods are safe for concurrent use. The mutex guards against
// operations racing [Index.Close].
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Uses the default logger if nil
}

// mappingVersion is bumped whenever buildIndexMapping changes. A mismatch on
// startup drops the on-disk index so it is rebuilt from the database.
const mappingVersion = "1"

// indexBatchSize bounds the number of documents committed per bleve batch.
const indexBatchSize = 500

// NewIndex opens the index under opts.DataPath, creating it when absent,
// corrupted, or built with an older mapping.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("search: create data path: %w", err)
	}

	indexPath := filepath.Join(opts.DataPath, "tagraph.bleve")
	versionPath := filepath.Join(opts.DataPath, "tagraph.version")

	var index bleve.Index
	needsRebuild := false

	_, statErr := os.Stat(indexPath)
	indexExists := statErr == nil

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil:
			logger.Info("search_index_unversioned", slog.String("new_version", mappingVersion))
			needsRebuild = true
		case string(existingVersion) != mappingVersion:
			logger.Info("search_index_mapping_changed",
				slog.String("old_version", string(existingVersion)),
				slog.String("new_version", mappingVersion),
			)
			needsRebuild = true
		}
	}

	if indexExists && !needsRebuild {
		opened, err := bleve.Open(indexPath)
		if err != nil {
			logger.Warn("search_index_open_failed", slog.String("path", indexPath), slog.Any("error", err))
			needsRebuild = true
		} else {
			index = opened
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("search: remove old index: %w", err)
		}
	}

	if index == nil {
		created, err := bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("search: create index: %w", err)
		}
		index = created

		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			logger.Warn("search_index_version_write_failed", slog.Any("error", err))
		}
		logger.Info("search_index_created", slog.String("path", indexPath), slog.String("mapping_version", mappingVersion))
	} else {
		logger.Info("search_index_opened", slog.String("path", indexPath))
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close releases the underlying index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("search: close index: %w", err)
	}

	s.logger.Info("search_index_closed", slog.String("path", s.path))
	return nil
}

// IndexDocuments upserts documents. Existing documents with the same ID are
// replaced wholesale, so callers must always pass fully loaded state.
func (s *Index) IndexDocuments(docs []*Document) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for start := 0; start < len(docs); start += indexBatchSize {
		end := min(start+indexBatchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[start:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("search: batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("search: commit batch %d-%d: %w", start, end, err)
		}
	}

	return nil
}

// DeleteDocuments removes documents by ID. Unknown IDs are ignored.
func (s *Index) DeleteDocuments(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}

	return s.index.Batch(batch)
}

// DocumentCount returns the total number of indexed documents.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Get returns the stored fields of one document, or nil when it is not indexed.
func (s *Index) Get(context context.Context, id string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := bleve.NewDocIDQuery([]string{id})
	request := bleve.NewSearchRequestOptions(query, 1, 0, false)
	request.Fields = []string{"*"}

	result, err := s.index.SearchInContext(context, request)
	if err != nil {
		return nil, fmt.Errorf("search: get %s: %w", id, err)
	}
	if len(result.Hits) == 0 {
		return nil, nil
	}

	return result.Hits[0].Fields, nil
}

// MatchingIDs returns the IDs of documents of docType whose keyword field
// equals term exactly, e.g. every image tagged "safe".
func (s *Index) MatchingIDs(context context.Context, docType DocType, field, term string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	typeQuery := bleve.NewTermQuery(string(docType))
	typeQuery.SetField("type")

	termQuery := bleve.NewTermQuery(term)
	termQuery.SetField(field)

	request := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(typeQuery, termQuery), limit, 0, false)

	result, err := s.index.SearchInContext(context, request)
	if err != nil {
		return nil, fmt.Errorf("search: match %s=%q: %w", field, term, err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}

	return ids, nil
}
