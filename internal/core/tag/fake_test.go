// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/tagraph/internal/platform/apperr"
	"github.com/taibuivan/tagraph/internal/platform/constants"
	"github.com/taibuivan/tagraph/internal/platform/dberr"
	"github.com/taibuivan/tagraph/internal/search"
)

// # In-memory store

type tagging struct{ image, tag int64 }
type edge struct{ from, to int64 }

type memFilter struct{ hidden, spoilered []int64 }

type memState struct {
	nextID       int64
	tags         map[int64]*Tag
	implications map[edge]struct{}
	taggings     map[tagging]struct{}
	filters      map[int64]*memFilter
	watched      map[int64][]int64
	links        map[int64]int64
	dnp          map[int64]int64
}

func (s *memState) clone() *memState {
	out := &memState{
		nextID:       s.nextID,
		tags:         make(map[int64]*Tag, len(s.tags)),
		implications: maps.Clone(s.implications),
		taggings:     maps.Clone(s.taggings),
		filters:      make(map[int64]*memFilter, len(s.filters)),
		watched:      make(map[int64][]int64, len(s.watched)),
		links:        maps.Clone(s.links),
		dnp:          maps.Clone(s.dnp),
	}
	for id, tag := range s.tags {
		copied := *tag
		out.tags[id] = &copied
	}
	for id, filter := range s.filters {
		out.filters[id] = &memFilter{slices.Clone(filter.hidden), slices.Clone(filter.spoilered)}
	}
	for id, set := range s.watched {
		out.watched[id] = slices.Clone(set)
	}
	return out
}

// memStore implements Repository, Tx and ImageRelinker over memState.
type memStore struct {
	mu    sync.Mutex
	state *memState

	// failOn makes the named Tx method fail with failErr.
	failOn  string
	failErr error

	// beforeCreate runs before Create inserts, simulating a concurrent writer.
	beforeCreate func(name string)
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		nextID:       1,
		tags:         map[int64]*Tag{},
		implications: map[edge]struct{}{},
		taggings:     map[tagging]struct{}{},
		filters:      map[int64]*memFilter{},
		watched:      map[int64][]int64{},
		links:        map[int64]int64{},
		dnp:          map[int64]int64{},
	}}
}

// # Seeding helpers

func (m *memStore) seedTag(id int64, name string) *Tag {
	tag := newTag(name)
	tag.ID = id
	tag.CreatedAt = time.Now()
	tag.UpdatedAt = tag.CreatedAt
	m.state.tags[id] = tag
	if id >= m.state.nextID {
		m.state.nextID = id + 1
	}
	return tag
}

func (m *memStore) seedAlias(source, target int64) {
	m.state.tags[source].AliasedTagID = &target
}

func (m *memStore) seedImages(tagID int64, imageIDs ...int64) {
	for _, image := range imageIDs {
		m.state.taggings[tagging{image, tagID}] = struct{}{}
	}
	m.state.tags[tagID].ImagesCount = m.countImages(tagID)
}

func (m *memStore) seedImplication(from, to int64) {
	m.state.implications[edge{from, to}] = struct{}{}
}

func (m *memStore) countImages(tagID int64) int {
	n := 0
	for t := range m.state.taggings {
		if t.tag == tagID {
			n++
		}
	}
	return n
}

func (m *memStore) imagesOf(tagID int64) []int64 {
	var ids []int64
	for t := range m.state.taggings {
		if t.tag == tagID {
			ids = append(ids, t.image)
		}
	}
	slices.Sort(ids)
	return ids
}

func (m *memStore) tag(id int64) *Tag {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *m.state.tags[id]
	return &copied
}

// # Hydration

func (m *memStore) byName(name string) *Tag {
	for _, tag := range m.state.tags {
		if tag.Name == name {
			return tag
		}
	}
	return nil
}

func (m *memStore) related(id int64, forward bool) []*Tag {
	var out []*Tag
	for e := range m.state.implications {
		switch {
		case forward && e.from == id:
			copied := *m.state.tags[e.to]
			out = append(out, &copied)
		case !forward && e.to == id:
			copied := *m.state.tags[e.from]
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memStore) hydrate(stored *Tag, full bool) *Tag {
	tag := *stored
	tag.ImpliedTags = m.related(tag.ID, true)

	if tag.AliasedTagID != nil {
		target := *m.state.tags[*tag.AliasedTagID]
		target.ImpliedTags = m.related(target.ID, true)
		tag.AliasedTag = &target
	}

	if full {
		tag.ImpliedByTags = m.related(tag.ID, false)
		for _, other := range m.state.tags {
			if other.AliasedTagID != nil && *other.AliasedTagID == tag.ID {
				copied := *other
				tag.Aliases = append(tag.Aliases, &copied)
			}
		}
		sort.Slice(tag.Aliases, func(i, j int) bool { return tag.Aliases[i].Name < tag.Aliases[j].Name })
	}

	return &tag
}

// # Repository

func (m *memStore) FindByNames(_ context.Context, names []string) ([]*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Tag
	for _, name := range names {
		if stored := m.byName(name); stored != nil {
			out = append(out, m.hydrate(stored, false))
		}
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.state.tags[id]
	if !ok {
		return nil, apperr.NotFound("Tag")
	}
	return m.hydrate(stored, true), nil
}

func (m *memStore) GetBySlug(_ context.Context, slug string) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, stored := range m.state.tags {
		if stored.Slug == slug {
			return m.hydrate(stored, true), nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (m *memStore) List(_ context.Context, filter Filter, limit, offset int) ([]*Tag, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*Tag
	for _, stored := range m.state.tags {
		if filter.Namespace != "" && stored.Namespace != filter.Namespace {
			continue
		}
		if filter.NamePrefix != "" && !strings.HasPrefix(stored.Name, filter.NamePrefix) {
			continue
		}
		if filter.OnlyAliases && stored.AliasedTagID == nil {
			continue
		}
		copied := *stored
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := len(all)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func uniqueViolation() error {
	return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "Tag")
}

func (m *memStore) Create(_ context.Context, tag *Tag) error {
	if m.beforeCreate != nil {
		m.beforeCreate(tag.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(tag.Slug) > constants.TagSlugMaxLength {
		return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.StringDataRightTruncationDataException}, "Tag")
	}

	for _, existing := range m.state.tags {
		if existing.Name == tag.Name || existing.Slug == tag.Slug {
			return uniqueViolation()
		}
	}

	tag.ID = m.state.nextID
	m.state.nextID++
	tag.CreatedAt = time.Now()
	tag.UpdatedAt = tag.CreatedAt

	copied := *tag
	m.state.tags[tag.ID] = &copied
	return nil
}

func (m *memStore) UpdateAttributes(context context.Context, id int64, description, category *string) (*Tag, error) {
	m.mu.Lock()
	stored, ok := m.state.tags[id]
	if !ok {
		m.mu.Unlock()
		return nil, apperr.NotFound("Tag")
	}
	if description != nil {
		stored.Description = *description
	}
	if category != nil {
		stored.Category = *category
	}
	m.mu.Unlock()

	return m.GetByID(context, id)
}

func (m *memStore) LoadDocuments(_ context.Context, ids []int64) ([]*search.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var docs []*search.Document
	for _, id := range ids {
		if stored, ok := m.state.tags[id]; ok {
			docs = append(docs, Document(m.hydrate(stored, true)))
		}
	}
	return docs, nil
}

func (m *memStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := m.state.clone()
	if err := fn(txView{m}); err != nil {
		m.state = saved
		return err
	}
	return nil
}

// # Tx

func (m *memStore) check(method string) error {
	if m.failOn == method {
		return m.failErr
	}
	return nil
}

func (m *memStore) Images() ImageRelinker { return m }

func (m *memStore) GetForUpdate(_ context.Context, id int64) (*Tag, error) {
	if err := m.check("GetForUpdate"); err != nil {
		return nil, err
	}
	stored, ok := m.state.tags[id]
	if !ok {
		return nil, dberr.Wrap(pgx.ErrNoRows, "Tag")
	}
	tag := *stored
	if tag.AliasedTagID != nil {
		target := *m.state.tags[*tag.AliasedTagID]
		tag.AliasedTag = &target
	}
	return &tag, nil
}

func (m *memStore) FindByName(_ context.Context, name string) (*Tag, error) {
	stored := m.byName(name)
	if stored == nil {
		return nil, dberr.Wrap(pgx.ErrNoRows, "Tag")
	}
	copied := *stored
	return &copied, nil
}

func (m *memStore) txFindByNames(names []string) []*Tag {
	var out []*Tag
	for _, name := range names {
		if stored := m.byName(name); stored != nil {
			copied := *stored
			out = append(out, &copied)
		}
	}
	return out
}

func (m *memStore) RewriteTagSets(_ context.Context, source, target int64) error {
	if err := m.check("RewriteTagSets"); err != nil {
		return err
	}
	for _, filter := range m.state.filters {
		if slices.Contains(filter.hidden, source) {
			filter.hidden = RewriteTagSet(filter.hidden, source, target)
		}
		if slices.Contains(filter.spoilered, source) {
			filter.spoilered = RewriteTagSet(filter.spoilered, source, target)
		}
	}
	for user, set := range m.state.watched {
		if slices.Contains(set, source) {
			m.state.watched[user] = RewriteTagSet(set, source, target)
		}
	}
	return nil
}

func (m *memStore) RepointReferences(_ context.Context, source, target int64) error {
	for id, tagID := range m.state.links {
		if tagID == source {
			m.state.links[id] = target
		}
	}
	for id, tagID := range m.state.dnp {
		if tagID == source {
			m.state.dnp[id] = target
		}
	}
	return nil
}

func (m *memStore) FlattenAliases(_ context.Context, source, target int64) ([]int64, error) {
	var ids []int64
	for _, stored := range m.state.tags {
		if stored.AliasedTagID != nil && *stored.AliasedTagID == source {
			stored.AliasedTagID = &target
			ids = append(ids, stored.ID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *memStore) MoveImpliedBy(_ context.Context, source, target int64) ([]int64, error) {
	var implying []int64
	for e := range m.state.implications {
		if e.to == source {
			delete(m.state.implications, e)
			implying = append(implying, e.from)
			if e.from != target {
				m.state.implications[edge{e.from, target}] = struct{}{}
			}
		}
	}
	slices.Sort(implying)
	return implying, nil
}

func (m *memStore) AliasIDs(_ context.Context, id int64) ([]int64, error) {
	var ids []int64
	for _, stored := range m.state.tags {
		if stored.AliasedTagID != nil && *stored.AliasedTagID == id {
			ids = append(ids, stored.ID)
		}
	}
	return ids, nil
}

func (m *memStore) ImpliedIDs(_ context.Context, id int64) ([]int64, error) {
	return m.edgeIDs(id, true), nil
}

func (m *memStore) ImpliedByIDs(_ context.Context, id int64) ([]int64, error) {
	return m.edgeIDs(id, false), nil
}

func (m *memStore) edgeIDs(id int64, forward bool) []int64 {
	var ids []int64
	for e := range m.state.implications {
		if forward && e.from == id {
			ids = append(ids, e.to)
		}
		if !forward && e.to == id {
			ids = append(ids, e.from)
		}
	}
	slices.Sort(ids)
	return ids
}

func (m *memStore) ReplaceImplications(_ context.Context, id int64, implied []int64) error {
	for e := range m.state.implications {
		if e.from == id {
			delete(m.state.implications, e)
		}
	}
	for _, to := range implied {
		if _, ok := m.state.tags[to]; !ok {
			return fmt.Errorf("implied tag %d does not exist", to)
		}
		m.state.implications[edge{id, to}] = struct{}{}
	}
	return nil
}

func (m *memStore) SetImagesCount(_ context.Context, id int64, count int) error {
	m.state.tags[id].ImagesCount = count
	return nil
}

func (m *memStore) Retire(context context.Context, source, target int64) error {
	if err := m.check("Retire"); err != nil {
		return err
	}
	stored := m.state.tags[source]
	stored.ImagesCount = 0
	stored.AliasedTagID = &target
	stored.UpdatedAt = time.Now()
	return m.ReplaceImplications(context, source, nil)
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	for _, tagID := range m.state.dnp {
		if tagID == id {
			return apperr.Conflict("Tag is still referenced")
		}
	}
	for t := range m.state.taggings {
		if t.tag == id {
			return apperr.Conflict("Tag is still referenced")
		}
	}
	for e := range m.state.implications {
		if e.from == id || e.to == id {
			delete(m.state.implications, e)
		}
	}
	for link, tagID := range m.state.links {
		if tagID == id {
			m.state.links[link] = 0
		}
	}
	delete(m.state.tags, id)
	return nil
}

// # ImageRelinker

func (m *memStore) CopyTaggings(_ context.Context, source, target int64) error {
	for t := range m.state.taggings {
		if t.tag == source {
			m.state.taggings[tagging{t.image, target}] = struct{}{}
		}
	}
	return nil
}

func (m *memStore) RemoveTaggings(_ context.Context, tagID int64) ([]int64, error) {
	ids := m.imagesOf(tagID)
	for _, image := range ids {
		delete(m.state.taggings, tagging{image, tagID})
	}
	return ids, nil
}

func (m *memStore) CountImages(_ context.Context, tagID int64) (int, error) {
	return m.countImages(tagID), nil
}

func (m *memStore) ImageIDs(_ context.Context, tagID int64) ([]int64, error) {
	return m.imagesOf(tagID), nil
}

// txView adapts memStore to Tx, where FindByNames skips relations.
type txView struct{ *memStore }

func (v txView) FindByNames(_ context.Context, names []string) ([]*Tag, error) {
	return v.txFindByNames(names), nil
}

// # Reindexer

type recordingReindexer struct {
	mu     sync.Mutex
	images []int64
	tags   []int64
	calls  int
}

func (r *recordingReindexer) ReindexImages(ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.images = append(r.images, ids...)
}

func (r *recordingReindexer) ReindexTags(ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.tags = append(r.tags, ids...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
