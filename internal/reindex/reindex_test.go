// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reindex

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tagraph/internal/platform/config"
	"github.com/taibuivan/tagraph/internal/platform/constants"
	"github.com/taibuivan/tagraph/internal/search"
)

// # Fakes

type fakeLoader struct {
	mu       sync.Mutex
	existing map[int64]bool
	failures int
	calls    int
}

func (f *fakeLoader) LoadDocuments(_ context.Context, ids []int64) ([]*search.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connection reset")
	}

	var docs []*search.Document
	for _, id := range ids {
		if f.existing[id] {
			docs = append(docs, &search.Document{
				ID:       search.DocumentID(search.DocTypeImage, id),
				Type:     search.DocTypeImage,
				EntityID: id,
			})
		}
	}
	return docs, nil
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed []string
	deleted []string
	gate    chan struct{}
}

func (f *fakeIndexer) IndexDocuments(docs []*search.Document) error {
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range docs {
		f.indexed = append(f.indexed, doc.ID)
	}
	return nil
}

func (f *fakeIndexer) DeleteDocuments(ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeIndexer) snapshot() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.indexed...), append([]string(nil), f.deleted...)
}

// # Helpers

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.ReindexConfig {
	return config.ReindexConfig{
		Workers:      2,
		QueueSize:    16,
		BatchSize:    250,
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	}
}

func setupLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLedger(client), server
}

func ledgerLen(t *testing.T, ledger *RedisLedger) int64 {
	t.Helper()
	n, err := ledger.Len(context.Background())
	require.NoError(t, err)
	return n
}

// # Scheduler

func TestScheduler_UpsertsPresentAndDeletesMissing(t *testing.T) {
	loader := &fakeLoader{existing: map[int64]bool{1: true, 2: true}}
	indexer := &fakeIndexer{}

	scheduler := NewScheduler(testConfig(), indexer, map[search.DocType]DocumentLoader{search.DocTypeImage: loader}, nil, discardLogger())
	scheduler.Start()
	defer scheduler.Stop()

	scheduler.ReindexImages(1, 2, 3, 2)

	require.Eventually(t, func() bool {
		indexed, deleted := indexer.snapshot()
		return len(indexed) == 2 && len(deleted) == 1
	}, time.Second, 5*time.Millisecond)

	indexed, deleted := indexer.snapshot()
	assert.ElementsMatch(t, []string{"image:1", "image:2"}, indexed)
	assert.Equal(t, []string{"image:3"}, deleted)
}

func TestScheduler_DispatchDoesNotWaitForIndexer(t *testing.T) {
	loader := &fakeLoader{existing: map[int64]bool{1: true, 2: true, 3: true, 4: true}}
	indexer := &fakeIndexer{gate: make(chan struct{})}

	cfg := testConfig()
	cfg.BatchSize = 1

	scheduler := NewScheduler(cfg, indexer, map[search.DocType]DocumentLoader{search.DocTypeImage: loader}, nil, discardLogger())
	scheduler.Start()

	start := time.Now()
	scheduler.ReindexImages(1, 2, 3, 4)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	indexed, _ := indexer.snapshot()
	assert.Empty(t, indexed)

	close(indexer.gate)
	require.Eventually(t, func() bool {
		indexed, _ := indexer.snapshot()
		return len(indexed) == 4
	}, time.Second, 5*time.Millisecond)

	scheduler.Stop()
}

func TestScheduler_FullQueueParksInLedger(t *testing.T) {
	ledger, _ := setupLedger(t)

	cfg := testConfig()
	cfg.QueueSize = 2
	cfg.BatchSize = 1

	// Workers are not started so the queue only fills.
	scheduler := NewScheduler(cfg, &fakeIndexer{}, nil, ledger, discardLogger())

	scheduler.ReindexImages(1, 2, 3, 4, 5)

	assert.Equal(t, 2, scheduler.Pending())
	assert.Equal(t, int64(3), ledgerLen(t, ledger))
	assert.ErrorIs(t, scheduler.Submit(Job{Kind: search.DocTypeImage, IDs: []int64{6}}), ErrQueueFull)
}

func TestScheduler_RetriesTransientFailure(t *testing.T) {
	ledger, _ := setupLedger(t)
	loader := &fakeLoader{existing: map[int64]bool{7: true}, failures: 2}
	indexer := &fakeIndexer{}

	scheduler := NewScheduler(testConfig(), indexer, map[search.DocType]DocumentLoader{search.DocTypeImage: loader}, ledger, discardLogger())
	scheduler.Start()
	defer scheduler.Stop()

	scheduler.ReindexImages(7)

	require.Eventually(t, func() bool {
		indexed, _ := indexer.snapshot()
		return len(indexed) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int64(0), ledgerLen(t, ledger))
}

func TestScheduler_ExhaustedRetriesAreParked(t *testing.T) {
	ledger, _ := setupLedger(t)
	loader := &fakeLoader{failures: 100}

	cfg := testConfig()
	cfg.MaxAttempts = 2

	scheduler := NewScheduler(cfg, &fakeIndexer{}, map[search.DocType]DocumentLoader{search.DocTypeTag: loader}, ledger, discardLogger())
	scheduler.Start()
	defer scheduler.Stop()

	scheduler.ReindexTags(9)

	require.Eventually(t, func() bool {
		return ledgerLen(t, ledger) == 1
	}, time.Second, 5*time.Millisecond)

	jobs, err := ledger.Drain(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, search.DocTypeTag, jobs[0].Kind)
	assert.Equal(t, []int64{9}, jobs[0].IDs)
	assert.Equal(t, 2, jobs[0].Attempts)
}

func TestScheduler_UnknownKindIsParked(t *testing.T) {
	ledger, _ := setupLedger(t)

	cfg := testConfig()
	cfg.MaxAttempts = 1

	scheduler := NewScheduler(cfg, &fakeIndexer{}, map[search.DocType]DocumentLoader{}, ledger, discardLogger())
	scheduler.Start()
	defer scheduler.Stop()

	scheduler.ReindexImages(1)

	require.Eventually(t, func() bool {
		return ledgerLen(t, ledger) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopParksQueuedJobs(t *testing.T) {
	ledger, _ := setupLedger(t)

	scheduler := NewScheduler(testConfig(), &fakeIndexer{}, nil, ledger, discardLogger())
	scheduler.ReindexImages(1)
	scheduler.ReindexTags(2)

	scheduler.Stop()

	assert.Equal(t, int64(2), ledgerLen(t, ledger))
	assert.ErrorIs(t, scheduler.Submit(Job{Kind: search.DocTypeImage, IDs: []int64{3}}), ErrStopped)
}

// # Jobs

func TestChunk(t *testing.T) {
	jobs := chunk(search.DocTypeImage, []int64{1, 2, 2, 0, 3, 4, 5, -1}, 2)

	require.Len(t, jobs, 3)
	assert.Equal(t, []int64{1, 2}, jobs[0].IDs)
	assert.Equal(t, []int64{3, 4}, jobs[1].IDs)
	assert.Equal(t, []int64{5}, jobs[2].IDs)

	assert.Empty(t, chunk(search.DocTypeTag, nil, 10))
}

// # Ledger

func TestRedisLedger_DrainsOldestFirst(t *testing.T) {
	ledger, _ := setupLedger(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, ledger.Record(ctx, Job{Kind: search.DocTypeImage, IDs: []int64{id}}))
	}

	jobs, err := ledger.Drain(ctx, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, []int64{1}, jobs[0].IDs)
	assert.Equal(t, []int64{2}, jobs[1].IDs)

	jobs, err = ledger.Drain(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	jobs, err = ledger.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRedisLedger_SkipsUndecodableEntries(t *testing.T) {
	ledger, server := setupLedger(t)
	ctx := context.Background()

	_, err := server.Lpush(constants.RedisKeyReindexFailed, "not-json")
	require.NoError(t, err)
	require.NoError(t, ledger.Record(ctx, Job{Kind: search.DocTypeTag, IDs: []int64{4}}))

	jobs, err := ledger.Drain(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, []int64{4}, jobs[0].IDs)
}

// # Sweeper

type limitedSubmitter struct {
	accept int
	jobs   []Job
}

func (s *limitedSubmitter) Submit(job Job) error {
	if len(s.jobs) >= s.accept {
		return ErrQueueFull
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func TestSweeper_ResubmitsAndRestoresRejected(t *testing.T) {
	ledger, _ := setupLedger(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, ledger.Record(ctx, Job{Kind: search.DocTypeImage, IDs: []int64{id}}))
	}

	submitter := &limitedSubmitter{accept: 2}
	sweeper := NewSweeper(ledger, submitter, time.Minute, 1000, discardLogger())

	resubmitted, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resubmitted)
	assert.Len(t, submitter.jobs, 2)
	assert.Equal(t, int64(1), ledgerLen(t, ledger))
}

func TestSweeper_RunFeedsScheduler(t *testing.T) {
	ledger, _ := setupLedger(t)
	require.NoError(t, ledger.Record(context.Background(), Job{Kind: search.DocTypeImage, IDs: []int64{5}}))

	indexer := &fakeIndexer{}
	loader := &fakeLoader{existing: map[int64]bool{5: true}}

	scheduler := NewScheduler(testConfig(), indexer, map[search.DocType]DocumentLoader{search.DocTypeImage: loader}, ledger, discardLogger())
	scheduler.Start()
	defer scheduler.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewSweeper(ledger, scheduler, 10*time.Millisecond, 1000, discardLogger()).Run(ctx)

	require.Eventually(t, func() bool {
		indexed, _ := indexer.snapshot()
		return len(indexed) == 1
	}, time.Second, 5*time.Millisecond)
}
