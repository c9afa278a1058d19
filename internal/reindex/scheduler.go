// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/tagraph/internal/platform/config"
	"github.com/taibuivan/tagraph/internal/search"
)

var (
	// ErrQueueFull is returned by Submit when the queue has no free slot.
	ErrQueueFull = errors.New("reindex: queue full")

	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("reindex: scheduler stopped")
)

// ledgerTimeout bounds writes to the ledger from paths with no caller context.
const ledgerTimeout = 2 * time.Second

// # Collaborators

// DocumentLoader reads the current committed state of entities as search
// documents. Ids with no row are simply absent from the result.
type DocumentLoader interface {
	LoadDocuments(context context.Context, ids []int64) ([]*search.Document, error)
}

// Indexer is the search sink contract.
type Indexer interface {
	IndexDocuments(docs []*search.Document) error
	DeleteDocuments(ids []string) error
}

// # Scheduler

// Scheduler is a bounded job queue served by a fixed worker pool.
type Scheduler struct {
	cfg     config.ReindexConfig
	indexer Indexer
	loaders map[search.DocType]DocumentLoader
	ledger  Ledger
	logger  *slog.Logger

	queue chan Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewScheduler creates a scheduler. ledger may be nil, in which case
// undeliverable jobs are only logged.
func NewScheduler(
	cfg config.ReindexConfig,
	indexer Indexer,
	loaders map[search.DocType]DocumentLoader,
	ledger Ledger,
	logger *slog.Logger,
) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cfg:     cfg,
		indexer: indexer,
		loaders: loaders,
		ledger:  ledger,
		logger:  logger,
		queue:   make(chan Job, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker pool.
func (s *Scheduler) Start() {
	s.logger.Info("reindex_scheduler_started",
		slog.Int("workers", s.cfg.Workers),
		slog.Int("queue_size", s.cfg.QueueSize),
	)

	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop halts the workers and parks any still-queued jobs in the ledger.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	parked := 0
	for {
		select {
		case job := <-s.queue:
			s.park(job, ErrStopped)
			parked++
		default:
			s.logger.Info("reindex_scheduler_stopped", slog.Int("parked_jobs", parked))
			return
		}
	}
}

// Submit enqueues a job without blocking.
func (s *Scheduler) Submit(job Job) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return ErrStopped
	}

	select {
	case s.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending reports the number of queued jobs.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// ReindexImages schedules image documents for refresh.
func (s *Scheduler) ReindexImages(ids ...int64) {
	s.dispatch(search.DocTypeImage, ids)
}

// ReindexTags schedules tag documents for refresh.
func (s *Scheduler) ReindexTags(ids ...int64) {
	s.dispatch(search.DocTypeTag, ids)
}

// dispatch hands ids to the queue in batches. Rejected batches are parked,
// never reported to the caller.
func (s *Scheduler) dispatch(kind search.DocType, ids []int64) {
	for _, job := range chunk(kind, ids, s.cfg.BatchSize) {
		if err := s.Submit(job); err != nil {
			s.park(job, err)
		}
	}
}

// # Workers

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.queue:
			s.run(id, job)
		}
	}
}

// run executes a job, retrying with exponential backoff up to MaxAttempts.
func (s *Scheduler) run(workerID int, job Job) {
	backoff := s.cfg.RetryBackoff

	for attempt := 1; ; attempt++ {
		job.Attempts++

		err := s.process(s.ctx, job)
		if err == nil {
			s.logger.Debug("reindex_job_done",
				slog.Int("worker", workerID),
				slog.String("kind", string(job.Kind)),
				slog.Int("ids", len(job.IDs)),
			)
			return
		}

		s.logger.Warn("reindex_job_failed",
			slog.Int("worker", workerID),
			slog.String("kind", string(job.Kind)),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if attempt >= s.cfg.MaxAttempts {
			s.park(job, err)
			return
		}

		timer := time.NewTimer(backoff)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			s.park(job, s.ctx.Err())
			return
		case <-timer.C:
		}
		backoff *= 2
	}
}

// process re-reads the entities and pushes them to the index. Ids that no
// longer exist have their documents deleted.
func (s *Scheduler) process(context context.Context, job Job) error {
	loader, ok := s.loaders[job.Kind]
	if !ok {
		return fmt.Errorf("reindex: no loader for kind %q", job.Kind)
	}

	docs, err := loader.LoadDocuments(context, job.IDs)
	if err != nil {
		return fmt.Errorf("reindex: load %s documents: %w", job.Kind, err)
	}

	found := make(map[int64]struct{}, len(docs))
	for _, doc := range docs {
		found[doc.EntityID] = struct{}{}
	}

	var gone []string
	for _, id := range job.IDs {
		if _, ok := found[id]; !ok {
			gone = append(gone, search.DocumentID(job.Kind, id))
		}
	}

	if len(docs) > 0 {
		if err := s.indexer.IndexDocuments(docs); err != nil {
			return fmt.Errorf("reindex: upsert %s documents: %w", job.Kind, err)
		}
	}

	if err := s.indexer.DeleteDocuments(gone); err != nil {
		return fmt.Errorf("reindex: delete %s documents: %w", job.Kind, err)
	}

	return nil
}

// park records an undeliverable job in the ledger.
func (s *Scheduler) park(job Job, cause error) {
	s.logger.Error("reindex_dispatch_failed",
		slog.String("kind", string(job.Kind)),
		slog.Int("ids", len(job.IDs)),
		slog.Int("attempts", job.Attempts),
		slog.Any("error", cause),
	)

	if s.ledger == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()

	if err := s.ledger.Record(ctx, job); err != nil {
		s.logger.Error("reindex_ledger_write_failed",
			slog.String("kind", string(job.Kind)),
			slog.Any("error", err),
		)
	}
}
