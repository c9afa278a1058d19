// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reindex

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/tagraph/internal/platform/ctxutil"
)

// sweepBatch is the number of ledger entries drained per round.
const sweepBatch = 100

// Submitter accepts jobs without blocking.
type Submitter interface {
	Submit(job Job) error
}

// Sweeper periodically moves parked jobs from the ledger back onto the queue.
type Sweeper struct {
	ledger    Ledger
	submitter Submitter
	interval  time.Duration
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewSweeper creates a sweeper resubmitting at most perSecond jobs per second.
func NewSweeper(ledger Ledger, submitter Submitter, interval time.Duration, perSecond float64, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		ledger:    ledger,
		submitter: submitter,
		interval:  interval,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:    logger,
	}
}

// Run sweeps every interval until the context is cancelled.
func (sweeper *Sweeper) Run(context context.Context) {
	ticker := time.NewTicker(sweeper.interval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case <-ticker.C:
			if _, err := sweeper.Sweep(context); err != nil {
				sweeper.logger.Warn("reindex_sweep_failed", slog.Any("error", err))
			}
		}
	}
}

// Sweep drains one batch from the ledger and resubmits it. It returns the
// number of jobs handed back to the queue. Jobs the queue rejects go back to
// the ledger and end the round.
func (sweeper *Sweeper) Sweep(context context.Context) (int, error) {
	jobs, err := sweeper.ledger.Drain(context, sweepBatch)
	if err != nil {
		return 0, err
	}

	resubmitted := 0
	for i, job := range jobs {
		if err := sweeper.limiter.Wait(context); err != nil {
			sweeper.restore(context, jobs[i:])
			return resubmitted, err
		}

		if err := sweeper.submitter.Submit(job); err != nil {
			sweeper.restore(context, jobs[i:])
			break
		}
		resubmitted++
	}

	if resubmitted > 0 {
		sweeper.logger.Info("reindex_ledger_swept", slog.Int("resubmitted", resubmitted))
	}

	return resubmitted, nil
}

// restore puts jobs back into the ledger, even when the round was cancelled.
func (sweeper *Sweeper) restore(context context.Context, jobs []Job) {
	detached := ctxutil.Detach(context)

	for _, job := range jobs {
		if err := sweeper.ledger.Record(detached, job); err != nil {
			sweeper.logger.Error("reindex_ledger_restore_failed",
				slog.String("kind", string(job.Kind)),
				slog.Any("error", err),
			)
		}
	}
}
