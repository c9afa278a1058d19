// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reindex keeps the search index in step with the relational store.

Callers hand over the ids of images or tags whose search document is stale.
Hand-off never blocks: jobs go onto a bounded queue drained by a fixed pool
of workers. A worker always re-reads the latest committed state through a
[DocumentLoader], so a job racing ahead of its transaction, or two jobs for
the same entity, still converge on the current row.

Failure Handling:

  - Queue overflow and exhausted retries are logged and parked in a [Ledger].
  - The [Sweeper] drains the ledger and resubmits at a bounded rate.
  - No failure is ever reported back to the code that scheduled the work.
*/
package reindex

import (
	"time"

	"github.com/taibuivan/tagraph/internal/search"
)

// # Job

// Job is one unit of reindex work: a batch of entity ids of a single kind.
type Job struct {
	Kind     search.DocType `json:"kind"`
	IDs      []int64        `json:"ids"`
	Attempts int            `json:"attempts"`
	QueuedAt time.Time      `json:"queued_at"`
}

// chunk splits ids into jobs of at most size ids each.
func chunk(kind search.DocType, ids []int64, size int) []Job {
	ids = distinct(ids)
	jobs := make([]Job, 0, (len(ids)+size-1)/size)

	now := time.Now().UTC()
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		jobs = append(jobs, Job{
			Kind:     kind,
			IDs:      ids[start:end],
			QueuedAt: now,
		})
	}

	return jobs
}

// distinct drops duplicate and non-positive ids, keeping first occurrence order.
func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))

	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
