// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tagraph/internal/platform/constants"
)

// Ledger parks jobs that could not be delivered so a supervisor can retry them.
type Ledger interface {
	Record(context context.Context, job Job) error
	Drain(context context.Context, max int) ([]Job, error)
	Len(context context.Context) (int64, error)
}

// # Redis Ledger

// RedisLedger stores failed jobs in a Redis list, oldest at the tail.
type RedisLedger struct {
	client redis.Cmdable
	key    string
}

// NewRedisLedger creates a ledger on the [constants.RedisKeyReindexFailed] list.
func NewRedisLedger(client redis.Cmdable) *RedisLedger {
	return &RedisLedger{client: client, key: constants.RedisKeyReindexFailed}
}

// Record appends a job to the ledger.
func (ledger *RedisLedger) Record(context context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("reindex: encode job: %w", err)
	}

	if err := ledger.client.LPush(context, ledger.key, payload).Err(); err != nil {
		return fmt.Errorf("reindex: record job: %w", err)
	}

	return nil
}

// Drain removes and returns up to max of the oldest jobs.
//
// Entries that no longer decode are discarded; they could never be retried.
func (ledger *RedisLedger) Drain(context context.Context, max int) ([]Job, error) {
	raw, err := ledger.client.RPopCount(context, ledger.key, max).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reindex: drain ledger: %w", err)
	}

	jobs := make([]Job, 0, len(raw))
	for _, entry := range raw {
		var job Job
		if err := json.Unmarshal([]byte(entry), &job); err != nil {
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// Len reports how many jobs are waiting for a retry.
func (ledger *RedisLedger) Len(context context.Context) (int64, error) {
	return ledger.client.LLen(context, ledger.key).Result()
}
