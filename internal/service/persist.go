package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dkhmelev/storefront/internal/logger"
	"github.com/dkhmelev/storefront/internal/model"
)

// WriteResult reports the outcome of one background write. Err is nil
// on success.
type WriteResult struct {
	Key string
	Err error
}

type writeJob struct {
	key   string
	value string
}

// Persister owns the fire-and-forget persistence queue. Snapshots are
// marshaled synchronously at enqueue time, so every queued write
// carries the in-memory truth as of the mutation that produced it.
// A single worker drains the queue, which keeps writes to the same key
// in enqueue order; last write wins.
type Persister struct {
	kv      model.KV
	logger  *logger.Logger
	jobs    chan writeJob
	results chan WriteResult
	g       *errgroup.Group

	mu     sync.Mutex
	closed bool
}

// NewPersister creates a Persister and starts its worker.
func NewPersister(kv model.KV, l *logger.Logger) *Persister {
	p := &Persister{
		kv:      kv,
		logger:  l,
		jobs:    make(chan writeJob, 64),
		results: make(chan WriteResult, 16),
		g:       &errgroup.Group{},
	}
	p.g.SetLimit(1)
	p.g.Go(p.run)

	return p
}

// Enqueue marshals value and schedules a write of the snapshot under
// key. It never blocks the caller on storage I/O and never reports
// storage failure to the caller; failures are logged and emitted on
// Results.
func (p *Persister) Enqueue(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		// Snapshots are plain data types; this indicates a programming
		// error, not a runtime condition worth surfacing to the user.
		p.logger.Error("failed to marshal snapshot", "key", key, "error", err.Error())
		p.emit(WriteResult{Key: key, Err: fmt.Errorf("failed to marshal snapshot: %w", err)})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.logger.Warn("write dropped, persister closed", "key", key)
		return
	}
	p.jobs <- writeJob{key: key, value: string(data)}
}

// Results exposes write outcomes for subscribers such as the UI layer.
// Events are dropped when nobody is reading; the channel is an
// observation surface, not a delivery guarantee.
func (p *Persister) Results() <-chan WriteResult {
	return p.results
}

// Close stops accepting writes and waits for the queue to drain.
func (p *Persister) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	return p.g.Wait()
}

func (p *Persister) run() error {
	for job := range p.jobs {
		err := p.kv.Set(context.Background(), job.key, job.value)
		if err != nil {
			p.logger.Error("background write failed", "key", job.key, "error", err.Error())
		}
		p.emit(WriteResult{Key: job.key, Err: err})
	}
	return nil
}

func (p *Persister) emit(r WriteResult) {
	select {
	case p.results <- r:
	default:
	}
}
