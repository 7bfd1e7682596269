package engine

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// PassLock provides cross-process mutual exclusion for reconciliation
// passes. Implemented in data/postgres with a session advisory lock.
type PassLock interface {
	// Acquire blocks until the lock is held or ctx is done.
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// Pass is the unit of work a Runner serializes. Implemented by Engine.
type Pass interface {
	Run(ctx context.Context) (int, error)
}

type passResult struct {
	matched int
	err     error
}

// Runner serializes reconciliation passes: a single-worker pool guarantees
// at most one pass in flight within the process, and the PassLock extends
// that guarantee across processes sharing the database.
type Runner struct {
	engine Pass
	lock   PassLock
	pool   *ants.Pool
	logger *slog.Logger
}

func NewRunner(engine Pass, lock PassLock, logger *slog.Logger) (*Runner, error) {
	// Pool size 1 is the whole point: passes queue behind each other.
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	return &Runner{
		engine: engine,
		lock:   lock,
		pool:   pool,
		logger: logger,
	}, nil
}

// Run queues one reconciliation pass and waits for its result.
func (r *Runner) Run(ctx context.Context) (int, error) {
	resultChan := make(chan passResult, 1)

	err := r.pool.Submit(func() {
		defer close(resultChan)

		if err := r.lock.Acquire(ctx); err != nil {
			resultChan <- passResult{err: err}
			return
		}
		defer func() {
			if err := r.lock.Release(ctx); err != nil {
				r.logger.Error("Failed to release reconciliation pass lock", "error", err)
			}
		}()

		matched, err := r.engine.Run(ctx)
		resultChan <- passResult{matched: matched, err: err}
	})
	if err != nil {
		r.logger.Error("Failed to submit reconciliation pass", "error", err)
		return 0, err
	}

	res := <-resultChan
	return res.matched, res.err
}

// Shutdown releases the underlying worker pool.
func (r *Runner) Shutdown() {
	r.logger.Info("Shutting down reconciliation runner", "running_passes", r.pool.Running())
	r.pool.Release()
}
