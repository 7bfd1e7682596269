package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/settlement-reconciliation/internal/platform/persistence"
)

// passLockID is the advisory lock key serializing reconciliation passes.
const passLockID = 6002302

// PassLock serializes reconciliation passes across processes with a
// session-level advisory lock. The lock lives on a connection pinned out of
// the pool for as long as it is held; session locks die with their
// connection, so a crashed holder frees the lock automatically.
type PassLock struct {
	pool   *pgxpool.Pool
	logger *slog.Logger

	mu   sync.Mutex
	conn *pgxpool.Conn // non-nil while the lock is held
}

func NewPassLock(logger *slog.Logger, db *persistence.PostgresDB) *PassLock {
	return &PassLock{
		pool:   db.Pool(),
		logger: logger,
	}
}

// Acquire blocks until the reconciliation lock is held or ctx is done.
func (l *PassLock) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return fmt.Errorf("reconciliation pass lock already held")
	}

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for pass lock: %w", err)
	}

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, passLockID); err != nil {
		conn.Release()
		l.logger.Error("Failed to acquire reconciliation pass lock", "error", err)
		return fmt.Errorf("failed to acquire reconciliation pass lock: %w", err)
	}

	l.conn = conn
	return nil
}

// Release unlocks and returns the pinned connection to the pool.
func (l *PassLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return fmt.Errorf("reconciliation pass lock not held")
	}

	_, err := l.conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, passLockID)
	l.conn.Release()
	l.conn = nil
	if err != nil {
		l.logger.Error("Failed to release reconciliation pass lock", "error", err)
		return fmt.Errorf("failed to release reconciliation pass lock: %w", err)
	}

	return nil
}
