package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ctxutil "tfi/obras-sociales-api/internal/infrastructure/context"
)

// Scope outcomes reported to a ScopeObserver.
const (
	OutcomeCommit        = "commit"
	OutcomeRollback      = "rollback"
	OutcomeAcquireFailed = "acquire_failed"
	OutcomeBeginFailed   = "begin_failed"
	OutcomeCommitFailed  = "commit_failed"
)

// Querier is the part of *sql.Tx handed to work running inside a Scope.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ScopeObserver receives one call per WithConnection with its outcome.
type ScopeObserver interface {
	ObserveScope(outcome string, start time.Time)
}

// ScopeOptions configures a Scope.
type ScopeOptions struct {
	Logger       *slog.Logger
	QueryTimeout time.Duration
	Observer     ScopeObserver
}

// Scope checks out one pooled connection per call and runs work inside a
// read-only transaction on it.
type Scope struct {
	db           *sql.DB
	log          *slog.Logger
	queryTimeout time.Duration
	observer     ScopeObserver
}

// NewScope creates a Scope over db.
func NewScope(db *sql.DB, opts ScopeOptions) *Scope {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Scope{
		db:           db,
		log:          log,
		queryTimeout: opts.QueryTimeout,
		observer:     opts.Observer,
	}
}

// WithConnection acquires a connection, begins a transaction and invokes work.
// The transaction is committed when work returns nil and rolled back when it
// returns an error or panics. The connection goes back to the pool on every path.
// The error returned by work is passed through so callers can still match it.
func (s *Scope) WithConnection(ctx context.Context, work func(ctx context.Context, q Querier) error) error {
	start := time.Now()
	outcome := OutcomeRollback
	defer func() {
		if s.observer != nil {
			s.observer.ObserveScope(outcome, start)
		}
	}()

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	log := s.log
	if id := ctxutil.GetCorrelationID(ctx); id != "" {
		log = log.With("correlation_id", id)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		outcome = OutcomeAcquireFailed
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Warn("Failed to release connection", "error", err)
		}
	}()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		outcome = OutcomeBeginFailed
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Error("Rollback after panic failed", "error", err)
			}
			panic(p)
		}
	}()

	if err := work(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error("Rollback failed", "error", rbErr, "cause", err)
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		log.Debug("Transaction rolled back", "cause", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		outcome = OutcomeCommitFailed
		return fmt.Errorf("commit transaction: %w", err)
	}

	outcome = OutcomeCommit
	return nil
}
