package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ctxutil "tfi/obras-sociales-api/internal/infrastructure/context"
	"tfi/obras-sociales-api/internal/testutil"
)

type outcomeRecorder struct {
	outcomes []string
}

func (r *outcomeRecorder) ObserveScope(outcome string, _ time.Time) {
	r.outcomes = append(r.outcomes, outcome)
}

func newTestScope(t *testing.T, timeout time.Duration) (*Scope, sqlmock.Sqlmock, *outcomeRecorder) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rec := &outcomeRecorder{}
	scope := NewScope(db, ScopeOptions{
		Logger:       testutil.NewNullLogger(),
		QueryTimeout: timeout,
		Observer:     rec,
	})
	return scope, mock, rec
}

func TestScope_CommitsOnSuccess(t *testing.T) {
	scope, mock, rec := newTestScope(t, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectCommit()

	err := scope.WithConnection(context.Background(), func(ctx context.Context, q Querier) error {
		var n int
		return q.QueryRowContext(ctx, "SELECT 1").Scan(&n)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{OutcomeCommit}, rec.outcomes)
}

func TestScope_RollsBackOnWorkError(t *testing.T) {
	scope, mock, rec := newTestScope(t, 0)
	workErr := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := scope.WithConnection(context.Background(), func(context.Context, Querier) error {
		return workErr
	})

	assert.Same(t, workErr, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{OutcomeRollback}, rec.outcomes)
}

func TestScope_JoinsRollbackFailure(t *testing.T) {
	scope, mock, _ := newTestScope(t, 0)
	workErr := errors.New("query failed")
	rbErr := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(rbErr)

	err := scope.WithConnection(context.Background(), func(context.Context, Querier) error {
		return workErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, workErr)
	assert.ErrorIs(t, err, rbErr)
	assert.Contains(t, err.Error(), "rollback transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScope_SurfacesBeginFailure(t *testing.T) {
	scope, mock, rec := newTestScope(t, 0)
	beginErr := errors.New("too many connections")

	mock.ExpectBegin().WillReturnError(beginErr)

	called := false
	err := scope.WithConnection(context.Background(), func(context.Context, Querier) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.ErrorIs(t, err, beginErr)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{OutcomeBeginFailed}, rec.outcomes)
}

func TestScope_SurfacesCommitFailure(t *testing.T) {
	scope, mock, rec := newTestScope(t, 0)
	commitErr := errors.New("serialization failure")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(commitErr)

	err := scope.WithConnection(context.Background(), func(context.Context, Querier) error {
		return nil
	})

	assert.ErrorIs(t, err, commitErr)
	assert.Contains(t, err.Error(), "commit transaction")
	// No rollback is expected after a failed commit.
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{OutcomeCommitFailed}, rec.outcomes)
}

func TestScope_SurfacesAcquireFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	require.NoError(t, db.Close())

	rec := &outcomeRecorder{}
	scope := NewScope(db, ScopeOptions{Logger: testutil.NewNullLogger(), Observer: rec})

	err = scope.WithConnection(context.Background(), func(context.Context, Querier) error {
		t.Fatal("work must not run without a connection")
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire connection")
	assert.Equal(t, []string{OutcomeAcquireFailed}, rec.outcomes)
}

func TestScope_RollsBackOnPanic(t *testing.T) {
	scope, mock, rec := newTestScope(t, 0)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = scope.WithConnection(context.Background(), func(context.Context, Querier) error {
			panic("kaboom")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{OutcomeRollback}, rec.outcomes)
}

func TestScope_AppliesQueryTimeout(t *testing.T) {
	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{name: "no timeout configured", timeout: 0, wantDeadline: false},
		{name: "timeout configured", timeout: time.Minute, wantDeadline: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, mock, _ := newTestScope(t, tt.timeout)
			mock.ExpectBegin()
			mock.ExpectCommit()

			var hasDeadline bool
			err := scope.WithConnection(context.Background(), func(ctx context.Context, _ Querier) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantDeadline, hasDeadline)
		})
	}
}

func TestScope_PropagatesCorrelationID(t *testing.T) {
	scope, mock, _ := newTestScope(t, 0)
	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx := ctxutil.WithCorrelationID(context.Background(), "corr-1")

	var got string
	err := scope.WithConnection(ctx, func(ctx context.Context, _ Querier) error {
		got = ctxutil.GetCorrelationID(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "corr-1", got)
}

func TestScope_SequentialCallsAreIndependent(t *testing.T) {
	scope, mock, rec := newTestScope(t, 0)
	workErr := errors.New("first fails")

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := scope.WithConnection(context.Background(), func(context.Context, Querier) error { return workErr })
	assert.ErrorIs(t, err, workErr)

	err = scope.WithConnection(context.Background(), func(context.Context, Querier) error { return nil })
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{OutcomeRollback, OutcomeCommit}, rec.outcomes)
}
