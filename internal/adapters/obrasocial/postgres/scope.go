package postgres

import (
	"context"

	"tfi/obras-sociales-api/internal/core/obrasocial"
	"tfi/obras-sociales-api/internal/infrastructure/database"
)

// Scope adapts a database.Scope to the obrasocial.Scope port.
type Scope struct {
	conn *database.Scope
}

// NewScope creates a new PostgreSQL-backed obrasocial scope.
func NewScope(conn *database.Scope) obrasocial.Scope {
	return &Scope{conn: conn}
}

func (s *Scope) WithConnection(ctx context.Context, fn func(ctx context.Context, store obrasocial.Store) error) error {
	return s.conn.WithConnection(ctx, func(ctx context.Context, q database.Querier) error {
		return fn(ctx, NewStore(q))
	})
}
