package obrasocial

import "context"

// Store runs the directory queries against a single open transaction.
type Store interface {
	// ListObrasSociales returns every provider ordered by id ascending.
	ListObrasSociales(ctx context.Context) ([]ObraSocial, error)

	// FindObraSocial retrieves a provider by id.
	// Returns nil if not found.
	FindObraSocial(ctx context.Context, id int64) (*ObraSocial, error)

	// FindAfiliado retrieves the membership matching both the number and the provider.
	// Returns nil if not found.
	FindAfiliado(ctx context.Context, numeroAfiliado string, obraSocialID int64) (*Afiliado, error)
}

// Scope hands out a Store bound to one connection and one transaction.
// The transaction commits when fn returns nil and rolls back otherwise; the
// connection is released before WithConnection returns.
type Scope interface {
	WithConnection(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
