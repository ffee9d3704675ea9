package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tfi/obras-sociales-api/internal/core/obrasocial"
	"tfi/obras-sociales-api/internal/infrastructure/database"
)

const (
	listObrasSocialesQuery = `SELECT id, nombre FROM obras_sociales ORDER BY id`

	findObraSocialQuery = `SELECT id, nombre FROM obras_sociales WHERE id = $1`

	findAfiliadoQuery = `
		SELECT a.numero_afiliado, a.obra_social_id, os.nombre
		FROM afiliados a
		INNER JOIN obras_sociales os ON a.obra_social_id = os.id
		WHERE a.numero_afiliado = $1 AND a.obra_social_id = $2
	`
)

// Store implements obrasocial.Store on top of an open transaction.
type Store struct {
	q database.Querier
}

// NewStore binds a Store to q.
func NewStore(q database.Querier) *Store {
	return &Store{q: q}
}

// ListObrasSociales returns every provider ordered by id ascending.
func (s *Store) ListObrasSociales(ctx context.Context) ([]obrasocial.ObraSocial, error) {
	rows, err := s.q.QueryContext(ctx, listObrasSocialesQuery)
	if err != nil {
		return nil, fmt.Errorf("query obras sociales: %w", err)
	}
	defer rows.Close()

	obras := make([]obrasocial.ObraSocial, 0)
	for rows.Next() {
		var obra obrasocial.ObraSocial
		if err := rows.Scan(&obra.ID, &obra.Nombre); err != nil {
			return nil, fmt.Errorf("scan obra social: %w", err)
		}
		obras = append(obras, obra)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate obras sociales: %w", err)
	}

	return obras, nil
}

// FindObraSocial retrieves a provider by id. Returns nil if not found.
func (s *Store) FindObraSocial(ctx context.Context, id int64) (*obrasocial.ObraSocial, error) {
	var obra obrasocial.ObraSocial
	err := s.q.QueryRowContext(ctx, findObraSocialQuery, id).Scan(&obra.ID, &obra.Nombre)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find obra social %d: %w", id, err)
	}
	return &obra, nil
}

// FindAfiliado retrieves the membership matching both numeroAfiliado and
// obraSocialID. Returns nil if not found.
func (s *Store) FindAfiliado(ctx context.Context, numeroAfiliado string, obraSocialID int64) (*obrasocial.Afiliado, error) {
	var a obrasocial.Afiliado
	err := s.q.QueryRowContext(ctx, findAfiliadoQuery, numeroAfiliado, obraSocialID).
		Scan(&a.NumeroAfiliado, &a.ObraSocialID, &a.ObraSocialNombre)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find afiliado: %w", err)
	}
	return &a, nil
}
