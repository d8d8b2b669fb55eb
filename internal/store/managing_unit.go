package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type ManagingUnitStore struct {
	db *sqlx.DB
}

func (s *ManagingUnitStore) Create(ctx context.Context, unit *ManagingUnit) error {
	query := `INSERT INTO unidade_gestora (workspace, nome)
	VALUES (:workspace, :nome)
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, unit, unit), "insert managing unit")
}

func (s *ManagingUnitStore) List(ctx context.Context, workspace string) ([]ManagingUnit, error) {
	units := []ManagingUnit{}
	query := `SELECT * FROM unidade_gestora WHERE workspace = $1 ORDER BY nome ASC`

	if err := s.db.SelectContext(ctx, &units, query, workspace); err != nil {
		return nil, wrap(err, "list managing units")
	}
	return units, nil
}

func (s *ManagingUnitStore) Get(ctx context.Context, workspace string, id int64) (*ManagingUnit, error) {
	var unit ManagingUnit
	query := `SELECT * FROM unidade_gestora WHERE workspace = $1 AND id = $2`

	if err := s.db.GetContext(ctx, &unit, query, workspace, id); err != nil {
		return nil, wrap(err, "get managing unit")
	}
	return &unit, nil
}

func (s *ManagingUnitStore) Update(ctx context.Context, unit *ManagingUnit) error {
	query := `UPDATE unidade_gestora SET nome = :nome
	WHERE workspace = :workspace AND id = :id
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, unit, unit), "update managing unit")
}

// Delete refuses to remove a unit that still has credit notes.
func (s *ManagingUnitStore) Delete(ctx context.Context, workspace string, id int64) error {
	var inUse bool
	check := `SELECT EXISTS (SELECT 1 FROM nota_credito WHERE workspace = $1 AND ug_id = $2)`
	if err := s.db.GetContext(ctx, &inUse, check, workspace, id); err != nil {
		return wrap(err, "check managing unit usage")
	}
	if inUse {
		return wrap(ErrInUse, "delete managing unit")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM unidade_gestora WHERE workspace = $1 AND id = $2`, workspace, id)
	if err != nil {
		return wrap(err, "delete managing unit")
	}
	return expectOne(res, "delete managing unit")
}

// FindOrCreate returns the unit with the given name, creating it when absent.
func (s *ManagingUnitStore) FindOrCreate(ctx context.Context, workspace, name string) (*ManagingUnit, error) {
	var unit ManagingUnit
	query := `INSERT INTO unidade_gestora (workspace, nome)
	VALUES ($1, $2)
	ON CONFLICT (workspace, nome) DO UPDATE SET nome = EXCLUDED.nome
	RETURNING *`

	if err := s.db.GetContext(ctx, &unit, query, workspace, name); err != nil {
		return nil, wrapWrite(err, "find or create managing unit")
	}
	return &unit, nil
}
