package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type RecoveryStore struct {
	db *sqlx.DB
}

// Create records a recovery. A zero Date is stored as the current day.
func (s *RecoveryStore) Create(ctx context.Context, r *Recovery) error {
	query := `INSERT INTO recolhimentos (workspace, nc_id, numero, descricao, valor, data)
	SELECT :workspace, CAST(:nc_id AS BIGINT), :numero, :descricao, CAST(:valor AS NUMERIC), COALESCE(:data, CURRENT_DATE)
	WHERE EXISTS (SELECT 1 FROM nota_credito WHERE workspace = :workspace AND id = :nc_id)
	RETURNING *`

	return wrapInsert(namedReturning(ctx, s.db, query, r, r), "insert recovery")
}

func (s *RecoveryStore) List(ctx context.Context, workspace string) ([]Recovery, error) {
	recoveries := []Recovery{}
	query := `SELECT * FROM recolhimentos WHERE workspace = $1 ORDER BY data DESC`

	if err := s.db.SelectContext(ctx, &recoveries, query, workspace); err != nil {
		return nil, wrap(err, "list recoveries")
	}
	return recoveries, nil
}

func (s *RecoveryStore) Get(ctx context.Context, workspace string, id int64) (*Recovery, error) {
	var r Recovery
	query := `SELECT * FROM recolhimentos WHERE workspace = $1 AND id = $2`

	if err := s.db.GetContext(ctx, &r, query, workspace, id); err != nil {
		return nil, wrap(err, "get recovery")
	}
	return &r, nil
}

func (s *RecoveryStore) ListByCreditNote(ctx context.Context, workspace string, creditNoteID int64) ([]Recovery, error) {
	recoveries := []Recovery{}
	query := `SELECT * FROM recolhimentos WHERE workspace = $1 AND nc_id = $2 ORDER BY data DESC`

	if err := s.db.SelectContext(ctx, &recoveries, query, workspace, creditNoteID); err != nil {
		return nil, wrap(err, "list recoveries by credit note")
	}
	return recoveries, nil
}

// Update changes number, description and value. The date is kept.
func (s *RecoveryStore) Update(ctx context.Context, r *Recovery) error {
	query := `UPDATE recolhimentos SET
		numero = :numero,
		descricao = :descricao,
		valor = :valor
	WHERE workspace = :workspace AND id = :id
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, r, r), "update recovery")
}

func (s *RecoveryStore) Delete(ctx context.Context, workspace string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recolhimentos WHERE workspace = $1 AND id = $2`, workspace, id)
	if err != nil {
		return wrap(err, "delete recovery")
	}
	return expectOne(res, "delete recovery")
}
