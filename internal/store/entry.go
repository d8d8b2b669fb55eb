package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// EntryStore reads and writes ne_lancamentos only. The commitment value an
// entry adjusts is never rewritten here.
type EntryStore struct {
	db *sqlx.DB
}

func (s *EntryStore) Create(ctx context.Context, e *Entry) error {
	if !ValidEntryKind(e.Kind) {
		return wrap(ErrInvalidKind, "insert entry")
	}

	query := `INSERT INTO ne_lancamentos (workspace, ne_id, tipo, valor, descricao, data)
	SELECT :workspace, CAST(:ne_id AS BIGINT), :tipo, CAST(:valor AS NUMERIC), :descricao, NOW()
	WHERE EXISTS (SELECT 1 FROM nota_empenhos WHERE workspace = :workspace AND id = :ne_id)
	RETURNING *`

	return wrapInsert(namedReturning(ctx, s.db, query, e, e), "insert entry")
}

func (s *EntryStore) List(ctx context.Context, workspace string) ([]Entry, error) {
	entries := []Entry{}
	query := `SELECT * FROM ne_lancamentos WHERE workspace = $1 ORDER BY data ASC`

	if err := s.db.SelectContext(ctx, &entries, query, workspace); err != nil {
		return nil, wrap(err, "list entries")
	}
	return entries, nil
}

func (s *EntryStore) Get(ctx context.Context, workspace string, id int64) (*Entry, error) {
	var e Entry
	query := `SELECT * FROM ne_lancamentos WHERE workspace = $1 AND id = $2`

	if err := s.db.GetContext(ctx, &e, query, workspace, id); err != nil {
		return nil, wrap(err, "get entry")
	}
	return &e, nil
}

func (s *EntryStore) ListByCommitment(ctx context.Context, workspace string, commitmentID int64) ([]Entry, error) {
	entries := []Entry{}
	query := `SELECT * FROM ne_lancamentos WHERE workspace = $1 AND ne_id = $2 ORDER BY data ASC`

	if err := s.db.SelectContext(ctx, &entries, query, workspace, commitmentID); err != nil {
		return nil, wrap(err, "list entries by commitment")
	}
	return entries, nil
}

func (s *EntryStore) Update(ctx context.Context, e *Entry) error {
	if !ValidEntryKind(e.Kind) {
		return wrap(ErrInvalidKind, "update entry")
	}

	query := `UPDATE ne_lancamentos SET
		tipo = :tipo,
		valor = :valor,
		descricao = :descricao
	WHERE workspace = :workspace AND id = :id
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, e, e), "update entry")
}

func (s *EntryStore) Delete(ctx context.Context, workspace string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ne_lancamentos WHERE workspace = $1 AND id = $2`, workspace, id)
	if err != nil {
		return wrap(err, "delete entry")
	}
	return expectOne(res, "delete entry")
}
