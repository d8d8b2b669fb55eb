package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type SubNoteStore struct {
	db *sqlx.DB
}

func (s *SubNoteStore) Create(ctx context.Context, sub *SubNote) error {
	query := `INSERT INTO subnc (workspace, nc_id, nc, data, descricao, valor, datainclusao)
	SELECT :workspace, CAST(:nc_id AS BIGINT), :nc, CAST(:data AS DATE), :descricao, CAST(:valor AS NUMERIC), NOW()
	WHERE EXISTS (SELECT 1 FROM nota_credito WHERE workspace = :workspace AND id = :nc_id)
	RETURNING *`

	return wrapInsert(namedReturning(ctx, s.db, query, sub, sub), "insert sub note")
}

func (s *SubNoteStore) List(ctx context.Context, workspace string) ([]SubNote, error) {
	subs := []SubNote{}
	query := `SELECT * FROM subnc WHERE workspace = $1 ORDER BY data DESC`

	if err := s.db.SelectContext(ctx, &subs, query, workspace); err != nil {
		return nil, wrap(err, "list sub notes")
	}
	return subs, nil
}

func (s *SubNoteStore) Get(ctx context.Context, workspace string, id int64) (*SubNote, error) {
	var sub SubNote
	query := `SELECT * FROM subnc WHERE workspace = $1 AND id = $2`

	if err := s.db.GetContext(ctx, &sub, query, workspace, id); err != nil {
		return nil, wrap(err, "get sub note")
	}
	return &sub, nil
}

func (s *SubNoteStore) ListByCreditNote(ctx context.Context, workspace string, creditNoteID int64) ([]SubNote, error) {
	subs := []SubNote{}
	query := `SELECT * FROM subnc WHERE workspace = $1 AND nc_id = $2 ORDER BY data DESC`

	if err := s.db.SelectContext(ctx, &subs, query, workspace, creditNoteID); err != nil {
		return nil, wrap(err, "list sub notes by credit note")
	}
	return subs, nil
}

// Update edits a sub note in place. The parent credit note cannot change.
func (s *SubNoteStore) Update(ctx context.Context, sub *SubNote) error {
	query := `UPDATE subnc SET
		nc = :nc,
		data = :data,
		descricao = :descricao,
		valor = :valor
	WHERE workspace = :workspace AND nc_id = :nc_id AND id = :id
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, sub, sub), "update sub note")
}

func (s *SubNoteStore) Delete(ctx context.Context, workspace string, creditNoteID, id int64) error {
	query := `DELETE FROM subnc WHERE workspace = $1 AND nc_id = $2 AND id = $3`

	res, err := s.db.ExecContext(ctx, query, workspace, creditNoteID, id)
	if err != nil {
		return wrap(err, "delete sub note")
	}
	return expectOne(res, "delete sub note")
}

func (s *SubNoteStore) SetLink(ctx context.Context, workspace string, creditNoteID, id int64, link *string) error {
	query := `UPDATE subnc SET link_dropnotes = $1 WHERE workspace = $2 AND nc_id = $3 AND id = $4`

	res, err := s.db.ExecContext(ctx, query, link, workspace, creditNoteID, id)
	if err != nil {
		return wrap(err, "set sub note link")
	}
	return expectOne(res, "set sub note link")
}
