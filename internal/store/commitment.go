package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type CommitmentStore struct {
	db *sqlx.DB
}

func (s *CommitmentStore) Create(ctx context.Context, c *Commitment) error {
	query := `INSERT INTO nota_empenhos (
		workspace,
		nc_id,
		numero,
		cnpj,
		valor,
		req,
		nup,
		datainclusao
	)
	SELECT
		:workspace,
		CAST(:nc_id AS BIGINT),
		:numero,
		:cnpj,
		CAST(:valor AS NUMERIC),
		:req,
		:nup,
		NOW()
	WHERE EXISTS (SELECT 1 FROM nota_credito WHERE workspace = :workspace AND id = :nc_id)
	RETURNING *`

	return wrapInsert(namedReturning(ctx, s.db, query, c, c), "insert commitment")
}

func (s *CommitmentStore) List(ctx context.Context, workspace string) ([]Commitment, error) {
	commitments := []Commitment{}
	query := `SELECT * FROM nota_empenhos WHERE workspace = $1 ORDER BY datainclusao DESC`

	if err := s.db.SelectContext(ctx, &commitments, query, workspace); err != nil {
		return nil, wrap(err, "list commitments")
	}
	return commitments, nil
}

func (s *CommitmentStore) Get(ctx context.Context, workspace string, id int64) (*Commitment, error) {
	var c Commitment
	query := `SELECT * FROM nota_empenhos WHERE workspace = $1 AND id = $2`

	if err := s.db.GetContext(ctx, &c, query, workspace, id); err != nil {
		return nil, wrap(err, "get commitment")
	}
	return &c, nil
}

func (s *CommitmentStore) ListByCreditNote(ctx context.Context, workspace string, creditNoteID int64) ([]Commitment, error) {
	commitments := []Commitment{}
	query := `SELECT * FROM nota_empenhos WHERE workspace = $1 AND nc_id = $2 ORDER BY datainclusao DESC`

	if err := s.db.SelectContext(ctx, &commitments, query, workspace, creditNoteID); err != nil {
		return nil, wrap(err, "list commitments by credit note")
	}
	return commitments, nil
}

// Update may move the commitment to another credit note. The schema only
// accepts a note of the same workspace.
func (s *CommitmentStore) Update(ctx context.Context, c *Commitment) error {
	query := `UPDATE nota_empenhos SET
		nc_id = :nc_id,
		numero = :numero,
		cnpj = :cnpj,
		valor = :valor,
		req = :req,
		nup = :nup
	WHERE workspace = :workspace AND id = :id
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, c, c), "update commitment")
}

func (s *CommitmentStore) Delete(ctx context.Context, workspace string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nota_empenhos WHERE workspace = $1 AND id = $2`, workspace, id)
	if err != nil {
		return wrap(err, "delete commitment")
	}
	return expectOne(res, "delete commitment")
}

func (s *CommitmentStore) SetLink(ctx context.Context, workspace string, id int64, link *string) error {
	query := `UPDATE nota_empenhos SET link_dropnotes = $1 WHERE workspace = $2 AND id = $3`

	res, err := s.db.ExecContext(ctx, query, link, workspace, id)
	if err != nil {
		return wrap(err, "set commitment link")
	}
	return expectOne(res, "set commitment link")
}
