package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type CreditNoteStore struct {
	db *sqlx.DB
}

func (s *CreditNoteStore) Create(ctx context.Context, note *CreditNote) error {
	query := `INSERT INTO nota_credito (
		workspace,
		ug_id,
		numero,
		data_emissao,
		descricao,
		prazo,
		nd,
		esfera,
		ptres,
		fonte,
		pi,
		responsavel,
		valor,
		datainclusao
	)
	SELECT
		:workspace,
		CAST(:ug_id AS BIGINT),
		:numero,
		CAST(:data_emissao AS DATE),
		:descricao,
		CAST(:prazo AS DATE),
		:nd,
		:esfera,
		:ptres,
		:fonte,
		:pi,
		:responsavel,
		CAST(:valor AS NUMERIC),
		NOW()
	WHERE EXISTS (SELECT 1 FROM unidade_gestora WHERE workspace = :workspace AND id = :ug_id)
	RETURNING *`

	return wrapInsert(namedReturning(ctx, s.db, query, note, note), "insert credit note")
}

func (s *CreditNoteStore) List(ctx context.Context, workspace string) ([]CreditNote, error) {
	notes := []CreditNote{}
	query := `SELECT * FROM nota_credito WHERE workspace = $1 ORDER BY datainclusao DESC`

	if err := s.db.SelectContext(ctx, &notes, query, workspace); err != nil {
		return nil, wrap(err, "list credit notes")
	}
	return notes, nil
}

func (s *CreditNoteStore) Get(ctx context.Context, workspace string, id int64) (*CreditNote, error) {
	var note CreditNote
	query := `SELECT * FROM nota_credito WHERE workspace = $1 AND id = $2`

	if err := s.db.GetContext(ctx, &note, query, workspace, id); err != nil {
		return nil, wrap(err, "get credit note")
	}
	return &note, nil
}

func (s *CreditNoteStore) Update(ctx context.Context, note *CreditNote) error {
	query := `UPDATE nota_credito SET
		ug_id = :ug_id,
		numero = :numero,
		data_emissao = :data_emissao,
		descricao = :descricao,
		prazo = :prazo,
		nd = :nd,
		esfera = :esfera,
		ptres = :ptres,
		fonte = :fonte,
		pi = :pi,
		responsavel = :responsavel,
		valor = :valor
	WHERE workspace = :workspace AND id = :id
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, note, note), "update credit note")
}

// Delete fails with ErrInUse while sub notes, commitments or recoveries
// still point at the note.
func (s *CreditNoteStore) Delete(ctx context.Context, workspace string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nota_credito WHERE workspace = $1 AND id = $2`, workspace, id)
	if err != nil {
		return wrap(err, "delete credit note")
	}
	return expectOne(res, "delete credit note")
}

func (s *CreditNoteStore) SetLink(ctx context.Context, workspace string, id int64, link *string) error {
	query := `UPDATE nota_credito SET link_dropnotes = $1 WHERE workspace = $2 AND id = $3`

	res, err := s.db.ExecContext(ctx, query, link, workspace, id)
	if err != nil {
		return wrap(err, "set credit note link")
	}
	return expectOne(res, "set credit note link")
}

// NumberExists reports whether the workspace already holds a note with the
// given number. The importer uses it to skip rows loaded by an earlier run.
func (s *CreditNoteStore) NumberExists(ctx context.Context, workspace, number string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM nota_credito WHERE workspace = $1 AND numero = $2)`

	if err := s.db.GetContext(ctx, &exists, query, workspace, number); err != nil {
		return false, wrap(err, "check credit note number")
	}
	return exists, nil
}

const aggregatedCreditNoteQuery = `
	SELECT
		nc.*,
		COALESCE(subncs.subncs, '[]') AS subncs,
		COALESCE(nes.nes, '[]') AS nes,
		COALESCE(recs.recolhimentos, '[]') AS recolhimentos
	FROM nota_credito nc
	LEFT JOIN LATERAL (
		SELECT json_agg(s ORDER BY s.data DESC) AS subncs
		FROM subnc s WHERE s.nc_id = nc.id AND s.workspace = nc.workspace
	) subncs ON TRUE
	LEFT JOIN LATERAL (
		SELECT json_agg(n ORDER BY n.datainclusao DESC) AS nes
		FROM nota_empenhos n WHERE n.nc_id = nc.id AND n.workspace = nc.workspace
	) nes ON TRUE
	LEFT JOIN LATERAL (
		SELECT json_agg(r ORDER BY r.data DESC) AS recolhimentos
		FROM recolhimentos r WHERE r.nc_id = nc.id AND r.workspace = nc.workspace
	) recs ON TRUE
	WHERE nc.workspace = $1`

// ListAggregated returns every credit note of the workspace with its sub
// notes, commitments and recoveries folded into JSON columns, newest first.
func (s *CreditNoteStore) ListAggregated(ctx context.Context, workspace string) ([]AggregatedCreditNote, error) {
	notes := []AggregatedCreditNote{}
	query := aggregatedCreditNoteQuery + `
	ORDER BY nc.datainclusao DESC`

	if err := s.db.SelectContext(ctx, &notes, query, workspace); err != nil {
		return nil, wrap(err, "list aggregated credit notes")
	}
	return notes, nil
}

func (s *CreditNoteStore) GetAggregated(ctx context.Context, workspace string, id int64) (*AggregatedCreditNote, error) {
	var note AggregatedCreditNote
	query := aggregatedCreditNoteQuery + `
	AND nc.id = $2`

	if err := s.db.GetContext(ctx, &note, query, workspace, id); err != nil {
		return nil, wrap(err, "get aggregated credit note")
	}
	return &note, nil
}
