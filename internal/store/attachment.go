package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type AttachmentStore struct {
	db *sqlx.DB
}

// Create stores attachment metadata. An active attachment with the same file
// name on the same note is a conflict.
func (s *AttachmentStore) Create(ctx context.Context, a *Attachment) error {
	var exists bool
	check := `SELECT EXISTS (
		SELECT 1 FROM anexos
		WHERE workspace = $1 AND id_nota = $2 AND tipo = $3 AND nome_arquivo = $4 AND ativo = true
	)`
	if err := s.db.GetContext(ctx, &exists, check, a.Workspace, a.NoteID, a.NoteKind, a.FileName); err != nil {
		return wrap(err, "check duplicate attachment")
	}
	if exists {
		return wrap(ErrConflict, "insert attachment")
	}

	query := `INSERT INTO anexos (
		workspace,
		id_nota,
		tipo,
		nome_arquivo,
		chave_objeto,
		url,
		content_type,
		tamanho,
		usuario_upload
	) VALUES (
		:workspace,
		:id_nota,
		:tipo,
		:nome_arquivo,
		:chave_objeto,
		:url,
		:content_type,
		:tamanho,
		:usuario_upload
	) RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, a, a), "insert attachment")
}

func (s *AttachmentStore) Get(ctx context.Context, workspace string, id int64) (*Attachment, error) {
	var a Attachment
	query := `SELECT * FROM anexos WHERE workspace = $1 AND id = $2 AND ativo = true`

	if err := s.db.GetContext(ctx, &a, query, workspace, id); err != nil {
		return nil, wrap(err, "get attachment")
	}
	return &a, nil
}

func (s *AttachmentStore) ListByNote(ctx context.Context, workspace, kind string, noteID int64) ([]Attachment, error) {
	attachments := []Attachment{}
	query := `SELECT * FROM anexos
	WHERE workspace = $1 AND tipo = $2 AND id_nota = $3 AND ativo = true
	ORDER BY data_upload DESC`

	if err := s.db.SelectContext(ctx, &attachments, query, workspace, kind, noteID); err != nil {
		return nil, wrap(err, "list attachments by note")
	}
	return attachments, nil
}

// List pages through active attachments, newest first, with the number of
// the note each one belongs to. An empty kind lists both kinds.
func (s *AttachmentStore) List(ctx context.Context, workspace string, filter AttachmentFilter) ([]Attachment, error) {
	query := `
	SELECT
		a.*,
		CASE
			WHEN a.tipo = 'NC' THEN nc.numero
			WHEN a.tipo = 'NE' THEN ne.numero
		END AS numero_nota
	FROM anexos a
	LEFT JOIN nota_credito nc ON a.tipo = 'NC' AND a.id_nota = nc.id
	LEFT JOIN nota_empenhos ne ON a.tipo = 'NE' AND a.id_nota = ne.id
	WHERE a.workspace = $1 AND a.ativo = true`

	args := []any{workspace}
	if filter.NoteKind != "" {
		args = append(args, filter.NoteKind)
		query += fmt.Sprintf(" AND a.tipo = $%d", len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY a.data_upload DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	attachments := []Attachment{}
	if err := s.db.SelectContext(ctx, &attachments, query, args...); err != nil {
		return nil, wrap(err, "list attachments")
	}
	return attachments, nil
}

func (s *AttachmentStore) Count(ctx context.Context, workspace, kind string) (int, error) {
	query := `SELECT COUNT(*) FROM anexos WHERE workspace = $1 AND ativo = true`
	args := []any{workspace}
	if kind != "" {
		query += ` AND tipo = $2`
		args = append(args, kind)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, wrap(err, "count attachments")
	}
	return total, nil
}

// SoftDelete marks the attachment inactive. The stored object is kept.
func (s *AttachmentStore) SoftDelete(ctx context.Context, workspace string, id int64) error {
	query := `UPDATE anexos SET ativo = false WHERE workspace = $1 AND id = $2 AND ativo = true`

	res, err := s.db.ExecContext(ctx, query, workspace, id)
	if err != nil {
		return wrap(err, "delete attachment")
	}
	return expectOne(res, "delete attachment")
}

func (s *AttachmentStore) NoteExists(ctx context.Context, workspace, kind string, noteID int64) (bool, error) {
	var query string
	switch kind {
	case NoteKindCredit:
		query = `SELECT EXISTS (SELECT 1 FROM nota_credito WHERE workspace = $1 AND id = $2)`
	case NoteKindCommitment:
		query = `SELECT EXISTS (SELECT 1 FROM nota_empenhos WHERE workspace = $1 AND id = $2)`
	default:
		return false, fmt.Errorf("unknown note kind %q", kind)
	}

	var exists bool
	if err := s.db.GetContext(ctx, &exists, query, workspace, noteID); err != nil {
		return false, wrap(err, "check note")
	}
	return exists, nil
}
