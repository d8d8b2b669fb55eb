package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type ImportHistoryStore struct {
	db *sqlx.DB
}

var (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusPartial = "partial"
)

func (s *ImportHistoryStore) Insert(ctx context.Context, run *ImportRun) error {
	query := `INSERT INTO historico_importacao (
		workspace,
		arquivo_origem,
		status,
		linhas_total,
		linhas_importadas,
		mensagem,
		iniciado_em
	) VALUES (
		:workspace,
		:arquivo_origem,
		:status,
		:linhas_total,
		:linhas_importadas,
		:mensagem,
		NOW()
	) RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, run, run), "insert import run")
}

// Finish stores the final counters and status of a run.
func (s *ImportHistoryStore) Finish(ctx context.Context, run *ImportRun) error {
	query := `UPDATE historico_importacao SET
		status = :status,
		linhas_total = :linhas_total,
		linhas_importadas = :linhas_importadas,
		mensagem = :mensagem,
		finalizado_em = NOW()
	WHERE id = :id
	RETURNING *`

	return wrapWrite(namedReturning(ctx, s.db, query, run, run), "finish import run")
}

func (s *ImportHistoryStore) Latest(ctx context.Context, workspace string, limit int) ([]ImportRun, error) {
	runs := []ImportRun{}
	query := `SELECT * FROM historico_importacao WHERE workspace = $1 ORDER BY iniciado_em DESC LIMIT $2`

	if err := s.db.SelectContext(ctx, &runs, query, workspace, limit); err != nil {
		return nil, wrap(err, "list import runs")
	}
	return runs, nil
}
