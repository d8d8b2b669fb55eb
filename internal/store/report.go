package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type ReportStore struct {
	db *sqlx.DB
}

// TotalsByManagingUnit sums the base value of every credit note per unit.
func (s *ReportStore) TotalsByManagingUnit(ctx context.Context, workspace string) ([]ManagingUnitTotal, error) {
	query := `
	SELECT
		ug.nome,
		COALESCE(SUM(nc.valor), 0) AS total
	FROM
		unidade_gestora ug
	JOIN
		nota_credito nc ON nc.ug_id = ug.id AND nc.workspace = ug.workspace
	WHERE
		ug.workspace = $1
	GROUP BY
		ug.nome
	ORDER BY
		ug.nome`

	totals := []ManagingUnitTotal{}
	if err := s.db.SelectContext(ctx, &totals, query, workspace); err != nil {
		return nil, wrap(err, "query totals by managing unit")
	}
	return totals, nil
}

// ManagingUnitTotal returns the unit's name and the sum of its credit notes.
func (s *ReportStore) ManagingUnitTotal(ctx context.Context, workspace string, unitID int64) (ManagingUnitTotal, error) {
	query := `
	SELECT
		ug.nome,
		COALESCE(SUM(nc.valor), 0) AS total
	FROM
		unidade_gestora ug
	LEFT JOIN
		nota_credito nc ON nc.ug_id = ug.id AND nc.workspace = ug.workspace
	WHERE
		ug.workspace = $1 AND ug.id = $2
	GROUP BY
		ug.nome`

	var total ManagingUnitTotal
	if err := s.db.GetContext(ctx, &total, query, workspace, unitID); err != nil {
		return ManagingUnitTotal{}, wrap(err, "query managing unit total")
	}
	return total, nil
}
