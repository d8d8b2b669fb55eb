package siafi

import (
	"errors"
	"fmt"

	"github.com/farxc/sigecon/internal/currency"
	"github.com/farxc/sigecon/internal/store"
	"github.com/go-gota/gota/dataframe"
)

// Column headers of the SIAFI credit note export.
const (
	ColManagingUnit = "Unidade Gestora"
	ColNumber       = "Número NC"
	ColIssueDate    = "Data Emissão"
	ColDescription  = "Descrição"
	ColDeadline     = "Prazo"
	ColND           = "Natureza Despesa"
	ColSphere       = "Esfera"
	ColPTRES        = "PTRES"
	ColSource       = "Fonte Recursos"
	ColPI           = "Plano Interno"
	ColResponsible  = "Responsável"
	ColValue        = "Valor"
)

var RequiredColumns = []string{ColManagingUnit, ColNumber, ColIssueDate, ColValue}

var (
	errMissingNumber = errors.New("missing credit note number")
	errMissingUnit   = errors.New("missing managing unit")
)

// Row is one parsed line of the export.
type Row struct {
	ManagingUnit string
	Note         store.CreditNote
}

func RowToCreditNote(df dataframe.DataFrame, rowIdx int, workspace string) (Row, error) {
	unit := getStr(ColManagingUnit, rowIdx, &df)
	if unit == "" {
		return Row{}, errMissingUnit
	}

	number := getStr(ColNumber, rowIdx, &df)
	if number == "" {
		return Row{}, errMissingNumber
	}

	issued, err := store.ParseDate(getStr(ColIssueDate, rowIdx, &df))
	if err != nil {
		return Row{}, fmt.Errorf("invalid issue date: %w", err)
	}

	var deadline store.Date
	if raw := getStr(ColDeadline, rowIdx, &df); raw != "" {
		if deadline, err = store.ParseDate(raw); err != nil {
			return Row{}, fmt.Errorf("invalid deadline: %w", err)
		}
	}

	return Row{
		ManagingUnit: unit,
		Note: store.CreditNote{
			Workspace:   workspace,
			Number:      number,
			IssueDate:   issued,
			Description: getStr(ColDescription, rowIdx, &df),
			Deadline:    deadline,
			ND:          getStr(ColND, rowIdx, &df),
			Sphere:      getStr(ColSphere, rowIdx, &df),
			PTRES:       getStr(ColPTRES, rowIdx, &df),
			Source:      getStr(ColSource, rowIdx, &df),
			PI:          getStr(ColPI, rowIdx, &df),
			Responsible: getStr(ColResponsible, rowIdx, &df),
			Value:       currency.NewAmount(currency.Parse(getStr(ColValue, rowIdx, &df))),
		},
	}, nil
}
