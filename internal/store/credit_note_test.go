package store

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/farxc/sigecon/internal/currency"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var creditNoteColumns = []string{
	"id", "workspace", "ug_id", "numero", "data_emissao", "descricao", "prazo", "nd", "esfera",
	"ptres", "fonte", "pi", "responsavel", "valor", "datainclusao", "link_dropnotes",
}

func creditNoteRow(rows *sqlmock.Rows, id int64, valor string) *sqlmock.Rows {
	return rows.AddRow(id, testWorkspace, 1, "2024NC000123", testTime, "Custeio", nil, "339030",
		"1", "171234", "100", "PI001", "Maria", valor, testTime, nil)
}

func TestCreditNoteStore_Create(t *testing.T) {
	s, mock, _ := newMockStorage(t)

	note := &CreditNote{
		Workspace:      testWorkspace,
		ManagingUnitID: 1,
		Number:         "2024NC000123",
		IssueDate:      NewDate(testTime),
		Description:    "Custeio",
		Value:          currency.NewAmount(decimal.RequireFromString("1000")),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO nota_credito")).
		WithArgs(testWorkspace, int64(1), "2024NC000123", "2024-03-10", "Custeio", nil,
			"", "", "", "", "", "", "1000.00", testWorkspace, int64(1)).
		WillReturnRows(creditNoteRow(sqlmock.NewRows(creditNoteColumns), 5, "1000.00"))

	require.NoError(t, s.CreditNotes.Create(context.Background(), note))
	assert.Equal(t, int64(5), note.ID)
	assert.Equal(t, testTime, note.CreatedAt)
	assert.True(t, note.Deadline.IsZero())
	assert.Nil(t, note.Link)
}

func TestCreditNoteStore_CreateMissingUnit(t *testing.T) {
	s, mock, _ := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO nota_credito")).
		WillReturnError(&pq.Error{Code: "23503"})

	err := s.CreditNotes.Create(context.Background(), &CreditNote{Workspace: testWorkspace, ManagingUnitID: 404})
	assert.ErrorIs(t, err, ErrNoParent)
}

func TestCreditNoteStore_DeleteReferenced(t *testing.T) {
	s, mock, _ := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM nota_credito WHERE workspace = $1 AND id = $2")).
		WithArgs(testWorkspace, int64(5)).
		WillReturnError(&pq.Error{Code: "23503"})

	err := s.CreditNotes.Delete(context.Background(), testWorkspace, 5)
	assert.ErrorIs(t, err, ErrInUse)
}

func TestCreditNoteStore_UpdateMissing(t *testing.T) {
	s, mock, _ := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE nota_credito SET")).
		WillReturnRows(sqlmock.NewRows(creditNoteColumns))

	err := s.CreditNotes.Update(context.Background(), &CreditNote{ID: 8, Workspace: testWorkspace})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreditNoteStore_SetLink(t *testing.T) {
	query := regexp.QuoteMeta("UPDATE nota_credito SET link_dropnotes = $1 WHERE workspace = $2 AND id = $3")
	link := "https://notes.example/nc/5"

	t.Run("updated", func(t *testing.T) {
		s, mock, _ := newMockStorage(t)
		mock.ExpectExec(query).
			WithArgs(link, testWorkspace, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.CreditNotes.SetLink(context.Background(), testWorkspace, 5, &link))
	})

	t.Run("no row", func(t *testing.T) {
		s, mock, _ := newMockStorage(t)
		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.CreditNotes.SetLink(context.Background(), testWorkspace, 5, &link)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreditNoteStore_ListAggregated(t *testing.T) {
	s, mock, _ := newMockStorage(t)

	columns := append(append([]string{}, creditNoteColumns...), "subncs", "nes", "recolhimentos")
	subncs := `[{"id":1,"nc_id":5,"valor":100.00,"data":"2024-03-01"}]`
	nes := `[{"id":9,"nc_id":5,"valor":200.00,"numero":"2024NE1"}]`

	rows := sqlmock.NewRows(columns).
		AddRow(5, testWorkspace, 1, "2024NC000123", testTime, "Custeio", nil, "339030",
			"1", "171234", "100", "PI001", "Maria", "1000.00", testTime, nil,
			[]byte(subncs), []byte(nes), []byte(`[]`))

	mock.ExpectQuery(`(?s)LEFT JOIN LATERAL.*WHERE nc.workspace = \$1.*ORDER BY nc.datainclusao DESC`).
		WithArgs(testWorkspace).
		WillReturnRows(rows)

	notes, err := s.CreditNotes.ListAggregated(context.Background(), testWorkspace)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	assert.Equal(t, int64(5), notes[0].ID)
	assert.Equal(t, "1000.00", notes[0].Value.Fixed())
	assert.JSONEq(t, subncs, string(notes[0].SubNotes))
	assert.JSONEq(t, nes, string(notes[0].Commitments))
	assert.JSONEq(t, `[]`, string(notes[0].Recoveries))

	var decoded []SubNote
	require.NoError(t, json.Unmarshal(notes[0].SubNotes, &decoded))
	assert.Equal(t, "100.00", decoded[0].Value.Fixed())
	assert.Equal(t, "2024-03-01", decoded[0].Date.String())
}

func TestCreditNoteStore_GetAggregatedNotFound(t *testing.T) {
	s, mock, _ := newMockStorage(t)

	mock.ExpectQuery(`(?s)WHERE nc.workspace = \$1.*AND nc.id = \$2`).
		WithArgs(testWorkspace, int64(77)).
		WillReturnRows(sqlmock.NewRows(creditNoteColumns))

	_, err := s.CreditNotes.GetAggregated(context.Background(), testWorkspace, 77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreditNoteStore_NumberExists(t *testing.T) {
	s, mock, _ := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM nota_credito WHERE workspace = $1 AND numero = $2)")).
		WithArgs(testWorkspace, "2024NC000123").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := s.CreditNotes.NumberExists(context.Background(), testWorkspace, "2024NC000123")
	require.NoError(t, err)
	assert.True(t, exists)
}
