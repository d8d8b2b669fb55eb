// Package balance projects a credit note together with everything that moves
// its balance:
//
//	saldo = valor + Σ sub notes − Σ commitments − Σ recoveries
//
// Entries are attached to their commitments for display only. They adjust
// valor_ajustado on the projected commitment and never the balance.
package balance

import (
	"github.com/farxc/sigecon/internal/currency"
	"github.com/farxc/sigecon/internal/store"
	"github.com/shopspring/decimal"
)

// Snapshot is a fully fetched credit note and its children.
type Snapshot struct {
	Note        store.CreditNote
	SubNotes    []store.SubNote
	Commitments []store.Commitment
	Entries     map[int64][]store.Entry // by commitment ID
	Recoveries  []store.Recovery
}

type EntryProjection struct {
	store.Entry
	Kind string `json:"tipo"`
}

type CommitmentProjection struct {
	store.Commitment
	Entries       []EntryProjection `json:"lancamentos"`
	AdjustedValue currency.Amount   `json:"valor_ajustado"`
}

type CreditNoteProjection struct {
	store.CreditNote
	SubNotes    []store.SubNote        `json:"subncs"`
	Commitments []CommitmentProjection `json:"nes"`
	Recoveries  []store.Recovery       `json:"recolhimentos"`
	Balance     currency.Amount        `json:"saldo_atual"`
}

// Project folds a snapshot into its projection. Nil collections project as
// empty ones.
func Project(s Snapshot) CreditNoteProjection {
	commitments := make([]CommitmentProjection, 0, len(s.Commitments))
	for _, c := range s.Commitments {
		commitments = append(commitments, ProjectCommitment(c, s.Entries[c.ID]))
	}

	return CreditNoteProjection{
		CreditNote:  s.Note,
		SubNotes:    orEmpty(s.SubNotes),
		Commitments: commitments,
		Recoveries:  orEmpty(s.Recoveries),
		Balance:     currency.NewAmount(Balance(s.Note.Value.Decimal, s.SubNotes, s.Commitments, s.Recoveries)),
	}
}

// Balance computes base + Σ sub notes − Σ commitments − Σ recoveries exactly.
func Balance(base decimal.Decimal, subNotes []store.SubNote, commitments []store.Commitment, recoveries []store.Recovery) decimal.Decimal {
	total := base
	for _, s := range subNotes {
		total = total.Add(s.Value.Decimal)
	}
	for _, c := range commitments {
		total = total.Sub(c.Value.Decimal)
	}
	for _, r := range recoveries {
		total = total.Sub(r.Value.Decimal)
	}
	return total
}

func ProjectCommitment(c store.Commitment, entries []store.Entry) CommitmentProjection {
	return CommitmentProjection{
		Commitment:    c,
		Entries:       ProjectEntries(entries),
		AdjustedValue: currency.NewAmount(AdjustedValue(c.Value.Decimal, entries)),
	}
}

// ProjectEntries renames entry kinds for display.
func ProjectEntries(entries []store.Entry) []EntryProjection {
	out := make([]EntryProjection, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryProjection{Entry: e, Kind: DisplayKind(e.Kind)})
	}
	return out
}

// AdjustedValue applies reinforcements and annulments to a commitment value.
// Entries of unknown kind are skipped.
func AdjustedValue(value decimal.Decimal, entries []store.Entry) decimal.Decimal {
	for _, e := range entries {
		switch e.Kind {
		case store.EntryReinforce:
			value = value.Add(e.Value.Decimal)
		case store.EntryAnnul:
			value = value.Sub(e.Value.Decimal)
		}
	}
	return value
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
