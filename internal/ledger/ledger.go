// Package ledger loads credit notes with their children and projects their
// balances.
package ledger

import (
	"context"
	"fmt"

	"github.com/farxc/sigecon/internal/balance"
	"github.com/farxc/sigecon/internal/logger"
	"github.com/farxc/sigecon/internal/store"
	"golang.org/x/sync/errgroup"
)

const component = "ledger"

type CreditNoteSource interface {
	ListAggregated(ctx context.Context, workspace string) ([]store.AggregatedCreditNote, error)
	GetAggregated(ctx context.Context, workspace string, id int64) (*store.AggregatedCreditNote, error)
}

type EntrySource interface {
	ListByCommitment(ctx context.Context, workspace string, commitmentID int64) ([]store.Entry, error)
}

type Service struct {
	notes       CreditNoteSource
	entries     EntrySource
	log         *logger.Logger
	concurrency int
}

// NewService builds a projection service. concurrency bounds how many credit
// notes, and how many entry lookups per note, run at once.
func NewService(notes CreditNoteSource, entries EntrySource, log *logger.Logger, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{notes: notes, entries: entries, log: log, concurrency: concurrency}
}

// ProjectAll projects every credit note of the workspace, newest first.
func (s *Service) ProjectAll(ctx context.Context, workspace string) ([]balance.CreditNoteProjection, error) {
	rows, err := s.notes.ListAggregated(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit notes: %w", err)
	}

	out := make([]balance.CreditNoteProjection, len(rows))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, row := range rows {
		g.Go(func() error {
			out[i] = s.project(ctx, workspace, row)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Debug(component, "projected %d credit notes for workspace %s", len(out), workspace)
	return out, nil
}

// Project projects a single credit note. A missing note is store.ErrNotFound.
func (s *Service) Project(ctx context.Context, workspace string, id int64) (*balance.CreditNoteProjection, error) {
	row, err := s.notes.GetAggregated(ctx, workspace, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit note %d: %w", id, err)
	}

	p := s.project(ctx, workspace, *row)
	return &p, nil
}

func (s *Service) project(ctx context.Context, workspace string, row store.AggregatedCreditNote) balance.CreditNoteProjection {
	snap := balance.FromAggregate(row, nil)
	snap.Entries = s.entriesFor(ctx, workspace, snap.Commitments)
	return balance.Project(snap)
}

// entriesFor looks up the entries of every commitment in parallel and waits
// for all of them. A failed lookup leaves that commitment without entries.
func (s *Service) entriesFor(ctx context.Context, workspace string, commitments []store.Commitment) map[int64][]store.Entry {
	lists := make([][]store.Entry, len(commitments))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, c := range commitments {
		g.Go(func() error {
			entries, err := s.entries.ListByCommitment(ctx, workspace, c.ID)
			if err != nil {
				s.log.Warn(component, "entries of commitment %d unavailable: %v", c.ID, err)
				return nil
			}
			lists[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	byCommitment := make(map[int64][]store.Entry, len(commitments))
	for i, c := range commitments {
		byCommitment[c.ID] = lists[i]
	}
	return byCommitment
}
