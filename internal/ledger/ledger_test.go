package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/farxc/sigecon/internal/currency"
	"github.com/farxc/sigecon/internal/logger"
	"github.com/farxc/sigecon/internal/store"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeNotes struct {
	rows []store.AggregatedCreditNote
	err  error
}

func (f *fakeNotes) ListAggregated(ctx context.Context, workspace string) ([]store.AggregatedCreditNote, error) {
	return f.rows, f.err
}

func (f *fakeNotes) GetAggregated(ctx context.Context, workspace string, id int64) (*store.AggregatedCreditNote, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, fmt.Errorf("failed to get aggregated credit note: %w", store.ErrNotFound)
}

type fakeEntries struct {
	mu      sync.Mutex
	calls   []int64
	entries map[int64][]store.Entry
	failFor map[int64]bool
	delay   time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeEntries) ListByCommitment(ctx context.Context, workspace string, commitmentID int64) ([]store.Entry, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, commitmentID)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failFor[commitmentID] {
		return nil, errors.New("connection reset")
	}
	return f.entries[commitmentID], nil
}

func amount(s string) currency.Amount {
	return currency.NewAmount(decimal.RequireFromString(s))
}

func aggregated(id int64, valor, nes string) store.AggregatedCreditNote {
	return store.AggregatedCreditNote{
		CreditNote:  store.CreditNote{ID: id, Workspace: "ws", Value: amount(valor)},
		SubNotes:    types.JSONText(`[]`),
		Commitments: types.JSONText(nes),
		Recoveries:  types.JSONText(`[]`),
	}
}

func TestProjectAll_KeepsOrderAndBalances(t *testing.T) {
	notes := &fakeNotes{rows: []store.AggregatedCreditNote{
		aggregated(3, "1000", `[{"id":30,"valor":200}]`),
		aggregated(2, "500", `[]`),
		aggregated(1, "10", `[{"id":10,"valor":1},{"id":11,"valor":2}]`),
	}}
	entries := &fakeEntries{entries: map[int64][]store.Entry{
		30: {{ID: 1, CommitmentID: 30, Kind: store.EntryReinforce, Value: amount("50")}},
	}}

	svc := NewService(notes, entries, logger.NewNop(), 4)
	out, err := svc.ProjectAll(context.Background(), "ws")
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, int64(3), out[0].ID)
	assert.Equal(t, int64(2), out[1].ID)
	assert.Equal(t, int64(1), out[2].ID)

	assert.Equal(t, "800.00", out[0].Balance.Fixed())
	assert.Equal(t, "500.00", out[1].Balance.Fixed())
	assert.Equal(t, "7.00", out[2].Balance.Fixed())

	require.Len(t, out[0].Commitments[0].Entries, 1)
	assert.Equal(t, "entry-reinforce", out[0].Commitments[0].Entries[0].Kind)
	assert.Equal(t, "250.00", out[0].Commitments[0].AdjustedValue.Fixed())

	assert.ElementsMatch(t, []int64{30, 10, 11}, entries.calls)
}

func TestProjectAll_FailedEntryLookupDegrades(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	notes := &fakeNotes{rows: []store.AggregatedCreditNote{
		aggregated(1, "1000", `[{"id":10,"valor":100},{"id":11,"valor":100}]`),
	}}
	entries := &fakeEntries{
		entries: map[int64][]store.Entry{
			11: {{ID: 5, CommitmentID: 11, Kind: store.EntryAnnul, Value: amount("10")}},
		},
		failFor: map[int64]bool{10: true},
	}

	svc := NewService(notes, entries, logger.Wrap(zap.New(core)), 2)
	out, err := svc.ProjectAll(context.Background(), "ws")
	require.NoError(t, err)
	require.Len(t, out, 1)

	nes := out[0].Commitments
	require.Len(t, nes, 2)
	assert.NotNil(t, nes[0].Entries)
	assert.Empty(t, nes[0].Entries)
	require.Len(t, nes[1].Entries, 1)
	assert.Equal(t, "entry-annul", nes[1].Entries[0].Kind)
	assert.Equal(t, "800.00", out[0].Balance.Fixed())

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "commitment 10")
	assert.Equal(t, "ledger", logs.All()[0].LoggerName)
}

func TestProjectAll_QueryErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&fakeNotes{err: boom}, &fakeEntries{}, logger.NewNop(), 2)

	_, err := svc.ProjectAll(context.Background(), "ws")
	assert.ErrorIs(t, err, boom)
}

func TestProjectAll_Empty(t *testing.T) {
	svc := NewService(&fakeNotes{}, &fakeEntries{}, logger.NewNop(), 2)

	out, err := svc.ProjectAll(context.Background(), "ws")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestProjectAll_BoundedConcurrency(t *testing.T) {
	nes := `[{"id":1,"valor":1},{"id":2,"valor":1},{"id":3,"valor":1},{"id":4,"valor":1},{"id":5,"valor":1},{"id":6,"valor":1}]`
	notes := &fakeNotes{rows: []store.AggregatedCreditNote{aggregated(1, "10", nes)}}
	entries := &fakeEntries{delay: 10 * time.Millisecond}

	svc := NewService(notes, entries, logger.NewNop(), 2)
	out, err := svc.ProjectAll(context.Background(), "ws")
	require.NoError(t, err)

	assert.Equal(t, "4.00", out[0].Balance.Fixed())
	assert.Len(t, entries.calls, 6)
	assert.LessOrEqual(t, entries.maxInFlight.Load(), int32(2))
}

func TestProject(t *testing.T) {
	notes := &fakeNotes{rows: []store.AggregatedCreditNote{aggregated(4, "100", `"[{\"id\":40,\"valor\":25}]"`)}}
	svc := NewService(notes, &fakeEntries{}, logger.NewNop(), 1)

	p, err := svc.Project(context.Background(), "ws", 4)
	require.NoError(t, err)
	assert.Equal(t, "75.00", p.Balance.Fixed())

	_, err = svc.Project(context.Background(), "ws", 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProjectAll_CancelledContext(t *testing.T) {
	notes := &fakeNotes{rows: []store.AggregatedCreditNote{aggregated(1, "10", `[]`)}}
	svc := NewService(notes, &fakeEntries{}, logger.NewNop(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ProjectAll(ctx, "ws")
	assert.ErrorIs(t, err, context.Canceled)
}
