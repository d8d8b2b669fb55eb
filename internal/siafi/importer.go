// Package siafi loads credit notes exported from SIAFI into the ledger.
package siafi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/farxc/sigecon/internal/logger"
	"github.com/farxc/sigecon/internal/store"
	"github.com/go-gota/gota/dataframe"
)

const component = "SiafiImporter"

type UnitResolver interface {
	FindOrCreate(ctx context.Context, workspace, name string) (*store.ManagingUnit, error)
}

type NoteWriter interface {
	Create(ctx context.Context, note *store.CreditNote) error
	NumberExists(ctx context.Context, workspace, number string) (bool, error)
}

type RunRecorder interface {
	Insert(ctx context.Context, run *store.ImportRun) error
	Finish(ctx context.Context, run *store.ImportRun) error
}

type Importer struct {
	units   UnitResolver
	notes   NoteWriter
	history RunRecorder
	log     *logger.Logger
}

func NewImporter(units UnitResolver, notes NoteWriter, history RunRecorder, log *logger.Logger) *Importer {
	return &Importer{units: units, notes: notes, history: history, log: log}
}

func NewImporterFromStorage(s *store.Storage, log *logger.Logger) *Importer {
	return NewImporter(s.ManagingUnits, s.CreditNotes, s.ImportHistory, log)
}

// Import reads one export and inserts every row it can. Rows that fail are
// logged and counted. Notes whose number already exists are skipped. The
// returned run is the history record as finished.
func (im *Importer) Import(ctx context.Context, workspace, sourceName string, r io.Reader) (*store.ImportRun, error) {
	run := &store.ImportRun{
		Workspace:  workspace,
		SourceFile: sourceName,
		Status:     store.StatusRunning,
	}
	if err := im.history.Insert(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record import start: %w", err)
	}

	im.log.Info(component, "Starting import: workspace=%s source=%s run=%d", workspace, sourceName, run.ID)

	loadErr := im.load(ctx, workspace, r, run)
	switch {
	case loadErr != nil:
		run.Status = store.StatusFailure
		run.Message = loadErr.Error()
	case run.TotalRows > 0 && run.ImportedRows == 0 && run.Message != "":
		run.Status = store.StatusFailure
	case run.Message != "":
		run.Status = store.StatusPartial
	default:
		run.Status = store.StatusSuccess
	}

	// The run must be closed even when the caller's context is gone.
	if err := im.history.Finish(context.WithoutCancel(ctx), run); err != nil {
		im.log.Error(component, "Failed to record import result: run=%d error=%v", run.ID, err)
	}

	im.log.Info(component, "Import finished: run=%d status=%s total=%d imported=%d",
		run.ID, run.Status, run.TotalRows, run.ImportedRows)

	if loadErr != nil {
		return run, loadErr
	}
	return run, nil
}

func (im *Importer) load(ctx context.Context, workspace string, r io.Reader, run *store.ImportRun) error {
	df, err := ReadFrame(r)
	if err != nil {
		return err
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !hasColumn(&df, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	run.TotalRows = df.Nrow()
	units := make(map[string]int64)
	var failures []string

	for i := 0; i < df.Nrow(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		skipped, err := im.loadRow(ctx, workspace, &df, i, units)
		if err != nil {
			// Header is line 1.
			line := i + 2
			im.log.Warn(component, "Skipping line %d: %v", line, err)
			failures = append(failures, fmt.Sprintf("linha %d: %v", line, err))
			continue
		}
		if !skipped {
			run.ImportedRows++
		}
	}

	if len(failures) > 0 {
		run.Message = summarize(failures)
	}
	return nil
}

func (im *Importer) loadRow(ctx context.Context, workspace string, df *dataframe.DataFrame, rowIdx int, units map[string]int64) (bool, error) {
	row, err := RowToCreditNote(*df, rowIdx, workspace)
	if err != nil {
		return false, err
	}

	exists, err := im.notes.NumberExists(ctx, workspace, row.Note.Number)
	if err != nil {
		return false, err
	}
	if exists {
		im.log.Debug(component, "Credit note %s already loaded", row.Note.Number)
		return true, nil
	}

	unitID, ok := units[row.ManagingUnit]
	if !ok {
		unit, err := im.units.FindOrCreate(ctx, workspace, row.ManagingUnit)
		if err != nil {
			return false, fmt.Errorf("resolve managing unit %q: %w", row.ManagingUnit, err)
		}
		unitID = unit.ID
		units[row.ManagingUnit] = unitID
	}

	row.Note.ManagingUnitID = unitID
	if err := im.notes.Create(ctx, &row.Note); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

const maxFailuresInMessage = 10

func summarize(failures []string) string {
	if len(failures) <= maxFailuresInMessage {
		return strings.Join(failures, "; ")
	}
	return fmt.Sprintf("%s; ... e mais %d", strings.Join(failures[:maxFailuresInMessage], "; "), len(failures)-maxFailuresInMessage)
}
