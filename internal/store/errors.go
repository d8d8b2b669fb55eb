package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrInUse       = errors.New("resource is referenced by other records")
	ErrConflict    = errors.New("resource already exists")
	ErrInvalidKind = errors.New("invalid entry kind")
	ErrNoParent    = errors.New("referenced parent record does not exist")
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// wrap maps driver errors onto the store sentinels and adds context. A foreign
// key violation on delete means the row is still referenced.
func wrap(err error, action string) error {
	return classify(err, action, ErrInUse)
}

// wrapWrite is wrap for inserts and updates, where a foreign key violation
// means the parent row is missing.
func wrapWrite(err error, action string) error {
	return classify(err, action, ErrNoParent)
}

// wrapInsert is wrapWrite for inserts guarded by a parent check in the same
// workspace. Such an insert returns no row when the parent is missing there.
func wrapInsert(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", action, ErrNoParent)
	}
	return wrapWrite(err, action)
}

func classify(err error, action string, fkErr error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", action, ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgForeignKeyViolation:
			return fmt.Errorf("failed to %s: %w", action, fkErr)
		case pgUniqueViolation:
			return fmt.Errorf("failed to %s: %w", action, ErrConflict)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// expectOne turns a zero-row mutation into ErrNotFound.
func expectOne(res sql.Result, action string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to %s: %w", action, ErrNotFound)
	}
	return nil
}
