package store

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

const (
	EntryReinforce = "reinforce"
	EntryAnnul     = "annul"
)

const (
	NoteKindCredit     = "NC"
	NoteKindCommitment = "NE"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidEntryKind reports whether kind is one of the stored entry kinds.
func ValidEntryKind(kind string) bool {
	return kind == EntryReinforce || kind == EntryAnnul
}

func ValidNoteKind(kind string) bool {
	return kind == NoteKindCredit || kind == NoteKindCommitment
}

type Storage struct {
	ManagingUnits interface {
		Create(ctx context.Context, unit *ManagingUnit) error
		List(ctx context.Context, workspace string) ([]ManagingUnit, error)
		Get(ctx context.Context, workspace string, id int64) (*ManagingUnit, error)
		Update(ctx context.Context, unit *ManagingUnit) error
		Delete(ctx context.Context, workspace string, id int64) error
		FindOrCreate(ctx context.Context, workspace, name string) (*ManagingUnit, error)
	}

	CreditNotes interface {
		Create(ctx context.Context, note *CreditNote) error
		List(ctx context.Context, workspace string) ([]CreditNote, error)
		Get(ctx context.Context, workspace string, id int64) (*CreditNote, error)
		Update(ctx context.Context, note *CreditNote) error
		Delete(ctx context.Context, workspace string, id int64) error
		SetLink(ctx context.Context, workspace string, id int64, link *string) error
		NumberExists(ctx context.Context, workspace, number string) (bool, error)
		ListAggregated(ctx context.Context, workspace string) ([]AggregatedCreditNote, error)
		GetAggregated(ctx context.Context, workspace string, id int64) (*AggregatedCreditNote, error)
	}

	SubNotes interface {
		Create(ctx context.Context, sub *SubNote) error
		List(ctx context.Context, workspace string) ([]SubNote, error)
		Get(ctx context.Context, workspace string, id int64) (*SubNote, error)
		ListByCreditNote(ctx context.Context, workspace string, creditNoteID int64) ([]SubNote, error)
		Update(ctx context.Context, sub *SubNote) error
		Delete(ctx context.Context, workspace string, creditNoteID, id int64) error
		SetLink(ctx context.Context, workspace string, creditNoteID, id int64, link *string) error
	}

	Commitments interface {
		Create(ctx context.Context, c *Commitment) error
		List(ctx context.Context, workspace string) ([]Commitment, error)
		Get(ctx context.Context, workspace string, id int64) (*Commitment, error)
		ListByCreditNote(ctx context.Context, workspace string, creditNoteID int64) ([]Commitment, error)
		Update(ctx context.Context, c *Commitment) error
		Delete(ctx context.Context, workspace string, id int64) error
		SetLink(ctx context.Context, workspace string, id int64, link *string) error
	}

	Entries interface {
		Create(ctx context.Context, e *Entry) error
		List(ctx context.Context, workspace string) ([]Entry, error)
		Get(ctx context.Context, workspace string, id int64) (*Entry, error)
		ListByCommitment(ctx context.Context, workspace string, commitmentID int64) ([]Entry, error)
		Update(ctx context.Context, e *Entry) error
		Delete(ctx context.Context, workspace string, id int64) error
	}

	Recoveries interface {
		Create(ctx context.Context, r *Recovery) error
		List(ctx context.Context, workspace string) ([]Recovery, error)
		Get(ctx context.Context, workspace string, id int64) (*Recovery, error)
		ListByCreditNote(ctx context.Context, workspace string, creditNoteID int64) ([]Recovery, error)
		Update(ctx context.Context, r *Recovery) error
		Delete(ctx context.Context, workspace string, id int64) error
	}

	Attachments interface {
		Create(ctx context.Context, a *Attachment) error
		Get(ctx context.Context, workspace string, id int64) (*Attachment, error)
		ListByNote(ctx context.Context, workspace, kind string, noteID int64) ([]Attachment, error)
		List(ctx context.Context, workspace string, filter AttachmentFilter) ([]Attachment, error)
		Count(ctx context.Context, workspace, kind string) (int, error)
		SoftDelete(ctx context.Context, workspace string, id int64) error
		NoteExists(ctx context.Context, workspace, kind string, noteID int64) (bool, error)
	}

	Reports interface {
		TotalsByManagingUnit(ctx context.Context, workspace string) ([]ManagingUnitTotal, error)
		ManagingUnitTotal(ctx context.Context, workspace string, unitID int64) (ManagingUnitTotal, error)
	}

	Users interface {
		GetByUsername(ctx context.Context, username string) (*User, error)
		Create(ctx context.Context, u *User) error
	}

	ImportHistory interface {
		Insert(ctx context.Context, run *ImportRun) error
		Finish(ctx context.Context, run *ImportRun) error
		Latest(ctx context.Context, workspace string, limit int) ([]ImportRun, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		ManagingUnits: &ManagingUnitStore{db: db},
		CreditNotes:   &CreditNoteStore{db: db},
		SubNotes:      &SubNoteStore{db: db},
		Commitments:   &CommitmentStore{db: db},
		Entries:       &EntryStore{db: db},
		Recoveries:    &RecoveryStore{db: db},
		Attachments:   &AttachmentStore{db: db},
		Reports:       &ReportStore{db: db},
		Users:         &UserStore{db: db},
		ImportHistory: &ImportHistoryStore{db: db},
	}
}

// namedReturning runs a named statement ending in RETURNING and scans the
// first row into dest. No row yields sql.ErrNoRows.
func namedReturning(ctx context.Context, db *sqlx.DB, query string, arg, dest any) error {
	rows, err := db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.StructScan(dest)
}
