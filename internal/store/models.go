package store

import (
	"time"

	"github.com/farxc/sigecon/internal/currency"
	"github.com/jmoiron/sqlx/types"
)

// ManagingUnit represents the 'unidade_gestora' table.
type ManagingUnit struct {
	ID        int64  `db:"id" json:"id"`
	Workspace string `db:"workspace" json:"workspace"`
	Name      string `db:"nome" json:"nome"`
}

// CreditNote represents the 'nota_credito' table.
type CreditNote struct {
	ID             int64           `db:"id" json:"id"`
	Workspace      string          `db:"workspace" json:"workspace"`
	ManagingUnitID int64           `db:"ug_id" json:"ug_id"`
	Number         string          `db:"numero" json:"numero"`
	IssueDate      Date            `db:"data_emissao" json:"data_emissao"`
	Description    string          `db:"descricao" json:"descricao"`
	Deadline       Date            `db:"prazo" json:"prazo"`
	ND             string          `db:"nd" json:"nd"`
	Sphere         string          `db:"esfera" json:"esfera"`
	PTRES          string          `db:"ptres" json:"ptres"`
	Source         string          `db:"fonte" json:"fonte"`
	PI             string          `db:"pi" json:"pi"`
	Responsible    string          `db:"responsavel" json:"responsavel"`
	Value          currency.Amount `db:"valor" json:"valor"`
	CreatedAt      time.Time       `db:"datainclusao" json:"datainclusao"`
	Link           *string         `db:"link_dropnotes" json:"link_dropnotes"`
}

// SubNote represents the 'subnc' table. Number is the free text reference
// typed by the user, CreditNoteID is the parent.
type SubNote struct {
	ID           int64           `db:"id" json:"id"`
	Workspace    string          `db:"workspace" json:"workspace"`
	CreditNoteID int64           `db:"nc_id" json:"nc_id"`
	Number       string          `db:"nc" json:"nc"`
	Date         Date            `db:"data" json:"data"`
	Description  string          `db:"descricao" json:"descricao"`
	Value        currency.Amount `db:"valor" json:"valor"`
	CreatedAt    time.Time       `db:"datainclusao" json:"datainclusao"`
	Link         *string         `db:"link_dropnotes" json:"link_dropnotes"`
}

// Commitment represents the 'nota_empenhos' table.
type Commitment struct {
	ID           int64           `db:"id" json:"id"`
	Workspace    string          `db:"workspace" json:"workspace"`
	CreditNoteID int64           `db:"nc_id" json:"nc_id"`
	Number       string          `db:"numero" json:"numero"`
	CNPJ         string          `db:"cnpj" json:"cnpj"`
	Value        currency.Amount `db:"valor" json:"valor"`
	Requisition  string          `db:"req" json:"req"`
	Process      string          `db:"nup" json:"nup"`
	CreatedAt    time.Time       `db:"datainclusao" json:"datainclusao"`
	Link         *string         `db:"link_dropnotes" json:"link_dropnotes"`
}

// Entry represents the 'ne_lancamentos' table. Entries are an adjustment log
// kept next to a commitment; they never change the commitment's own value.
type Entry struct {
	ID           int64           `db:"id" json:"id"`
	Workspace    string          `db:"workspace" json:"workspace"`
	CommitmentID int64           `db:"ne_id" json:"ne_id"`
	Kind         string          `db:"tipo" json:"tipo"`
	Value        currency.Amount `db:"valor" json:"valor"`
	Description  string          `db:"descricao" json:"descricao"`
	Date         time.Time       `db:"data" json:"data"`
}

// Recovery represents the 'recolhimentos' table.
type Recovery struct {
	ID           int64           `db:"id" json:"id"`
	Workspace    string          `db:"workspace" json:"workspace"`
	CreditNoteID int64           `db:"nc_id" json:"nc_id"`
	Number       string          `db:"numero" json:"numero"`
	Description  string          `db:"descricao" json:"descricao"`
	Value        currency.Amount `db:"valor" json:"valor"`
	Date         Date            `db:"data" json:"data"`
}

// AggregatedCreditNote is a credit note row with its children folded into
// json_agg columns.
type AggregatedCreditNote struct {
	CreditNote
	SubNotes    types.JSONText `db:"subncs"`
	Commitments types.JSONText `db:"nes"`
	Recoveries  types.JSONText `db:"recolhimentos"`
}

// Attachment represents the 'anexos' table.
type Attachment struct {
	ID          int64     `db:"id" json:"id"`
	Workspace   string    `db:"workspace" json:"workspace"`
	NoteID      int64     `db:"id_nota" json:"id_nota"`
	NoteKind    string    `db:"tipo" json:"tipo"`
	FileName    string    `db:"nome_arquivo" json:"nome_arquivo"`
	ObjectKey   string    `db:"chave_objeto" json:"chave_objeto"`
	URL         string    `db:"url" json:"url"`
	ContentType string    `db:"content_type" json:"content_type"`
	Size        int64     `db:"tamanho" json:"tamanho"`
	UploadedBy  string    `db:"usuario_upload" json:"usuario_upload"`
	UploadedAt  time.Time `db:"data_upload" json:"data_upload"`
	Active      bool      `db:"ativo" json:"ativo"`
	NoteNumber  *string   `db:"numero_nota" json:"numero_nota,omitempty"`
}

// User represents the 'usuarios' table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Name         string    `db:"nome" json:"nome"`
	CreatedAt    time.Time `db:"criado_em" json:"criado_em"`
}

// ImportRun represents the 'historico_importacao' table.
type ImportRun struct {
	ID           int64      `db:"id" json:"id"`
	Workspace    string     `db:"workspace" json:"workspace"`
	SourceFile   string     `db:"arquivo_origem" json:"arquivo_origem"`
	Status       string     `db:"status" json:"status"`
	TotalRows    int        `db:"linhas_total" json:"linhas_total"`
	ImportedRows int        `db:"linhas_importadas" json:"linhas_importadas"`
	Message      string     `db:"mensagem" json:"mensagem"`
	StartedAt    time.Time  `db:"iniciado_em" json:"iniciado_em"`
	FinishedAt   *time.Time `db:"finalizado_em" json:"finalizado_em"`
}

// ManagingUnitTotal is one row of the per unit credit report.
type ManagingUnitTotal struct {
	Name  string          `db:"nome" json:"nome"`
	Total currency.Amount `db:"total" json:"total"`
}

// AttachmentFilter narrows the paginated attachment listing.
type AttachmentFilter struct {
	NoteKind string
	Limit    int
	Offset   int
}
