package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/farxc/sigecon/internal/auth"
	"github.com/farxc/sigecon/internal/events"
	"github.com/farxc/sigecon/internal/ledger"
	"github.com/farxc/sigecon/internal/logger"
	"github.com/farxc/sigecon/internal/objectstore"
	"github.com/farxc/sigecon/internal/siafi"
	"github.com/farxc/sigecon/internal/store"
	"github.com/stretchr/testify/require"
)

const testWorkspace = "sefaz"

// The fakes embed nil store pointers so they satisfy the storage interfaces;
// only the methods a test relies on are overridden.

type fakeManagingUnits struct {
	*store.ManagingUnitStore
	mu     sync.Mutex
	units  map[int64]store.ManagingUnit
	inUse  map[int64]bool
	nextID int64
}

func newFakeManagingUnits() *fakeManagingUnits {
	return &fakeManagingUnits{units: map[int64]store.ManagingUnit{}, inUse: map[int64]bool{}}
}

func (f *fakeManagingUnits) Create(ctx context.Context, unit *store.ManagingUnit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.units {
		if u.Workspace == unit.Workspace && u.Name == unit.Name {
			return store.ErrConflict
		}
	}
	f.nextID++
	unit.ID = f.nextID
	f.units[unit.ID] = *unit
	return nil
}

func (f *fakeManagingUnits) List(ctx context.Context, workspace string) ([]store.ManagingUnit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []store.ManagingUnit{}
	for _, u := range f.units {
		if u.Workspace == workspace {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeManagingUnits) Get(ctx context.Context, workspace string, id int64) (*store.ManagingUnit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.units[id]
	if !ok || u.Workspace != workspace {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeManagingUnits) Update(ctx context.Context, unit *store.ManagingUnit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.units[unit.ID]; !ok || u.Workspace != unit.Workspace {
		return store.ErrNotFound
	}
	f.units[unit.ID] = *unit
	return nil
}

func (f *fakeManagingUnits) FindOrCreate(ctx context.Context, workspace, name string) (*store.ManagingUnit, error) {
	f.mu.Lock()
	for _, u := range f.units {
		if u.Workspace == workspace && u.Name == name {
			f.mu.Unlock()
			return &u, nil
		}
	}
	f.mu.Unlock()

	unit := &store.ManagingUnit{Workspace: workspace, Name: name}
	if err := f.Create(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (f *fakeManagingUnits) Delete(ctx context.Context, workspace string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inUse[id] {
		return store.ErrInUse
	}
	if u, ok := f.units[id]; !ok || u.Workspace != workspace {
		return store.ErrNotFound
	}
	delete(f.units, id)
	return nil
}

type fakeCreditNotes struct {
	*store.CreditNoteStore
	mu         sync.Mutex
	notes      map[int64]store.CreditNote
	units      *fakeManagingUnits
	aggregated []store.AggregatedCreditNote
	links      map[int64]*string
	nextID     int64
}

func (f *fakeCreditNotes) Create(ctx context.Context, note *store.CreditNote) error {
	if _, err := f.units.Get(ctx, note.Workspace, note.ManagingUnitID); err != nil {
		return store.ErrNoParent
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	note.ID = f.nextID
	note.CreatedAt = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	f.notes[note.ID] = *note
	return nil
}

func (f *fakeCreditNotes) NumberExists(ctx context.Context, workspace, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notes {
		if n.Workspace == workspace && n.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCreditNotes) Get(ctx context.Context, workspace string, id int64) (*store.CreditNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok || n.Workspace != workspace {
		return nil, store.ErrNotFound
	}
	return &n, nil
}

func (f *fakeCreditNotes) SetLink(ctx context.Context, workspace string, id int64, link *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[id]; !ok {
		return store.ErrNotFound
	}
	f.links[id] = link
	return nil
}

func (f *fakeCreditNotes) ListAggregated(ctx context.Context, workspace string) ([]store.AggregatedCreditNote, error) {
	return f.aggregated, nil
}

func (f *fakeCreditNotes) GetAggregated(ctx context.Context, workspace string, id int64) (*store.AggregatedCreditNote, error) {
	for _, a := range f.aggregated {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeSubNotes struct {
	*store.SubNoteStore
	links map[[2]int64]*string
}

func (f *fakeSubNotes) SetLink(ctx context.Context, workspace string, creditNoteID, id int64, link *string) error {
	if id == 404 {
		return store.ErrNotFound
	}
	f.links[[2]int64{creditNoteID, id}] = link
	return nil
}

type fakeEntries struct {
	*store.EntryStore
	mu           sync.Mutex
	created      []store.Entry
	byCommitment map[int64][]store.Entry
}

func (f *fakeEntries) Create(ctx context.Context, e *store.Entry) error {
	if !store.ValidEntryKind(e.Kind) {
		return store.ErrInvalidKind
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = int64(len(f.created) + 1)
	e.Date = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	f.created = append(f.created, *e)
	f.byCommitment[e.CommitmentID] = append(f.byCommitment[e.CommitmentID], *e)
	return nil
}

func (f *fakeEntries) Get(ctx context.Context, workspace string, id int64) (*store.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, list := range f.byCommitment {
		for _, e := range list {
			if e.ID == id {
				return &e, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeEntries) Update(ctx context.Context, e *store.Entry) error {
	if !store.ValidEntryKind(e.Kind) {
		return store.ErrInvalidKind
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.byCommitment[e.CommitmentID]
	for i := range list {
		if list[i].ID == e.ID {
			e.Date = list[i].Date
			list[i] = *e
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeEntries) Delete(ctx context.Context, workspace string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for commitmentID, list := range f.byCommitment {
		for i, e := range list {
			if e.ID == id {
				f.byCommitment[commitmentID] = append(list[:i:i], list[i+1:]...)
				return nil
			}
		}
	}
	return store.ErrNotFound
}

func (f *fakeEntries) ListByCommitment(ctx context.Context, workspace string, commitmentID int64) ([]store.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byCommitment[commitmentID], nil
}

type fakeAttachments struct {
	*store.AttachmentStore
	mu      sync.Mutex
	items   []store.Attachment
	notes   map[string]bool
	deleted []int64
}

func noteKey(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func (f *fakeAttachments) NoteExists(ctx context.Context, workspace, kind string, noteID int64) (bool, error) {
	return f.notes[noteKey(kind, noteID)], nil
}

func (f *fakeAttachments) Create(ctx context.Context, a *store.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.NoteID == a.NoteID && it.NoteKind == a.NoteKind && it.FileName == a.FileName && it.Active {
			return store.ErrConflict
		}
	}
	a.ID = int64(len(f.items) + 1)
	a.Active = true
	f.items = append(f.items, *a)
	return nil
}

func (f *fakeAttachments) List(ctx context.Context, workspace string, filter store.AttachmentFilter) ([]store.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []store.Attachment{}
	for _, it := range f.items {
		if filter.NoteKind == "" || it.NoteKind == filter.NoteKind {
			out = append(out, it)
		}
	}
	if filter.Offset >= len(out) {
		return []store.Attachment{}, nil
	}
	out = out[filter.Offset:]
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeAttachments) Count(ctx context.Context, workspace, kind string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, it := range f.items {
		if kind == "" || it.NoteKind == kind {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttachments) SoftDelete(ctx context.Context, workspace string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].Active {
			f.items[i].Active = false
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeUsers struct {
	*store.UserStore
	users map[string]store.User
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*store.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

type fakeImportHistory struct {
	*store.ImportHistoryStore
	runs []store.ImportRun
}

func (f *fakeImportHistory) Insert(ctx context.Context, run *store.ImportRun) error {
	run.ID = int64(len(f.runs) + 1)
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeImportHistory) Finish(ctx context.Context, run *store.ImportRun) error {
	f.runs[run.ID-1] = *run
	return nil
}

func (f *fakeImportHistory) Latest(ctx context.Context, workspace string, limit int) ([]store.ImportRun, error) {
	return f.runs, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	app         *application
	handler     http.Handler
	units       *fakeManagingUnits
	notes       *fakeCreditNotes
	subNotes    *fakeSubNotes
	entries     *fakeEntries
	attachments *fakeAttachments
	users       *fakeUsers
	imports     *fakeImportHistory
	objects     *objectstore.MemoryStore
	published   *recordingPublisher
	tokens      *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	units := newFakeManagingUnits()
	notes := &fakeCreditNotes{notes: map[int64]store.CreditNote{}, units: units, links: map[int64]*string{}}
	subNotes := &fakeSubNotes{links: map[[2]int64]*string{}}
	entries := &fakeEntries{byCommitment: map[int64][]store.Entry{}}
	attachments := &fakeAttachments{notes: map[string]bool{}}
	users := &fakeUsers{users: map[string]store.User{}}
	imports := &fakeImportHistory{}
	objects := objectstore.NewMemoryStore("http://files.test")
	published := &recordingPublisher{}

	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	log := logger.NewNop()
	app := &application{
		config: config{env: "test", maxUploadBytes: 1 << 20},
		store: store.Storage{
			ManagingUnits: units,
			CreditNotes:   notes,
			SubNotes:      subNotes,
			Entries:       entries,
			Attachments:   attachments,
			Users:         users,
			ImportHistory: imports,
		},
		ledger:   ledger.NewService(notes, entries, log, 4),
		identity: tokens,
		login:    auth.NewAuthenticator(users, tokens),
		objects:  objects,
		events:   published,
		importer: siafi.NewImporter(units, notes, imports, log),
		logger:   log,
	}

	return &testEnv{
		app:         app,
		handler:     app.mount(),
		units:       units,
		notes:       notes,
		subNotes:    subNotes,
		entries:     entries,
		attachments: attachments,
		users:       users,
		imports:     imports,
		objects:     objects,
		published:   published,
		tokens:      tokens,
	}
}

func (e *testEnv) token(t *testing.T, role string) string {
	t.Helper()
	tok, _, err := e.tokens.Issue(auth.Identity{Username: "ana", Role: role, Name: "Ana"})
	require.NoError(t, err)
	return tok
}

// do sends a request as an admin unless the caller set Authorization.
func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if req.Header.Get("Authorization") == "" && req.Header.Get(sessionHeader) == "" {
		req.Header.Set("Authorization", "Bearer "+e.token(t, store.RoleAdmin))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func wsPath(path string) string {
	return "/v1/workspaces/" + testWorkspace + path
}

func newRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

var errBroker = errors.New("broker unavailable")
