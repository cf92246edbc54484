package solicitud

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEditInProgress = errors.New("another row is already being edited")
	ErrNoActiveEdit   = errors.New("no row is being edited")
	ErrNoDeleteTarget = errors.New("no row is selected for deletion")
)

// Updater and Deleter are the slices of Repository the controller commits
// through.
type Updater interface {
	ApplyPatch(ctx context.Context, sheetRowIndex int, p Patch) error
}

type Deleter interface {
	Delete(ctx context.Context, sheetRowIndex int) error
}

// EditSession is the draft/snapshot pair for one row under edit. Mutations
// touch only the draft; Snapshot stays the exact pre-edit record for
// rollback.
type EditSession struct {
	Snapshot Record `json:"snapshot"`
	Draft    Record `json:"draft"`
}

func NewEditSession(rec Record) EditSession {
	return EditSession{Snapshot: rec, Draft: rec}
}

func (e *EditSession) SetStatus(status string) error {
	canon, ok := CanonicalStatus(status)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	e.Draft.Estado = canon
	return nil
}

func (e *EditSession) SetMonto(monto string) {
	e.Draft.MontoCotizado = strings.TrimSpace(monto)
}

func (e *EditSession) SetPresupuesto(presupuesto string) {
	e.Draft.Presupuesto = presupuesto
}

// CommitPatch is the single outbound write a save produces.
func (e *EditSession) CommitPatch() Patch {
	presupuesto := e.Draft.Presupuesto
	return Patch{
		Estado:      e.Draft.Estado,
		Monto:       e.Draft.MontoCotizado,
		Presupuesto: &presupuesto,
	}
}

// Table holds the fetched working copy of the solicitudes list plus at most
// one edit session and at most one delete candidate. It is not safe for
// concurrent use; the admin panel drives it from a single event loop.
type Table struct {
	records      []Record
	editing      *EditSession
	deleteTarget string
}

func NewTable(records []Record) *Table {
	working := make([]Record, len(records))
	copy(working, records)
	return &Table{records: working}
}

func (t *Table) Records() []Record {
	return t.records
}

func (t *Table) EditingID() (string, bool) {
	if t.editing == nil {
		return "", false
	}
	return t.editing.Snapshot.ID, true
}

// StartEdit opens a session on the identified row. Starting a second edit
// while one is active is a precondition failure, not an implicit commit.
func (t *Table) StartEdit(id string) error {
	if t.editing != nil {
		return ErrEditInProgress
	}
	rec, _, err := t.find(id)
	if err != nil {
		return err
	}
	session := NewEditSession(rec)
	t.editing = &session
	return nil
}

func (t *Table) SetStatus(status string) error {
	if t.editing == nil {
		return ErrNoActiveEdit
	}
	return t.editing.SetStatus(status)
}

func (t *Table) SetMonto(monto string) error {
	if t.editing == nil {
		return ErrNoActiveEdit
	}
	t.editing.SetMonto(monto)
	return nil
}

func (t *Table) SetPresupuesto(presupuesto string) error {
	if t.editing == nil {
		return ErrNoActiveEdit
	}
	t.editing.SetPresupuesto(presupuesto)
	return nil
}

func (t *Table) Draft() (Record, bool) {
	if t.editing == nil {
		return Record{}, false
	}
	return t.editing.Draft, true
}

// Cancel discards the draft and restores the row to its pre-edit snapshot.
// No network call is involved.
func (t *Table) Cancel() error {
	if t.editing == nil {
		return ErrNoActiveEdit
	}
	_, idx, err := t.find(t.editing.Snapshot.ID)
	if err == nil {
		t.records[idx] = t.editing.Snapshot
	}
	t.editing = nil
	return nil
}

// Save sends exactly one update carrying the final draft values. On success
// the draft is committed into the working copy and the session cleared; on
// failure the session is left intact and the caller is expected to discard
// the whole table and refetch.
func (t *Table) Save(ctx context.Context, u Updater) error {
	if t.editing == nil {
		return ErrNoActiveEdit
	}
	draft := t.editing.Draft
	if err := u.ApplyPatch(ctx, draft.SheetRowIndex, t.editing.CommitPatch()); err != nil {
		return err
	}
	if _, idx, err := t.find(draft.ID); err == nil {
		t.records[idx] = draft
	}
	t.editing = nil
	return nil
}

// MarkForDelete selects a row for the two-step delete confirmation.
func (t *Table) MarkForDelete(id string) error {
	if _, _, err := t.find(id); err != nil {
		return err
	}
	t.deleteTarget = id
	return nil
}

func (t *Table) CancelDelete() {
	t.deleteTarget = ""
}

// ConfirmDelete issues exactly one delete call for the marked row. On
// success the row leaves the working copy; on failure the list is unchanged
// and the mark stays so the dialog can be retried or dismissed.
func (t *Table) ConfirmDelete(ctx context.Context, d Deleter) error {
	if t.deleteTarget == "" {
		return ErrNoDeleteTarget
	}
	rec, idx, err := t.find(t.deleteTarget)
	if err != nil {
		return err
	}
	if err := d.Delete(ctx, rec.SheetRowIndex); err != nil {
		return err
	}
	t.records = append(t.records[:idx], t.records[idx+1:]...)
	t.deleteTarget = ""
	return nil
}

func (t *Table) find(id string) (Record, int, error) {
	for i, rec := range t.records {
		if rec.ID == id {
			return rec, i, nil
		}
	}
	return Record{}, 0, fmt.Errorf("%w: id %s", ErrNotFound, id)
}
