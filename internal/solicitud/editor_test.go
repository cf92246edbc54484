package solicitud

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeUpdater struct {
	err     error
	calls   int
	lastRow int
	last    Patch
}

func (f *fakeUpdater) ApplyPatch(ctx context.Context, sheetRowIndex int, p Patch) error {
	f.calls++
	f.lastRow = sheetRowIndex
	f.last = p
	return f.err
}

type fakeDeleter struct {
	err     error
	calls   int
	lastRow int
}

func (f *fakeDeleter) Delete(ctx context.Context, sheetRowIndex int) error {
	f.calls++
	f.lastRow = sheetRowIndex
	return f.err
}

func tableRecords() []Record {
	return []Record{
		{ID: "sheet-0", SheetRowIndex: 2, NombreApellido: "Ana", Estado: "NUEVO"},
		{ID: "sheet-1", SheetRowIndex: 3, NombreApellido: "Beto", Estado: "COTIZADO", MontoCotizado: "1200"},
		{ID: "sheet-2", SheetRowIndex: 4, NombreApellido: "Carla", Estado: "EN CURSO"},
	}
}

func TestStartEditExclusive(t *testing.T) {
	table := NewTable(tableRecords())

	if err := table.StartEdit("sheet-0"); err != nil {
		t.Fatalf("StartEdit error: %v", err)
	}
	if err := table.StartEdit("sheet-1"); !errors.Is(err, ErrEditInProgress) {
		t.Fatalf("second StartEdit: expected ErrEditInProgress, got %v", err)
	}
	if id, ok := table.EditingID(); !ok || id != "sheet-0" {
		t.Fatalf("editing id = %q, ok = %v", id, ok)
	}
}

func TestStartEditUnknownID(t *testing.T) {
	table := NewTable(tableRecords())
	if err := table.StartEdit("sheet-99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelRestoresSnapshot(t *testing.T) {
	original := tableRecords()
	table := NewTable(original)

	if err := table.StartEdit("sheet-1"); err != nil {
		t.Fatalf("StartEdit error: %v", err)
	}
	if err := table.SetStatus("finalizado"); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if err := table.SetMonto("9999.50"); err != nil {
		t.Fatalf("SetMonto error: %v", err)
	}
	if err := table.SetStatus("EN CURSO"); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if err := table.Cancel(); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}

	if !reflect.DeepEqual(table.Records(), original) {
		t.Fatalf("cancel must restore the pre-edit list:\ngot  %+v\nwant %+v", table.Records(), original)
	}
	if _, ok := table.EditingID(); ok {
		t.Fatalf("session must be cleared after cancel")
	}
}

func TestSaveSendsFinalDraftOnce(t *testing.T) {
	table := NewTable(tableRecords())
	updater := &fakeUpdater{}

	if err := table.StartEdit("sheet-1"); err != nil {
		t.Fatalf("StartEdit error: %v", err)
	}
	table.SetStatus("ACEPTADO")
	table.SetMonto("100")
	table.SetStatus("finalizado")
	table.SetMonto("2500.00")

	if err := table.Save(context.Background(), updater); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if updater.calls != 1 {
		t.Fatalf("expected exactly one update, got %d", updater.calls)
	}
	if updater.lastRow != 3 {
		t.Fatalf("update row = %d, want 3", updater.lastRow)
	}
	if updater.last.Estado != StatusFinalizado || updater.last.Monto != "2500.00" {
		t.Fatalf("update must carry the final draft, got %+v", updater.last)
	}

	saved := table.Records()[1]
	if saved.Estado != StatusFinalizado || saved.MontoCotizado != "2500.00" {
		t.Fatalf("working copy not committed: %+v", saved)
	}
	if _, ok := table.EditingID(); ok {
		t.Fatalf("session must be cleared after save")
	}
}

func TestSaveFailureKeepsSession(t *testing.T) {
	table := NewTable(tableRecords())
	updater := &fakeUpdater{err: ErrWriteRejected}

	table.StartEdit("sheet-0")
	table.SetStatus("COTIZADO")

	if err := table.Save(context.Background(), updater); !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("expected ErrWriteRejected, got %v", err)
	}
	if _, ok := table.EditingID(); !ok {
		t.Fatalf("failed save must leave the session intact")
	}
	if table.Records()[0].Estado != "NUEVO" {
		t.Fatalf("failed save must not commit the draft")
	}
}

func TestSetStatusValidation(t *testing.T) {
	table := NewTable(tableRecords())
	table.StartEdit("sheet-0")

	if err := table.SetStatus("ESTADO INVENTADO"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	draft, _ := table.Draft()
	if draft.Estado != "NUEVO" {
		t.Fatalf("rejected status must not touch the draft: %+v", draft)
	}
}

func TestConfirmDeleteRemovesRow(t *testing.T) {
	table := NewTable(tableRecords())
	deleter := &fakeDeleter{}

	if err := table.MarkForDelete("sheet-1"); err != nil {
		t.Fatalf("MarkForDelete error: %v", err)
	}
	if err := table.ConfirmDelete(context.Background(), deleter); err != nil {
		t.Fatalf("ConfirmDelete error: %v", err)
	}
	if deleter.calls != 1 || deleter.lastRow != 3 {
		t.Fatalf("expected one delete for row 3, got %d calls, row %d", deleter.calls, deleter.lastRow)
	}
	if len(table.Records()) != 2 {
		t.Fatalf("expected 2 records after delete, got %d", len(table.Records()))
	}
	for _, rec := range table.Records() {
		if rec.ID == "sheet-1" {
			t.Fatalf("deleted row still present")
		}
	}
}

func TestConfirmDeleteFailureLeavesListUnchanged(t *testing.T) {
	original := tableRecords()
	table := NewTable(original)
	deleter := &fakeDeleter{err: ErrWriteRejected}

	table.MarkForDelete("sheet-2")
	if err := table.ConfirmDelete(context.Background(), deleter); !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("expected ErrWriteRejected, got %v", err)
	}
	if !reflect.DeepEqual(table.Records(), original) {
		t.Fatalf("failed delete must leave the list unchanged")
	}

	// The mark survives so the confirmation can be retried.
	deleter.err = nil
	if err := table.ConfirmDelete(context.Background(), deleter); err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if len(table.Records()) != 2 {
		t.Fatalf("retry must delete the marked row")
	}
}

func TestConfirmDeleteWithoutMark(t *testing.T) {
	table := NewTable(tableRecords())
	if err := table.ConfirmDelete(context.Background(), &fakeDeleter{}); !errors.Is(err, ErrNoDeleteTarget) {
		t.Fatalf("expected ErrNoDeleteTarget, got %v", err)
	}

	table.MarkForDelete("sheet-0")
	table.CancelDelete()
	if err := table.ConfirmDelete(context.Background(), &fakeDeleter{}); !errors.Is(err, ErrNoDeleteTarget) {
		t.Fatalf("expected ErrNoDeleteTarget after cancel, got %v", err)
	}
}
