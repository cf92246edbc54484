package solicitud

import (
	"context"
	"errors"
	"strings"
	"testing"

	sheetsapi "google.golang.org/api/sheets/v4"
)

type fakeSheetAPI struct {
	rows [][]interface{}

	getErr    error
	batchErr  error
	appendErr error
	deleteErr error

	batches  [][]*sheetsapi.ValueRange
	appended [][]interface{}
	deleted  []int
}

func (f *fakeSheetAPI) Get(ctx context.Context, readRange string) ([][]interface{}, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.rows, nil
}

func (f *fakeSheetAPI) BatchUpdate(ctx context.Context, data []*sheetsapi.ValueRange) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches = append(f.batches, data)
	return nil
}

func (f *fakeSheetAPI) Append(ctx context.Context, appendRange string, row []interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, row)
	return nil
}

func (f *fakeSheetAPI) DeleteRow(ctx context.Context, sheetName string, rowNumber int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, rowNumber)
	return nil
}

var testHeader = []interface{}{
	"Marca temporal", "Nombre Apellido", "Teléfono", "Dirección",
	"Categoría trabajo", "Descripción problema", "Link media", "Urgencia",
	"Ventanas horarias", "Estado", "Presupuesto", "Monto cotizado",
	"Link pago", "Notas", "Pago recibido",
}

func testRow(nombre, estado string) []interface{} {
	return []interface{}{
		"01/08/2026 10:30:00", nombre, "+54 11 5555-0000", "Calle Falsa 123",
		"Plomeria", "Perdida de agua", "", "Alta",
		"Lunes 9-12", estado, "", "", "", "", "",
	}
}

func TestListAssignsPositionalIdentity(t *testing.T) {
	api := &fakeSheetAPI{rows: [][]interface{}{
		testHeader,
		testRow("Ana", "NUEVO"),
		testRow("Beto", "FINALIZADO"),
	}}
	store := NewSheetStore(api, "Solicitudes")

	records, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "sheet-0" || records[1].ID != "sheet-1" {
		t.Fatalf("unexpected ids: %s, %s", records[0].ID, records[1].ID)
	}
	if records[0].SheetRowIndex != 2 || records[1].SheetRowIndex != 3 {
		t.Fatalf("unexpected row indexes: %d, %d", records[0].SheetRowIndex, records[1].SheetRowIndex)
	}
	if records[1].NombreApellido != "Beto" || records[1].Estado != "FINALIZADO" {
		t.Fatalf("unexpected record mapping: %+v", records[1])
	}
}

func TestListEmptySheet(t *testing.T) {
	for _, rows := range [][][]interface{}{nil, {testHeader}} {
		api := &fakeSheetAPI{rows: rows}
		store := NewSheetStore(api, "Solicitudes")
		records, err := store.List(context.Background())
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		if records == nil || len(records) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", records)
		}
	}
}

// Estado and Nombre swapped relative to the declared schema order: Estado
// sits in column B, Nombre in column J.
var reorderedHeader = []interface{}{
	"Marca temporal", "Estado", "Teléfono", "Dirección",
	"Categoría trabajo", "Descripción problema", "Link media", "Urgencia",
	"Ventanas horarias", "Nombre Apellido", "Presupuesto", "Monto cotizado",
	"Link pago", "Notas", "Pago recibido",
}

var reorderedRow = []interface{}{
	"01/08/2026 10:30:00", "EN CURSO", "+54 11 5555-0000", "Calle Falsa 123",
	"Plomeria", "Perdida de agua", "", "Alta",
	"Lunes 9-12", "Carla", "", "", "", "", "",
}

func TestListHeaderReorderTolerated(t *testing.T) {
	api := &fakeSheetAPI{rows: [][]interface{}{reorderedHeader, reorderedRow}}
	store := NewSheetStore(api, "Solicitudes")

	records, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if records[0].Estado != "EN CURSO" || records[0].NombreApellido != "Carla" {
		t.Fatalf("header positions not re-resolved: %+v", records[0])
	}
}

func TestApplyPatchFollowsReorderedHeader(t *testing.T) {
	api := &fakeSheetAPI{rows: [][]interface{}{reorderedHeader, reorderedRow}}
	store := NewSheetStore(api, "Solicitudes")

	records, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if records[0].Estado != "EN CURSO" {
		t.Fatalf("read did not follow the header: %+v", records[0])
	}

	if err := store.ApplyPatch(context.Background(), 2, Patch{Estado: "FINALIZADO", Monto: "100"}); err != nil {
		t.Fatalf("ApplyPatch error: %v", err)
	}
	got := map[string]string{}
	for _, vr := range api.batches[0] {
		got[vr.Range] = vr.Values[0][0].(string)
	}
	// Estado must land in the column the header puts it in, not in the
	// declared position now occupied by the customer's name.
	if got["Solicitudes!B2"] != "FINALIZADO" {
		t.Fatalf("estado not written to header column B: %v", got)
	}
	if _, hit := got["Solicitudes!J2"]; hit {
		t.Fatalf("write targeted the declared position despite the header: %v", got)
	}
	if got["Solicitudes!L2"] != "100" {
		t.Fatalf("monto not written to header column L: %v", got)
	}
}

func TestAppendFollowsReorderedHeader(t *testing.T) {
	api := &fakeSheetAPI{rows: [][]interface{}{reorderedHeader}}
	store := NewSheetStore(api, "Solicitudes")

	if err := store.Append(context.Background(), Record{NombreApellido: "Diego"}); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	row := api.appended[0]
	if row[1] != StatusNuevo {
		t.Fatalf("estado must follow the header position, got %v at index 1", row[1])
	}
	if row[9] != "Diego" {
		t.Fatalf("nombre must follow the header position, got %v at index 9", row[9])
	}
}

func TestHeaderReadFailureRejectsWrites(t *testing.T) {
	api := &fakeSheetAPI{getErr: errors.New("quota exceeded")}
	store := NewSheetStore(api, "Solicitudes")
	ctx := context.Background()

	if err := store.ApplyPatch(ctx, 2, Patch{Estado: "NUEVO"}); !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("ApplyPatch: expected ErrWriteRejected, got %v", err)
	}
	if err := store.Append(ctx, Record{}); !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("Append: expected ErrWriteRejected, got %v", err)
	}
	if len(api.batches) != 0 || len(api.appended) != 0 {
		t.Fatalf("blind writes must not reach the sheet")
	}
}

func TestListShortRowsPadded(t *testing.T) {
	api := &fakeSheetAPI{rows: [][]interface{}{
		testHeader,
		{"01/08/2026 10:30:00", "Ana"},
	}}
	store := NewSheetStore(api, "Solicitudes")

	records, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if records[0].NombreApellido != "Ana" || records[0].Estado != "" {
		t.Fatalf("short row not padded: %+v", records[0])
	}
}

func TestListStoreUnavailable(t *testing.T) {
	api := &fakeSheetAPI{getErr: errors.New("quota exceeded")}
	store := NewSheetStore(api, "Solicitudes")

	_, err := store.List(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestApplyPatchRanges(t *testing.T) {
	api := &fakeSheetAPI{}
	store := NewSheetStore(api, "Solicitudes")

	detail := `{"items":[],"manoDeObra":0}`
	patch := Patch{Estado: "COTIZADO", Monto: "1500.00", Presupuesto: &detail}
	if err := store.ApplyPatch(context.Background(), 5, patch); err != nil {
		t.Fatalf("ApplyPatch error: %v", err)
	}
	if len(api.batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(api.batches))
	}
	batch := api.batches[0]
	if len(batch) != 3 {
		t.Fatalf("expected 3 value ranges, got %d", len(batch))
	}
	wantRanges := map[string]string{
		"Solicitudes!J5": "COTIZADO",
		"Solicitudes!L5": "1500.00",
		"Solicitudes!K5": detail,
	}
	for _, vr := range batch {
		want, ok := wantRanges[vr.Range]
		if !ok {
			t.Fatalf("unexpected range %q", vr.Range)
		}
		if got := vr.Values[0][0].(string); got != want {
			t.Fatalf("range %q = %q, want %q", vr.Range, got, want)
		}
	}
}

func TestApplyPatchWithoutPresupuesto(t *testing.T) {
	api := &fakeSheetAPI{}
	store := NewSheetStore(api, "Solicitudes")

	if err := store.ApplyPatch(context.Background(), 3, Patch{Estado: "EN CURSO", Monto: ""}); err != nil {
		t.Fatalf("ApplyPatch error: %v", err)
	}
	if len(api.batches[0]) != 2 {
		t.Fatalf("expected 2 value ranges, got %d", len(api.batches[0]))
	}
}

func TestApplyPatchRejectsHeaderRow(t *testing.T) {
	api := &fakeSheetAPI{}
	store := NewSheetStore(api, "Solicitudes")

	for _, row := range []int{0, 1, -3} {
		err := store.ApplyPatch(context.Background(), row, Patch{Estado: "NUEVO"})
		if !errors.Is(err, ErrWriteRejected) {
			t.Fatalf("row %d: expected ErrWriteRejected, got %v", row, err)
		}
	}
	if len(api.batches) != 0 {
		t.Fatalf("rejected patch must not reach the sheet")
	}
}

func TestAppendForcesNewStatusAndBlankQuote(t *testing.T) {
	api := &fakeSheetAPI{}
	store := NewSheetStore(api, "Solicitudes")

	rec := Record{
		NombreApellido: "Ana",
		Estado:         "FINALIZADO",
		Presupuesto:    `{"items":[]}`,
		MontoCotizado:  "9999",
		PagoRecibido:   "SI",
	}
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if len(api.appended) != 1 {
		t.Fatalf("expected one appended row, got %d", len(api.appended))
	}
	row := api.appended[0]
	if len(row) != numColumns {
		t.Fatalf("expected %d cells, got %d", numColumns, len(row))
	}
	if row[colEstado] != StatusNuevo {
		t.Fatalf("estado = %v, want %s", row[colEstado], StatusNuevo)
	}
	for _, c := range []int{colPresupuesto, colMontoCotizado, colLinkPago, colPagoRecibido} {
		if row[c] != "" {
			t.Fatalf("column %d must land blank, got %v", c, row[c])
		}
	}
}

func TestDeleteRow(t *testing.T) {
	api := &fakeSheetAPI{}
	store := NewSheetStore(api, "Solicitudes")

	if err := store.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != 4 {
		t.Fatalf("unexpected delete calls: %v", api.deleted)
	}

	if err := store.Delete(context.Background(), 1); !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("expected ErrWriteRejected for header row, got %v", err)
	}
}

func TestWriteFailuresWrapped(t *testing.T) {
	boom := errors.New("backend unavailable")
	api := &fakeSheetAPI{batchErr: boom, appendErr: boom, deleteErr: boom}
	store := NewSheetStore(api, "Solicitudes")
	ctx := context.Background()

	if err := store.ApplyPatch(ctx, 2, Patch{Estado: "NUEVO"}); !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("ApplyPatch: expected ErrWriteRejected, got %v", err)
	}
	if err := store.Append(ctx, Record{}); !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("Append: expected ErrWriteRejected, got %v", err)
	}
	err := store.Delete(ctx, 2)
	if !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("Delete: expected ErrWriteRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "backend unavailable") {
		t.Fatalf("wrapped error must keep the cause: %v", err)
	}
}
