package solicitud

import (
	"context"
	"fmt"
	"strconv"

	"urbanfix-backend/internal/utils"

	sheetsapi "google.golang.org/api/sheets/v4"
)

// Column schema, fixed order A-O. Both the read and the write path consume
// this single declaration; there are no free-floating column letters.
const (
	colMarcaTemporal = iota
	colNombreApellido
	colTelefono
	colDireccion
	colCategoriaTrabajo
	colDescripcionProblema
	colLinkMedia
	colUrgencia
	colVentanasHorarias
	colEstado
	colPresupuesto
	colMontoCotizado
	colLinkPago
	colNotas
	colPagoRecibido
	numColumns
)

// schemaKeys maps each column to the field key its header cell normalizes
// to. Reads and writes both resolve positions from the header row through
// utils.FieldKey, so a reordered sheet can never make them diverge; a column
// missing from the header keeps its declared position.
var schemaKeys = [numColumns]string{
	colMarcaTemporal:       "marca_temporal",
	colNombreApellido:      "nombre_apellido",
	colTelefono:            "telefono",
	colDireccion:           "direccion",
	colCategoriaTrabajo:    "categoria_trabajo",
	colDescripcionProblema: "descripcion_problema",
	colLinkMedia:           "link_media",
	colUrgencia:            "urgencia",
	colVentanasHorarias:    "ventanas_horarias",
	colEstado:              "estado",
	colPresupuesto:         "presupuesto",
	colMontoCotizado:       "monto_cotizado",
	colLinkPago:            "link_pago",
	colNotas:               "notas",
	colPagoRecibido:        "pago_recibido",
}

const (
	headerRows   = 1
	dataStartRow = headerRows + 1 // first data row, 1-based
)

// SheetAPI is the slice of the sheets client the adapter needs; tests
// substitute a fake.
type SheetAPI interface {
	Get(ctx context.Context, readRange string) ([][]interface{}, error)
	BatchUpdate(ctx context.Context, data []*sheetsapi.ValueRange) error
	Append(ctx context.Context, appendRange string, row []interface{}) error
	DeleteRow(ctx context.Context, sheetName string, rowNumber int) error
}

// SheetStore adapts the spreadsheet's row/column format to Records.
type SheetStore struct {
	api       SheetAPI
	sheetName string
}

func NewSheetStore(api SheetAPI, sheetName string) *SheetStore {
	return &SheetStore{api: api, sheetName: sheetName}
}

func (s *SheetStore) readRange() string {
	return fmt.Sprintf("%s!A1:%s", s.sheetName, columnLetter(numColumns-1))
}

func (s *SheetStore) headerRange() string {
	return fmt.Sprintf("%s!A1:%s1", s.sheetName, columnLetter(numColumns-1))
}

func columnLetter(col int) string {
	return string(rune('A' + col))
}

func (s *SheetStore) cellRange(col, rowNumber int) string {
	return fmt.Sprintf("%s!%s%d", s.sheetName, columnLetter(col), rowNumber)
}

// columnsFromHeader resolves each schema column's actual position from the
// header row. Positions are bounded by the A-O read range.
func columnsFromHeader(header []interface{}) [numColumns]int {
	headerIdx := make(map[string]int, numColumns)
	for i, cell := range header {
		if key := utils.FieldKey(cellString(cell)); key != "" {
			if _, seen := headerIdx[key]; !seen {
				headerIdx[key] = i
			}
		}
	}
	var cols [numColumns]int
	for c := 0; c < numColumns; c++ {
		cols[c] = c
		if idx, ok := headerIdx[schemaKeys[c]]; ok {
			cols[c] = idx
		}
	}
	return cols
}

// resolveColumns fetches the header row so the write paths target the same
// positions the read path resolves.
func (s *SheetStore) resolveColumns(ctx context.Context) ([numColumns]int, error) {
	rows, err := s.api.Get(ctx, s.headerRange())
	if err != nil {
		return [numColumns]int{}, err
	}
	var header []interface{}
	if len(rows) > 0 {
		header = rows[0]
	}
	return columnsFromHeader(header), nil
}

// List fetches every row, treats row 1 as the header and maps the rest
// through the header-resolved positions. An empty sheet yields an empty
// slice, not an error.
func (s *SheetStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.api.Get(ctx, s.readRange())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(rows) <= headerRows {
		return []Record{}, nil
	}

	cols := columnsFromHeader(rows[0])

	records := make([]Record, 0, len(rows)-headerRows)
	for i, row := range rows[headerRows:] {
		field := func(c int) string {
			if cols[c] < len(row) {
				return cellString(row[cols[c]])
			}
			return ""
		}
		records = append(records, Record{
			ID:                  "sheet-" + strconv.Itoa(i),
			SheetRowIndex:       i + dataStartRow,
			MarcaTemporal:       field(colMarcaTemporal),
			NombreApellido:      field(colNombreApellido),
			Telefono:            field(colTelefono),
			Direccion:           field(colDireccion),
			CategoriaTrabajo:    field(colCategoriaTrabajo),
			DescripcionProblema: field(colDescripcionProblema),
			LinkMedia:           field(colLinkMedia),
			Urgencia:            field(colUrgencia),
			VentanasHorarias:    field(colVentanasHorarias),
			Estado:              field(colEstado),
			Presupuesto:         field(colPresupuesto),
			MontoCotizado:       field(colMontoCotizado),
			LinkPago:            field(colLinkPago),
			Notas:               field(colNotas),
			PagoRecibido:        field(colPagoRecibido),
		})
	}
	return records, nil
}

// ApplyPatch writes the status, amount and (optionally) quote-detail cells
// of one row in a single batch; the batch applies all-or-nothing. Target
// cells come from the same header resolution List uses; if the header cannot
// be read the write is rejected rather than aimed at stale positions.
func (s *SheetStore) ApplyPatch(ctx context.Context, sheetRowIndex int, p Patch) error {
	if sheetRowIndex < dataStartRow {
		return fmt.Errorf("%w: row %d is before the data range", ErrWriteRejected, sheetRowIndex)
	}

	cols, err := s.resolveColumns(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}

	data := []*sheetsapi.ValueRange{
		{
			Range:  s.cellRange(cols[colEstado], sheetRowIndex),
			Values: [][]interface{}{{p.Estado}},
		},
		{
			Range:  s.cellRange(cols[colMontoCotizado], sheetRowIndex),
			Values: [][]interface{}{{p.Monto}},
		},
	}
	if p.Presupuesto != nil {
		data = append(data, &sheetsapi.ValueRange{
			Range:  s.cellRange(cols[colPresupuesto], sheetRowIndex),
			Values: [][]interface{}{{*p.Presupuesto}},
		})
	}

	if err := s.api.BatchUpdate(ctx, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}
	return nil
}

// Append writes a new row into the header-resolved positions. Whatever the
// caller set, the row lands with status NUEVO and blank quote columns.
func (s *SheetStore) Append(ctx context.Context, rec Record) error {
	cols, err := s.resolveColumns(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}

	row := make([]interface{}, numColumns)
	for c := range row {
		row[c] = ""
	}
	row[cols[colMarcaTemporal]] = rec.MarcaTemporal
	row[cols[colNombreApellido]] = rec.NombreApellido
	row[cols[colTelefono]] = rec.Telefono
	row[cols[colDireccion]] = rec.Direccion
	row[cols[colCategoriaTrabajo]] = rec.CategoriaTrabajo
	row[cols[colDescripcionProblema]] = rec.DescripcionProblema
	row[cols[colLinkMedia]] = rec.LinkMedia
	row[cols[colUrgencia]] = rec.Urgencia
	row[cols[colVentanasHorarias]] = rec.VentanasHorarias
	row[cols[colEstado]] = StatusNuevo
	row[cols[colNotas]] = rec.Notas

	if err := s.api.Append(ctx, s.readRange(), row); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}
	return nil
}

// Delete removes the row at that exact address. The caller owns refetching:
// every following row shifts up by one.
func (s *SheetStore) Delete(ctx context.Context, sheetRowIndex int) error {
	if sheetRowIndex < dataStartRow {
		return fmt.Errorf("%w: row %d is before the data range", ErrWriteRejected, sheetRowIndex)
	}
	if err := s.api.DeleteRow(ctx, s.sheetName, sheetRowIndex); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}
	return nil
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
