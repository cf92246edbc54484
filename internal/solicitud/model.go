package solicitud

import "strings"

// Record is one solicitud as rendered in the admin table. Field names mirror
// the sheet's header keys, so the JSON shape matches what the panel expects.
//
// ID is synthetic and positional: stable only within one fetched snapshot.
// SheetRowIndex is the 1-based sheet row used for targeted writes; it is
// assigned at fetch time and must not be reused after a refetch.
type Record struct {
	ID                  string `json:"id"`
	SheetRowIndex       int    `json:"sheetRowIndex"`
	MarcaTemporal       string `json:"marca_temporal"`
	NombreApellido      string `json:"nombre_apellido"`
	Telefono            string `json:"telefono"`
	Direccion           string `json:"direccion"`
	CategoriaTrabajo    string `json:"categoria_trabajo"`
	DescripcionProblema string `json:"descripcion_problema"`
	LinkMedia           string `json:"link_media,omitempty"`
	Urgencia            string `json:"urgencia,omitempty"`
	VentanasHorarias    string `json:"ventanas_horarias,omitempty"`
	Estado              string `json:"estado"`
	Presupuesto         string `json:"presupuesto,omitempty"`
	MontoCotizado       string `json:"monto_cotizado,omitempty"`
	LinkPago            string `json:"link_pago,omitempty"`
	Notas               string `json:"notas,omitempty"`
	PagoRecibido        string `json:"pago_recibido,omitempty"`
}

// CreateRequest is the public intake form payload.
type CreateRequest struct {
	NombreApellido      string   `json:"nombre_apellido" validate:"required"`
	Telefono            string   `json:"telefono" validate:"required,phone"`
	Direccion           string   `json:"direccion" validate:"required"`
	CategoriaTrabajo    string   `json:"categoria_trabajo" validate:"required"`
	DescripcionProblema string   `json:"descripcion_problema" validate:"required"`
	LinkMedia           string   `json:"link_media" validate:"omitempty,url"`
	Urgencia            string   `json:"urgencia"`
	VentanasHorarias    []string `json:"ventanas_horarias"`
	Notas               string   `json:"notas"`
}

// UpdateRequest is the edit-save payload. NewPresupuesto is a pointer so the
// quote-detail column is only touched when the client actually sends it.
type UpdateRequest struct {
	SheetRowIndex  int     `json:"sheetRowIndex" validate:"required,min=2"`
	NewStatus      string  `json:"newStatus" validate:"required"`
	NewMonto       string  `json:"newMonto" validate:"monto"`
	NewPresupuesto *string `json:"newPresupuesto,omitempty"`
}

type DeleteRequest struct {
	SheetRowIndex int `json:"sheetRowIndex" validate:"required,min=2"`
}

// Summary is the dashboard aggregate. CANCELADO counts only toward Total.
type Summary struct {
	Total       int `json:"total"`
	Pendientes  int `json:"pendientes"`
	Finalizadas int `json:"finalizadas"`
}

const windowSeparator = ", "

// JoinWindows serializes the intake form's availability checkboxes into the
// single sheet cell.
func JoinWindows(windows []string) string {
	parts := make([]string, 0, len(windows))
	for _, w := range windows {
		if w = strings.TrimSpace(w); w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, windowSeparator)
}

// SplitWindows reverses JoinWindows for display.
func SplitWindows(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	windows := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			windows = append(windows, p)
		}
	}
	return windows
}
