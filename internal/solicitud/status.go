package solicitud

import (
	"strings"

	"urbanfix-backend/internal/utils"
)

// Closed status vocabulary. The sheet stores these verbatim; anything else
// found in a cell is treated as PENDIENTE for display and aggregates.
const (
	StatusNuevo          = "NUEVO"
	StatusCotizado       = "COTIZADO"
	StatusAceptado       = "ACEPTADO"
	StatusEnCurso        = "EN CURSO"
	StatusFinalizado     = "FINALIZADO"
	StatusCerrado        = "CERRADO"
	StatusCancelado      = "CANCELADO"
	StatusVisitaCotizada = "VISITA COTIZADA"
	StatusVisitaAgendada = "VISITA AGENDADA"
	StatusCotizadoPV     = "COTIZADO (PV)"
	StatusPendiente      = "PENDIENTE"
)

// ValidStatuses is the admin-facing selection order, matching the panel's
// dropdown.
var ValidStatuses = []string{
	StatusNuevo, StatusCotizado, StatusAceptado, StatusEnCurso,
	StatusFinalizado, StatusCerrado, StatusCancelado, StatusVisitaCotizada,
	StatusVisitaAgendada, StatusCotizadoPV, StatusPendiente,
}

var validStatusSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ValidStatuses))
	for _, s := range ValidStatuses {
		set[s] = struct{}{}
	}
	return set
}()

// CanonicalStatus uppercases, strips diacritics and reports whether the
// result belongs to the closed vocabulary.
func CanonicalStatus(s string) (string, bool) {
	canon := utils.StripDiacritics(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := validStatusSet[canon]
	return canon, ok
}

// NormalizeStatus maps any input onto the vocabulary; unknown or empty
// values become PENDIENTE. Idempotent.
func NormalizeStatus(s string) string {
	canon, ok := CanonicalStatus(s)
	if !ok {
		return StatusPendiente
	}
	return canon
}

// Classification buckets drive the dashboard aggregates.
type Classification int

const (
	ClassPending Classification = iota
	ClassFinalized
	ClassNeither
)

var pendingSet = map[string]struct{}{
	StatusPendiente:      {},
	StatusNuevo:          {},
	StatusCotizado:       {},
	StatusEnCurso:        {},
	StatusAceptado:       {},
	StatusVisitaCotizada: {},
	StatusVisitaAgendada: {},
	StatusCotizadoPV:     {},
}

var finalizedSet = map[string]struct{}{
	StatusFinalizado: {},
	StatusCerrado:    {},
}

// Classify normalizes first, then buckets. CANCELADO lands in neither
// bucket: it counts toward the total but is deliberately excluded from
// pendientes and finalizadas.
func Classify(status string) Classification {
	norm := NormalizeStatus(status)
	if _, ok := pendingSet[norm]; ok {
		return ClassPending
	}
	if _, ok := finalizedSet[norm]; ok {
		return ClassFinalized
	}
	return ClassNeither
}

func IsPending(status string) bool {
	return Classify(status) == ClassPending
}

func IsFinalized(status string) bool {
	return Classify(status) == ClassFinalized
}

// StatusVariant is the rendering group for a status badge. Independent from
// the pending/finalized classification: it groups on the raw (case- and
// accent-normalized) value, so legacy cells like PRESUPUESTADO keep their
// historical grouping instead of collapsing into PENDIENTE.
func StatusVariant(status string) string {
	canon := utils.StripDiacritics(strings.ToUpper(strings.TrimSpace(status)))
	if canon == "" {
		canon = StatusPendiente
	}
	switch canon {
	case StatusAceptado, StatusFinalizado, StatusCerrado:
		return "success"
	case StatusPendiente, StatusEnCurso, StatusNuevo:
		return "primary"
	case StatusCancelado:
		return "danger"
	case StatusVisitaCotizada, StatusVisitaAgendada:
		return "info"
	case StatusCotizado, StatusCotizadoPV, "PRESUPUESTADO":
		return "secondary"
	default:
		return "secondary"
	}
}
