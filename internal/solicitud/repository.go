package solicitud

import (
	"context"
	"errors"
)

var (
	ErrStoreUnavailable = errors.New("backing sheet unavailable")
	ErrWriteRejected    = errors.New("sheet write rejected")
	ErrNotFound         = errors.New("solicitud not found")
	ErrInvalidStatus    = errors.New("invalid status")
)

// Patch carries the admin-editable cells of one row. Presupuesto is a
// pointer: nil leaves the quote-detail column untouched.
type Patch struct {
	Estado      string
	Monto       string
	Presupuesto *string
}

type Repository interface {
	List(ctx context.Context) ([]Record, error)
	ApplyPatch(ctx context.Context, sheetRowIndex int, p Patch) error
	Append(ctx context.Context, rec Record) error
	Delete(ctx context.Context, sheetRowIndex int) error
}
