package solicitud

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "02/01/2006 15:04:05"

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// GetByRow finds a record by its sheet row address within a fresh snapshot.
func (s *Service) GetByRow(ctx context.Context, sheetRowIndex int) (Record, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.SheetRowIndex == sheetRowIndex {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: row %d", ErrNotFound, sheetRowIndex)
}

// Create appends a new solicitud. Status is always NUEVO and the quote
// columns start blank regardless of the submitted payload; the creation
// timestamp is set here, once, and never mutated afterwards.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Record, error) {
	rec := Record{
		MarcaTemporal:       s.now().In(s.loc).Format(timestampLayout),
		NombreApellido:      strings.TrimSpace(req.NombreApellido),
		Telefono:            strings.TrimSpace(req.Telefono),
		Direccion:           strings.TrimSpace(req.Direccion),
		CategoriaTrabajo:    strings.TrimSpace(req.CategoriaTrabajo),
		DescripcionProblema: strings.TrimSpace(req.DescripcionProblema),
		LinkMedia:           strings.TrimSpace(req.LinkMedia),
		Urgencia:            strings.TrimSpace(req.Urgencia),
		VentanasHorarias:    JoinWindows(req.VentanasHorarias),
		Estado:              StatusNuevo,
		Notas:               strings.TrimSpace(req.Notas),
	}

	if err := s.repo.Append(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update commits an edit-save cycle: status, amount and optionally the
// quote-detail JSON, in one write.
func (s *Service) Update(ctx context.Context, req UpdateRequest) error {
	canon, ok := CanonicalStatus(req.NewStatus)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, req.NewStatus)
	}

	patch := Patch{
		Estado:      canon,
		Monto:       strings.TrimSpace(req.NewMonto),
		Presupuesto: req.NewPresupuesto,
	}
	return s.repo.ApplyPatch(ctx, req.SheetRowIndex, patch)
}

// ApplyPatch commits an already-validated patch, as produced by an edit
// session's CommitPatch.
func (s *Service) ApplyPatch(ctx context.Context, sheetRowIndex int, p Patch) error {
	return s.repo.ApplyPatch(ctx, sheetRowIndex, p)
}

// Delete hard-deletes the row from the backing sheet. Irreversible.
func (s *Service) Delete(ctx context.Context, sheetRowIndex int) error {
	return s.repo.Delete(ctx, sheetRowIndex)
}

// Summary computes the dashboard aggregates from a fresh snapshot.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Total: len(records)}
	for _, rec := range records {
		switch Classify(rec.Estado) {
		case ClassPending:
			sum.Pendientes++
		case ClassFinalized:
			sum.Finalizadas++
		}
	}
	return sum, nil
}
