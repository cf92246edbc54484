package quote

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"urbanfix-backend/internal/solicitud"
)

// RenderPDF produces the fixed-layout quote document: header, customer
// block, item table with synthesized Materials and Labor rows, total.
func RenderPDF(rec solicitud.Record, d Detail, materiales float64, issuedAt time.Time) ([]byte, error) {
	total := Total(materiales, d.ManoDeObra)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "COTIZACION DE SERVICIO", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "UrbanFix - Lo Hacemos Real", "", 1, "C", false, 0, "")
	pdf.Line(10, 35, 200, 35)
	pdf.Ln(8)

	writeField := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(35, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, orNA(value), "", 1, "L", false, 0, "")
	}
	writeField("Cliente:", rec.NombreApellido)
	writeField("Direccion:", rec.Direccion)
	writeField("Telefono:", rec.Telefono)
	writeField("N° Presupuesto:", rec.ID)
	writeField("Fecha:", issuedAt.Format("02/01/2006"))
	pdf.Ln(4)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(140, 8, "Descripcion", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Precio", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	writeRow := func(desc string, price float64) {
		pdf.CellFormat(140, 8, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("$%.2f", price), "1", 1, "R", false, 0, "")
	}
	for _, item := range d.Items {
		writeRow(item.Descripcion, item.Precio)
	}
	writeRow("Costo Materiales", materiales)
	writeRow("Costo Mano de Obra", d.ManoDeObra)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(140, 10, "TOTAL (Materiales + Mano de Obra):", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 10, fmt.Sprintf("$%.2f", total), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return buf.Bytes(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
