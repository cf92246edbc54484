package quote

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var ErrExportFailed = errors.New("pdf export failed")

// LineItem is a descriptive entry on the quote. Its price is informative
// only and never contributes to the total.
type LineItem struct {
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
}

// Detail is the structure serialized into the sheet's presupuesto column.
// Materials are not stored here: they are recoverable as total minus labor.
type Detail struct {
	Items      []LineItem `json:"items"`
	ManoDeObra float64    `json:"manoDeObra"`
}

// Total is the business rule: materials plus labor, nothing else. Line
// items are descriptive and excluded on purpose.
func Total(materiales, manoDeObra float64) float64 {
	return materiales + manoDeObra
}

func (d Detail) Marshal() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParseDetail rehydrates a stored presupuesto cell. Records quoted before
// the detail column existed, or with a corrupt cell, fall back to a single
// empty line item and zeroed labor; a parse failure is never fatal.
func ParseDetail(raw string) Detail {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		var d Detail
		if err := json.Unmarshal([]byte(raw), &d); err == nil {
			if d.Items == nil {
				d.Items = []LineItem{}
			}
			return d
		}
	}
	return Detail{
		Items:      []LineItem{{}},
		ManoDeObra: 0,
	}
}

// MaterialesFrom recovers the materials cost from a stored quoted amount:
// amount minus labor, floored at zero. An empty or unparseable amount means
// the record was never quoted.
func MaterialesFrom(montoCotizado string, manoDeObra float64) float64 {
	total, err := strconv.ParseFloat(strings.TrimSpace(montoCotizado), 64)
	if err != nil {
		return 0
	}
	if m := total - manoDeObra; m > 0 {
		return m
	}
	return 0
}

// FormatMonto renders a total the way the sheet stores amounts.
func FormatMonto(total float64) string {
	return strconv.FormatFloat(total, 'f', 2, 64)
}
