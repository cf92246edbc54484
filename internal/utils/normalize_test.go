package utils

import "testing"

func TestStripDiacritics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"COTIZADO", "COTIZADO"},
		{"cotización", "cotizacion"},
		{"Dirección", "Direccion"},
		{"ñandú", "nandu"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripDiacritics(c.in); got != c.want {
			t.Fatalf("StripDiacritics(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFieldKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Marca temporal", "marca_temporal"},
		{"Nombre y Apellido", "nombre_y_apellido"},
		{"Teléfono", "telefono"},
		{"  Monto   Cotizado  ", "monto_cotizado"},
		{"Descripción del problema?", "descripcion_del_problema"},
		{"", ""},
	}
	for _, c := range cases {
		if got := FieldKey(c.in); got != c.want {
			t.Fatalf("FieldKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
