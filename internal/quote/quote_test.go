package quote

import "testing"

func TestTotalIgnoresLineItems(t *testing.T) {
	// Line items are descriptive; only materials and labor count.
	d := Detail{
		Items:      []LineItem{{Descripcion: "Caño de 40mm", Precio: 500}},
		ManoDeObra: 100,
	}
	if got := Total(200, d.ManoDeObra); got != 300 {
		t.Fatalf("Total = %v, want 300", got)
	}
}

func TestTotalZero(t *testing.T) {
	if got := Total(0, 0); got != 0 {
		t.Fatalf("Total = %v, want 0", got)
	}
}

func TestDetailRoundTrip(t *testing.T) {
	d := Detail{
		Items: []LineItem{
			{Descripcion: "Materiales varios", Precio: 1250.50},
			{Descripcion: "Flete", Precio: 0},
		},
		ManoDeObra: 800,
	}
	raw, err := d.Marshal()
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	got := ParseDetail(raw)
	if got.ManoDeObra != 800 {
		t.Fatalf("manoDeObra = %v, want 800", got.ManoDeObra)
	}
	if len(got.Items) != 2 || got.Items[0].Descripcion != "Materiales varios" || got.Items[1].Precio != 0 {
		t.Fatalf("items not preserved: %+v", got.Items)
	}
}

func TestParseDetailFallback(t *testing.T) {
	for _, raw := range []string{"", "   ", "{broken", "not json at all"} {
		d := ParseDetail(raw)
		if len(d.Items) != 1 || d.Items[0] != (LineItem{}) {
			t.Fatalf("ParseDetail(%q): expected single empty item, got %+v", raw, d.Items)
		}
		if d.ManoDeObra != 0 {
			t.Fatalf("ParseDetail(%q): expected zero labor, got %v", raw, d.ManoDeObra)
		}
	}
}

func TestParseDetailNilItems(t *testing.T) {
	d := ParseDetail(`{"manoDeObra":50}`)
	if d.Items == nil || len(d.Items) != 0 {
		t.Fatalf("missing items must decode as empty slice, got %#v", d.Items)
	}
	if d.ManoDeObra != 50 {
		t.Fatalf("manoDeObra = %v, want 50", d.ManoDeObra)
	}
}

func TestMaterialesFrom(t *testing.T) {
	cases := []struct {
		monto string
		labor float64
		want  float64
	}{
		{"300.00", 100, 200},
		{"300", 300, 0},
		{"100", 250, 0},
		{"", 100, 0},
		{"no numerico", 100, 0},
	}
	for _, c := range cases {
		if got := MaterialesFrom(c.monto, c.labor); got != c.want {
			t.Fatalf("MaterialesFrom(%q, %v) = %v, want %v", c.monto, c.labor, got, c.want)
		}
	}
}

func TestFormatMonto(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{300, "300.00"},
		{1250.5, "1250.50"},
		{0, "0.00"},
	}
	for _, c := range cases {
		if got := FormatMonto(c.in); got != c.want {
			t.Fatalf("FormatMonto(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
