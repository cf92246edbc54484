package solicitud

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"NUEVO", StatusNuevo},
		{"nuevo", StatusNuevo},
		{"  cotizado ", StatusCotizado},
		{"cotizado (pv)", StatusCotizadoPV},
		{"FINALIZADO", StatusFinalizado},
		{"", StatusPendiente},
		{"cualquier cosa", StatusPendiente},
		{"PRESUPUESTADO", StatusPendiente},
	}
	for _, c := range cases {
		if got := NormalizeStatus(c.in); got != c.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeStatusIdempotent(t *testing.T) {
	inputs := append([]string{"", "algo raro", "en curso"}, ValidStatuses...)
	for _, in := range inputs {
		once := NormalizeStatus(in)
		twice := NormalizeStatus(once)
		if once != twice {
			t.Fatalf("NormalizeStatus not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestClassifyExclusive(t *testing.T) {
	for _, s := range ValidStatuses {
		pending := IsPending(s)
		finalized := IsFinalized(s)
		if pending && finalized {
			t.Fatalf("status %q classified both pending and finalized", s)
		}
		if s == StatusCancelado {
			if pending || finalized {
				t.Fatalf("CANCELADO must be neither pending nor finalized")
			}
			continue
		}
		if !pending && !finalized {
			t.Fatalf("status %q classified as neither pending nor finalized", s)
		}
	}
}

func TestClassifyBuckets(t *testing.T) {
	if Classify(StatusFinalizado) != ClassFinalized || Classify(StatusCerrado) != ClassFinalized {
		t.Fatalf("FINALIZADO and CERRADO must be finalized")
	}
	if Classify(StatusNuevo) != ClassPending || Classify("desconocido") != ClassPending {
		t.Fatalf("NUEVO and unknown values must be pending")
	}
	if Classify(StatusCancelado) != ClassNeither {
		t.Fatalf("CANCELADO must be neither")
	}
}

func TestStatusVariant(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{StatusAceptado, "success"},
		{"finalizado", "success"},
		{StatusCerrado, "success"},
		{"", "primary"},
		{StatusNuevo, "primary"},
		{StatusEnCurso, "primary"},
		{StatusCancelado, "danger"},
		{StatusVisitaCotizada, "info"},
		{StatusVisitaAgendada, "info"},
		{StatusCotizado, "secondary"},
		{StatusCotizadoPV, "secondary"},
		{"PRESUPUESTADO", "secondary"},
		{"estado raro", "secondary"},
	}
	for _, c := range cases {
		if got := StatusVariant(c.in); got != c.want {
			t.Fatalf("StatusVariant(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
