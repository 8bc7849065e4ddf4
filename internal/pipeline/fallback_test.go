package pipeline

import "testing"

func TestFallback(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"COMPRA TIENDA LOCAL DESCONOCIDA CARD", "Tienda"},
		{"PAGO EN FERRETERIA LOPEZ", "Ferreteria"},
		{"RECIBO GIMNASIO MUNICIPAL", "Gimnasio"},
		{"ADEUDO CUOTA CLUB", "Cuota"},
		{"", "Movimiento"},
		{"1234 77 --", "Movimiento"},
		{"COMPRA PAGO RECIBO", "Movimiento"},
	}

	for _, tc := range cases {
		got, confidence := Fallback(tc.in)
		if got != tc.want {
			t.Fatalf("Fallback(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if got == "" {
			t.Fatalf("Fallback(%q) returned empty label", tc.in)
		}
		if confidence >= 0.5 || confidence <= 0 {
			t.Fatalf("Fallback(%q) confidence = %v, want in (0, 0.5)", tc.in, confidence)
		}
	}
}
