package util

import "testing"

func TestCollapseSpaces(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  COMPRA   LIDL  ", "COMPRA LIDL"},
		{"A\tB\n C", "A B C"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := CollapseSpaces(tc.in); got != tc.want {
			t.Fatalf("CollapseSpaces(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"JUAN", "Juan"},
		{"MERCADONA VALENCIA", "Mercadona Valencia"},
		{"  peña  ", "Peña"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := TitleCase(tc.in); got != tc.want {
			t.Fatalf("TitleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsAlphabetic(t *testing.T) {
	for _, token := range []string{"JUAN", "peña", "DOÑA", "ADEUDO"} {
		if !IsAlphabetic(token) {
			t.Fatalf("IsAlphabetic(%q) = false", token)
		}
	}
	for _, token := range []string{"", "A1", "12", "REF:", "--"} {
		if IsAlphabetic(token) {
			t.Fatalf("IsAlphabetic(%q) = true", token)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("got %q", got)
	}
	// Rune boundaries, not bytes.
	if got := Truncate("ñññ", 2); got != "ññ" {
		t.Fatalf("got %q", got)
	}
}
