package utils

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  rafael   nadal ", "Rafael Nadal"},
		{"john mcEnroe", "John McEnroe"},
		{"juan martín del potro", "Juan Martín Del Potro"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"Dominik", "Köpfer"}, "dominik kopfer"},
		{[]string{"Juan Martín", " del Potro "}, "juan martin del potro"},
		{[]string{"Novak", "Đoković"}, "novak dokovic"},
	}
	for _, tt := range tests {
		if got := SearchKey(tt.parts...); got != tt.want {
			t.Errorf("SearchKey(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestMatchSlugAndArchiveKey(t *testing.T) {
	s := MatchSlug("Roland Garros", "QF", "Alcaraz", "Sinner")
	if s != "roland-garros-qf-alcaraz-vs-sinner" {
		t.Fatalf("MatchSlug() = %q", s)
	}
	if got := ArchiveKey(s, "abc"); got != "archives/roland-garros-qf-alcaraz-vs-sinner/abc.json" {
		t.Fatalf("ArchiveKey() = %q", got)
	}
	if got := ArchiveKey("", "abc"); got != "archives/unnamed/abc.json" {
		t.Fatalf("ArchiveKey(empty) = %q", got)
	}
}
