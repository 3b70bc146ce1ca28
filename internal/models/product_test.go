package models

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ProductStatus
	}{
		{"vendido", StatusSold},
		{"Vendido", StatusSold},
		{"VENDIDO", StatusSold},
		{"vendída", StatusSold}, // feminine form with diacritic, seen in hand-kept exports
		{"sold", StatusSold},
		{"disponible", StatusAvailable},
		{"available", StatusAvailable},
		{"", StatusAvailable},
		{"  Vendido  ", StatusSold},
		{"anything else", StatusAvailable},
	}

	for _, tt := range tests {
		if got := ParseStatus(tt.in); got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProduct_Available(t *testing.T) {
	p := Product{Status: StatusAvailable}
	if !p.Available() {
		t.Error("available product reported unavailable")
	}
	p.Status = StatusSold
	if p.Available() {
		t.Error("sold product reported available")
	}
}
