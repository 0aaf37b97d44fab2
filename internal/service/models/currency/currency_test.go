package currency

import "testing"

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 0, want: "R$ 0,00"},
		{cents: 5, want: "R$ 0,05"},
		{cents: 99, want: "R$ 0,99"},
		{cents: 100, want: "R$ 1,00"},
		{cents: 1550, want: "R$ 15,50"},
		{cents: 123456, want: "R$ 1.234,56"},
		{cents: 100000000, want: "R$ 1.000.000,00"},
		{cents: -1550, want: "-R$ 15,50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatBRL(tt.cents); got != tt.want {
				t.Errorf("FormatBRL(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}
