package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil stays nil", nil, nil},
		{"empty stays empty", []string{}, []string{}},
		{"strategy ids keep first-seen order", []string{"TLS", "STL", "TLS", "DPFI"}, []string{"TLS", "STL", "DPFI"}},
		{"padding and blanks dropped", []string{" TAI ", "", "   ", "TAI"}, []string{"TAI"}},
		{"case is significant", []string{"tls", "TLS"}, []string{"tls", "TLS"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.input))
		})
	}
}
