// internal/utils/slug_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Oak Dining Table", "oak-dining-table"},
		{"accents stripped", "Café Chair", "caf-chair"},
		{"punctuation collapsed", "Sofa -- 3 Seats!!", "sofa-3-seats"},
		{"leading and trailing noise", "  --Lamp--  ", "lamp"},
		{"already a slug", "floor-lamp", "floor-lamp"},
		{"uppercase", "VELVET", "velvet"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}
