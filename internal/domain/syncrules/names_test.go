package syncrules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/storesync-api/internal/domain/syncrules"
)

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		nombre string
		first  string
		last   string
	}{
		{"Ana García", "Ana", "García"},
		{"Juan Pablo de la Torre", "Juan Pablo de la", "Torre"},
		{"Nokia", "", "Nokia"},
		{"", "", ""},
		{"  Ana   García  ", "Ana", "García"},
	}
	for _, tc := range cases {
		first, last := syncrules.SplitFullName(tc.nombre)
		assert.Equal(t, tc.first, first, "nombre: %q", tc.nombre)
		assert.Equal(t, tc.last, last, "apellido: %q", tc.nombre)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", syncrules.Truncate("abc", 50))
	assert.Equal(t, "abc", syncrules.Truncate("abcde", 3))
	// el corte es por runas, no por bytes
	assert.Equal(t, "ññ", syncrules.Truncate("ñññ", 2))
	assert.Equal(t, "", syncrules.Truncate("algo", 0))
}
