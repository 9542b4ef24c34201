// internal/utils/money_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.0, Round2(10))
	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -4.33, Round2(-4.325))
}

func TestRound2OrderTotals(t *testing.T) {
	// Two units at 100.00 with an 18% tax rate and no shipping or discount.
	subtotal := Round2(100.00 * 2)
	tax := Round2(subtotal * 0.18)
	total := Round2(subtotal + 0 + tax - 0)

	assert.Equal(t, 200.00, subtotal)
	assert.Equal(t, 36.00, tax)
	assert.Equal(t, 236.00, total)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(23600), ToMinorUnits(236.00))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(1), ToMinorUnits(0.01))
	assert.Equal(t, int64(0), ToMinorUnits(0))

	// 19.99 is not exactly representable in binary floating point; the
	// conversion must still land on the right cent.
	assert.Equal(t, int64(2999), ToMinorUnits(29.99))
}
