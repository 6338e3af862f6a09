package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.50, "€12.50"},
		{0, "€0.00"},
		{1234.567, "€1,234.57"},
		{0.004, "€0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(decimal.NewFromFloat(tt.in)))
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "9.09%", Percent(decimal.NewFromFloat(9.0909)))
	assert.Equal(t, "0.00%", Percent(decimal.Zero))
}
