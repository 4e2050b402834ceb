package kernel_test

import (
	"testing"

	"junkos/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
)

func TestMoneyFromFloat(t *testing.T) {
	assert.Equal(t, kernel.Money(26892), kernel.MoneyFromFloat(268.92))
	assert.Equal(t, kernel.Money(9900), kernel.MoneyFromFloat(99))
	assert.Equal(t, kernel.Money(-2500), kernel.MoneyFromFloat(-25))
}

func TestMoney_MulRate(t *testing.T) {
	assert.Equal(t, kernel.Money(1992), kernel.Money(24900).MulRate(0.08))
	assert.Equal(t, kernel.Money(2500), kernel.Money(25000).MulRate(0.10))
	// 0.5 cent rounds away from zero
	assert.Equal(t, kernel.Money(1), kernel.Money(5).MulRate(0.1))
	assert.Equal(t, kernel.Money(-1), kernel.Money(-5).MulRate(0.1))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "$268.92", kernel.Money(26892).String())
	assert.Equal(t, "-$25.00", kernel.Money(-2500).String())
	assert.Equal(t, "$0.05", kernel.Money(5).String())
}

func TestMoney_Arithmetic(t *testing.T) {
	m := kernel.Money(1000).Add(500).Sub(200).MulInt(3)

	assert.Equal(t, kernel.Money(3900), m)
	assert.InDelta(t, 39.0, m.Float64(), 1e-9)
	assert.Equal(t, int64(3900), m.Cents())
	assert.False(t, m.IsNegative())
}
