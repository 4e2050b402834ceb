package kernel

import (
	"fmt"
	"math"
)

// Money is an amount in US cents. All price and settlement arithmetic is done
// in cents; fractional results are rounded half away from zero.
type Money int64

// MoneyFromFloat converts a dollar amount, rounding to the nearest cent.
func MoneyFromFloat(dollars float64) Money {
	return Money(math.Round(dollars * 100))
}

// Cents returns the amount in minor units, as payment providers expect it.
func (m Money) Cents() int64 {
	return int64(m)
}

// Float64 returns the amount in dollars.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

func (m Money) Add(other Money) Money {
	return m + other
}

func (m Money) Sub(other Money) Money {
	return m - other
}

func (m Money) MulInt(n int) Money {
	return m * Money(n)
}

// MulRate multiplies by a rate or multiplier and rounds to the cent.
func (m Money) MulRate(rate float64) Money {
	return Money(math.Round(float64(m) * rate))
}

func (m Money) IsNegative() bool {
	return m < 0
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
