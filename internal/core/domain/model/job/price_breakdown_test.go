package job_test

import (
	"testing"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceBreakdown(t *testing.T) {
	t.Run("should add fee on top of the subtotal", func(t *testing.T) {
		p, err := job.NewPriceBreakdown(9900, 15000, 0, 1.0, 0.08)

		require.NoError(t, err)
		assert.Equal(t, kernel.Money(24900), p.Subtotal())
		assert.Equal(t, kernel.Money(1992), p.ServiceFee())
		assert.Equal(t, kernel.Money(26892), p.Total())
		assert.Equal(t, "$268.92", p.Total().String())
	})

	t.Run("should apply surge before the fee", func(t *testing.T) {
		p, err := job.NewPriceBreakdown(9900, 10000, -2000, 1.5, 0.08)

		require.NoError(t, err)
		// (99 + 100 - 20) * 1.5 = 268.50; fee 21.48
		assert.Equal(t, kernel.Money(2148), p.ServiceFee())
		assert.Equal(t, kernel.Money(26850+2148), p.Total())
	})

	t.Run("should reject multipliers below one", func(t *testing.T) {
		_, err := job.NewPriceBreakdown(9900, 0, 0, 0.9, 0.08)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject negative fee rates", func(t *testing.T) {
		_, err := job.NewPriceBreakdown(9900, 0, 0, 1, -0.01)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}
