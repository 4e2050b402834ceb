package guard_test

import (
	"errors"
	"sync"
	"testing"

	"junkos/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("invite not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

type tipAmount struct {
	cents int64
	guard guard.ConstructorGuard
}

var errTipNotConstructed = errors.New("tipAmount must be created via newTipAmount")

func newTipAmount(cents int64) (tipAmount, error) {
	if cents < 0 {
		return tipAmount{}, errors.New("tip cannot be negative")
	}
	return tipAmount{cents: cents, guard: guard.NewConstructorGuard()}, nil
}

func (t tipAmount) Validate() error {
	return t.guard.Validate(errTipNotConstructed)
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	t.Run("constructed_value_is_valid", func(t *testing.T) {
		tip, err := newTipAmount(500)

		require.NoError(t, err)
		require.NoError(t, tip.Validate())
	})

	t.Run("struct_literal_is_rejected", func(t *testing.T) {
		tip := tipAmount{cents: 500}

		require.ErrorIs(t, tip.Validate(), errTipNotConstructed)
	})

	t.Run("copies_keep_their_state", func(t *testing.T) {
		tip, _ := newTipAmount(100)
		clone := tip

		require.NoError(t, clone.Validate())
	})
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Validate(nil))
		}()
	}
	wg.Wait()
}
