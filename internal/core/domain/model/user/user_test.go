package user_test

import (
	"testing"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := user.ParseRole(" Operator ")
	require.NoError(t, err)
	assert.Equal(t, user.RoleOperator, r)

	_, err = user.ParseRole("superuser")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRestoreUser(t *testing.T) {
	t.Run("should restore admin", func(t *testing.T) {
		u, err := user.RestoreUser(kernel.NewUUID(), user.RoleAdmin, "Ada", "ada@example.com", "+15550100")

		require.NoError(t, err)
		assert.True(t, u.IsAdmin())
		assert.Equal(t, "+15550100", u.Phone())
	})

	t.Run("should reject empty id", func(t *testing.T) {
		_, err := user.RestoreUser(kernel.UUID{}, user.RoleCustomer, "", "", "")

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}
