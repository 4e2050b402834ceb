package commands_test

import (
	"testing"
	"time"

	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUpsertPricingRulesCommand_RequiresRules(t *testing.T) {
	_, err := commands.NewUpsertPricingRulesCommand(adminActor(), nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestUpsertPricingRulesCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	existing, err := pricing.NewRule(kernel.NewUUID(), "furniture", 7500, true, "", testNow.Add(-24*time.Hour))
	require.NoError(t, err)

	u := newTestUoW()
	u.expectTx(ctx)
	u.pricing.On("GetRuleByCategory", ctx, "furniture").Return(existing, nil).Once()
	u.pricing.On("GetRuleByCategory", ctx, "hot_tub").Return(nil, notFound("pricing rule")).Once()
	u.pricing.On("SaveRule", ctx, mock.AnythingOfType("*pricing.Rule")).Return(nil).Twice()

	cmd, err := commands.NewUpsertPricingRulesCommand(adminActor(), []commands.RuleInput{
		{Category: "Furniture", UnitPrice: 8000, IsActive: true, Description: "sofas, tables"},
		{Category: " hot_tub ", UnitPrice: 35000, IsActive: true},
	})
	require.NoError(t, err)

	saved, err := commands.NewUpsertPricingRulesCommandHandler(u.factory, fixedClock{testNow}).Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Same(t, existing, saved[0])
	assert.Equal(t, kernel.Money(8000), existing.UnitPrice())
	assert.Equal(t, "hot_tub", saved[1].Category())
	assert.Equal(t, kernel.Money(35000), saved[1].UnitPrice())
	u.assert(t)
}

func TestUpsertPricingRulesCommandHandler_Handle_RequiresAdmin(t *testing.T) {
	factory := new(MockUoWFactory)
	cmd, err := commands.NewUpsertPricingRulesCommand(customerActor(kernel.NewUUID()), []commands.RuleInput{
		{Category: "furniture", UnitPrice: 1},
	})
	require.NoError(t, err)

	_, err = commands.NewUpsertPricingRulesCommandHandler(factory, fixedClock{testNow}).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
	factory.AssertNotCalled(t, "Create")
}

func TestUpsertSurgeZoneCommandHandler_Handle(t *testing.T) {
	params := pricing.SurgeZoneParams{
		Name:       "Rush hour",
		Multiplier: 1.5,
		IsActive:   true,
		StartTime:  "16:00",
		EndTime:    "19:00",
		Weekdays:   []int{0, 1, 2, 3, 4},
	}

	t.Run("creates a zone", func(t *testing.T) {
		ctx := t.Context()
		u := newTestUoW()
		u.expectTx(ctx)
		u.pricing.On("SaveSurgeZone", ctx, mock.AnythingOfType("*pricing.SurgeZone")).Return(nil).Once()

		cmd, err := commands.NewUpsertSurgeZoneCommand(adminActor(), nil, params)
		require.NoError(t, err)

		zone, err := commands.NewUpsertSurgeZoneCommandHandler(u.factory, fixedClock{testNow}).Handle(ctx, cmd)

		require.NoError(t, err)
		require.NoError(t, zone.ID().Validate())
		assert.Equal(t, "Rush hour", zone.Name())
		assert.Equal(t, testNow, zone.UpdatedAt())
		assert.True(t, zone.AppliesAt(testNow.Add(2*time.Hour)))
		u.assert(t)
	})

	t.Run("updates a zone in place", func(t *testing.T) {
		ctx := t.Context()
		existingParams := params
		existingParams.ID = kernel.NewUUID()
		existing, err := pricing.NewSurgeZone(existingParams)
		require.NoError(t, err)

		u := newTestUoW()
		u.expectTx(ctx)
		u.pricing.On("GetSurgeZone", ctx, existing.ID()).Return(existing, nil).Once()
		u.pricing.On("SaveSurgeZone", ctx, existing).Return(nil).Once()

		update := params
		update.Multiplier = 2
		id := existing.ID()
		cmd, err := commands.NewUpsertSurgeZoneCommand(adminActor(), &id, update)
		require.NoError(t, err)

		zone, err := commands.NewUpsertSurgeZoneCommandHandler(u.factory, fixedClock{testNow}).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, id, zone.ID())
		assert.InDelta(t, 2.0, zone.Multiplier(), 1e-9)
		u.assert(t)
	})

	t.Run("rejects a discount multiplier", func(t *testing.T) {
		ctx := t.Context()
		u := newTestUoW()
		u.expectAbortedTx(ctx)

		bad := params
		bad.Multiplier = 0.5
		cmd, err := commands.NewUpsertSurgeZoneCommand(adminActor(), nil, bad)
		require.NoError(t, err)

		_, err = commands.NewUpsertSurgeZoneCommandHandler(u.factory, fixedClock{testNow}).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		u.pricing.AssertNotCalled(t, "SaveSurgeZone", mock.Anything, mock.Anything)
	})
}
