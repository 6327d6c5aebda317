package rules

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelprint/pixelprint-backend/pkg/db/models"
	"github.com/pixelprint/pixelprint-backend/pkg/enums"
	pkgerrors "github.com/pixelprint/pixelprint-backend/pkg/errors"
)

func TestServiceCreateRowAndList(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	unit := decimal.RequireFromString("0.15")
	created, err := svc.CreateRow(ctx, shopSvc.Slug, CreateRowInput{
		Attrs:    map[string]string{"Sides": "Single Sided"},
		RuleKind: enums.RuleKindPerUnit,
		Unit:     &unit,
	})
	require.NoError(t, err)
	assert.Equal(t, "per_unit", created.RuleKind)
	assert.True(t, created.IsActive)
	assert.Equal(t, "Single Sided", created.Attrs["Sides"])

	rows, err := svc.ListRows(ctx, shopSvc.Slug, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.ID, rows[0].ID)
}

func TestServiceCreateRowWithTiersSortedAscending(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateRow(ctx, shopSvc.Slug, CreateRowInput{
		Attrs:    map[string]string{"Sides": "Double Sided"},
		RuleKind: enums.RuleKindTiers,
		Tiers: []TierInput{
			{Qty: 500, Unit: decimal.RequireFromString("0.09")},
			{Qty: 250, Unit: decimal.RequireFromString("0.12")},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Tiers, 2)
	assert.Equal(t, 250, created.Tiers[0].Qty)
	assert.Equal(t, 500, created.Tiers[1].Qty)
}

func TestServiceCreateRowDuplicateAttrsRejected(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	unit := decimal.RequireFromString("0.15")
	input := CreateRowInput{
		Attrs:    map[string]string{"Sides": "Single Sided", "Paper": "350gsm"},
		RuleKind: enums.RuleKindPerUnit,
		Unit:     &unit,
	}

	_, err := svc.CreateRow(ctx, shopSvc.Slug, input)
	require.NoError(t, err)

	_, err = svc.CreateRow(ctx, shopSvc.Slug, input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCreateRowDuplicateAllowedWhenFirstInactive(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	unit := decimal.RequireFromString("0.15")
	inactive := false
	_, err := svc.CreateRow(ctx, shopSvc.Slug, CreateRowInput{
		Attrs:    map[string]string{"Sides": "Single Sided"},
		RuleKind: enums.RuleKindPerUnit,
		Unit:     &unit,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	_, err = svc.CreateRow(ctx, shopSvc.Slug, CreateRowInput{
		Attrs:    map[string]string{"Sides": "Single Sided"},
		RuleKind: enums.RuleKindPerUnit,
		Unit:     &unit,
	})
	require.NoError(t, err)
}

func TestServiceCreateRowInactiveStaysInactive(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	unit := decimal.RequireFromString("0.15")
	inactive := false
	created, err := svc.CreateRow(ctx, shopSvc.Slug, CreateRowInput{
		Attrs:    map[string]string{"Sides": "Double Sided"},
		RuleKind: enums.RuleKindPerUnit,
		Unit:     &unit,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	// The column default must not override the draft flag on insert.
	var stored models.PriceRow
	require.NoError(t, conn.First(&stored, "id = ?", created.ID).Error)
	assert.False(t, stored.IsActive)

	active, err := svc.ListRows(ctx, shopSvc.Slug, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListRows(ctx, shopSvc.Slug, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
}

func TestServiceCreateModifierInactiveStaysInactive(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	inactive := false
	created, err := svc.CreateModifier(ctx, shopSvc.Slug, CreateModifierInput{
		AttrName:  "Lamination",
		AttrValue: "Matt",
		Kind:      enums.ModifierKindAdd,
		Amount:    decimal.RequireFromString("0.02"),
		IsActive:  &inactive,
	})
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	var stored models.AttributeModifier
	require.NoError(t, conn.First(&stored, "id = ?", created.ID).Error)
	assert.False(t, stored.IsActive)

	active, err := svc.ListModifiers(ctx, shopSvc.Slug, false)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestServiceCreateRowValidation(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateRowInput
	}{
		{"empty attrs", CreateRowInput{RuleKind: enums.RuleKindFixed}},
		{"per_unit without unit", CreateRowInput{Attrs: map[string]string{"Sides": "Single Sided"}, RuleKind: enums.RuleKindPerUnit}},
		{"fixed without fixed", CreateRowInput{Attrs: map[string]string{"Sides": "Single Sided"}, RuleKind: enums.RuleKindFixed}},
		{"unknown rule kind", CreateRowInput{Attrs: map[string]string{"Sides": "Single Sided"}, RuleKind: enums.RuleKind("bogus")}},
		{"duplicate tier qty", CreateRowInput{
			Attrs:    map[string]string{"Sides": "Single Sided"},
			RuleKind: enums.RuleKindTiers,
			Tiers: []TierInput{
				{Qty: 100, Unit: decimal.RequireFromString("0.10")},
				{Qty: 100, Unit: decimal.RequireFromString("0.08")},
			},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRow(ctx, shopSvc.Slug, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestServicePutTiersReplacesListAndSetup(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateRow(ctx, shopSvc.Slug, CreateRowInput{
		Attrs:    map[string]string{"Sides": "Single Sided"},
		RuleKind: enums.RuleKindTiers,
		Tiers:    []TierInput{{Qty: 100, Unit: decimal.RequireFromString("0.20")}},
	})
	require.NoError(t, err)

	setup := decimal.RequireFromString("15")
	updated, err := svc.PutTiers(ctx, created.ID, PutTiersInput{
		Tiers: []TierInput{
			{Qty: 250, Unit: decimal.RequireFromString("0.12")},
			{Qty: 500, Unit: decimal.RequireFromString("0.09")},
		},
		Setup: &setup,
	})
	require.NoError(t, err)
	require.Len(t, updated.Tiers, 2)
	assert.Equal(t, 250, updated.Tiers[0].Qty)
	require.NotNil(t, updated.Setup)
	assert.True(t, updated.Setup.Equal(setup))
}

func TestServicePutTiersRejectsNonTiersRow(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	unit := decimal.RequireFromString("0.15")
	created, err := svc.CreateRow(ctx, shopSvc.Slug, CreateRowInput{
		Attrs:    map[string]string{"Sides": "Single Sided"},
		RuleKind: enums.RuleKindPerUnit,
		Unit:     &unit,
	})
	require.NoError(t, err)

	_, err = svc.PutTiers(ctx, created.ID, PutTiersInput{
		Tiers: []TierInput{{Qty: 100, Unit: decimal.RequireFromString("0.10")}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceDeleteRowRemovesTiers(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateRow(ctx, shopSvc.Slug, CreateRowInput{
		Attrs:    map[string]string{"Sides": "Single Sided"},
		RuleKind: enums.RuleKindTiers,
		Tiers:    []TierInput{{Qty: 100, Unit: decimal.RequireFromString("0.20")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRow(ctx, created.ID))

	var tierCount int64
	require.NoError(t, conn.Table("price_tiers").Where("price_row_id = ?", created.ID).Count(&tierCount).Error)
	assert.Zero(t, tierCount)

	rows, err := svc.ListRows(ctx, shopSvc.Slug, true)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestServiceModifierLifecycle(t *testing.T) {
	conn := setupRulesTestDB(t)
	shopSvc := mustCreateTestService(t, conn)
	svc := newTestService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateModifier(ctx, shopSvc.Slug, CreateModifierInput{
		AttrName:  "Lamination",
		AttrValue: "Gloss",
		Kind:      enums.ModifierKindAdd,
		Amount:    decimal.RequireFromString("0.02"),
	})
	require.NoError(t, err)
	assert.Equal(t, "add", created.Kind)

	_, err = svc.CreateModifier(ctx, shopSvc.Slug, CreateModifierInput{
		AttrName:  "Lamination",
		AttrValue: "Gloss",
		Kind:      enums.ModifierKindAdd,
		Amount:    decimal.RequireFromString("0.05"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	perOrder := true
	updated, err := svc.UpdateModifier(ctx, created.ID, UpdateModifierInput{PerOrder: &perOrder})
	require.NoError(t, err)
	assert.True(t, updated.PerOrder)

	require.NoError(t, svc.DeleteModifier(ctx, created.ID))

	mods, err := svc.ListModifiers(ctx, shopSvc.Slug, true)
	require.NoError(t, err)
	assert.Empty(t, mods)
}

func TestServiceUnknownServiceSlug(t *testing.T) {
	conn := setupRulesTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.ListRows(context.Background(), "missing-service", false)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
