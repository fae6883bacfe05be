package ghg

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stationaryGas = NewPath(ScopeOne, "Stationary", "Gaseous Fuels")

func TestAddCustomFactor_ScenarioB(t *testing.T) {
	base := DefaultFactorTable()

	table, err := AddCustomFactor(base, stationaryGas, "  Biomass Pellets ", 1.8, fixedNow)
	require.NoError(t, err)

	f, ok := table.Lookup(stationaryGas, "Biomass Pellets")
	require.True(t, ok)
	assert.True(t, f.Custom)
	assert.Equal(t, 1.8, f.Factor)
	require.NotNil(t, f.AddedAt)
	assert.Equal(t, fixedNow, *f.AddedAt)

	fuels := table.FuelTypes(stationaryGas)
	assert.Equal(t, "Biomass Pellets", fuels[len(fuels)-1])

	sel := Selection{Scope: ScopeOne, Category: "Stationary", FuelCategory: "Gaseous Fuels", FuelType: "Biomass Pellets", Amount: 50, Unit: "kg"}
	entry, err := Calculate(sel, table, DefaultUnitTable(), fixedNow)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, entry.Emissions, 1e-9)
	assert.Equal(t, "Biomass Pellets", entry.FuelType)

	_, ok = base.Lookup(stationaryGas, "Biomass Pellets")
	assert.False(t, ok, "input table must not change")
}

func TestAddCustomFactor_Rejects(t *testing.T) {
	base := DefaultFactorTable()

	tests := []struct {
		name   string
		path   Path
		fuel   string
		factor float64
		want   error
	}{
		{"empty name", stationaryGas, "   ", 1, ErrInvalidName},
		{"zero factor", stationaryGas, "X", 0, ErrInvalidCustomFactor},
		{"negative factor", stationaryGas, "X", -2, ErrInvalidCustomFactor},
		{"NaN factor", stationaryGas, "X", math.NaN(), ErrInvalidCustomFactor},
		{"infinite factor", stationaryGas, "X", math.Inf(1), ErrInvalidCustomFactor},
		{"duplicate built-in", stationaryGas, "Natural Gas", 2, ErrDuplicateFactor},
		{"unknown path", NewPath(ScopeOne, "Stationary", "Plasma"), "X", 2, ErrLookupMiss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := AddCustomFactor(base, tt.path, tt.fuel, tt.factor, fixedNow)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := AddCustomFactor(base, stationaryGas, "X", -1, fixedNow)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "factor", ve.Field)
	assert.Equal(t, CodeInvalidCustomFactor, ve.Code)
	assert.False(t, errors.Is(err, ErrInvalidName))

	assert.Equal(t, DefaultFactorTable(), base)
}

func TestAddCustomFactor_DuplicateCustom(t *testing.T) {
	table, err := AddCustomFactor(DefaultFactorTable(), stationaryGas, "Biogas", 0.2, fixedNow)
	require.NoError(t, err)

	_, err = AddCustomFactor(table, stationaryGas, "Biogas", 0.3, fixedNow)
	assert.True(t, errors.Is(err, ErrDuplicateFactor))

	// The same name is allowed under a different path.
	_, err = AddCustomFactor(table, NewPath(ScopeOne, "Mobile", "Gaseous Fuels"), "Biogas", 0.3, fixedNow)
	assert.NoError(t, err)
}

func TestDeleteCustomFactor_ScenarioC(t *testing.T) {
	withCustom, err := AddCustomFactor(DefaultFactorTable(), stationaryGas, "Biomass Pellets", 1.8, fixedNow)
	require.NoError(t, err)

	table, err := DeleteCustomFactor(withCustom, stationaryGas, "Biomass Pellets")
	require.NoError(t, err)

	assert.NotContains(t, table.FuelTypes(stationaryGas), "Biomass Pellets")
	_, ok := table.Lookup(stationaryGas, "Biomass Pellets")
	assert.False(t, ok)

	sel := Selection{Scope: ScopeOne, Category: "Stationary", FuelCategory: "Gaseous Fuels", FuelType: "Biomass Pellets"}
	assert.Equal(t, 0.0, ResolveFactor(table, sel))

	_, ok = withCustom.Lookup(stationaryGas, "Biomass Pellets")
	assert.True(t, ok, "input table must not change")
}

func TestDeleteCustomFactor_TrimsName(t *testing.T) {
	withCustom, err := AddCustomFactor(DefaultFactorTable(), stationaryGas, " Biomass Pellets ", 1.8, fixedNow)
	require.NoError(t, err)

	table, err := DeleteCustomFactor(withCustom, stationaryGas, " Biomass Pellets ")
	require.NoError(t, err)
	assert.NotContains(t, table.FuelTypes(stationaryGas), "Biomass Pellets")
}

func TestDeleteCustomFactor_Rejects(t *testing.T) {
	table := DefaultFactorTable()

	_, err := DeleteCustomFactor(table, stationaryGas, "Natural Gas")
	assert.True(t, errors.Is(err, ErrBuiltInFactor))

	_, err = DeleteCustomFactor(table, stationaryGas, "Nope")
	assert.True(t, errors.Is(err, ErrLookupMiss))

	assert.Contains(t, table.FuelTypes(stationaryGas), "Natural Gas")
}

func TestMergeCustomFactors(t *testing.T) {
	saved, err := AddCustomFactor(DefaultFactorTable(), stationaryGas, "Biogas", 0.2, fixedNow)
	require.NoError(t, err)
	saved, err = AddCustomFactor(saved, NewPath(ScopeTwo, "", "Electricity"), "Solar PPA", 0.01, fixedNow)
	require.NoError(t, err)

	// Stored built-in values are stale and must not survive the merge.
	saved.node(stationaryGas).Fuels[0].Factor = 123

	// A custom leaf under a category the defaults no longer have.
	legacy := saved.ensureNode(NewPath(ScopeOne, "Process", "Cement"))
	legacy.Fuels = append(legacy.Fuels, FuelFactor{Name: "Clinker", Factor: 0.5, Custom: true})

	defaults := DefaultFactorTable()
	defaults.node(stationaryGas).Fuels = append(defaults.node(stationaryGas).Fuels, FuelFactor{Name: "Hydrogen Blend", Factor: 0.1})

	merged := MergeCustomFactors(saved, defaults)

	f, ok := merged.Lookup(stationaryGas, "Compressed Natural Gas")
	require.True(t, ok)
	assert.Equal(t, 0.44327, f.Factor)

	_, ok = merged.Lookup(stationaryGas, "Hydrogen Blend")
	assert.True(t, ok, "new defaults are picked up")

	f, ok = merged.Lookup(stationaryGas, "Biogas")
	require.True(t, ok)
	assert.True(t, f.Custom)

	f, ok = merged.Lookup(NewPath(ScopeTwo, "", "Electricity"), "Solar PPA")
	require.True(t, ok)
	assert.Equal(t, 0.01, f.Factor)

	f, ok = merged.Lookup(NewPath(ScopeOne, "Process", "Cement"), "Clinker")
	require.True(t, ok)
	assert.Equal(t, 0.5, f.Factor)

	assert.Len(t, merged.CustomFactors(), 3)
	assert.Len(t, defaults.CustomFactors(), 0, "defaults must not change")
}

func TestMergeCustomFactors_EmptySaved(t *testing.T) {
	merged := MergeCustomFactors(&FactorTable{}, DefaultFactorTable())
	assert.Equal(t, DefaultFactorTable(), merged)

	merged = MergeCustomFactors(nil, DefaultFactorTable())
	assert.Equal(t, DefaultFactorTable(), merged)
}
