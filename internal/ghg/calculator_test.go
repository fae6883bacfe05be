package ghg

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestResolveFactor(t *testing.T) {
	table := DefaultFactorTable()

	tests := []struct {
		name string
		sel  Selection
		want float64
	}{
		{
			name: "scope 1 stationary",
			sel:  Selection{Scope: ScopeOne, Category: "Stationary", FuelCategory: "Gaseous Fuels", FuelType: "Compressed Natural Gas"},
			want: 0.44327,
		},
		{
			name: "scope 1 mobile",
			sel:  Selection{Scope: ScopeOne, Category: "Mobile", FuelCategory: "Liquid Fuels", FuelType: "Biodiesel ME"},
			want: 2.39,
		},
		{
			name: "fugitive gas uses GWP",
			sel:  Selection{Scope: ScopeOne, Category: "Fugitive", FuelCategory: "Gas", FuelType: "Sulphur hexafluoride (SF6)"},
			want: 22800,
		},
		{
			name: "scope 2 ignores category",
			sel:  Selection{Scope: ScopeTwo, Category: "Stationary", FuelCategory: "Electricity", FuelType: "Grid Average"},
			want: 0.385,
		},
		{
			name: "unknown fuel",
			sel:  Selection{Scope: ScopeOne, Category: "Stationary", FuelCategory: "Gaseous Fuels", FuelType: "Unobtainium"},
			want: 0,
		},
		{
			name: "unknown scope",
			sel:  Selection{Scope: "Scope 3", FuelCategory: "Electricity", FuelType: "Grid Average"},
			want: 0,
		},
		{
			name: "missing category",
			sel:  Selection{Scope: ScopeOne, FuelCategory: "Gaseous Fuels", FuelType: "Natural Gas"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFactor(table, tt.sel))
		})
	}
}

func TestCalculate_ScenarioA(t *testing.T) {
	sel := Selection{
		Scope:        ScopeOne,
		Category:     "Stationary",
		FuelCategory: "Gaseous Fuels",
		FuelType:     "Compressed Natural Gas",
		Amount:       100,
		Unit:         "kg",
	}

	entry, err := Calculate(sel, DefaultFactorTable(), DefaultUnitTable(), fixedNow)
	require.NoError(t, err)

	assert.InDelta(t, 44.327, entry.Emissions, 1e-9)
	assert.Equal(t, 0.44327, entry.BaseFactor)
	assert.Equal(t, 0.44327, entry.ConvertedFactor)
	assert.Equal(t, "kg", entry.UnitType)
	assert.Equal(t, fixedNow, entry.Timestamp)
	assert.NotEmpty(t, entry.ID.String())
}

func TestCalculate_ExactProduct(t *testing.T) {
	table := DefaultFactorTable()
	units := DefaultUnitTable()

	for _, unit := range units.Names() {
		for _, amount := range []float64{0.001, 1, 12.5, 100, 98765.4321} {
			sel := Selection{
				Scope:        ScopeOne,
				Category:     "Mobile",
				FuelCategory: "Liquid Fuels",
				FuelType:     "Diesel (100% mineral diesel)",
				Amount:       amount,
				Unit:         unit,
			}
			entry, err := Calculate(sel, table, units, fixedNow)
			require.NoError(t, err)

			f := 2.626
			m := units.Multiplier(unit)
			assert.Equal(t, f*m, entry.ConvertedFactor, unit)
			assert.Equal(t, amount*(f*m), entry.Emissions, unit)
		}
	}
}

func TestCalculate_UnitConversion(t *testing.T) {
	sel := Selection{Scope: ScopeTwo, FuelCategory: "Electricity", FuelType: "Grid Average", Amount: 2, Unit: "tons"}

	entry, err := Calculate(sel, DefaultFactorTable(), DefaultUnitTable(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 0.385*1000, entry.ConvertedFactor)
	assert.InDelta(t, 770, entry.Emissions, 1e-9)
	assert.Equal(t, "", entry.Category)
}

func TestCalculate_UnknownUnitDefaultsToOne(t *testing.T) {
	sel := Selection{Scope: ScopeTwo, FuelCategory: "Heat", FuelType: "Steam", Amount: 10, Unit: "barrels"}

	entry, err := Calculate(sel, DefaultFactorTable(), DefaultUnitTable(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 0.20, entry.ConvertedFactor)
}

func TestCalculate_InvalidAmount(t *testing.T) {
	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		sel := DefaultSelection(DefaultFactorTable(), ScopeOne)
		sel.Amount = amount

		_, err := Calculate(sel, DefaultFactorTable(), DefaultUnitTable(), fixedNow)
		assert.True(t, errors.Is(err, ErrInvalidAmount), "amount %v", amount)
	}
}

func TestCalculate_LookupMissIsInvalidFactor(t *testing.T) {
	sel := Selection{Scope: ScopeOne, Category: "Stationary", FuelCategory: "Gaseous Fuels", FuelType: "Biomass Pellets", Amount: 5, Unit: "kg"}

	_, err := Calculate(sel, DefaultFactorTable(), DefaultUnitTable(), fixedNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFactor))
	assert.False(t, errors.Is(err, ErrInvalidAmount))
}

func TestCalculate_DropsEquipmentOutsideScopeOne(t *testing.T) {
	sel := Selection{Scope: ScopeTwo, EquipmentType: "Boilers", FuelCategory: "Electricity", FuelType: "Coal Power", Amount: 1, Unit: "kWh"}

	entry, err := Calculate(sel, DefaultFactorTable(), DefaultUnitTable(), fixedNow)
	require.NoError(t, err)
	assert.Empty(t, entry.EquipmentType)

	sel = Selection{Scope: ScopeOne, Category: "Stationary", EquipmentType: "Boilers", FuelCategory: "Solid Fuels", FuelType: "Coking Coal", Amount: 1, Unit: "tons"}
	entry, err = Calculate(sel, DefaultFactorTable(), DefaultUnitTable(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Boilers", entry.EquipmentType)
}
