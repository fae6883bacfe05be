package ghg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFactorTable_Shape(t *testing.T) {
	table := DefaultFactorTable()

	assert.Equal(t, []string{ScopeOne, ScopeTwo}, table.ScopeNames())
	assert.Equal(t, []string{"Stationary", "Mobile", "Fugitive"}, table.Categories(ScopeOne))
	assert.Nil(t, table.Categories(ScopeTwo))
	assert.Equal(t, []string{"Gaseous Fuels", "Liquid Fuels", "Solid Fuels"}, table.FuelCategories(ScopeOne, "Stationary"))
	assert.Equal(t, []string{"Gaseous Fuels", "Liquid Fuels"}, table.FuelCategories(ScopeOne, "Mobile"))
	assert.Equal(t, []string{"Electricity", "Heat"}, table.FuelCategories(ScopeTwo, ""))
	assert.Equal(t, "Compressed Natural Gas", table.FuelTypes(NewPath(ScopeOne, "Stationary", "Gaseous Fuels"))[0])
	assert.Len(t, table.FuelTypes(NewPath(ScopeOne, "Fugitive", "Gas")), 87)
}

func TestDefaultFactorTable_EveryLeafNonNegativeAndBuiltIn(t *testing.T) {
	table := DefaultFactorTable()

	leaves := 0
	for _, s := range table.Scopes {
		for _, c := range s.Categories {
			for _, fc := range c.FuelCategories {
				seen := map[string]bool{}
				for _, f := range fc.Fuels {
					leaves++
					assert.GreaterOrEqual(t, f.Factor, 0.0, f.Name)
					assert.False(t, f.Custom, f.Name)
					assert.Nil(t, f.AddedAt, f.Name)
					assert.False(t, seen[f.Name], "duplicate %s", f.Name)
					seen[f.Name] = true
				}
			}
		}
	}
	assert.Greater(t, leaves, 100)
	assert.Empty(t, table.CustomFactors())
}

func TestDefaultFactorTable_FreshCopies(t *testing.T) {
	a := DefaultFactorTable()
	a.Scopes[0].Categories[0].FuelCategories[0].Fuels[0].Factor = 99

	b := DefaultFactorTable()
	assert.Equal(t, 0.44327, b.Scopes[0].Categories[0].FuelCategories[0].Fuels[0].Factor)
}

func TestFactorTable_LookupNormalisesScopeTwoCategory(t *testing.T) {
	table := DefaultFactorTable()

	f, ok := table.Lookup(Path{Scope: ScopeTwo, Category: "Mobile", FuelCategory: "Heat"}, "District Heating")
	require.True(t, ok)
	assert.Equal(t, 0.28, f.Factor)
}

func TestFactorTable_Clone(t *testing.T) {
	table, err := AddCustomFactor(DefaultFactorTable(), NewPath(ScopeTwo, "", "Heat"), "Geothermal", 0.01, fixedNow)
	require.NoError(t, err)

	clone := table.Clone()
	assert.Equal(t, table, clone)

	node := clone.node(NewPath(ScopeTwo, "", "Heat"))
	*node.Fuels[len(node.Fuels)-1].AddedAt = fixedNow.AddDate(1, 0, 0)
	node.Fuels[0].Factor = 5

	orig, _ := table.Lookup(NewPath(ScopeTwo, "", "Heat"), "Geothermal")
	assert.Equal(t, fixedNow, *orig.AddedAt)
	steam, _ := table.Lookup(NewPath(ScopeTwo, "", "Heat"), "District Heating")
	assert.Equal(t, 0.28, steam.Factor)
}

func TestUnitTable(t *testing.T) {
	units := DefaultUnitTable()

	assert.Equal(t, []string{"kg", "liters", "m³", "kWh", "MJ", "therms", "mmBtu", "tons", "gallons"}, units.Names())
	assert.Equal(t, 1.0, units.Multiplier(BaseUnit))
	assert.Equal(t, 0.277778, units.Multiplier("MJ"))
	assert.Equal(t, 29.3001, units.Multiplier("therms"))
	assert.Equal(t, 293.071, units.Multiplier("mmBtu"))
	assert.Equal(t, 1000.0, units.Multiplier("tons"))
	assert.Equal(t, 3.78541, units.Multiplier("gallons"))
	assert.Equal(t, 1.0, units.Multiplier("furlongs"))
	assert.False(t, units.Has("furlongs"))

	for _, u := range units.Units() {
		assert.Greater(t, u.Multiplier, 0.0, u.Name)
	}
}

func TestEquipmentTypes(t *testing.T) {
	stationary := EquipmentTypes("Stationary")
	require.NotEmpty(t, stationary)
	assert.Equal(t, "Boilers", stationary[0].Name)
	assert.Equal(t, "Steam and hot water generation systems", stationary[0].Description)

	assert.Len(t, EquipmentTypes("Mobile"), 12)
	assert.Len(t, EquipmentTypes("Fugitive"), 9)
	assert.Empty(t, EquipmentTypes("Electricity"))
}
