package ghg

import "strings"

// DefaultSelection returns the initial selection for scope.
func DefaultSelection(table *FactorTable, scope string) Selection {
	sel := Selection{Scope: scope, Unit: BaseUnit}
	sel.Category = first(table.Categories(scope))
	sel.FuelCategory = first(table.FuelCategories(scope, sel.Category))
	sel.FuelType = first(table.FuelTypes(sel.Path()))
	return sel
}

// Cascade derives a consistent selection from an update. Fields below a
// changed level fall back to the first available option unless the update
// itself set them to something valid.
func Cascade(table *FactorTable, prev, next Selection) Selection {
	out := next

	scopes := table.ScopeNames()
	if !contains(scopes, out.Scope) {
		out.Scope = first(scopes)
	}
	scopeChanged := out.Scope != prev.Scope

	if out.Scope == ScopeOne {
		cats := table.Categories(out.Scope)
		if (scopeChanged && next.Category == prev.Category) || !contains(cats, out.Category) {
			out.Category = first(cats)
		}
	} else {
		out.Category = ""
	}
	categoryChanged := scopeChanged || out.Category != prev.Category

	// Equipment is descriptive free text; the built-in list only seeds the picker.
	out.EquipmentType = strings.TrimSpace(out.EquipmentType)
	if out.Scope != ScopeOne {
		out.EquipmentType = ""
	} else if categoryChanged && next.EquipmentType == prev.EquipmentType {
		out.EquipmentType = ""
	}

	fuelCats := table.FuelCategories(out.Scope, out.Category)
	if !contains(fuelCats, out.FuelCategory) || (categoryChanged && next.FuelCategory == prev.FuelCategory && scopeChanged) {
		out.FuelCategory = first(fuelCats)
	}
	fuelCategoryChanged := categoryChanged || out.FuelCategory != prev.FuelCategory

	fuels := table.FuelTypes(out.Path())
	if !contains(fuels, out.FuelType) || (fuelCategoryChanged && next.FuelType == prev.FuelType) {
		out.FuelType = first(fuels)
	}

	if out.Unit == "" {
		out.Unit = BaseUnit
	}
	if out.Amount < 0 {
		out.Amount = 0
	}
	return out
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
