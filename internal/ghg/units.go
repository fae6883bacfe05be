package ghg

// BaseUnit is the unit every multiplier is relative to.
const BaseUnit = "kg"

// UnitConversion is a single unit multiplier.
type UnitConversion struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

// UnitTable maps unit names to multipliers, preserving order.
type UnitTable struct {
	units []UnitConversion
	index map[string]float64
}

// NewUnitTable builds a table from the given conversions.
func NewUnitTable(units ...UnitConversion) *UnitTable {
	t := &UnitTable{index: make(map[string]float64, len(units))}
	for _, u := range units {
		if _, ok := t.index[u.Name]; ok {
			continue
		}
		t.units = append(t.units, u)
		t.index[u.Name] = u.Multiplier
	}
	return t
}

// DefaultUnitTable returns the standard unit multipliers.
func DefaultUnitTable() *UnitTable {
	return NewUnitTable(
		UnitConversion{"kg", 1},
		UnitConversion{"liters", 1},
		UnitConversion{"m³", 1},
		UnitConversion{"kWh", 1},
		UnitConversion{"MJ", 0.277778},
		UnitConversion{"therms", 29.3001},
		UnitConversion{"mmBtu", 293.071},
		UnitConversion{"tons", 1000},
		UnitConversion{"gallons", 3.78541},
	)
}

// Multiplier returns the multiplier for unit, or 1 when the unit is unknown.
func (t *UnitTable) Multiplier(unit string) float64 {
	if t == nil {
		return 1
	}
	if m, ok := t.index[unit]; ok && m > 0 {
		return m
	}
	return 1
}

// Has reports whether unit is in the table.
func (t *UnitTable) Has(unit string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[unit]
	return ok
}

// Units returns the conversions in table order.
func (t *UnitTable) Units() []UnitConversion {
	if t == nil {
		return nil
	}
	out := make([]UnitConversion, len(t.units))
	copy(out, t.units)
	return out
}

// Names returns the unit names in table order.
func (t *UnitTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.units))
	for i, u := range t.units {
		names[i] = u.Name
	}
	return names
}
