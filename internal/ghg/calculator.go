package ghg

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ResolveFactor returns the base factor for the selection, or 0 when any
// path segment is missing.
func ResolveFactor(table *FactorTable, sel Selection) float64 {
	f, ok := table.Lookup(sel.Path(), sel.FuelType)
	if !ok {
		return 0
	}
	return f.Factor
}

// Calculate converts the selection into a ledger entry.
func Calculate(sel Selection, table *FactorTable, units *UnitTable, now time.Time) (EmissionEntry, error) {
	if !(sel.Amount > 0) || math.IsInf(sel.Amount, 0) {
		return EmissionEntry{}, fieldError(ErrInvalidAmount, "amount")
	}

	base := ResolveFactor(table, sel)
	if !(base > 0) {
		return EmissionEntry{}, fieldError(ErrInvalidFactor, "fuelType")
	}

	converted := base * units.Multiplier(sel.Unit)
	p := sel.Path()
	equipment := sel.EquipmentType
	if p.Scope != ScopeOne {
		equipment = ""
	}

	return EmissionEntry{
		ID:              uuid.New(),
		Scope:           p.Scope,
		Category:        p.Category,
		EquipmentType:   equipment,
		FuelCategory:    p.FuelCategory,
		FuelType:        sel.FuelType,
		Amount:          sel.Amount,
		UnitType:        sel.Unit,
		BaseFactor:      base,
		ConvertedFactor: converted,
		Emissions:       sel.Amount * converted,
		Timestamp:       now,
	}, nil
}
