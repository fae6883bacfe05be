package ghg

import (
	"math"
	"strings"
	"time"
)

// AddCustomFactor returns a copy of table with a custom fuel added at p.
// The input table is never modified.
func AddCustomFactor(table *FactorTable, p Path, name string, factor float64, now time.Time) (*FactorTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fieldError(ErrInvalidName, "name")
	}
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fieldError(ErrInvalidCustomFactor, "factor")
	}
	if !table.HasPath(p) {
		return nil, fieldError(ErrLookupMiss, "fuelCategory")
	}
	if _, ok := table.Lookup(p, name); ok {
		return nil, fieldError(ErrDuplicateFactor, "name")
	}

	out := table.Clone()
	node := out.node(p)
	added := now
	node.Fuels = append(node.Fuels, FuelFactor{Name: name, Factor: factor, Custom: true, AddedAt: &added})
	return out, nil
}

// DeleteCustomFactor returns a copy of table without the custom fuel name
// at p. Built-in fuels cannot be removed.
func DeleteCustomFactor(table *FactorTable, p Path, name string) (*FactorTable, error) {
	name = strings.TrimSpace(name)
	f, ok := table.Lookup(p, name)
	if !ok {
		return nil, fieldError(ErrLookupMiss, "name")
	}
	if !f.Custom {
		return nil, fieldError(ErrBuiltInFactor, "name")
	}

	out := table.Clone()
	node := out.node(p)
	i, _ := node.fuel(name)
	node.Fuels = append(node.Fuels[:i], node.Fuels[i+1:]...)
	return out, nil
}

// MergeCustomFactors overlays the custom leaves of saved onto a copy of
// defaults. Built-in leaves in saved are ignored so updated defaults win.
func MergeCustomFactors(saved, defaults *FactorTable) *FactorTable {
	out := defaults.Clone()
	for _, cf := range saved.CustomFactors() {
		node := out.ensureNode(cf.Path)
		f := cf.FuelFactor
		if f.AddedAt != nil {
			at := *f.AddedAt
			f.AddedAt = &at
		}
		if i, existing := node.fuel(f.Name); existing != nil {
			node.Fuels[i] = f
			continue
		}
		node.Fuels = append(node.Fuels, f)
	}
	return out
}
