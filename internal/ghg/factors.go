package ghg

import (
	"time"
)

// FuelFactor is a single emission factor leaf. Factor is kg CO2e per
// canonical unit, or a global warming potential for fugitive gases.
type FuelFactor struct {
	Name    string     `json:"name"`
	Factor  float64    `json:"factor"`
	Custom  bool       `json:"custom,omitempty"`
	AddedAt *time.Time `json:"addedAt,omitempty"`
}

// FuelCategoryFactors groups fuel factors under a fuel category.
type FuelCategoryFactors struct {
	Name  string       `json:"name"`
	Fuels []FuelFactor `json:"fuels"`
}

// CategoryFactors is a Scope 1 category. Scope 2 has a single category
// with an empty name.
type CategoryFactors struct {
	Name           string                `json:"name"`
	FuelCategories []FuelCategoryFactors `json:"fuelCategories"`
}

// ScopeFactors is the top level of the table.
type ScopeFactors struct {
	Name       string            `json:"name"`
	Categories []CategoryFactors `json:"categories"`
}

// FactorTable is the ordered scope/category/fuel-category/fuel tree.
// Tables are treated as immutable values; mutating operations return a
// modified clone.
type FactorTable struct {
	Scopes []ScopeFactors `json:"scopes"`
}

// Clone returns a deep copy of the table.
func (t *FactorTable) Clone() *FactorTable {
	if t == nil {
		return &FactorTable{}
	}
	out := &FactorTable{Scopes: make([]ScopeFactors, len(t.Scopes))}
	for i, s := range t.Scopes {
		sc := ScopeFactors{Name: s.Name, Categories: make([]CategoryFactors, len(s.Categories))}
		for j, c := range s.Categories {
			cc := CategoryFactors{Name: c.Name, FuelCategories: make([]FuelCategoryFactors, len(c.FuelCategories))}
			for k, fc := range c.FuelCategories {
				fuels := make([]FuelFactor, len(fc.Fuels))
				for n, f := range fc.Fuels {
					if f.AddedAt != nil {
						at := *f.AddedAt
						f.AddedAt = &at
					}
					fuels[n] = f
				}
				cc.FuelCategories[k] = FuelCategoryFactors{Name: fc.Name, Fuels: fuels}
			}
			sc.Categories[j] = cc
		}
		out.Scopes[i] = sc
	}
	return out
}

func (t *FactorTable) scope(name string) *ScopeFactors {
	if t == nil {
		return nil
	}
	for i := range t.Scopes {
		if t.Scopes[i].Name == name {
			return &t.Scopes[i]
		}
	}
	return nil
}

func (s *ScopeFactors) category(name string) *CategoryFactors {
	if s == nil {
		return nil
	}
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			return &s.Categories[i]
		}
	}
	return nil
}

func (c *CategoryFactors) fuelCategory(name string) *FuelCategoryFactors {
	if c == nil {
		return nil
	}
	for i := range c.FuelCategories {
		if c.FuelCategories[i].Name == name {
			return &c.FuelCategories[i]
		}
	}
	return nil
}

func (fc *FuelCategoryFactors) fuel(name string) (int, *FuelFactor) {
	if fc == nil {
		return -1, nil
	}
	for i := range fc.Fuels {
		if fc.Fuels[i].Name == name {
			return i, &fc.Fuels[i]
		}
	}
	return -1, nil
}

func (t *FactorTable) node(p Path) *FuelCategoryFactors {
	p = NewPath(p.Scope, p.Category, p.FuelCategory)
	return t.scope(p.Scope).category(p.Category).fuelCategory(p.FuelCategory)
}

// Lookup returns the factor leaf at path/fuelType.
func (t *FactorTable) Lookup(p Path, fuelType string) (FuelFactor, bool) {
	_, f := t.node(p).fuel(fuelType)
	if f == nil {
		return FuelFactor{}, false
	}
	return *f, true
}

// HasPath reports whether the fuel category at p exists.
func (t *FactorTable) HasPath(p Path) bool {
	return t.node(p) != nil
}

// ScopeNames lists scopes in table order.
func (t *FactorTable) ScopeNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Scopes))
	for _, s := range t.Scopes {
		names = append(names, s.Name)
	}
	return names
}

// Categories lists the categories of a scope. Scopes without a category
// level return nil.
func (t *FactorTable) Categories(scope string) []string {
	if scope != ScopeOne {
		return nil
	}
	s := t.scope(scope)
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		names = append(names, c.Name)
	}
	return names
}

// FuelCategories lists fuel categories under scope/category.
func (t *FactorTable) FuelCategories(scope, category string) []string {
	p := NewPath(scope, category, "")
	c := t.scope(p.Scope).category(p.Category)
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.FuelCategories))
	for _, fc := range c.FuelCategories {
		names = append(names, fc.Name)
	}
	return names
}

// FuelTypes lists the fuels at p.
func (t *FactorTable) FuelTypes(p Path) []string {
	fc := t.node(p)
	if fc == nil {
		return nil
	}
	names := make([]string, 0, len(fc.Fuels))
	for _, f := range fc.Fuels {
		names = append(names, f.Name)
	}
	return names
}

// CustomFactor is a custom leaf together with its location.
type CustomFactor struct {
	Path Path
	FuelFactor
}

// CustomFactors returns every custom leaf in table order.
func (t *FactorTable) CustomFactors() []CustomFactor {
	if t == nil {
		return nil
	}
	var out []CustomFactor
	for _, s := range t.Scopes {
		for _, c := range s.Categories {
			for _, fc := range c.FuelCategories {
				for _, f := range fc.Fuels {
					if f.Custom {
						out = append(out, CustomFactor{Path: NewPath(s.Name, c.Name, fc.Name), FuelFactor: f})
					}
				}
			}
		}
	}
	return out
}

// ensureNode returns the fuel category at p, creating missing levels.
func (t *FactorTable) ensureNode(p Path) *FuelCategoryFactors {
	p = NewPath(p.Scope, p.Category, p.FuelCategory)
	s := t.scope(p.Scope)
	if s == nil {
		t.Scopes = append(t.Scopes, ScopeFactors{Name: p.Scope})
		s = &t.Scopes[len(t.Scopes)-1]
	}
	c := s.category(p.Category)
	if c == nil {
		s.Categories = append(s.Categories, CategoryFactors{Name: p.Category})
		c = &s.Categories[len(s.Categories)-1]
	}
	fc := c.fuelCategory(p.FuelCategory)
	if fc == nil {
		c.FuelCategories = append(c.FuelCategories, FuelCategoryFactors{Name: p.FuelCategory})
		fc = &c.FuelCategories[len(c.FuelCategories)-1]
	}
	return fc
}

type factorRow struct {
	name   string
	factor float64
}

func fuelCategory(name string, rows ...factorRow) FuelCategoryFactors {
	fc := FuelCategoryFactors{Name: name, Fuels: make([]FuelFactor, len(rows))}
	for i, r := range rows {
		fc.Fuels[i] = FuelFactor{Name: r.name, Factor: r.factor}
	}
	return fc
}

// DefaultFactorTable returns a fresh copy of the built-in factors.
func DefaultFactorTable() *FactorTable {
	return &FactorTable{Scopes: []ScopeFactors{
		{
			Name: ScopeOne,
			Categories: []CategoryFactors{
				{
					Name: "Stationary",
					FuelCategories: []FuelCategoryFactors{
						fuelCategory("Gaseous Fuels",
							factorRow{"Compressed Natural Gas", 0.44327},
							factorRow{"Liquefied Natural Gas", 1.15041},
							factorRow{"Liquefied Petroleum Gas", 1.55537},
							factorRow{"Natural Gas", 2.02236},
							factorRow{"Natural Gas (100% mineral blend)", 2.03017},
							factorRow{"Other Petroleum Gas", 0.95279},
						),
						fuelCategory("Liquid Fuels",
							factorRow{"Aviation Spirit", 2.29082},
							factorRow{"Aviation Turbine Fuel", 2.54310},
							factorRow{"Burning Oil", 2.54039},
							factorRow{"Diesel (average biofuel blend)", 2.54603},
							factorRow{"Diesel (100% mineral diesel)", 2.68787},
							factorRow{"Fuel Oil", 3.18317},
							factorRow{"Gas Oil", 2.75776},
							factorRow{"Petrol (Average biofuel blend)", 2.16802},
							factorRow{"Petrol (100% mineral petrol)", 2.31467},
							factorRow{"Marine gas Oils", 2.775},
							factorRow{"Marine Fuel Oil", 3.312204},
						),
						fuelCategory("Solid Fuels",
							factorRow{"Coal (Industrial)", 2380.01},
							factorRow{"Coal (Electricity Generation)", 2222.94},
							factorRow{"Coal (Domestic)", 2833.26},
							factorRow{"Coking Coal", 3222.04},
							factorRow{"Petroleum Coke", 3397.79},
						),
					},
				},
				{
					Name: "Mobile",
					FuelCategories: []FuelCategoryFactors{
						fuelCategory("Gaseous Fuels",
							factorRow{"Compressed Natural Gas (CNG)", 0.448},
							factorRow{"Liquefied Natural Gas (LNG)", 1.166},
							factorRow{"Liquefied Petroleum Gases (LPG)", 1.555},
							factorRow{"Natural gas (100% mineral blend)", 2.050},
						),
						fuelCategory("Liquid Fuels",
							factorRow{"Aviation spirit (Aviation Gasoline)", 2.283},
							factorRow{"Aviation turbine fuel (Jet Fuel)", 2.520},
							factorRow{"Diesel (100% mineral diesel)", 2.626},
							factorRow{"Fuel oil (Residual Fuel Oil)", 3.163},
							factorRow{"Petrol (100% mineral petrol) (Motor Gasoline)", 2.331},
							factorRow{"Bioethanol", 1.52},
							factorRow{"Biodiesel ME", 2.39},
						),
					},
				},
				{
					Name: "Fugitive",
					FuelCategories: []FuelCategoryFactors{
						fuelCategory("Gas", fugitiveGases...),
					},
				},
			},
		},
		{
			Name: ScopeTwo,
			Categories: []CategoryFactors{
				{
					FuelCategories: []FuelCategoryFactors{
						fuelCategory("Electricity",
							factorRow{"Grid Average", 0.385},
							factorRow{"Coal Power", 0.95},
							factorRow{"Natural Gas Power", 0.45},
							factorRow{"Renewable Power", 0.05},
						),
						fuelCategory("Heat",
							factorRow{"District Heating", 0.28},
							factorRow{"Steam", 0.20},
						),
					},
				},
			},
		},
	}}
}

// Global warming potentials for fugitive releases.
var fugitiveGases = []factorRow{
	{"Carbon dioxide", 1},
	{"Methane", 25},
	{"Nitrous oxide", 298},
	{"HFC-23", 14800},
	{"HFC-32", 675},
	{"HFC-41", 92},
	{"HFC-125", 3500},
	{"HFC-134", 1100},
	{"HFC-134a", 1430},
	{"HFC-143", 353},
	{"HFC-143a", 4470},
	{"HFC-152a", 124},
	{"HFC-227ea", 3220},
	{"HFC-236fa", 9810},
	{"HFC-245fa", 1030},
	{"HFC-43-10mee", 1640},
	{"Perfluoromethane (PFC-14)", 7390},
	{"Perfluoroethane (PFC-116)", 12200},
	{"Perfluoropropane (PFC-218)", 8830},
	{"Perfluorocyclobutane (PFC-318)", 10300},
	{"Perfluorobutane (PFC-3-1-10)", 8860},
	{"Perfluoropentane (PFC-4-1-12)", 9160},
	{"Perfluorohexane (PFC-5-1-14)", 9300},
	{"Sulphur hexafluoride (SF6)", 22800},
	{"HFC-152", 53},
	{"HFC-161", 12},
	{"HFC-236cb", 1340},
	{"HFC-236ea", 1370},
	{"HFC-245ca", 693},
	{"HFC-365mfc", 794},
	{"R404A", 3922},
	{"R407A", 2107},
	{"R407C", 1774},
	{"R407F", 1825},
	{"R408A", 3152},
	{"R410A", 2088},
	{"R507A", 3985},
	{"R508B", 13396},
	{"R403A", 3124},
	{"CFC-11/R11 = trichlorofluoromethane", 4750},
	{"CFC-12/R12 = dichlorodifluoromethane", 10900},
	{"CFC-13", 14400},
	{"CFC-113", 6130},
	{"CFC-114", 10000},
	{"CFC-115", 7370},
	{"Halon-1211", 1890},
	{"Halon-1301", 7140},
	{"Halon-2402", 1640},
	{"Carbon tetrachloride", 1400},
	{"Methyl bromide", 5},
	{"Methyl chloroform", 146},
	{"HCFC-22/R22 = chlorodifluoromethane", 1810},
	{"HCFC-123", 77},
	{"HCFC-124", 609},
	{"HCFC-141b", 725},
	{"HCFC-142b", 2310},
	{"HCFC-225ca", 122},
	{"HCFC-225cb", 595},
	{"HCFC-21", 151},
	{"Nitrogen trifluoride", 17200},
	{"PFC-9-1-18", 7500},
	{"Trifluoromethyl sulphur pentafluoride", 17700},
	{"Perfluorocyclopropane", 17340},
	{"HFE-125", 14900},
	{"HFE-134", 6320},
	{"HFE-143a", 756},
	{"HCFE-235da2", 350},
	{"HFE-245cb2", 708},
	{"HFE-245fa2", 659},
	{"HFE-254cb2", 359},
	{"HFE-347mcc3", 575},
	{"HFE-347pcf2", 580},
	{"HFE-356pcc3", 110},
	{"HFE-449sl (HFE-7100)", 297},
	{"HFE-569sf2 (HFE-7200)", 59},
	{"HFE-43-10pccc124 (H-Galden1040x)", 1870},
	{"HFE-236ca12 (HG-10)", 2800},
	{"HFE-338pcc13 (HG-01)", 1500},
	{"PFPMIE", 10300},
	{"Dimethylether", 1},
	{"Methylene chloride", 9},
	{"Methyl chloride", 13},
	{"R290 = propane", 3},
	{"R600A = isobutane", 3},
	{"R406A", 1943},
	{"R409A", 1585},
	{"R502", 4657},
}
