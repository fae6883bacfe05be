package ghg

// GroupTotal is one row of a breakdown.
type GroupTotal struct {
	Key            string  `json:"key"`
	TotalEmissions float64 `json:"totalEmissions"`
	TotalTonnes    float64 `json:"totalTonnes"`
	Count          int     `json:"count"`
	TotalAmount    float64 `json:"totalAmount"`
	Percentage     float64 `json:"percentage"`
}

// FuelBreakdown is a per-fuel-type row that also records where the fuel
// sits in the factor table.
type FuelBreakdown struct {
	GroupTotal
	Scope        string `json:"scope"`
	Category     string `json:"category"`
	FuelCategory string `json:"fuelCategory"`
}

// Summary is the aggregate view of a ledger.
type Summary struct {
	TotalEmissions float64         `json:"totalEmissions"`
	TotalTonnes    float64         `json:"totalTonnes"`
	EntryCount     int             `json:"entryCount"`
	ByScope        []GroupTotal    `json:"byScope"`
	ByCategory     []GroupTotal    `json:"byCategory"`
	ByFuelType     []FuelBreakdown `json:"byFuelType"`
	ByUnit         []GroupTotal    `json:"byUnit"`
}

// Scope returns the totals for scope.
func (s Summary) Scope(scope string) GroupTotal {
	for _, g := range s.ByScope {
		if g.Key == scope {
			return g
		}
	}
	return GroupTotal{Key: scope}
}

// Percentage returns part as a percentage of total, or 0 when total is 0.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// Aggregate computes totals and breakdowns. Groups keep first-seen order;
// both scopes are always present.
func Aggregate(entries []EmissionEntry) Summary {
	var sum Summary
	sum.EntryCount = len(entries)

	scopes := newGrouper()
	scopes.touch(ScopeOne)
	scopes.touch(ScopeTwo)
	categories := newGrouper()
	units := newGrouper()
	fuels := newGrouper()
	fuelMeta := make(map[string]FuelBreakdown)

	for _, e := range entries {
		sum.TotalEmissions += e.Emissions

		scopes.add(e.Scope, e)
		units.add(e.UnitType, e)
		if e.Category != "" {
			categories.add(e.Category, e)
		} else {
			categories.add(e.Scope, e)
		}
		fuels.add(e.FuelType, e)
		if _, ok := fuelMeta[e.FuelType]; !ok {
			fuelMeta[e.FuelType] = FuelBreakdown{Scope: e.Scope, Category: e.Category, FuelCategory: e.FuelCategory}
		}
	}
	sum.TotalTonnes = sum.TotalEmissions / 1000

	sum.ByScope = scopes.totals(sum.TotalEmissions)
	sum.ByCategory = categories.totals(sum.TotalEmissions)
	sum.ByUnit = units.totals(sum.TotalEmissions)
	for _, g := range fuels.totals(sum.TotalEmissions) {
		fb := fuelMeta[g.Key]
		fb.GroupTotal = g
		sum.ByFuelType = append(sum.ByFuelType, fb)
	}
	return sum
}

type grouper struct {
	order []string
	index map[string]*GroupTotal
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]*GroupTotal)}
}

func (g *grouper) touch(key string) *GroupTotal {
	if t, ok := g.index[key]; ok {
		return t
	}
	t := &GroupTotal{Key: key}
	g.index[key] = t
	g.order = append(g.order, key)
	return t
}

func (g *grouper) add(key string, e EmissionEntry) {
	t := g.touch(key)
	t.TotalEmissions += e.Emissions
	t.TotalAmount += e.Amount
	t.Count++
}

func (g *grouper) totals(total float64) []GroupTotal {
	out := make([]GroupTotal, 0, len(g.order))
	for _, key := range g.order {
		t := *g.index[key]
		t.TotalTonnes = t.TotalEmissions / 1000
		t.Percentage = Percentage(t.TotalEmissions, total)
		out = append(out, t)
	}
	return out
}
