package ghg

import (
	"time"

	"github.com/google/uuid"
)

// Scope names used as the first level of the factor table.
const (
	ScopeOne = "Scope 1"
	ScopeTwo = "Scope 2"
)

// Step tracks where a user is in the assessment flow.
type Step string

const (
	StepQuestionnaire Step = "questionnaire"
	StepCalculator    Step = "calculator"
	StepResults       Step = "results"
)

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepQuestionnaire, StepCalculator, StepResults:
		return true
	}
	return false
}

// Questionnaire options.
const (
	BoundaryControl     = "Control Approach"
	BoundaryEquityShare = "Equity Share Approach"

	ControlOperational = "Operational"
	ControlFinancial   = "Financial"

	OperationalFacility  = "Facility-level"
	OperationalCorporate = "Corporate-level"
	OperationalProduct   = "Product-level"

	SourceScopeOne = "Scope 1 (direct emissions)"
	SourceScopeTwo = "Scope 2 (indirect emissions)"
)

// Questionnaire holds the organisational boundary answers.
type Questionnaire struct {
	OrgName             string     `json:"orgName"`
	BoundaryApproach    string     `json:"boundaryApproach"`
	ControlSubtype      string     `json:"controlSubtype"`
	OperationalBoundary string     `json:"operationalBoundary"`
	EmissionSources     string     `json:"emissionSources"`
	Timestamp           *time.Time `json:"timestamp,omitempty"`
}

// Submitted reports whether the questionnaire has been accepted.
func (q Questionnaire) Submitted() bool {
	return q.Timestamp != nil
}

// Selection is the live set of calculator inputs.
type Selection struct {
	Scope         string  `json:"scope"`
	Category      string  `json:"category"`
	EquipmentType string  `json:"equipmentType"`
	FuelCategory  string  `json:"fuelCategory"`
	FuelType      string  `json:"fuelType"`
	Amount        float64 `json:"amount"`
	Unit          string  `json:"unit"`
}

// Path returns the factor table path addressed by the selection.
func (s Selection) Path() Path {
	return NewPath(s.Scope, s.Category, s.FuelCategory)
}

// Path addresses a fuel category inside the factor table. Category is
// always empty outside Scope 1.
type Path struct {
	Scope        string `json:"scope"`
	Category     string `json:"category"`
	FuelCategory string `json:"fuelCategory"`
}

// NewPath builds a normalised path.
func NewPath(scope, category, fuelCategory string) Path {
	if scope != ScopeOne {
		category = ""
	}
	return Path{Scope: scope, Category: category, FuelCategory: fuelCategory}
}

// EmissionEntry is one immutable calculation result in the ledger.
type EmissionEntry struct {
	ID              uuid.UUID `json:"id"`
	Scope           string    `json:"scope"`
	Category        string    `json:"category"`
	EquipmentType   string    `json:"equipmentType"`
	FuelCategory    string    `json:"fuelCategory"`
	FuelType        string    `json:"fuelType"`
	Amount          float64   `json:"amount"`
	UnitType        string    `json:"unitType"`
	BaseFactor      float64   `json:"baseFactor"`
	ConvertedFactor float64   `json:"convertedFactor"`
	Emissions       float64   `json:"emissions"`
	Timestamp       time.Time `json:"timestamp"`
}

// Tonnes returns the entry's emissions in tonnes CO2e.
func (e EmissionEntry) Tonnes() float64 {
	return e.Emissions / 1000
}

// State is everything the engine knows about one user.
type State struct {
	Questionnaire Questionnaire     `json:"questionnaire"`
	Entries       []EmissionEntry   `json:"entries"`
	Factors       *FactorTable      `json:"-"`
	Selection     Selection         `json:"selection"`
	Step          Step              `json:"currentStep"`
	Errors        []ValidationError `json:"errors"`
	Revision      uint64            `json:"revision"`
}

// Snapshot is a read-only copy of a user's state plus derived totals.
type Snapshot struct {
	UserID        string            `json:"userId"`
	Questionnaire Questionnaire     `json:"questionnaire"`
	Entries       []EmissionEntry   `json:"entries"`
	Factors       *FactorTable      `json:"-"`
	Selection     Selection         `json:"selection"`
	Step          Step              `json:"currentStep"`
	Errors        []ValidationError `json:"errors"`
	Summary       Summary           `json:"summary"`
	Revision      uint64            `json:"revision"`
}
