package ghg

import (
	"fmt"
	"strings"
)

var (
	boundaryOptions    = []string{BoundaryControl, BoundaryEquityShare}
	controlOptions     = []string{ControlOperational, ControlFinancial}
	operationalOptions = []string{OperationalFacility, OperationalCorporate, OperationalProduct}
	sourceOptions      = []string{SourceScopeOne, SourceScopeTwo}
)

// QuestionnaireOptions lists the accepted answers per field.
func QuestionnaireOptions() map[string][]string {
	return map[string][]string{
		"boundaryApproach":    append([]string(nil), boundaryOptions...),
		"controlSubtype":      append([]string(nil), controlOptions...),
		"operationalBoundary": append([]string(nil), operationalOptions...),
		"emissionSources":     append([]string(nil), sourceOptions...),
	}
}

// ValidateQuestionnaire checks every field and returns all problems found.
// An empty result means the questionnaire is valid.
func ValidateQuestionnaire(q Questionnaire) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(q.OrgName) == "" {
		errs = append(errs, ValidationError{Field: "orgName", Message: "Organization name is required", Code: CodeRequired})
	}

	switch {
	case q.BoundaryApproach == "":
		errs = append(errs, ValidationError{Field: "boundaryApproach", Message: "Organizational boundary is required", Code: CodeRequired})
	case !contains(boundaryOptions, q.BoundaryApproach):
		errs = append(errs, invalidOption("boundaryApproach", q.BoundaryApproach))
	case q.BoundaryApproach == BoundaryControl:
		if q.ControlSubtype == "" {
			errs = append(errs, ValidationError{Field: "controlSubtype", Message: "Control Approach type is required", Code: CodeRequired})
		} else if !contains(controlOptions, q.ControlSubtype) {
			errs = append(errs, invalidOption("controlSubtype", q.ControlSubtype))
		}
	}

	if q.OperationalBoundary == "" {
		errs = append(errs, ValidationError{Field: "operationalBoundary", Message: "Operational Boundary is required", Code: CodeRequired})
	} else if !contains(operationalOptions, q.OperationalBoundary) {
		errs = append(errs, invalidOption("operationalBoundary", q.OperationalBoundary))
	}

	if q.EmissionSources == "" {
		errs = append(errs, ValidationError{Field: "emissionSources", Message: "Emission sources must be selected", Code: CodeRequired})
	} else if !contains(sourceOptions, q.EmissionSources) {
		errs = append(errs, invalidOption("emissionSources", q.EmissionSources))
	}

	return errs
}

func invalidOption(field, value string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%q is not a recognised option", value),
		Code:    CodeInvalidOption,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
