package ghg

import (
	"strings"
)

// Error codes carried by ValidationError.
const (
	CodeRequired                = "required"
	CodeInvalidOption           = "invalid_option"
	CodeInvalidAmount           = "invalid_amount"
	CodeInvalidFactor           = "invalid_emission_factor"
	CodeInvalidName             = "invalid_name"
	CodeInvalidCustomFactor     = "invalid_factor"
	CodeDuplicateFactor         = "duplicate_factor"
	CodeBuiltInFactor           = "builtin_factor"
	CodeLookupMiss              = "lookup_miss"
	CodeQuestionnaireIncomplete = "questionnaire_incomplete"
	CodeEntryNotFound           = "entry_not_found"
	CodeInvalidStep             = "invalid_step"
)

// ValidationError is a recoverable, user-facing input error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is matches on Code so sentinels work with errors.Is.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok || t == nil {
		return false
	}
	return t.Code == e.Code
}

// ValidationErrors is a list of field errors returned together.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i := range ve {
		msgs[i] = ve[i].Error()
	}
	return strings.Join(msgs, "; ")
}

// Is reports whether any contained error matches target.
func (ve ValidationErrors) Is(target error) bool {
	for i := range ve {
		if ve[i].Is(target) {
			return true
		}
	}
	return false
}

// Sentinels for errors.Is. Compare by code only.
var (
	ErrInvalidAmount           = &ValidationError{Code: CodeInvalidAmount, Message: "Please enter a valid amount"}
	ErrInvalidFactor           = &ValidationError{Code: CodeInvalidFactor, Message: "Invalid emission factor, check selection"}
	ErrInvalidName             = &ValidationError{Code: CodeInvalidName, Message: "Please enter a valid fuel name"}
	ErrInvalidCustomFactor     = &ValidationError{Code: CodeInvalidCustomFactor, Message: "Emission factor must be a positive number"}
	ErrDuplicateFactor         = &ValidationError{Code: CodeDuplicateFactor, Message: "A fuel with this name already exists"}
	ErrBuiltInFactor           = &ValidationError{Code: CodeBuiltInFactor, Message: "Built-in emission factors cannot be deleted"}
	ErrLookupMiss              = &ValidationError{Code: CodeLookupMiss, Message: "No emission factor found for selection"}
	ErrQuestionnaireIncomplete = &ValidationError{Code: CodeQuestionnaireIncomplete, Message: "Complete the questionnaire first"}
	ErrEntryNotFound           = &ValidationError{Code: CodeEntryNotFound, Message: "Entry not found"}
	ErrInvalidStep             = &ValidationError{Code: CodeInvalidStep, Message: "Unknown step"}
)

func fieldError(sentinel *ValidationError, field string) *ValidationError {
	return &ValidationError{Field: field, Message: sentinel.Message, Code: sentinel.Code}
}
