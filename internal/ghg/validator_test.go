package ghg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestionnaire() Questionnaire {
	return Questionnaire{
		OrgName:             "Acme Textiles",
		BoundaryApproach:    BoundaryControl,
		ControlSubtype:      ControlOperational,
		OperationalBoundary: OperationalFacility,
		EmissionSources:     SourceScopeOne,
	}
}

func messages(errs ValidationErrors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func TestValidateQuestionnaire(t *testing.T) {
	tests := []struct {
		name   string
		modify func(q *Questionnaire)
		want   []string
	}{
		{
			name:   "valid",
			modify: func(q *Questionnaire) {},
			want:   []string{},
		},
		{
			name: "equity share needs no control subtype",
			modify: func(q *Questionnaire) {
				q.BoundaryApproach = BoundaryEquityShare
				q.ControlSubtype = ""
			},
			want: []string{},
		},
		{
			name: "control approach without subtype",
			modify: func(q *Questionnaire) {
				q.ControlSubtype = ""
			},
			want: []string{"Control Approach type is required"},
		},
		{
			name: "blank org name",
			modify: func(q *Questionnaire) {
				q.OrgName = "   "
			},
			want: []string{"Organization name is required"},
		},
		{
			name:   "everything missing",
			modify: func(q *Questionnaire) { *q = Questionnaire{} },
			want: []string{
				"Organization name is required",
				"Organizational boundary is required",
				"Operational Boundary is required",
				"Emission sources must be selected",
			},
		},
		{
			name: "unknown options",
			modify: func(q *Questionnaire) {
				q.OperationalBoundary = "Planet-level"
				q.EmissionSources = "Scope 3"
			},
			want: []string{
				`"Planet-level" is not a recognised option`,
				`"Scope 3" is not a recognised option`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestionnaire()
			tt.modify(&q)
			assert.Equal(t, tt.want, messages(ValidateQuestionnaire(q)))
		})
	}
}

func TestValidationErrors_Is(t *testing.T) {
	errs := ValidateQuestionnaire(Questionnaire{})
	var err error = errs

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "orgName: Organization name is required")
	assert.False(t, errors.Is(err, ErrInvalidAmount))

	errs = append(errs, *fieldError(ErrInvalidAmount, "amount"))
	err = errs
	assert.True(t, errors.Is(err, ErrInvalidAmount))
}
