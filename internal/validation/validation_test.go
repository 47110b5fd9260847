package validation_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/perftracker/internal/errs"
	"github.com/deppfellow/perftracker/internal/model"
	"github.com/deppfellow/perftracker/internal/validation"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr), "expected *errs.Error, got %T", err)
	require.Equal(t, errs.KindBadInput, appErr.Kind)

	out := make(map[string]string, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		out[fe.Field] = fe.Error
	}
	return out
}

func TestEmployee(t *testing.T) {
	require.NoError(t, validation.Struct(&model.Employee{
		Name: "O'Brien", Department: "Ops", JobTitle: "SRE",
	}))

	err := validation.Struct(&model.Employee{Name: "   ", Department: "Ops"})
	fields := fieldErrors(t, err)
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "is required", fields["job_title"])
	assert.NotContains(t, fields, "department")
}

func TestCriterion(t *testing.T) {
	// Description is optional and any finite weightage is accepted.
	require.NoError(t, validation.Struct(&model.EvaluationCriterion{Name: "Teamwork", Weightage: -2}))

	err := validation.Struct(&model.EvaluationCriterion{Name: "Teamwork", Weightage: math.NaN()})
	assert.Equal(t, "must be a finite number", fieldErrors(t, err)["weightage"])

	err = validation.Struct(&model.EvaluationCriterion{Name: "Teamwork", Weightage: math.Inf(1)})
	assert.Equal(t, "must be a finite number", fieldErrors(t, err)["weightage"])
}

func TestScore(t *testing.T) {
	require.NoError(t, validation.Struct(&model.EvaluationScore{EmployeeID: 1, CriterionID: 1, Score: 4.5}))

	err := validation.Struct(&model.EvaluationScore{EmployeeID: 0, CriterionID: -3, Score: 1})
	fields := fieldErrors(t, err)
	assert.Equal(t, "must be greater than 0", fields["employee_id"])
	assert.Equal(t, "must be greater than 0", fields["criterion_id"])
}
