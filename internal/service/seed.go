package service

import (
	"context"

	"github.com/deppfellow/perftracker/internal/model"
)

// SeedResult reports the ids assigned to the sample records.
type SeedResult struct {
	EmployeeID  int64
	CriterionID int64
	ScoreID     int64
}

// SampleEmployee, SampleCriterion and SampleScore are the records
// inserted by Seed.
func SampleEmployee() model.Employee {
	return model.Employee{
		Name:       "John Doe",
		Department: "Engineering",
		JobTitle:   "Software Engineer",
	}
}

func SampleCriterion() model.EvaluationCriterion {
	return model.EvaluationCriterion{
		Name:        "Quality of Work",
		Description: "Ability to produce high-quality work",
		Weightage:   0.5,
	}
}

const SampleScore = 4.5

// Seed inserts one sample employee, one criterion and a score linking
// them. The score uses the ids just assigned, so seeding a store that
// already has rows still produces a consistent triple.
//
// There is no transaction: if a later insert fails the earlier rows stay.
func (s *TrackerService) Seed(ctx context.Context) (*SeedResult, error) {
	employee := SampleEmployee()
	if _, err := s.AddEmployee(ctx, &employee); err != nil {
		return nil, err
	}

	criterion := SampleCriterion()
	if _, err := s.AddCriterion(ctx, &criterion); err != nil {
		return nil, err
	}

	score := model.EvaluationScore{
		EmployeeID:  employee.ID,
		CriterionID: criterion.ID,
		Score:       SampleScore,
	}
	if _, err := s.AddScore(ctx, &score); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("employee_id", employee.ID).
		Int64("criterion_id", criterion.ID).
		Int64("score_id", score.ID).
		Msg("sample data inserted")

	return &SeedResult{
		EmployeeID:  employee.ID,
		CriterionID: criterion.ID,
		ScoreID:     score.ID,
	}, nil
}
