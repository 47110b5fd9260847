// Package model holds the record types persisted by the tracker.
//
// They are plain data holders. The `db` tags name the column each field
// maps to; the `validate` tags are checked by the validation package
// before an insert.
package model

// Employee is a row of the employees table.
type Employee struct {
	ID         int64  `db:"id"`
	Name       string `db:"name" validate:"notblank"`
	Department string `db:"department" validate:"notblank"`
	JobTitle   string `db:"job_title" validate:"notblank"`
}

// EvaluationCriterion is a row of the evaluation_criteria table.
//
// Weightage is the criterion's share of an overall score. It is stored
// as given; nothing checks its range or that the weightages sum to 1.
type EvaluationCriterion struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name" validate:"notblank"`
	Description string  `db:"description"`
	Weightage   float64 `db:"weightage" validate:"finite"`
}

// EvaluationScore is a row of the evaluation_scores table: the score
// one employee received on one criterion.
type EvaluationScore struct {
	ID          int64   `db:"id"`
	EmployeeID  int64   `db:"employee_id" validate:"gt=0"`
	CriterionID int64   `db:"criterion_id" validate:"gt=0"`
	Score       float64 `db:"score" validate:"finite"`
}
