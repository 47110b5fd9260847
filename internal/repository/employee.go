package repository

import (
	"context"
	"time"

	"github.com/deppfellow/perftracker/internal/database"
	"github.com/deppfellow/perftracker/internal/model"
	"github.com/deppfellow/perftracker/internal/sqlerr"
)

const (
	insertEmployeeSQL = `INSERT INTO employees (name, department, job_title) VALUES ($1, $2, $3) RETURNING id`
	listEmployeesSQL  = `SELECT id, name, department, job_title FROM employees ORDER BY id`
	countEmployeesSQL = `SELECT COUNT(*) FROM employees`
)

// EmployeeRepository persists model.Employee rows.
type EmployeeRepository struct {
	db *database.Database
}

func NewEmployeeRepository(db *database.Database) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Insert writes one employee and returns the id the store assigned.
// The incoming ID is ignored and overwritten with the new one.
func (r *EmployeeRepository) Insert(ctx context.Context, e *model.Employee) (int64, error) {
	defer r.db.Observe(ctx, insertEmployeeSQL, time.Now())

	var id int64
	err := r.db.DB.QueryRowContext(ctx, insertEmployeeSQL,
		e.Name, e.Department, e.JobTitle,
	).Scan(&id)
	if err != nil {
		return 0, sqlerr.HandleError(err)
	}

	e.ID = id
	return id, nil
}

// List returns every employee in id order.
func (r *EmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	defer r.db.Observe(ctx, listEmployeesSQL, time.Now())

	rows, err := r.db.DB.QueryContext(ctx, listEmployeesSQL)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	employees, err := scanRows[model.Employee](rows)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return employees, nil
}

// Count returns the number of rows in employees.
func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, countEmployeesSQL)
}
