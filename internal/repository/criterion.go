package repository

import (
	"context"
	"time"

	"github.com/deppfellow/perftracker/internal/database"
	"github.com/deppfellow/perftracker/internal/model"
	"github.com/deppfellow/perftracker/internal/sqlerr"
)

const (
	insertCriterionSQL = `INSERT INTO evaluation_criteria (name, description, weightage) VALUES ($1, $2, $3) RETURNING id`
	listCriteriaSQL    = `SELECT id, name, description, weightage FROM evaluation_criteria ORDER BY id`
	countCriteriaSQL   = `SELECT COUNT(*) FROM evaluation_criteria`
)

// CriterionRepository persists model.EvaluationCriterion rows.
type CriterionRepository struct {
	db *database.Database
}

func NewCriterionRepository(db *database.Database) *CriterionRepository {
	return &CriterionRepository{db: db}
}

// Insert writes one criterion and returns its new id.
// An empty description is stored as "", not NULL.
func (r *CriterionRepository) Insert(ctx context.Context, c *model.EvaluationCriterion) (int64, error) {
	defer r.db.Observe(ctx, insertCriterionSQL, time.Now())

	var id int64
	err := r.db.DB.QueryRowContext(ctx, insertCriterionSQL,
		c.Name, c.Description, c.Weightage,
	).Scan(&id)
	if err != nil {
		return 0, sqlerr.HandleError(err)
	}

	c.ID = id
	return id, nil
}

// List returns every criterion in id order. A NULL description (rows
// written by other tools) reads back as "".
func (r *CriterionRepository) List(ctx context.Context) ([]model.EvaluationCriterion, error) {
	defer r.db.Observe(ctx, listCriteriaSQL, time.Now())

	rows, err := r.db.DB.QueryContext(ctx, listCriteriaSQL)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	criteria, err := scanRows[model.EvaluationCriterion](rows)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return criteria, nil
}

// Count returns the number of rows in evaluation_criteria.
func (r *CriterionRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, countCriteriaSQL)
}
