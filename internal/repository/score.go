package repository

import (
	"context"
	"time"

	"github.com/deppfellow/perftracker/internal/database"
	"github.com/deppfellow/perftracker/internal/model"
	"github.com/deppfellow/perftracker/internal/sqlerr"
)

const (
	insertScoreSQL = `INSERT INTO evaluation_scores (employee_id, criterion_id, score) VALUES ($1, $2, $3) RETURNING id`
	listScoresSQL  = `SELECT id, employee_id, criterion_id, score FROM evaluation_scores ORDER BY id`
	countScoresSQL = `SELECT COUNT(*) FROM evaluation_scores`
)

// ScoreRepository persists model.EvaluationScore rows.
type ScoreRepository struct {
	db *database.Database
}

func NewScoreRepository(db *database.Database) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Insert writes one score and returns its new id.
//
// The employee and criterion are not looked up first. With foreign keys
// enforced a dangling reference comes back as a bad-input error; with
// enforcement off the row is accepted as is.
func (r *ScoreRepository) Insert(ctx context.Context, s *model.EvaluationScore) (int64, error) {
	defer r.db.Observe(ctx, insertScoreSQL, time.Now())

	var id int64
	err := r.db.DB.QueryRowContext(ctx, insertScoreSQL,
		s.EmployeeID, s.CriterionID, s.Score,
	).Scan(&id)
	if err != nil {
		return 0, sqlerr.HandleError(err)
	}

	s.ID = id
	return id, nil
}

// List returns every score in id order.
func (r *ScoreRepository) List(ctx context.Context) ([]model.EvaluationScore, error) {
	defer r.db.Observe(ctx, listScoresSQL, time.Now())

	rows, err := r.db.DB.QueryContext(ctx, listScoresSQL)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	scores, err := scanRows[model.EvaluationScore](rows)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return scores, nil
}

// Count returns the number of rows in evaluation_scores.
func (r *ScoreRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, countScoresSQL)
}
