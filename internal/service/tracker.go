package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deppfellow/perftracker/internal/app"
	"github.com/deppfellow/perftracker/internal/errs"
	"github.com/deppfellow/perftracker/internal/model"
	"github.com/deppfellow/perftracker/internal/repository"
	"github.com/deppfellow/perftracker/internal/validation"
)

// TrackerService inserts and lists employees, criteria and scores.
type TrackerService struct {
	log   *zerolog.Logger
	repos *repository.Repositories
}

func NewTrackerService(a *app.App, repos *repository.Repositories) *TrackerService {
	return &TrackerService{
		log:   a.Logger,
		repos: repos,
	}
}

// AddEmployee validates e and stores it. On success e.ID holds the new id.
func (s *TrackerService) AddEmployee(ctx context.Context, e *model.Employee) (int64, error) {
	if err := validation.Struct(e); err != nil {
		return 0, err
	}

	id, err := s.repos.Employees.Insert(ctx, e)
	if err != nil {
		s.logFailure(err, "insert employee")
		return 0, fmt.Errorf("adding employee: %w", err)
	}

	s.log.Info().Int64("employee_id", id).Msg("employee added")
	return id, nil
}

// AddCriterion validates c and stores it. On success c.ID holds the new id.
func (s *TrackerService) AddCriterion(ctx context.Context, c *model.EvaluationCriterion) (int64, error) {
	if err := validation.Struct(c); err != nil {
		return 0, err
	}

	id, err := s.repos.Criteria.Insert(ctx, c)
	if err != nil {
		s.logFailure(err, "insert criterion")
		return 0, fmt.Errorf("adding criterion: %w", err)
	}

	s.log.Info().Int64("criterion_id", id).Msg("criterion added")
	return id, nil
}

// AddScore validates sc and stores it. The referenced employee and
// criterion are left to the store's foreign keys.
func (s *TrackerService) AddScore(ctx context.Context, sc *model.EvaluationScore) (int64, error) {
	if err := validation.Struct(sc); err != nil {
		return 0, err
	}

	id, err := s.repos.Scores.Insert(ctx, sc)
	if err != nil {
		s.logFailure(err, "insert score")
		return 0, fmt.Errorf("adding score: %w", err)
	}

	s.log.Info().
		Int64("score_id", id).
		Int64("employee_id", sc.EmployeeID).
		Int64("criterion_id", sc.CriterionID).
		Msg("score added")
	return id, nil
}

func (s *TrackerService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.repos.Employees.List(ctx)
	if err != nil {
		s.logFailure(err, "list employees")
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	return employees, nil
}

func (s *TrackerService) ListCriteria(ctx context.Context) ([]model.EvaluationCriterion, error) {
	criteria, err := s.repos.Criteria.List(ctx)
	if err != nil {
		s.logFailure(err, "list criteria")
		return nil, fmt.Errorf("listing criteria: %w", err)
	}
	return criteria, nil
}

func (s *TrackerService) ListScores(ctx context.Context) ([]model.EvaluationScore, error) {
	scores, err := s.repos.Scores.List(ctx)
	if err != nil {
		s.logFailure(err, "list scores")
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	return scores, nil
}

// logFailure logs store failures. Bad input is the user's to fix and
// is only logged at debug.
func (s *TrackerService) logFailure(err error, op string) {
	if errs.IsBadInput(err) {
		s.log.Debug().Err(err).Str("op", op).Msg("rejected by store")
		return
	}
	s.log.Error().Err(err).Str("op", op).Msg("store operation failed")
}
