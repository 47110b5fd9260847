package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/perftracker/internal/app"
	"github.com/deppfellow/perftracker/internal/repository"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	healthCheckTimeout = 5 * time.Second
)

// HealthReport is the outcome of a store health check.
type HealthReport struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Driver      string                 `json:"driver"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckResult is one sub-check of a HealthReport.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Rows         *int64 `json:"rows,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Healthy reports whether every check passed.
func (r *HealthReport) Healthy() bool {
	return r.Status == StatusHealthy
}

// HealthService verifies the store is reachable and its tables readable.
type HealthService struct {
	app   *app.App
	repos *repository.Repositories
}

func NewHealthService(a *app.App, repos *repository.Repositories) *HealthService {
	return &HealthService{app: a, repos: repos}
}

// Check pings the store, then counts the rows of each table.
// A failed check marks the report unhealthy; Check itself never errors.
func (s *HealthService) Check(ctx context.Context) *HealthReport {
	start := time.Now()
	logger := s.app.Logger.With().Str("operation", "health_check").Logger()

	report := &HealthReport{
		Status:      StatusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: s.app.Config.Primary.Env,
		Driver:      s.app.DB.Driver,
		Checks:      make(map[string]CheckResult),
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	report.run(ctx, &logger, "database", func(ctx context.Context) (*int64, error) {
		return nil, s.app.DB.DB.PingContext(ctx)
	})
	report.run(ctx, &logger, "employees", countCheck(s.repos.Employees.Count))
	report.run(ctx, &logger, "evaluation_criteria", countCheck(s.repos.Criteria.Count))
	report.run(ctx, &logger, "evaluation_scores", countCheck(s.repos.Scores.Count))

	if !report.Healthy() {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return report
	}

	logger.Info().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return report
}

func (r *HealthReport) run(ctx context.Context, logger *zerolog.Logger, name string, check func(context.Context) (*int64, error)) {
	start := time.Now()
	rows, err := check(ctx)
	elapsed := time.Since(start)

	if err != nil {
		r.Status = StatusUnhealthy
		r.Checks[name] = CheckResult{
			Status:       StatusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
		logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")
		return
	}

	r.Checks[name] = CheckResult{
		Status:       StatusHealthy,
		ResponseTime: elapsed.String(),
		Rows:         rows,
	}
	logger.Debug().Str("check", name).Dur("response_time", elapsed).Msg("health check passed")
}

func countCheck(count func(context.Context) (int64, error)) func(context.Context) (*int64, error) {
	return func(ctx context.Context) (*int64, error) {
		n, err := count(ctx)
		if err != nil {
			return nil, err
		}
		return &n, nil
	}
}
