package repository

import (
	"github.com/deppfellow/perftracker/internal/app"
)

// Repositories is a container for all repository instances.
// Every repository shares the single store handle owned by the app.
type Repositories struct {
	Employees *EmployeeRepository
	Criteria  *CriterionRepository
	Scores    *ScoreRepository
}

// NewRepositories constructs the repository container from the
// application container's store handle.
func NewRepositories(a *app.App) *Repositories {
	return &Repositories{
		Employees: NewEmployeeRepository(a.DB),
		Criteria:  NewCriterionRepository(a.DB),
		Scores:    NewScoreRepository(a.DB),
	}
}
