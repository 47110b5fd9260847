package service

import (
	"github.com/deppfellow/perftracker/internal/app"
	"github.com/deppfellow/perftracker/internal/repository"
)

// Services groups the business layer.
type Services struct {
	Tracker *TrackerService
	Health  *HealthService
}

func NewServices(a *app.App, repos *repository.Repositories) *Services {
	return &Services{
		Tracker: NewTrackerService(a, repos),
		Health:  NewHealthService(a, repos),
	}
}
