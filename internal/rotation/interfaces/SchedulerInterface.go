package interfaces

import (
	"aprd/internal/models"
	"context"
)

type SchedulerInterface interface {
	Init() error
	Start(ctx context.Context)
	Stop()
	Err() <-chan error
	Statuses() []models.PublishedStatus
}
