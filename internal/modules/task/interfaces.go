package task

import (
	"context"

	"customscrm/internal/domain"
	"customscrm/internal/repository"
)

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context, f repository.TaskFilter) ([]domain.Task, error)
	ApplyTransition(ctx context.Context, id int64, fromStatus, toStatus domain.TaskStatus) (bool, error)
	UpdateFields(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	AppendHistory(ctx context.Context, h *domain.TaskHistory) error
	ListHistory(ctx context.Context, taskID int64) ([]domain.TaskHistory, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type PartnershipChecker interface {
	ActiveExists(ctx context.Context, companyA, companyB int64) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, typ, title, message string, data map[string]any)
}
