package partnership

import (
	"context"

	"customscrm/internal/domain"
)

type PartnershipRepository interface {
	Create(ctx context.Context, p *domain.Partnership) error
	GetByID(ctx context.Context, id int64) (*domain.Partnership, error)
	GetByPair(ctx context.Context, companyA, companyB int64) (*domain.Partnership, error)
	ListActive(ctx context.Context, companyID int64) ([]domain.Partnership, error)
	ListPendingIncoming(ctx context.Context, companyID int64) ([]domain.Partnership, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PartnershipStatus) error
	Delete(ctx context.Context, id int64) error
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	GetByINN(ctx context.Context, inn string) (*domain.Company, error)
}

type UserRepository interface {
	ListByCompany(ctx context.Context, companyID int64) ([]domain.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, typ, title, message string, data map[string]any)
}
