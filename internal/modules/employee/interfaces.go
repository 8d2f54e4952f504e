package employee

import (
	"context"

	"customscrm/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	ListByCompany(ctx context.Context, companyID int64) ([]domain.User, error)
	TransferData(ctx context.Context, companyID, fromUserID, toUserID int64) error
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

type PartnershipLister interface {
	ListActive(ctx context.Context, companyID int64) ([]domain.Partnership, error)
}
