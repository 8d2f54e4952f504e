package auth

import (
	"context"

	"customscrm/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	ListByCompany(ctx context.Context, companyID int64) ([]domain.User, error)
}

type CompanyRepository interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	GetByINN(ctx context.Context, inn string) (*domain.Company, error)
}

type MembershipRequestRepository interface {
	Create(ctx context.Context, m *domain.MembershipRequest) error
	GetByID(ctx context.Context, id int64) (*domain.MembershipRequest, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.MembershipRequest, error)
	ExistsForUser(ctx context.Context, userID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	GenerateToken(userID, companyID int64, role, activityType string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, typ, title, message string, data map[string]any)
}
