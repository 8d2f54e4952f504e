package declaration

import (
	"context"

	"customscrm/internal/domain"
	"customscrm/internal/repository"
)

type DeclarationRepository interface {
	Create(ctx context.Context, d *domain.Declaration) error
	GetByID(ctx context.Context, id int64) (*domain.Declaration, error)
	List(ctx context.Context, f repository.DeclarationFilter) ([]domain.Declaration, error)
	Update(ctx context.Context, d *domain.Declaration) error
	UpdateFields(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	CountCertificateLinks(ctx context.Context, declarationID int64) (int64, error)
	CreateGroup(ctx context.Context, g *domain.DeclarationGroup) error
	GetGroup(ctx context.Context, id int64) (*domain.DeclarationGroup, error)
	ListGroups(ctx context.Context, companyID int64) ([]domain.DeclarationGroup, error)
	DeleteGroup(ctx context.Context, id int64) error
}

type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
