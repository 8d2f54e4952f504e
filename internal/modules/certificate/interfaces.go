package certificate

import (
	"context"

	"customscrm/internal/domain"
	"customscrm/internal/repository"
)

// CertificateRepository defines the persistence operations of the workflow.
type CertificateRepository interface {
	Create(ctx context.Context, c *domain.Certificate, declarationIDs []int64) error
	GetByID(ctx context.Context, id int64) (*domain.Certificate, error)
	List(ctx context.Context, f repository.CertificateFilter) ([]domain.Certificate, error)
	ApplyTransition(ctx context.Context, id int64, fromStatus domain.CertificateStatus, updates map[string]any) (bool, error)
	ConfirmReview(ctx context.Context, id int64, byCertifier bool) (*domain.Certificate, bool, error)
	FillNumber(ctx context.Context, id int64, number string) (bool, error)
	UpdateAssignee(ctx context.Context, id int64, userID int64) error
	Delete(ctx context.Context, id int64) error
	AppendAction(ctx context.Context, a *domain.CertificateAction) error
	ListActions(ctx context.Context, certificateID int64) ([]domain.CertificateAction, error)
	ListDeclarationIDs(ctx context.Context, certificateID int64) ([]int64, error)
}

type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

type DeclarationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Declaration, error)
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.User, error)
}

type PartnershipChecker interface {
	ActiveExists(ctx context.Context, companyA, companyB int64) (bool, error)
}

// Notifier is the history/notification emitter; implementations must be
// best-effort and never fail the transition.
type Notifier interface {
	Notify(ctx context.Context, userID int64, typ, title, message string, data map[string]any)
}
