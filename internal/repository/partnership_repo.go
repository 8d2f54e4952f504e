package repository

import (
	"context"

	"gorm.io/gorm"

	"customscrm/internal/domain"
)

type PartnershipRepository struct {
	db *gorm.DB
}

func NewPartnershipRepository(db *gorm.DB) *PartnershipRepository {
	return &PartnershipRepository{db: db}
}

func (r *PartnershipRepository) Create(ctx context.Context, p *domain.Partnership) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PartnershipRepository) GetByID(ctx context.Context, id int64) (*domain.Partnership, error) {
	var p domain.Partnership
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByPair looks up the row for an unordered company pair.
func (r *PartnershipRepository) GetByPair(ctx context.Context, companyA, companyB int64) (*domain.Partnership, error) {
	a, b := domain.NormalizePair(companyA, companyB)
	var p domain.Partnership
	if err := r.db.WithContext(ctx).
		Where("company_a_id = ? AND company_b_id = ?", a, b).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ActiveExists answers the only question workflow services ask: is there an
// active partnership between these two companies right now.
func (r *PartnershipRepository) ActiveExists(ctx context.Context, companyA, companyB int64) (bool, error) {
	a, b := domain.NormalizePair(companyA, companyB)
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Partnership{}).
		Where("company_a_id = ? AND company_b_id = ? AND status = ?", a, b, domain.PartnershipActive).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *PartnershipRepository) ListActive(ctx context.Context, companyID int64) ([]domain.Partnership, error) {
	var out []domain.Partnership
	err := r.db.WithContext(ctx).
		Where("(company_a_id = ? OR company_b_id = ?) AND status = ?", companyID, companyID, domain.PartnershipActive).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListPendingIncoming returns requests awaiting this company's decision:
// pending rows the company did not itself send.
func (r *PartnershipRepository) ListPendingIncoming(ctx context.Context, companyID int64) ([]domain.Partnership, error) {
	var out []domain.Partnership
	err := r.db.WithContext(ctx).
		Where("(company_a_id = ? OR company_b_id = ?) AND status = ? AND requested_by_company_id <> ?",
			companyID, companyID, domain.PartnershipPending, companyID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *PartnershipRepository) UpdateStatus(ctx context.Context, id int64, status domain.PartnershipStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Partnership{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *PartnershipRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Partnership{}, id).Error
}
