package repository

import (
	"context"

	"gorm.io/gorm"

	"customscrm/internal/domain"
)

type MembershipRequestRepository struct {
	db *gorm.DB
}

func NewMembershipRequestRepository(db *gorm.DB) *MembershipRequestRepository {
	return &MembershipRequestRepository{db: db}
}

func (r *MembershipRequestRepository) Create(ctx context.Context, m *domain.MembershipRequest) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MembershipRequestRepository) GetByID(ctx context.Context, id int64) (*domain.MembershipRequest, error) {
	var m domain.MembershipRequest
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRequestRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.MembershipRequest, error) {
	var out []domain.MembershipRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *MembershipRequestRepository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.MembershipRequest{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *MembershipRequestRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.MembershipRequest{}, id).Error
}
