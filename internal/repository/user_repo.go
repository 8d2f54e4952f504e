package repository

import (
	"context"

	"gorm.io/gorm"

	"customscrm/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.User, error) {
	var out []domain.User
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("full_name ASC").
		Find(&out).Error
	return out, err
}

// TransferData reassigns everything the removed user owns inside the company
// to the target user. Runs in one transaction so a removal never leaves
// half-orphaned records.
func (r *UserRepository) TransferData(ctx context.Context, companyID, fromUserID, toUserID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Client{}).
			Where("company_id = ? AND created_by_user_id = ?", companyID, fromUserID).
			Update("created_by_user_id", toUserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Declaration{}).
			Where("company_id = ? AND user_id = ?", companyID, fromUserID).
			Update("user_id", toUserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Certificate{}).
			Where("declarant_company_id = ? AND declarant_user_id = ?", companyID, fromUserID).
			Update("declarant_user_id", toUserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Certificate{}).
			Where("certifier_company_id = ? AND assigned_user_id = ?", companyID, fromUserID).
			Update("assigned_user_id", toUserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Task{}).
			Where("creator_company_id = ? AND creator_user_id = ?", companyID, fromUserID).
			Update("creator_user_id", toUserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Task{}).
			Where("target_company_id = ? AND target_user_id = ?", companyID, fromUserID).
			Update("target_user_id", toUserID).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).
			Where("id = ?", fromUserID).
			Updates(map[string]any{"company_id": nil, "role": "", "is_active": false}).Error
	})
}
