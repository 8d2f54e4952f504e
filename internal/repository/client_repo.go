package repository

import (
	"context"

	"gorm.io/gorm"

	"customscrm/internal/domain"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var c domain.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) ListByCompany(ctx context.Context, companyID int64, skip, limit int) ([]domain.Client, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []domain.Client
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("company_name ASC").
		Offset(skip).Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Client{}, id).Error
}

// CountReferences reports how many declarations and certificates point at
// the client; deletion is refused while the count is non-zero.
func (r *ClientRepository) CountReferences(ctx context.Context, clientID int64) (int64, error) {
	var decls, certs int64
	if err := r.db.WithContext(ctx).Model(&domain.Declaration{}).
		Where("client_id = ?", clientID).Count(&decls).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Certificate{}).
		Where("client_id = ?", clientID).Count(&certs).Error; err != nil {
		return 0, err
	}
	return decls + certs, nil
}
