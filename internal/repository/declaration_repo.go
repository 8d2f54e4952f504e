package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"customscrm/internal/domain"
)

type DeclarationRepository struct {
	db *gorm.DB
}

func NewDeclarationRepository(db *gorm.DB) *DeclarationRepository {
	return &DeclarationRepository{db: db}
}

func (r *DeclarationRepository) Create(ctx context.Context, d *domain.Declaration) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DeclarationRepository) GetByID(ctx context.Context, id int64) (*domain.Declaration, error) {
	var d domain.Declaration
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

type DeclarationFilter struct {
	CompanyID int64
	UserID    *int64
	ClientID  *int64
	GroupID   *int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Skip      int
	Limit     int
}

func (r *DeclarationRepository) List(ctx context.Context, f DeclarationFilter) ([]domain.Declaration, error) {
	q := r.db.WithContext(ctx).Model(&domain.Declaration{}).
		Where("company_id = ?", f.CompanyID)

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var out []domain.Declaration
	err := q.Order("created_at DESC").Offset(f.Skip).Limit(limit).Find(&out).Error
	return out, err
}

func (r *DeclarationRepository) Update(ctx context.Context, d *domain.Declaration) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DeclarationRepository) UpdateFields(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Declaration{}).Where("id = ?", id).Updates(updates).Error
}

func (r *DeclarationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Declaration{}, id).Error
}

func (r *DeclarationRepository) CountCertificateLinks(ctx context.Context, declarationID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.CertificateDeclaration{}).
		Where("declaration_id = ?", declarationID).
		Count(&cnt).Error
	return cnt, err
}

// Groups

func (r *DeclarationRepository) CreateGroup(ctx context.Context, g *domain.DeclarationGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *DeclarationRepository) GetGroup(ctx context.Context, id int64) (*domain.DeclarationGroup, error) {
	var g domain.DeclarationGroup
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *DeclarationRepository) ListGroups(ctx context.Context, companyID int64) ([]domain.DeclarationGroup, error) {
	var out []domain.DeclarationGroup
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

// DeleteGroup detaches members first so group removal never cascades into
// the declarations themselves.
func (r *DeclarationRepository) DeleteGroup(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Declaration{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.DeclarationGroup{}, id).Error
	})
}
