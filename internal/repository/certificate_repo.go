package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"customscrm/internal/domain"
)

type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

type certificateModel struct {
	ID                 int64   `gorm:"column:id;primaryKey"`
	DeclarantCompanyID int64   `gorm:"column:declarant_company_id"`
	DeclarantUserID    int64   `gorm:"column:declarant_user_id"`
	CertifierCompanyID *int64  `gorm:"column:certifier_company_id"`
	IsSelf             bool    `gorm:"column:is_self"`
	ClientID           int64   `gorm:"column:client_id"`
	CertificateType    string  `gorm:"column:certificate_type"`
	CertificateNumber  *string `gorm:"column:certificate_number"`
	IsNumberByCert     bool    `gorm:"column:is_number_by_certifier"`
	Status             string  `gorm:"column:status"`
	RejectionNote      *string `gorm:"column:rejection_note"`
	AssignedUserID     *int64  `gorm:"column:assigned_user_id"`
	PaymentConfirmed   bool    `gorm:"column:payment_confirmed"`
	PaymentRequestedBy *int64  `gorm:"column:payment_requested_by_user_id"`
	ReviewByDeclarant  bool    `gorm:"column:review_confirmed_by_declarant"`
	ReviewByCertifier  bool    `gorm:"column:review_confirmed_by_certifier"`
	SendDate           time.Time
	Deadline           time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (certificateModel) TableName() string { return "certificates" }

func toDomainCertificate(m certificateModel) *domain.Certificate {
	return &domain.Certificate{
		ID:                         m.ID,
		DeclarantCompanyID:         m.DeclarantCompanyID,
		DeclarantUserID:            m.DeclarantUserID,
		CertifierCompanyID:         m.CertifierCompanyID,
		IsSelf:                     m.IsSelf,
		ClientID:                   m.ClientID,
		CertificateType:            m.CertificateType,
		CertificateNumber:          m.CertificateNumber,
		IsNumberByCertifier:        m.IsNumberByCert,
		Status:                     domain.CertificateStatus(m.Status),
		RejectionNote:              m.RejectionNote,
		AssignedUserID:             m.AssignedUserID,
		PaymentConfirmed:           m.PaymentConfirmed,
		PaymentRequestedByID:       m.PaymentRequestedBy,
		ReviewConfirmedByDeclarant: m.ReviewByDeclarant,
		ReviewConfirmedByCertifier: m.ReviewByCertifier,
		SendDate:                   m.SendDate,
		Deadline:                   m.Deadline,
		CreatedAt:                  m.CreatedAt,
		UpdatedAt:                  m.UpdatedAt,
	}
}

func toCertificateModel(c *domain.Certificate) certificateModel {
	return certificateModel{
		ID:                 c.ID,
		DeclarantCompanyID: c.DeclarantCompanyID,
		DeclarantUserID:    c.DeclarantUserID,
		CertifierCompanyID: c.CertifierCompanyID,
		IsSelf:             c.IsSelf,
		ClientID:           c.ClientID,
		CertificateType:    c.CertificateType,
		CertificateNumber:  c.CertificateNumber,
		IsNumberByCert:     c.IsNumberByCertifier,
		Status:             string(c.Status),
		RejectionNote:      c.RejectionNote,
		AssignedUserID:     c.AssignedUserID,
		PaymentConfirmed:   c.PaymentConfirmed,
		PaymentRequestedBy: c.PaymentRequestedByID,
		ReviewByDeclarant:  c.ReviewConfirmedByDeclarant,
		ReviewByCertifier:  c.ReviewConfirmedByCertifier,
		SendDate:           c.SendDate,
		Deadline:           c.Deadline,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (r *CertificateRepository) Create(ctx context.Context, c *domain.Certificate, declarationIDs []int64) error {
	m := toCertificateModel(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		for _, id := range declarationIDs {
			link := domain.CertificateDeclaration{CertificateID: m.ID, DeclarationID: id}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		*c = *toDomainCertificate(m)
		return nil
	})
}

func (r *CertificateRepository) GetByID(ctx context.Context, id int64) (*domain.Certificate, error) {
	var m certificateModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainCertificate(m), nil
}

// CertificateFilter mirrors the list query parameters. Nil pointers mean
// "not filtered".
type CertificateFilter struct {
	ViewerCompanyID    int64
	UserID             *int64
	CertifierCompanyID *int64
	DeclarantCompanyID *int64
	CertificateNumber  *string
	ClientID           *int64
	Status             *string
	DateFrom           *time.Time
	DateTo             *time.Time
	Skip               int
	Limit              int
}

func (r *CertificateRepository) List(ctx context.Context, f CertificateFilter) ([]domain.Certificate, error) {
	q := r.db.WithContext(ctx).Model(&certificateModel{}).
		Where("declarant_company_id = ? OR certifier_company_id = ?", f.ViewerCompanyID, f.ViewerCompanyID)

	if f.UserID != nil {
		q = q.Where("declarant_user_id = ? OR assigned_user_id = ?", *f.UserID, *f.UserID)
	}
	if f.CertifierCompanyID != nil {
		q = q.Where("certifier_company_id = ?", *f.CertifierCompanyID)
	}
	if f.DeclarantCompanyID != nil {
		q = q.Where("declarant_company_id = ?", *f.DeclarantCompanyID)
	}
	if f.CertificateNumber != nil {
		q = q.Where("certificate_number = ?", *f.CertificateNumber)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
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

	var rows []certificateModel
	if err := q.Order("created_at DESC").Offset(f.Skip).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Certificate, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainCertificate(m))
	}
	return out, nil
}

// ApplyTransition performs the optimistic read-modify-write: the update only
// lands if the row still carries fromStatus. Returns false when a concurrent
// transition won the race.
func (r *CertificateRepository) ApplyTransition(ctx context.Context, id int64, fromStatus domain.CertificateStatus, updates map[string]any) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&certificateModel{}).
		Where("id = ? AND status = ?", id, string(fromStatus)).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ConfirmReview records one side's review confirmation and resolves completion
// in a single transaction. The flag column joins the predicate so a repeated
// confirmation of the same side cannot land twice, and the completion decision
// is made from the post-write row, not the caller's snapshot: two opposite-side
// confirmations racing each other still end in completed.
func (r *CertificateRepository) ConfirmReview(ctx context.Context, id int64, byCertifier bool) (*domain.Certificate, bool, error) {
	column := "review_confirmed_by_declarant"
	if byCertifier {
		column = "review_confirmed_by_certifier"
	}

	var out *domain.Certificate
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&certificateModel{}).
			Where("id = ? AND status = ? AND "+column+" = ?", id, string(domain.CertificateOnReview), false).
			Update(column, true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		var m certificateModel
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		c := toDomainCertificate(m)
		if c.ReviewTarget() == domain.CertificateCompleted {
			if err := tx.Model(&certificateModel{}).Where("id = ?", id).
				Update("status", string(domain.CertificateCompleted)).Error; err != nil {
				return err
			}
			c.Status = domain.CertificateCompleted
		}
		out = c
		return nil
	})
	return out, applied, err
}

// FillNumber sets the certificate number exactly once: the predicate keeps
// a concurrent second fill from landing.
func (r *CertificateRepository) FillNumber(ctx context.Context, id int64, number string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&certificateModel{}).
		Where("id = ? AND certificate_number IS NULL AND is_number_by_certifier = ?", id, true).
		Update("certificate_number", number)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *CertificateRepository) UpdateAssignee(ctx context.Context, id int64, userID int64) error {
	return r.db.WithContext(ctx).Model(&certificateModel{}).
		Where("id = ?", id).
		Update("assigned_user_id", userID).Error
}

func (r *CertificateRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("certificate_id = ?", id).Delete(&domain.CertificateAction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("certificate_id = ?", id).Delete(&domain.CertificateDeclaration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&certificateModel{}, id).Error
	})
}

func (r *CertificateRepository) AppendAction(ctx context.Context, a *domain.CertificateAction) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *CertificateRepository) ListActions(ctx context.Context, certificateID int64) ([]domain.CertificateAction, error) {
	var out []domain.CertificateAction
	err := r.db.WithContext(ctx).
		Where("certificate_id = ?", certificateID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *CertificateRepository) ListDeclarationIDs(ctx context.Context, certificateID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.CertificateDeclaration{}).
		Where("certificate_id = ?", certificateID).
		Pluck("declaration_id", &ids).Error
	return ids, err
}
