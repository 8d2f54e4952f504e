package certificate

import (
	"time"

	"customscrm/internal/domain"
)

type CreateCertificateRequest struct {
	CertifierCompanyID  *int64    `json:"certifier_company_id"`
	IsSelf              bool      `json:"is_self"`
	CertificateType     string    `json:"certificate_type" binding:"required"`
	Deadline            time.Time `json:"deadline" binding:"required"`
	CertificateNumber   *string   `json:"certificate_number"`
	IsNumberByCertifier bool      `json:"is_number_by_certifier"`
	ClientID            int64     `json:"client_id" binding:"required"`
	DeclarationIDs      []int64   `json:"declaration_ids"`
	Note                string    `json:"note"`
}

type UpdateCertificateRequest struct {
	CertificateType *string    `json:"certificate_type"`
	Deadline        *time.Time `json:"deadline"`
}

type UpdateStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	RejectionNote string `json:"rejection_note"`
}

type FillNumberRequest struct {
	CertificateNumber string `json:"certificate_number" binding:"required"`
}

type AssignRequest struct {
	TargetUserID int64 `json:"target_user_id" binding:"required"`
}

type ListRequest struct {
	MyOnly             bool       `form:"my_only"`
	UserID             *int64     `form:"user_id"`
	CertifierCompanyID *int64     `form:"certifier_company_id"`
	DeclarantCompanyID *int64     `form:"declarant_company_id"`
	CertificateNumber  *string    `form:"certificate_number"`
	ClientID           *int64     `form:"client_id"`
	Status             *string    `form:"status"`
	DateFrom           *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo             *time.Time `form:"date_to" time_format:"2006-01-02"`
	Skip               int        `form:"skip"`
	Limit              int        `form:"limit"`
}

// CertificateDetails is the get-by-id payload: the entity plus its audit
// trail and linked declarations.
type CertificateDetails struct {
	domain.Certificate
	Actions        []domain.CertificateAction `json:"actions"`
	DeclarationIDs []int64                    `json:"declaration_ids"`
}
