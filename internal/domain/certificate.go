package domain

import "time"

type CertificateStatus string

const (
	CertificateNew            CertificateStatus = "new"
	CertificateInProgress     CertificateStatus = "in_progress"
	CertificateWaitingPayment CertificateStatus = "waiting_payment"
	CertificateOnReview       CertificateStatus = "on_review"
	CertificateCompleted      CertificateStatus = "completed"
	CertificateRejected       CertificateStatus = "rejected"
)

func (s CertificateStatus) Terminal() bool {
	return s == CertificateCompleted || s == CertificateRejected
}

type CertificateEvent string

const (
	CertEventTakeInProgress CertificateEvent = "take_in_progress"
	CertEventRequestPayment CertificateEvent = "request_payment"
	CertEventSendForReview  CertificateEvent = "send_for_review"
	CertEventConfirmPayment CertificateEvent = "confirm_payment"
	CertEventConfirmReview  CertificateEvent = "confirm_review"
	CertEventReject         CertificateEvent = "reject"
)

// certTransitions is the single source of truth for the certificate state
// machine. reject is valid from every non-terminal state.
var certTransitions = map[CertificateStatus]map[CertificateEvent]CertificateStatus{
	CertificateNew: {
		CertEventTakeInProgress: CertificateInProgress,
		CertEventReject:         CertificateRejected,
	},
	CertificateInProgress: {
		CertEventRequestPayment: CertificateWaitingPayment,
		CertEventSendForReview:  CertificateOnReview,
		CertEventReject:         CertificateRejected,
	},
	CertificateWaitingPayment: {
		CertEventConfirmPayment: CertificateInProgress,
		CertEventReject:         CertificateRejected,
	},
	CertificateOnReview: {
		// the table target is the "not yet fully confirmed" case;
		// Certificate.ReviewTarget picks completed once both sides confirm
		CertEventConfirmReview: CertificateOnReview,
		CertEventReject:        CertificateRejected,
	},
}

// CertNextStatus resolves the transition table for one event. The second
// return is false when the event is not allowed from the current status.
func CertNextStatus(from CertificateStatus, ev CertificateEvent) (CertificateStatus, bool) {
	next, ok := certTransitions[from][ev]
	return next, ok
}

// Certificate is the primary workflow entity. The declarant side creates it;
// the certifier side (or the declarant itself when IsSelf) moves it through
// the lifecycle.
type Certificate struct {
	ID                 int64  `json:"id" gorm:"primaryKey"`
	DeclarantCompanyID int64  `json:"declarant_company_id" gorm:"index;not null"`
	DeclarantUserID    int64  `json:"declarant_user_id" gorm:"index;not null"`
	CertifierCompanyID *int64 `json:"certifier_company_id,omitempty" gorm:"index"`
	IsSelf             bool   `json:"is_self" gorm:"default:false"`
	ClientID           int64  `json:"client_id" gorm:"index;not null"`

	CertificateType     string  `json:"certificate_type" gorm:"not null"`
	CertificateNumber   *string `json:"certificate_number,omitempty"`
	IsNumberByCertifier bool    `json:"is_number_by_certifier" gorm:"default:false"`

	Status        CertificateStatus `json:"status" gorm:"index;not null"`
	RejectionNote *string           `json:"rejection_note,omitempty"`

	AssignedUserID *int64 `json:"assigned_user_id,omitempty" gorm:"index"`

	PaymentConfirmed     bool   `json:"payment_confirmed" gorm:"default:false"`
	PaymentRequestedByID *int64 `json:"-" gorm:"column:payment_requested_by_user_id"`

	ReviewConfirmedByDeclarant bool `json:"review_confirmed_by_declarant" gorm:"default:false"`
	ReviewConfirmedByCertifier bool `json:"review_confirmed_by_certifier" gorm:"default:false"`

	SendDate  time.Time `json:"send_date"`
	Deadline  time.Time `json:"deadline"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Certificate) TableName() string { return "certificates" }

// CertifierSide reports whether the company acts as the certifier for this
// certificate. Self-certified certificates have no certifier side: the
// declarant company plays both roles.
func (c *Certificate) CertifierSide(companyID int64) bool {
	if c.IsSelf {
		return companyID == c.DeclarantCompanyID
	}
	return c.CertifierCompanyID != nil && *c.CertifierCompanyID == companyID
}

func (c *Certificate) DeclarantSide(companyID int64) bool {
	return companyID == c.DeclarantCompanyID
}

// ReviewTarget is the resolved target of a confirm_review event given the
// confirmation flags as they will be after the confirming party is recorded.
func (c *Certificate) ReviewTarget() CertificateStatus {
	if c.IsSelf {
		if c.ReviewConfirmedByDeclarant {
			return CertificateCompleted
		}
		return CertificateOnReview
	}
	if c.ReviewConfirmedByDeclarant && c.ReviewConfirmedByCertifier {
		return CertificateCompleted
	}
	return CertificateOnReview
}

// CertificateDeclaration links a certificate to the declarations it covers.
type CertificateDeclaration struct {
	ID            int64 `json:"id" gorm:"primaryKey"`
	CertificateID int64 `json:"certificate_id" gorm:"index;not null"`
	DeclarationID int64 `json:"declaration_id" gorm:"index;not null"`
}

func (CertificateDeclaration) TableName() string { return "certificate_declarations" }

// CertificateAction is an append-only audit entry. Rows are written only as
// a side effect of a successful transition and are never updated or deleted
// by users.
type CertificateAction struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	CertificateID int64     `json:"certificate_id" gorm:"index;not null"`
	UserID        int64     `json:"user_id" gorm:"not null"`
	Action        string    `json:"action" gorm:"not null"`
	OldValue      string    `json:"old_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
	Description   string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (CertificateAction) TableName() string { return "certificate_actions" }
