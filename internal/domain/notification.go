package domain

import "time"

// Notification type constants
const (
	NotifyCertificateCreated   = "certificate.created"
	NotifyCertificateStatus    = "certificate.status_changed"
	NotifyCertificateAssigned  = "certificate.assigned"
	NotifyCertificateNumber    = "certificate.number_filled"
	NotifyPaymentRequested     = "certificate.payment_requested"
	NotifyPaymentConfirmed     = "certificate.payment_confirmed"
	NotifyTaskCreated          = "task.created"
	NotifyTaskStatus           = "task.status_changed"
	NotifyPartnershipRequested = "partnership.requested"
	NotifyPartnershipApproved  = "partnership.approved"
	NotifyMembershipRequested  = "membership.requested"
	NotifyMembershipApproved   = "membership.approved"
)

type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	Type      string    `json:"type" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message,omitempty" gorm:"type:text"`
	Data      string    `json:"data,omitempty" gorm:"type:text"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
