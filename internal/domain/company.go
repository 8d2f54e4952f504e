package domain

import "time"

type ActivityType string

const (
	ActivityDeclarant ActivityType = "declarant"
	ActivityCertifier ActivityType = "certifier"
)

func (a ActivityType) Valid() bool {
	return a == ActivityDeclarant || a == ActivityCertifier
}

// Company is the tenant boundary: every entity in the system belongs to
// exactly one company, and visibility across companies exists only through
// partnerships.
type Company struct {
	ID           int64        `json:"id" gorm:"primaryKey"`
	Name         string       `json:"name" gorm:"not null"`
	INN          string       `json:"inn" gorm:"column:inn;uniqueIndex;size:9"`
	ActivityType ActivityType `json:"activity_type" gorm:"not null"`
	IsActive     bool         `json:"is_active" gorm:"default:true"`
	IsBlocked    bool         `json:"is_blocked" gorm:"default:false"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

// MembershipRequest is created when a registered user asks to join an
// existing company by INN. Only the company director can approve it.
type MembershipRequest struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CompanyID int64     `json:"company_id" gorm:"index;not null"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (MembershipRequest) TableName() string { return "membership_requests" }
