package domain

import "time"

type UserRole string

const (
	RoleDirector UserRole = "director"
	RoleSenior   UserRole = "senior"
	RoleEmployee UserRole = "employee"
)

type User struct {
	ID           int64        `json:"id" gorm:"primaryKey"`
	CompanyID    *int64       `json:"company_id,omitempty" gorm:"index"`
	FullName     string       `json:"full_name" gorm:"not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string       `json:"phone,omitempty"`
	PasswordHash string       `json:"-"`
	Role         UserRole     `json:"role,omitempty"`
	ActivityType ActivityType `json:"activity_type"`
	SoundEnabled bool         `json:"sound_enabled" gorm:"default:true"`
	IsActive     bool         `json:"is_active" gorm:"default:true"`
	IsBlocked    bool         `json:"is_blocked" gorm:"default:false"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// InCompany reports whether the user is an approved member of a company.
func (u *User) InCompany() bool { return u.CompanyID != nil }
