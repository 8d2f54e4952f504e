package domain

import "time"

type ClientAccessType string

const (
	ClientPublic  ClientAccessType = "public"
	ClientPrivate ClientAccessType = "private"
)

// Client is a counterparty record owned by one company. Ownership never
// crosses company boundaries; private clients are additionally restricted
// to their creator and the ids in GrantedUserIDs.
type Client struct {
	ID             int64            `json:"id" gorm:"primaryKey"`
	CompanyID      int64            `json:"company_id" gorm:"index;not null"`
	CreatedByID    int64            `json:"created_by_user_id" gorm:"column:created_by_user_id;not null"`
	CompanyName    string           `json:"company_name" gorm:"not null"`
	INN            string           `json:"inn,omitempty" gorm:"column:inn"`
	DirectorName   string           `json:"director_name,omitempty"`
	AccessType     ClientAccessType `json:"access_type" gorm:"not null"`
	Note           string           `json:"note,omitempty" gorm:"type:text"`
	GrantedUserIDs []int64          `json:"granted_user_ids,omitempty" gorm:"serializer:json"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

// VisibleTo applies the private-client gate. Tenant isolation is checked
// separately by the access policy.
func (c *Client) VisibleTo(userID int64) bool {
	if c.AccessType == ClientPublic {
		return true
	}
	if c.CreatedByID == userID {
		return true
	}
	for _, id := range c.GrantedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
