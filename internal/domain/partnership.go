package domain

import "time"

type PartnershipStatus string

const (
	PartnershipPending PartnershipStatus = "pending"
	PartnershipActive  PartnershipStatus = "active"
)

// Partnership is an unordered pair of companies. CompanyAID is always the
// smaller id; this rule keeps the pair unique without a symmetric lookup.
type Partnership struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	CompanyAID  int64             `json:"company_a_id" gorm:"uniqueIndex:idx_partnership_pair;not null"`
	CompanyBID  int64             `json:"company_b_id" gorm:"uniqueIndex:idx_partnership_pair;not null"`
	RequestedBy int64             `json:"requested_by_company_id" gorm:"column:requested_by_company_id;not null"`
	Status      PartnershipStatus `json:"status" gorm:"not null"`
	Note        string            `json:"note,omitempty" gorm:"type:text"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Partnership) TableName() string { return "partnerships" }

// NormalizePair orders two company ids for storage in a Partnership row.
func NormalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Involves reports whether the partnership includes the given company.
func (p *Partnership) Involves(companyID int64) bool {
	return p.CompanyAID == companyID || p.CompanyBID == companyID
}

// Counterpart returns the other company of the pair.
func (p *Partnership) Counterpart(companyID int64) int64 {
	if p.CompanyAID == companyID {
		return p.CompanyBID
	}
	return p.CompanyAID
}
