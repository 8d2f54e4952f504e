package partnership

import "customscrm/internal/domain"

type SendRequestRequest struct {
	TargetINN string `json:"target_inn" binding:"required"`
	Note      string `json:"note"`
}

type HandleRequestRequest struct {
	Approve bool `json:"approve"`
}

// CompanyLookupResponse is the by-INN search result shown before sending a
// request.
type CompanyLookupResponse struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	INN          string              `json:"inn"`
	ActivityType domain.ActivityType `json:"activity_type"`
}

// PartnershipView decorates the stored pair with the counterpart company the
// viewer cares about.
type PartnershipView struct {
	domain.Partnership
	Partner CompanyLookupResponse `json:"partner"`
}
