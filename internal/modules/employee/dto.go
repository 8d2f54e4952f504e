package employee

import "customscrm/internal/domain"

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=director senior employee"`
}

type RemoveRequest struct {
	// TransferToUserID receives the removed user's clients, declarations,
	// certificates and tasks.
	TransferToUserID int64 `json:"transfer_to_user_id" binding:"required"`
}

// CompanyEmployees is one group of the employees screen: a company and its
// visible staff.
type CompanyEmployees struct {
	CompanyID   int64         `json:"company_id"`
	CompanyName string        `json:"company_name"`
	IsOwn       bool          `json:"is_own"`
	Employees   []domain.User `json:"employees"`
}
