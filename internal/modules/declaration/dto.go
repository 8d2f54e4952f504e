package declaration

import (
	"time"

	"customscrm/internal/domain"
)

type CreateDeclarationRequest struct {
	ClientID          int64                       `json:"client_id" binding:"required"`
	PostNumber        string                      `json:"post_number" binding:"required"`
	DeclarationNumber string                      `json:"declaration_number" binding:"required"`
	SendDate          time.Time                   `json:"send_date" binding:"required"`
	Regime            string                      `json:"regime"`
	Note              string                      `json:"note"`
	Vehicles          []domain.DeclarationVehicle `json:"vehicles"`
	GroupID           *int64                      `json:"group_id"`
}

type UpdateDeclarationRequest struct {
	PostNumber        *string                      `json:"post_number"`
	DeclarationNumber *string                      `json:"declaration_number"`
	SendDate          *time.Time                   `json:"send_date"`
	Regime            *string                      `json:"regime"`
	Note              *string                      `json:"note"`
	Vehicles          *[]domain.DeclarationVehicle `json:"vehicles"`
	GroupID           *int64                       `json:"group_id"`
}

type RedirectRequest struct {
	TargetUserID int64 `json:"target_user_id" binding:"required"`
}

type ListRequest struct {
	MyOnly   bool       `form:"my_only"`
	UserID   *int64     `form:"user_id"`
	ClientID *int64     `form:"client_id"`
	GroupID  *int64     `form:"group_id"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	Skip     int        `form:"skip"`
	Limit    int        `form:"limit"`
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// DeclarationView adds the derived display number to the stored record.
type DeclarationView struct {
	domain.Declaration
	DisplayNumber string `json:"display_number"`
}

func toView(d domain.Declaration) DeclarationView {
	return DeclarationView{Declaration: d, DisplayNumber: d.DisplayNumber()}
}
