package domain

import (
	"fmt"
	"time"
)

type DeclarationVehicle struct {
	VehicleType   string `json:"vehicle_type"`
	VehicleNumber string `json:"vehicle_number"`
}

// Declaration is a plain record, not a workflow entity: it never changes
// state, it is only referenced by certificates and tasks.
type Declaration struct {
	ID                int64                `json:"id" gorm:"primaryKey"`
	CompanyID         int64                `json:"company_id" gorm:"index;not null"`
	UserID            int64                `json:"user_id" gorm:"index;not null"`
	ClientID          int64                `json:"client_id" gorm:"index;not null"`
	GroupID           *int64               `json:"group_id,omitempty" gorm:"index"`
	PostNumber        string               `json:"post_number" gorm:"not null"`
	DeclarationNumber string               `json:"declaration_number" gorm:"not null"`
	SendDate          time.Time            `json:"send_date"`
	Regime            string               `json:"regime"`
	Note              string               `json:"note,omitempty" gorm:"type:text"`
	Vehicles          []DeclarationVehicle `json:"vehicles" gorm:"serializer:json"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func (Declaration) TableName() string { return "declarations" }

// DisplayNumber is derived from the post number, the declaration number and
// the send year. It is never stored and therefore never drifts.
func (d *Declaration) DisplayNumber() string {
	return fmt.Sprintf("%s/%s/%d", d.PostNumber, d.DeclarationNumber, d.SendDate.Year())
}

type DeclarationGroup struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CompanyID int64     `json:"company_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (DeclarationGroup) TableName() string { return "declaration_groups" }
