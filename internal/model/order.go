package model

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderStatusDraft        = "DRAFT"
	OrderStatusConfirmed    = "CONFIRMED"
	OrderStatusInProduction = "IN_PRODUCTION"
	OrderStatusCompleted    = "COMPLETED"
	OrderStatusCancelled    = "CANCELLED"
)

// Order represents a production order. CreatedAt drives the monthly order
// quota window.
type Order struct {
	ID          string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	WorkspaceID string    `json:"workspace_id" gorm:"type:varchar(64);index;not null"`
	OrderNumber string    `json:"order_number" gorm:"type:varchar(50);not null"`
	ClientID    string    `json:"client_id" gorm:"type:varchar(64);index"`
	Status      string    `json:"status" gorm:"type:varchar(30);not null;default:'DRAFT'"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a generated id when none was provided.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID(OrderPrefix)
	}
	return nil
}
