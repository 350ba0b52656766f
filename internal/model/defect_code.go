package model

import (
	"time"

	"gorm.io/gorm"
)

// DefectCode is a quality-control reference row. Each workspace gets a fixed
// default catalog at provisioning time.
type DefectCode struct {
	ID          string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	WorkspaceID string    `json:"workspace_id" gorm:"type:varchar(64);index;not null"`
	Code        string    `json:"code" gorm:"type:varchar(50);not null"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Severity    string    `json:"severity" gorm:"type:varchar(20)"`
	Category    string    `json:"category" gorm:"type:varchar(50)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a generated id when none was provided.
func (d *DefectCode) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = NewID(DefectCodePrefix)
	}
	return nil
}
