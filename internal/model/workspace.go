package model

import (
	"time"

	"gorm.io/gorm"
)

// Workspace represents an isolated tenant account. All business data is
// partitioned by WorkspaceID.
//
// Settings is a serialized configuration blob (tier, quotas, feature flags,
// branding, billing); see the tenant package for its shape and defaults.
type Workspace struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	Settings  string    `json:"-" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a generated id when none was provided.
func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = NewID(WorkspacePrefix)
	}
	return nil
}
