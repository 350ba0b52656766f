package model

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a customer of a workspace.
type Client struct {
	ID          string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	WorkspaceID string    `json:"workspace_id" gorm:"type:varchar(64);index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Email       string    `json:"email" gorm:"type:varchar(100)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a generated id when none was provided.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID(ClientPrefix)
	}
	return nil
}
