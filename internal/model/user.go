package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents the user model stored in the database. Every user belongs
// to exactly one workspace.
type User struct {
	ID                 string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	WorkspaceID        string    `json:"workspace_id" gorm:"type:varchar(64);index;not null"`
	Email              string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash       string    `json:"-" gorm:"type:varchar(255)"`
	FirstName          string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName           string    `json:"last_name" gorm:"type:varchar(100)"`
	Role               string    `json:"role" gorm:"type:varchar(50);not null;default:'MEMBER'"`
	IsActive           bool      `json:"is_active" gorm:"default:true"`
	MustChangePassword bool      `json:"must_change_password" gorm:"default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BeforeCreate assigns a generated id when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID(UserPrefix)
	}
	return nil
}
