package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collaborator links a project and a user with non-owner access. The
// composite unique index makes duplicate (project, user) pairs impossible at
// the storage layer regardless of application-level pre-checks.
type Collaborator struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:char(36);not null;uniqueIndex:idx_project_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_project_user"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Collaborator) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
