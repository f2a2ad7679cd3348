package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds per-user customization. It is created lazily the first time a
// user's profile is read, so every field besides UserID is optional.
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);uniqueIndex;not null"`
	Tagline   string    `json:"tagline,omitempty" gorm:"size:160"`
	Bio       string    `json:"bio,omitempty" gorm:"size:1000"`
	Avatar    string    `json:"avatar,omitempty" gorm:"size:255"` // public path, e.g. /users/uploads/avatars/<id>.png
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
