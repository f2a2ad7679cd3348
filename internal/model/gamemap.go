package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameMap is a tile map belonging to a project. Any project member may
// create maps; access control happens at the project level.
type GameMap struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProjectID   uuid.UUID `json:"project_id" gorm:"type:char(36);not null;index"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description,omitempty" gorm:"size:500"`
	Width       int       `json:"width" gorm:"not null;default:32"`  // in tiles
	Height      int       `json:"height" gorm:"not null;default:32"` // in tiles
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:char(36);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (m *GameMap) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
