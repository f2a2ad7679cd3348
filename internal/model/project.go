package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project templates selectable at creation time.
const (
	TemplateBlank   = "blank"
	TemplateStarter = "starter"
)

// Project is a game-design project owned by exactly one user. Non-owner
// access is granted through Collaborator rows; the role itself is computed,
// never stored.
type Project struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;index"`
	Description string    `json:"description,omitempty" gorm:"size:500"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner         *User          `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Collaborators []Collaborator `json:"collaborators,omitempty" gorm:"foreignKey:ProjectID"`
	Maps          []GameMap      `json:"maps,omitempty" gorm:"foreignKey:ProjectID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
