package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"valkyrie/internal/model"
)

// CollaboratorRepository defines collaborator persistence operations.
type CollaboratorRepository interface {
	Create(ctx context.Context, collaborator *model.Collaborator) error
	Find(ctx context.Context, projectID, userID uuid.UUID) (*model.Collaborator, error)
	Delete(ctx context.Context, projectID, userID uuid.UUID) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Collaborator, error)
}

type collaboratorRepository struct {
	db *gorm.DB
}

// NewCollaboratorRepository builds a GORM-backed repository.
func NewCollaboratorRepository(db *gorm.DB) CollaboratorRepository {
	return &collaboratorRepository{db: db}
}

func (r *collaboratorRepository) Create(ctx context.Context, collaborator *model.Collaborator) error {
	return r.db.WithContext(ctx).Create(collaborator).Error
}

func (r *collaboratorRepository) Find(ctx context.Context, projectID, userID uuid.UUID) (*model.Collaborator, error) {
	var collaborator model.Collaborator
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&collaborator).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

// Delete removes the pair if present. Deleting an absent pair is not an error.
func (r *collaboratorRepository) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.Collaborator{}).Error
}

func (r *collaboratorRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Collaborator, error) {
	var collaborators []model.Collaborator
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Find(&collaborators).Error; err != nil {
		return nil, err
	}
	return collaborators, nil
}
