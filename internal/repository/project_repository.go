package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"valkyrie/internal/model"
)

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error)
	ListByCollaborator(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository builds a GORM-backed repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// FindByID loads the bare project row. Role resolution only needs OwnerID, so
// this stays preload-free.
func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDWithRelations loads the project with its owner and collaborator users.
func (r *projectRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Collaborators.User").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Collaborators.User").
		Where("owner_id = ?", ownerID).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByCollaborator returns projects where the user holds a collaborator row.
func (r *projectRepository) ListByCollaborator(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Collaborators.User").
		Joins("JOIN collaborators ON collaborators.project_id = projects.id").
		Where("collaborators.user_id = ?", userID).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
