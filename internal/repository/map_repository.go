package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"valkyrie/internal/model"
)

// MapRepository defines game map persistence operations.
type MapRepository interface {
	Create(ctx context.Context, gameMap *model.GameMap) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.GameMap, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.GameMap, error)
}

type mapRepository struct {
	db *gorm.DB
}

// NewMapRepository builds a GORM-backed repository.
func NewMapRepository(db *gorm.DB) MapRepository {
	return &mapRepository{db: db}
}

func (r *mapRepository) Create(ctx context.Context, gameMap *model.GameMap) error {
	return r.db.WithContext(ctx).Create(gameMap).Error
}

func (r *mapRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.GameMap, error) {
	var gameMap model.GameMap
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&gameMap).Error; err != nil {
		return nil, err
	}
	return &gameMap, nil
}

func (r *mapRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.GameMap, error) {
	var maps []model.GameMap
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&maps).Error; err != nil {
		return nil, err
	}
	return maps, nil
}
