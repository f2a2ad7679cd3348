package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "valkyrie/internal/errors"
	"valkyrie/internal/model"
	"valkyrie/internal/repository"
)

const userSearchLimit = 10

// minSearchQueryLen keeps single-character searches from sweeping the whole
// user table.
const minSearchQueryLen = 2

// ProjectUpdate carries the mutable project fields.
type ProjectUpdate struct {
	Name        string
	Description string
}

// ProjectService handles project CRUD, collaborator management, and maps.
type ProjectService interface {
	Create(ctx context.Context, ownerID uuid.UUID, name, description, template string) (*model.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	Update(ctx context.Context, id uuid.UUID, update ProjectUpdate) (*model.Project, error)
	AddCollaborator(ctx context.Context, projectID, userID uuid.UUID) (*model.Collaborator, error)
	RemoveCollaborator(ctx context.Context, projectID, userID uuid.UUID) error
	SearchUsers(ctx context.Context, query string) ([]model.User, error)
	CreateMap(ctx context.Context, projectID, createdBy uuid.UUID, name, description string, width, height int) (*model.GameMap, error)
	ListMaps(ctx context.Context, projectID uuid.UUID) ([]model.GameMap, error)
}

type projectService struct {
	projects      repository.ProjectRepository
	collaborators repository.CollaboratorRepository
	users         repository.UserRepository
	maps          repository.MapRepository
}

// NewProjectService creates a new project service.
func NewProjectService(
	projects repository.ProjectRepository,
	collaborators repository.CollaboratorRepository,
	users repository.UserRepository,
	maps repository.MapRepository,
) ProjectService {
	return &projectService{
		projects:      projects,
		collaborators: collaborators,
		users:         users,
		maps:          maps,
	}
}

// Create creates a project for the owner. The starter template seeds an
// initial map so the project opens with something editable.
func (s *projectService) Create(ctx context.Context, ownerID uuid.UUID, name, description, template string) (*model.Project, error) {
	project := &model.Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if template == model.TemplateStarter {
		starter := &model.GameMap{
			ProjectID:   project.ID,
			Name:        "Starting Area",
			Description: "A blank starting area to build from.",
			Width:       32,
			Height:      32,
			CreatedBy:   ownerID,
		}
		if err := s.maps.Create(ctx, starter); err != nil {
			return nil, fmt.Errorf("seed starter map: %w", err)
		}
	}
	return project, nil
}

// Get loads a project with its owner and collaborator users.
func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.FindByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

// ListForUser returns projects the user owns or collaborates on, deduplicated.
func (s *projectService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	owned, err := s.projects.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned projects: %w", err)
	}
	collaborating, err := s.projects.ListByCollaborator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list collaborating projects: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(owned))
	all := make([]model.Project, 0, len(owned)+len(collaborating))
	for _, p := range owned {
		seen[p.ID] = struct{}{}
		all = append(all, p)
	}
	for _, p := range collaborating {
		if _, ok := seen[p.ID]; !ok {
			all = append(all, p)
		}
	}
	return all, nil
}

// Update applies name and description changes.
func (s *projectService) Update(ctx context.Context, id uuid.UUID, update ProjectUpdate) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	project.Name = update.Name
	project.Description = update.Description
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return s.Get(ctx, id)
}

// AddCollaborator grants a user non-owner access. The target must exist, must
// not be the project owner, and must not already collaborate. The duplicate
// pre-check keeps the common case friendly; the unique index closes the race,
// and a constraint violation maps to the same conflict.
func (s *projectService) AddCollaborator(ctx context.Context, projectID, userID uuid.UUID) (*model.Collaborator, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	if project.OwnerID == userID {
		return nil, apperrors.ErrOwnerAsCollaborator
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if _, err := s.collaborators.Find(ctx, projectID, userID); err == nil {
		return nil, apperrors.ErrCollaboratorExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check collaborator existence: %w", err)
	}

	collaborator := &model.Collaborator{
		ProjectID: projectID,
		UserID:    userID,
	}
	if err := s.collaborators.Create(ctx, collaborator); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrCollaboratorExists
		}
		return nil, fmt.Errorf("create collaborator: %w", err)
	}
	return collaborator, nil
}

// RemoveCollaborator revokes access. Removing an absent pair is a no-op.
func (s *projectService) RemoveCollaborator(ctx context.Context, projectID, userID uuid.UUID) error {
	if err := s.collaborators.Delete(ctx, projectID, userID); err != nil {
		return fmt.Errorf("remove collaborator: %w", err)
	}
	return nil
}

// SearchUsers finds candidates for collaborator invites. Queries shorter than
// two characters return no results.
func (s *projectService) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	if len(query) < minSearchQueryLen {
		return []model.User{}, nil
	}
	users, err := s.users.Search(ctx, query, userSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// CreateMap adds a map to the project. Access is checked at the route layer;
// any project member may create maps.
func (s *projectService) CreateMap(ctx context.Context, projectID, createdBy uuid.UUID, name, description string, width, height int) (*model.GameMap, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	gameMap := &model.GameMap{
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		Width:       width,
		Height:      height,
		CreatedBy:   createdBy,
	}
	if err := s.maps.Create(ctx, gameMap); err != nil {
		return nil, fmt.Errorf("create map: %w", err)
	}
	return gameMap, nil
}

// ListMaps returns the project's maps in creation order.
func (s *projectService) ListMaps(ctx context.Context, projectID uuid.UUID) ([]model.GameMap, error) {
	maps, err := s.maps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	return maps, nil
}
