package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "valkyrie/internal/errors"
	"valkyrie/internal/model"
)

// MockProjectRepository is a mock implementation of ProjectRepository.
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByCollaborator(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

// MockCollaboratorRepository is a mock implementation of CollaboratorRepository.
type MockCollaboratorRepository struct {
	mock.Mock
}

func (m *MockCollaboratorRepository) Create(ctx context.Context, collaborator *model.Collaborator) error {
	args := m.Called(ctx, collaborator)
	return args.Error(0)
}

func (m *MockCollaboratorRepository) Find(ctx context.Context, projectID, userID uuid.UUID) (*model.Collaborator, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Collaborator), args.Error(1)
}

func (m *MockCollaboratorRepository) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockCollaboratorRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Collaborator, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collaborator), args.Error(1)
}

// MockMapRepository is a mock implementation of MapRepository.
type MockMapRepository struct {
	mock.Mock
}

func (m *MockMapRepository) Create(ctx context.Context, gameMap *model.GameMap) error {
	args := m.Called(ctx, gameMap)
	return args.Error(0)
}

func (m *MockMapRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.GameMap, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GameMap), args.Error(1)
}

func (m *MockMapRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.GameMap, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GameMap), args.Error(1)
}

func newProjectService(projects *MockProjectRepository, collaborators *MockCollaboratorRepository, users *MockUserRepository, maps *MockMapRepository) ProjectService {
	return NewProjectService(projects, collaborators, users, maps)
}

func TestProjectService_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("blank template creates no map", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockMaps := new(MockMapRepository)
		mockProjects.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).Return(nil)

		svc := newProjectService(mockProjects, new(MockCollaboratorRepository), new(MockUserRepository), mockMaps)
		project, err := svc.Create(context.Background(), ownerID, "Castle Quest", "", model.TemplateBlank)

		assert.NoError(t, err)
		assert.Equal(t, ownerID, project.OwnerID)
		mockMaps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockProjects.AssertExpectations(t)
	})

	t.Run("starter template seeds an initial map", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockMaps := new(MockMapRepository)
		mockProjects.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).Return(nil)
		mockMaps.On("Create", mock.Anything, mock.MatchedBy(func(gm *model.GameMap) bool {
			return gm.Name == "Starting Area" && gm.CreatedBy == ownerID
		})).Return(nil)

		svc := newProjectService(mockProjects, new(MockCollaboratorRepository), new(MockUserRepository), mockMaps)
		_, err := svc.Create(context.Background(), ownerID, "Castle Quest", "", model.TemplateStarter)

		assert.NoError(t, err)
		mockMaps.AssertExpectations(t)
	})
}

func TestProjectService_AddCollaborator(t *testing.T) {
	ownerID := uuid.New()
	userID := uuid.New()
	projectID := uuid.New()
	project := &model.Project{ID: projectID, OwnerID: ownerID}

	tests := []struct {
		name          string
		targetID      uuid.UUID
		setupMock     func(*MockProjectRepository, *MockCollaboratorRepository, *MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful add",
			targetID: userID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(project, nil)
				mu.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				mc.On("Find", mock.Anything, projectID, userID).Return(nil, gorm.ErrRecordNotFound)
				mc.On("Create", mock.Anything, mock.AnythingOfType("*model.Collaborator")).Return(nil)
			},
		},
		{
			name:     "owner cannot add themselves",
			targetID: ownerID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(project, nil)
			},
			expectedError: apperrors.ErrOwnerAsCollaborator,
		},
		{
			name:     "unknown user",
			targetID: userID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(project, nil)
				mu.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:     "duplicate pair is a conflict",
			targetID: userID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(project, nil)
				mu.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				mc.On("Find", mock.Anything, projectID, userID).
					Return(&model.Collaborator{ProjectID: projectID, UserID: userID}, nil)
			},
			expectedError: apperrors.ErrCollaboratorExists,
		},
		{
			name:     "lost race maps the constraint violation to the same conflict",
			targetID: userID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(project, nil)
				mu.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				mc.On("Find", mock.Anything, projectID, userID).Return(nil, gorm.ErrRecordNotFound)
				mc.On("Create", mock.Anything, mock.AnythingOfType("*model.Collaborator")).
					Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrCollaboratorExists,
		},
		{
			name:     "missing project",
			targetID: userID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrProjectNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProjects := new(MockProjectRepository)
			mockCollaborators := new(MockCollaboratorRepository)
			mockUsers := new(MockUserRepository)
			tt.setupMock(mockProjects, mockCollaborators, mockUsers)

			svc := newProjectService(mockProjects, mockCollaborators, mockUsers, new(MockMapRepository))
			collaborator, err := svc.AddCollaborator(context.Background(), projectID, tt.targetID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, collaborator)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, projectID, collaborator.ProjectID)
				assert.Equal(t, tt.targetID, collaborator.UserID)
			}

			mockProjects.AssertExpectations(t)
			mockCollaborators.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestProjectService_RemoveCollaborator(t *testing.T) {
	projectID := uuid.New()
	userID := uuid.New()

	mockCollaborators := new(MockCollaboratorRepository)
	mockCollaborators.On("Delete", mock.Anything, projectID, userID).Return(nil)

	svc := newProjectService(new(MockProjectRepository), mockCollaborators, new(MockUserRepository), new(MockMapRepository))

	assert.NoError(t, svc.RemoveCollaborator(context.Background(), projectID, userID))
	mockCollaborators.AssertExpectations(t)
}

func TestProjectService_ListForUser(t *testing.T) {
	userID := uuid.New()
	shared := model.Project{ID: uuid.New(), Name: "Shared"}
	owned := model.Project{ID: uuid.New(), Name: "Owned", OwnerID: userID}

	mockProjects := new(MockProjectRepository)
	// the same project can come back from both queries; it must appear once
	mockProjects.On("ListByOwner", mock.Anything, userID).Return([]model.Project{owned, shared}, nil)
	mockProjects.On("ListByCollaborator", mock.Anything, userID).Return([]model.Project{shared}, nil)

	svc := newProjectService(mockProjects, new(MockCollaboratorRepository), new(MockUserRepository), new(MockMapRepository))
	projects, err := svc.ListForUser(context.Background(), userID)

	assert.NoError(t, err)
	assert.Len(t, projects, 2)
	mockProjects.AssertExpectations(t)
}

func TestProjectService_SearchUsers(t *testing.T) {
	t.Run("short query returns empty without touching the repository", func(t *testing.T) {
		mockUsers := new(MockUserRepository)

		svc := newProjectService(new(MockProjectRepository), new(MockCollaboratorRepository), mockUsers, new(MockMapRepository))
		users, err := svc.SearchUsers(context.Background(), "a")

		assert.NoError(t, err)
		assert.Empty(t, users)
		mockUsers.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("search is limited to ten results", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("Search", mock.Anything, "ali", 10).Return([]model.User{{Username: "alice"}}, nil)

		svc := newProjectService(new(MockProjectRepository), new(MockCollaboratorRepository), mockUsers, new(MockMapRepository))
		users, err := svc.SearchUsers(context.Background(), "ali")

		assert.NoError(t, err)
		assert.Len(t, users, 1)
		mockUsers.AssertExpectations(t)
	})
}
