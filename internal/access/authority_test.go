package access

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "valkyrie/internal/errors"
	"valkyrie/internal/model"
	"valkyrie/internal/session"
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

// newTestContext builds an echo context carrying a session for userID, or an
// anonymous session when userID is nil.
func newTestContext(t *testing.T, userID uuid.UUID) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	s := session.New()
	if userID != uuid.Nil {
		s.Set(session.UserIDKey, userID.String())
	}
	session.Attach(c, s)
	return c
}

func TestAuthority_ResolveRole(t *testing.T) {
	ownerID := uuid.New()
	collaboratorID := uuid.New()
	strangerID := uuid.New()
	projectID := uuid.New()
	project := &model.Project{ID: projectID, Name: "Castle Quest", OwnerID: ownerID}

	tests := []struct {
		name          string
		userID        uuid.UUID
		setupMock     func(*MockProjectRepository, *MockCollaboratorRepository)
		expectedRole  Role
		expectedError error
	}{
		{
			name:   "owner resolves to owner",
			userID: ownerID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(project, nil)
			},
			expectedRole: RoleOwner,
		},
		{
			name:   "collaborator row resolves to collaborator",
			userID: collaboratorID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(project, nil)
				mc.On("Find", mock.Anything, projectID, collaboratorID).
					Return(&model.Collaborator{ProjectID: projectID, UserID: collaboratorID}, nil)
			},
			expectedRole: RoleCollaborator,
		},
		{
			name:   "no row resolves to none",
			userID: strangerID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(project, nil)
				mc.On("Find", mock.Anything, projectID, strangerID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedRole: RoleNone,
		},
		{
			name:   "missing project is signaled, not none",
			userID: ownerID,
			setupMock: func(mp *MockProjectRepository, mc *MockCollaboratorRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedRole:  RoleNone,
			expectedError: apperrors.ErrProjectNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProjects := new(MockProjectRepository)
			mockCollaborators := new(MockCollaboratorRepository)
			tt.setupMock(mockProjects, mockCollaborators)

			authority := NewAuthority(mockProjects, mockCollaborators)
			role, err := authority.ResolveRole(context.Background(), tt.userID, projectID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedRole, role)

			mockProjects.AssertExpectations(t)
			mockCollaborators.AssertExpectations(t)
		})
	}
}

func TestAuthority_RequireAccess(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	projectID := uuid.New()
	project := &model.Project{ID: projectID, OwnerID: ownerID}

	t.Run("unauthenticated is signaled for redirect", func(t *testing.T) {
		authority := NewAuthority(new(MockProjectRepository), new(MockCollaboratorRepository))

		ac, err := authority.RequireAccess(newTestContext(t, uuid.Nil), projectID)

		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
		assert.Nil(t, ac)
	})

	t.Run("role none is forbidden", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockCollaborators := new(MockCollaboratorRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockCollaborators.On("Find", mock.Anything, projectID, strangerID).Return(nil, gorm.ErrRecordNotFound)

		authority := NewAuthority(mockProjects, mockCollaborators)
		ac, err := authority.RequireAccess(newTestContext(t, strangerID), projectID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.Nil(t, ac)
	})

	t.Run("owner gets an access context", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		authority := NewAuthority(mockProjects, new(MockCollaboratorRepository))
		ac, err := authority.RequireAccess(newTestContext(t, ownerID), projectID)

		assert.NoError(t, err)
		assert.Equal(t, ownerID, ac.UserID)
		assert.Equal(t, projectID, ac.ProjectID)
		assert.Equal(t, RoleOwner, ac.Role)
		assert.True(t, ac.IsOwner())
	})
}

func TestAuthority_RequireOwnership(t *testing.T) {
	ownerID := uuid.New()
	collaboratorID := uuid.New()
	projectID := uuid.New()
	project := &model.Project{ID: projectID, OwnerID: ownerID}

	t.Run("collaborator is rejected", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockCollaborators := new(MockCollaboratorRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)
		mockCollaborators.On("Find", mock.Anything, projectID, collaboratorID).
			Return(&model.Collaborator{ProjectID: projectID, UserID: collaboratorID}, nil)

		authority := NewAuthority(mockProjects, mockCollaborators)
		ac, err := authority.RequireOwnership(newTestContext(t, collaboratorID), projectID)

		assert.ErrorIs(t, err, apperrors.ErrOwnershipRequired)
		assert.Nil(t, ac)
	})

	t.Run("owner passes", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		authority := NewAuthority(mockProjects, new(MockCollaboratorRepository))
		ac, err := authority.RequireOwnership(newTestContext(t, ownerID), projectID)

		assert.NoError(t, err)
		assert.Equal(t, RoleOwner, ac.Role)
	})
}

func TestAuthority_CheckAccess(t *testing.T) {
	ownerID := uuid.New()
	projectID := uuid.New()
	project := &model.Project{ID: projectID, OwnerID: ownerID}

	t.Run("swallows every failure", func(t *testing.T) {
		authority := NewAuthority(new(MockProjectRepository), new(MockCollaboratorRepository))

		assert.Nil(t, authority.CheckAccess(newTestContext(t, uuid.Nil), projectID))
	})

	t.Run("returns context on success", func(t *testing.T) {
		mockProjects := new(MockProjectRepository)
		mockProjects.On("FindByID", mock.Anything, projectID).Return(project, nil)

		authority := NewAuthority(mockProjects, new(MockCollaboratorRepository))
		ac := authority.CheckAccess(newTestContext(t, ownerID), projectID)

		assert.NotNil(t, ac)
		assert.Equal(t, RoleOwner, ac.Role)
	})
}
