// Package access resolves and enforces per-project roles. A user's role is
// computed from the project owner and collaborator rows on every check, never
// cached or stored, so collaborator add/remove takes effect immediately.
package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "valkyrie/internal/errors"
	"valkyrie/internal/repository"
	"valkyrie/internal/session"
)

// Role is a user's computed role for a project.
type Role string

const (
	// RoleOwner is the single user who created the project.
	RoleOwner Role = "owner"
	// RoleCollaborator is a user granted non-owner access.
	RoleCollaborator Role = "collaborator"
	// RoleNone means the user has no access to the project.
	RoleNone Role = "none"
)

// AccessContext is the result of a successful access check.
type AccessContext struct {
	UserID    uuid.UUID `json:"user_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Role      Role      `json:"role"`
}

// IsOwner reports whether the checked user owns the project.
func (a *AccessContext) IsOwner() bool {
	return a.Role == RoleOwner
}

// Authority answers whether a user may view or administer a project.
type Authority struct {
	projects      repository.ProjectRepository
	collaborators repository.CollaboratorRepository
}

// NewAuthority creates an access authority over the given repositories.
func NewAuthority(projects repository.ProjectRepository, collaborators repository.CollaboratorRepository) *Authority {
	return &Authority{
		projects:      projects,
		collaborators: collaborators,
	}
}

// ResolveRole computes the user's role for a project. A missing project is
// signaled as ErrProjectNotFound, distinct from RoleNone on an existing one.
func (a *Authority) ResolveRole(ctx context.Context, userID, projectID uuid.UUID) (Role, error) {
	project, err := a.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, apperrors.ErrProjectNotFound
		}
		return RoleNone, err
	}

	if project.OwnerID == userID {
		return RoleOwner, nil
	}

	if _, err := a.collaborators.Find(ctx, projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil
		}
		return RoleNone, err
	}
	return RoleCollaborator, nil
}

// RequireAccess resolves the request's session and the user's role. It
// returns ErrUnauthenticated when no user is signed in (callers redirect to
// sign-in) and ErrForbidden when the user has no role on the project.
func (a *Authority) RequireAccess(c echo.Context, projectID uuid.UUID) (*AccessContext, error) {
	userID, ok := session.CurrentUserID(c)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}

	role, err := a.ResolveRole(c.Request().Context(), userID, projectID)
	if err != nil {
		return nil, err
	}
	if role == RoleNone {
		return nil, apperrors.ErrForbidden
	}

	return &AccessContext{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
	}, nil
}

// RequireOwnership is RequireAccess plus an owner-role check.
func (a *Authority) RequireOwnership(c echo.Context, projectID uuid.UUID) (*AccessContext, error) {
	ac, err := a.RequireAccess(c, projectID)
	if err != nil {
		return nil, err
	}
	if ac.Role != RoleOwner {
		return nil, apperrors.ErrOwnershipRequired
	}
	return ac, nil
}

// CheckAccess is RequireAccess with every failure swallowed. It exists for
// conditional rendering only and must never gate a mutating action.
func (a *Authority) CheckAccess(c echo.Context, projectID uuid.UUID) *AccessContext {
	ac, err := a.RequireAccess(c, projectID)
	if err != nil {
		return nil
	}
	return ac
}
