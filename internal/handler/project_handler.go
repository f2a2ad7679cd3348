package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"valkyrie/internal/access"
	apperrors "valkyrie/internal/errors"
	"valkyrie/internal/service"
	"valkyrie/internal/session"
)

// Settings form actions, dispatched on the "action" form field.
const (
	actionUpdateProject      = "update_project"
	actionAddCollaborator    = "add_collaborator"
	actionRemoveCollaborator = "remove_collaborator"
	actionSearchUsers        = "search_users"
)

// ProjectHandler handles project CRUD, settings, and maps.
type ProjectHandler struct {
	projectService service.ProjectService
	userService    service.UserService
	authority      *access.Authority
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectService service.ProjectService, userService service.UserService, authority *access.Authority) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		userService:    userService,
		authority:      authority,
	}
}

// CreateProjectRequest represents the new-project form.
type CreateProjectRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=3,max=50"`
	Description string `json:"description" form:"description" validate:"max=500"`
	Template    string `json:"template" form:"template" validate:"required,oneof=blank starter"`
}

// CreateMapRequest represents the new-map form.
type CreateMapRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" form:"description" validate:"max=500"`
	Width       int    `json:"width" form:"width" validate:"omitempty,min=8,max=512"`
	Height      int    `json:"height" form:"height" validate:"omitempty,min=8,max=512"`
}

// ActionResponse mirrors the settings form feedback shape.
type ActionResponse struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewProjectForm godoc
// @Summary Data for the new-project form
// @Tags projects
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 302
// @Router /projects/new [get]
func (h *ProjectHandler) NewProjectForm(c echo.Context) error {
	userID, ok := session.CurrentUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/auth/sign-in")
	}

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.Redirect(http.StatusFound, "/auth/sign-in")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Project name (3-50 chars)"
// @Param description formData string false "Description (max 500 chars)"
// @Param template formData string true "Template" Enums(blank, starter)
// @Success 303
// @Failure 400 {object} map[string]string
// @Router /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, ok := session.CurrentUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/auth/sign-in")
	}

	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := h.projectService.Create(
		c.Request().Context(),
		userID,
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Description),
		req.Template,
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create project")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Show godoc
// @Summary Project overview
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) Show(c echo.Context) error {
	projectID, err := h.projectID(c)
	if err != nil {
		return err
	}

	ac, err := h.authority.RequireAccess(c, projectID)
	if err != nil {
		return h.accessError(c, err)
	}

	project, err := h.projectService.Get(c.Request().Context(), projectID)
	if err != nil {
		return h.accessError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"project":  project,
		"userRole": ac.Role,
		"isOwner":  ac.IsOwner(),
	})
}

// Settings godoc
// @Summary Project settings (owner only)
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/settings [get]
func (h *ProjectHandler) Settings(c echo.Context) error {
	projectID, err := h.projectID(c)
	if err != nil {
		return err
	}

	if _, err := h.authority.RequireOwnership(c, projectID); err != nil {
		return h.accessError(c, err)
	}

	project, err := h.projectService.Get(c.Request().Context(), projectID)
	if err != nil {
		return h.accessError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"project": project})
}

// SettingsAction godoc
// @Summary Project settings mutations (owner only)
// @Description Dispatches on the "action" form field: update_project,
// @Description add_collaborator, remove_collaborator, or search_users.
// @Tags projects
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Project ID"
// @Param action formData string true "Action" Enums(update_project, add_collaborator, remove_collaborator, search_users)
// @Success 200 {object} ActionResponse
// @Failure 400 {object} ActionResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} ActionResponse
// @Router /projects/{id}/settings [post]
func (h *ProjectHandler) SettingsAction(c echo.Context) error {
	projectID, err := h.projectID(c)
	if err != nil {
		return err
	}

	ac, err := h.authority.RequireOwnership(c, projectID)
	if err != nil {
		return h.accessError(c, err)
	}

	switch c.FormValue("action") {
	case actionUpdateProject:
		return h.updateProject(c, projectID)
	case actionAddCollaborator:
		return h.addCollaborator(c, ac)
	case actionRemoveCollaborator:
		return h.removeCollaborator(c, projectID)
	case actionSearchUsers:
		return h.searchUsers(c)
	default:
		return c.JSON(http.StatusBadRequest, ActionResponse{Error: "Invalid action"})
	}
}

func (h *ProjectHandler) updateProject(c echo.Context, projectID uuid.UUID) error {
	name := strings.TrimSpace(c.FormValue("name"))
	description := strings.TrimSpace(c.FormValue("description"))

	if name == "" {
		return c.JSON(http.StatusBadRequest, ActionResponse{Error: "Project name is required"})
	}
	if len(name) > 100 {
		return c.JSON(http.StatusBadRequest, ActionResponse{Error: "Project name must be 100 characters or less"})
	}
	if len(description) > 500 {
		return c.JSON(http.StatusBadRequest, ActionResponse{Error: "Project description must be 500 characters or less"})
	}

	if _, err := h.projectService.Update(c.Request().Context(), projectID, service.ProjectUpdate{
		Name:        name,
		Description: description,
	}); err != nil {
		return h.actionError(c, err)
	}
	return c.JSON(http.StatusOK, ActionResponse{Success: "Project updated successfully"})
}

func (h *ProjectHandler) addCollaborator(c echo.Context, ac *access.AccessContext) error {
	collaboratorID, err := uuid.Parse(c.FormValue("collaboratorId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ActionResponse{Error: "Collaborator ID is required"})
	}
	if collaboratorID == ac.UserID {
		return c.JSON(http.StatusBadRequest, ActionResponse{Error: apperrors.ErrOwnerAsCollaborator.Error()})
	}

	if _, err := h.projectService.AddCollaborator(c.Request().Context(), ac.ProjectID, collaboratorID); err != nil {
		return h.actionError(c, err)
	}
	return c.JSON(http.StatusOK, ActionResponse{Success: "Collaborator added successfully"})
}

func (h *ProjectHandler) removeCollaborator(c echo.Context, projectID uuid.UUID) error {
	collaboratorID, err := uuid.Parse(c.FormValue("collaboratorId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ActionResponse{Error: "Collaborator ID is required"})
	}

	if err := h.projectService.RemoveCollaborator(c.Request().Context(), projectID, collaboratorID); err != nil {
		return h.actionError(c, err)
	}
	return c.JSON(http.StatusOK, ActionResponse{Success: "Collaborator removed successfully"})
}

func (h *ProjectHandler) searchUsers(c echo.Context) error {
	users, err := h.projectService.SearchUsers(c.Request().Context(), c.FormValue("query"))
	if err != nil {
		return h.actionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

// Maps godoc
// @Summary List project maps
// @Tags maps
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/maps [get]
func (h *ProjectHandler) Maps(c echo.Context) error {
	projectID, err := h.projectID(c)
	if err != nil {
		return err
	}

	ac, err := h.authority.RequireAccess(c, projectID)
	if err != nil {
		return h.accessError(c, err)
	}

	maps, err := h.projectService.ListMaps(c.Request().Context(), projectID)
	if err != nil {
		return h.accessError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"maps":     maps,
		"userRole": ac.Role,
	})
}

// CreateMap godoc
// @Summary Create a project map
// @Tags maps
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Project ID"
// @Param name formData string true "Map name"
// @Param description formData string false "Description"
// @Param width formData int false "Width in tiles (8-512, default 32)"
// @Param height formData int false "Height in tiles (8-512, default 32)"
// @Success 201 {object} model.GameMap
// @Failure 400 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Router /projects/{id}/maps [post]
func (h *ProjectHandler) CreateMap(c echo.Context) error {
	projectID, err := h.projectID(c)
	if err != nil {
		return err
	}

	ac, err := h.authority.RequireAccess(c, projectID)
	if err != nil {
		return h.accessError(c, err)
	}

	var req CreateMapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Width == 0 {
		req.Width = 32
	}
	if req.Height == 0 {
		req.Height = 32
	}

	gameMap, err := h.projectService.CreateMap(
		c.Request().Context(),
		projectID,
		ac.UserID,
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Description),
		req.Width,
		req.Height,
	)
	if err != nil {
		return h.accessError(c, err)
	}
	return c.JSON(http.StatusCreated, gameMap)
}

// projectID parses the :id route param. An unparseable ID cannot reference
// any project, so it reads as not found.
func (h *ProjectHandler) projectID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrProjectNotFound)
		return uuid.Nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return id, nil
}

// accessError turns authority and lookup failures into responses:
// unauthenticated users are redirected to sign-in, everything else maps to
// its HTTP status.
func (h *ProjectHandler) accessError(c echo.Context, err error) error {
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		return c.Redirect(http.StatusFound, "/auth/sign-in")
	}
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// actionError reports settings-form failures in the form's feedback shape.
func (h *ProjectHandler) actionError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, ActionResponse{Error: httpErr.Message})
}
