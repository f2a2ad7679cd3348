package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "valkyrie/internal/errors"
	"valkyrie/internal/service"
	"valkyrie/internal/session"
	"valkyrie/internal/upload"
)

// DashboardHandler handles the signed-in user's dashboard and profile.
type DashboardHandler struct {
	userService    service.UserService
	profileService service.ProfileService
	projectService service.ProjectService
	avatars        *upload.AvatarStore
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(
	userService service.UserService,
	profileService service.ProfileService,
	projectService service.ProjectService,
	avatars *upload.AvatarStore,
) *DashboardHandler {
	return &DashboardHandler{
		userService:    userService,
		profileService: profileService,
		projectService: projectService,
		avatars:        avatars,
	}
}

// ProfileUpdateRequest represents the profile form fields.
type ProfileUpdateRequest struct {
	Tagline string `json:"tagline" form:"tagline" validate:"max=160"`
	Bio     string `json:"bio" form:"bio" validate:"max=1000"`
}

// ProfileUpdateResponse mirrors the form feedback shape.
type ProfileUpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Dashboard godoc
// @Summary Dashboard data for the signed-in user
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 302
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	userID, ok := session.CurrentUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/auth/sign-in")
	}
	ctx := c.Request().Context()

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// stale session referencing a user that no longer exists
			return c.Redirect(http.StatusFound, "/auth/sign-in")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	profile, err := h.profileService.GetOrCreate(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	projects, err := h.projectService.ListForUser(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":     user,
		"profile":  profile,
		"projects": projects,
	})
}

// ProfilePage godoc
// @Summary Profile data for the signed-in user
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 302
// @Router /dashboard/profile [get]
func (h *DashboardHandler) ProfilePage(c echo.Context) error {
	userID, ok := session.CurrentUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/auth/sign-in")
	}
	ctx := c.Request().Context()

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.Redirect(http.StatusFound, "/auth/sign-in")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	profile, err := h.profileService.GetOrCreate(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":    user,
		"profile": profile,
	})
}

// UpdateProfile godoc
// @Summary Update tagline, bio, and avatar
// @Description Multipart updates may include an avatar image (max 5MB, JPEG/PNG/GIF/WebP).
// @Description A plain form submission with clearAvatar=true removes the avatar.
// @Tags dashboard
// @Accept mpfd
// @Produce json
// @Param tagline formData string false "Tagline"
// @Param bio formData string false "Bio"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} ProfileUpdateResponse
// @Failure 400 {object} ProfileUpdateResponse
// @Router /dashboard/profile [post]
func (h *DashboardHandler) UpdateProfile(c echo.Context) error {
	userID, ok := session.CurrentUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/auth/sign-in")
	}
	ctx := c.Request().Context()

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.Contains(contentType, "multipart/form-data") {
		if c.FormValue("clearAvatar") == "true" {
			if _, err := h.profileService.ClearAvatar(ctx, userID); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			return c.JSON(http.StatusOK, ProfileUpdateResponse{
				Success: true,
				Message: "Avatar cleared successfully!",
			})
		}
	}

	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var update service.ProfileUpdate
	if req.Tagline != "" {
		tagline := strings.TrimSpace(req.Tagline)
		update.Tagline = &tagline
	}
	if req.Bio != "" {
		bio := strings.TrimSpace(req.Bio)
		update.Bio = &bio
	}

	if file, err := c.FormFile("avatar"); err == nil && file.Size > 0 {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		defer src.Close()

		avatarPath, err := h.avatars.Save(src, file.Size)
		if err != nil {
			httpErr := apperrors.MapErrorToHTTP(err)
			return c.JSON(httpErr.StatusCode, ProfileUpdateResponse{
				Success: false,
				Message: httpErr.Message,
			})
		}
		update.Avatar = &avatarPath
	}

	if _, err := h.profileService.Update(ctx, userID, update); err != nil {
		return c.JSON(http.StatusBadRequest, ProfileUpdateResponse{
			Success: false,
			Message: "Failed to update profile. Please try again.",
		})
	}
	return c.JSON(http.StatusOK, ProfileUpdateResponse{
		Success: true,
		Message: "Profile updated successfully!",
	})
}
