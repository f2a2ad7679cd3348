package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"valkyrie/internal/service"
	"valkyrie/internal/session"
)

// AuthHandler handles sign-up, sign-in, and logout.
type AuthHandler struct {
	authService service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// SignUpRequest represents a sign-up form submission.
type SignUpRequest struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Username        string `json:"username" form:"username" validate:"required,min=3,max=64"`
	Password        string `json:"password" form:"password" validate:"required,min=8,max=64"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
}

// SignInRequest represents a sign-in form submission. Identifier may be an
// email address or a username.
type SignInRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
}

// SignInPage godoc
// @Summary Sign-in form data
// @Description Returns the flash error from a failed attempt, readable once.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/sign-in [get]
func (h *AuthHandler) SignInPage(c echo.Context) error {
	return h.formPage(c)
}

// SignUpPage godoc
// @Summary Sign-up form data
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/sign-up [get]
func (h *AuthHandler) SignUpPage(c echo.Context) error {
	return h.formPage(c)
}

// formPage surfaces the one-shot flash error set by a failed submission.
func (h *AuthHandler) formPage(c echo.Context) error {
	s := session.FromContext(c)
	resp := map[string]string{}
	if flash, ok := s.Flashes(session.FlashErrorKey); ok {
		resp["error"] = flash
		// persist the consumption so the flash really reads once
		if err := h.sessions.Save(c, s); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// SignUp godoc
// @Summary Create a new account
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param confirmPassword formData string true "Password confirmation"
// @Success 303
// @Failure 400 {object} map[string]string
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if err == service.ErrEmailTaken || err == service.ErrUsernameTaken {
			return h.flashAndRedirect(c, err.Error(), "/auth/sign-up")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign up")
	}

	s := session.FromContext(c)
	s.Set(session.UserIDKey, user.ID.String())
	if err := h.sessions.Save(c, s); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign up")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// SignIn godoc
// @Summary Sign in with email or username
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param identifier formData string true "Email or username"
// @Param password formData string true "Password"
// @Success 303
// @Failure 400 {object} map[string]string
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.SignIn(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign in")
	}
	if user == nil {
		// absence, not an error: flash and send the user back to the form
		return h.flashAndRedirect(c, "Invalid credentials, please try again.", "/auth/sign-in")
	}

	s := session.FromContext(c)
	s.Set(session.UserIDKey, user.ID.String())
	if err := h.sessions.Save(c, s); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign in")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout godoc
// @Summary Destroy the session
// @Tags auth
// @Success 303
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	s := session.FromContext(c)
	if err := h.sessions.Destroy(c, s); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to log out")
	}
	return c.Redirect(http.StatusSeeOther, "/auth/sign-in")
}

// LogoutRedirect handles GET requests to the logout endpoint.
func (h *AuthHandler) LogoutRedirect(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/auth/sign-in")
}

func (h *AuthHandler) flashAndRedirect(c echo.Context, message, location string) error {
	s := session.FromContext(c)
	s.Flash(session.FlashErrorKey, message)
	if err := h.sessions.Save(c, s); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.Redirect(http.StatusSeeOther, location)
}
