package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"valkyrie/internal/config"
	"valkyrie/internal/handler"
	"valkyrie/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions *session.Manager,
	authHandler *handler.AuthHandler,
	dashboardHandler *handler.DashboardHandler,
	projectHandler *handler.ProjectHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sessions.Middleware())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded avatars are served from the public static path their profile
	// records point at.
	e.Static("/users/uploads/avatars", cfg.UploadDir)

	// Public auth routes
	auth := e.Group("/auth")
	auth.GET("/sign-in", authHandler.SignInPage)
	auth.POST("/sign-in", authHandler.SignIn)
	auth.GET("/sign-up", authHandler.SignUpPage)
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/logout", authHandler.LogoutRedirect)

	// Authenticated routes: the session cookie itself is the credential.
	// echo-jwt verifies its signature and expiry; failures redirect to the
	// sign-in form instead of returning a bare 401.
	requireSession := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.AuthSecret),
		TokenLookup: "cookie:" + session.CookieName,
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusFound, "/auth/sign-in")
		},
	})

	dashboard := e.Group("/dashboard", requireSession)
	dashboard.GET("", dashboardHandler.Dashboard)
	dashboard.GET("/profile", dashboardHandler.ProfilePage)
	dashboard.POST("/profile", dashboardHandler.UpdateProfile)

	projects := e.Group("/projects", requireSession)
	projects.POST("", projectHandler.Create)
	projects.GET("/new", projectHandler.NewProjectForm)
	projects.GET("/:id", projectHandler.Show)
	projects.GET("/:id/settings", projectHandler.Settings)
	projects.POST("/:id/settings", projectHandler.SettingsAction)
	projects.GET("/:id/maps", projectHandler.Maps)
	projects.POST("/:id/maps", projectHandler.CreateMap)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
