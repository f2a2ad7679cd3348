package main

import (
	"log"
	"net/http"

	"valkyrie/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"valkyrie/internal/access"
	"valkyrie/internal/cache"
	"valkyrie/internal/config"
	"valkyrie/internal/db"
	"valkyrie/internal/handler"
	"valkyrie/internal/model"
	"valkyrie/internal/repository"
	"valkyrie/internal/router"
	"valkyrie/internal/service"
	"valkyrie/internal/session"
	"valkyrie/internal/upload"
)

// @title Valkyrie API
// @version 1.0
// @description Collaborative game-design project management: accounts, profiles, and multi-user projects with owner/collaborator roles.
// @host localhost:8080
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Project{},
		&model.Collaborator{},
		&model.GameMap{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	cacheClient := cache.New(redisClient)

	// Initialize sessions
	sessionStore := session.NewRedisStore(redisClient)
	sessions := session.NewManager(cfg.AuthSecret, sessionStore, cfg.SessionMaxAge, cfg.SecureCookies)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	collaboratorRepo := repository.NewCollaboratorRepository(gormDB)
	mapRepo := repository.NewMapRepository(gormDB)

	// Initialize the access authority
	authority := access.NewAuthority(projectRepo, collaboratorRepo)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, cacheClient)
	profileService := service.NewProfileService(profileRepo, cacheClient)
	projectService := service.NewProjectService(projectRepo, collaboratorRepo, userRepo, mapRepo)

	avatarStore, err := upload.NewAvatarStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("avatar store init: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessions)
	dashboardHandler := handler.NewDashboardHandler(userService, profileService, projectService, avatarStore)
	projectHandler := handler.NewProjectHandler(projectService, userService, authority)

	// Register routes
	router.Register(e, cfg, sessions, authHandler, dashboardHandler, projectHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
