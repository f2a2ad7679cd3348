package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"valkyrie/internal/config"
	"valkyrie/internal/db"
	"valkyrie/internal/model"
	"valkyrie/internal/repository"
)

const demoPassword = "valkyrie-demo"

type demoUser struct {
	username string
	email    string
}

var demoUsers = []demoUser{
	{username: "alice", email: "alice@example.com"},
	{username: "bob", email: "bob@example.com"},
	{username: "carol", email: "carol@example.com"},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Project{},
		&model.Collaborator{},
		&model.GameMap{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	collaboratorRepo := repository.NewCollaboratorRepository(gormDB)
	mapRepo := repository.NewMapRepository(gormDB)
	ctx := context.Background()

	users, err := seedUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	alice := users["alice"]
	bob := users["bob"]

	project, created, err := seedProject(ctx, projectRepo, mapRepo, alice, "Castle Quest",
		"A cooperative dungeon crawler set in a crumbling keep.")
	if err != nil {
		log.Fatalf("Failed to seed project: %v", err)
	}
	if created {
		log.Printf("Created project %q owned by %s", project.Name, alice.Username)
	}

	if err := seedCollaborator(ctx, collaboratorRepo, project, bob); err != nil {
		log.Fatalf("Failed to seed collaborator: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Demo users: %d (password %q)", len(demoUsers), demoPassword)
}

// seedUsers creates the demo users, skipping any that already exist.
func seedUsers(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	users := make(map[string]*model.User, len(demoUsers))
	for _, du := range demoUsers {
		existing, err := repo.FindByUsername(ctx, du.username)
		if err == nil {
			users[du.username] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check user %s: %w", du.username, err)
		}

		user := &model.User{
			Username:     du.username,
			Email:        du.email,
			PasswordHash: string(hash),
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user %s: %w", du.username, err)
		}
		log.Printf("Created user %s", du.username)
		users[du.username] = user
	}
	return users, nil
}

// seedProject creates the demo project with a starting map unless the owner
// already has a project by that name.
func seedProject(ctx context.Context, projects repository.ProjectRepository, maps repository.MapRepository, owner *model.User, name, description string) (*model.Project, bool, error) {
	owned, err := projects.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, false, fmt.Errorf("list projects for %s: %w", owner.Username, err)
	}
	for i := range owned {
		if owned[i].Name == name {
			return &owned[i], false, nil
		}
	}

	project := &model.Project{
		Name:        name,
		Description: description,
		OwnerID:     owner.ID,
	}
	if err := projects.Create(ctx, project); err != nil {
		return nil, false, fmt.Errorf("create project: %w", err)
	}

	starter := &model.GameMap{
		ProjectID:   project.ID,
		Name:        "Castle Courtyard",
		Description: "The keep's outer courtyard, first area players see.",
		Width:       48,
		Height:      32,
		CreatedBy:   owner.ID,
	}
	if err := maps.Create(ctx, starter); err != nil {
		return nil, false, fmt.Errorf("create starter map: %w", err)
	}
	return project, true, nil
}

// seedCollaborator grants the user access unless already granted.
func seedCollaborator(ctx context.Context, repo repository.CollaboratorRepository, project *model.Project, user *model.User) error {
	if _, err := repo.Find(ctx, project.ID, user.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check collaborator: %w", err)
	}

	collaborator := &model.Collaborator{
		ProjectID: project.ID,
		UserID:    user.ID,
	}
	if err := repo.Create(ctx, collaborator); err != nil {
		return fmt.Errorf("create collaborator: %w", err)
	}
	log.Printf("Added %s as collaborator on %q", user.Username, project.Name)
	return nil
}
