package services

import (
	"errors"
	"testing"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates an in-memory SQLite database with all required tables.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.UserOnProject{},
		&models.TestPackage{},
		&models.TestPackageStep{},
		&models.TestScenario{},
		&models.TestScenarioStep{},
		&models.TestExecution{},
		&models.Bug{},
		&models.ProjectInvite{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "x", IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createProject(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Project {
	t.Helper()
	project, err := NewProjectService(db).Create(owner.ID, &CreateProjectRequest{Name: name})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func addMember(t *testing.T, db *gorm.DB, user *models.User, project *models.Project, role string) {
	t.Helper()
	membership := models.UserOnProject{UserID: user.ID, ProjectID: project.ID, Role: role}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
}

func createPackage(t *testing.T, db *gorm.DB, project *models.Project, title string) *models.TestPackage {
	t.Helper()
	pkg, err := NewPackageService(db).Create(project.ID, &CreatePackageRequest{
		Title:    title,
		Type:     models.PackageTypeFunctional,
		Priority: models.PriorityMedium,
		Release:  "2024-03",
	})
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	return pkg
}

func createScenario(t *testing.T, db *gorm.DB, project *models.Project, pkg *models.TestPackage, title string, steps []ScenarioStepInput) *ScenarioResponse {
	t.Helper()
	scenario, err := NewScenarioService(db).Create(project.ID, pkg.ID, &CreateScenarioRequest{
		Title:    title,
		Type:     models.PackageTypeFunctional,
		Priority: models.PriorityMedium,
		Steps:    steps,
	})
	if err != nil {
		t.Fatalf("create scenario: %v", err)
	}
	return scenario
}

// appStatus extracts the HTTP status from a domain error, or 0 for nil and
// unexpected errors.
func appStatus(err error) int {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return 0
}

// stringPtr keeps partial-update request literals short.
func stringPtr(s string) *string { return &s }

func tagsPtr(tags ...string) *[]string {
	list := append([]string{}, tags...)
	return &list
}
