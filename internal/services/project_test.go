package services

import (
	"testing"

	"github.com/testdeckhq/testdeck/internal/models"
)

func TestProjectService_Create_OwnerMembership(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")

	project, err := NewProjectService(db).Create(owner.ID, &CreateProjectRequest{
		Name:        "Checkout",
		Description: "payments flow",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if project.OwnerID != owner.ID {
		t.Errorf("OwnerID = %d, expected %d", project.OwnerID, owner.ID)
	}

	// The owner gets a membership row in the same transaction.
	var membership models.UserOnProject
	if err := db.Where("user_id = ? AND project_id = ?", owner.ID, project.ID).First(&membership).Error; err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if membership.Role != models.RoleOwner {
		t.Errorf("owner membership role = %q, expected OWNER", membership.Role)
	}
}

func TestProjectService_Create_OwnerNotFound(t *testing.T) {
	db := testDB(t)
	_, err := NewProjectService(db).Create(999, &CreateProjectRequest{Name: "Ghost"})
	if appStatus(err) != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestProjectService_Create_DuplicateNameCaseInsensitive(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	other := createUser(t, db, "Other", "other@example.com")
	svc := NewProjectService(db)
	createProject(t, db, owner, "Checkout")

	_, err := svc.Create(owner.ID, &CreateProjectRequest{Name: "checkout"})
	if appStatus(err) != 409 {
		t.Errorf("expected 409 for case-insensitive duplicate, got %v", err)
	}

	// Uniqueness is scoped per owner.
	if _, err := svc.Create(other.ID, &CreateProjectRequest{Name: "Checkout"}); err != nil {
		t.Errorf("same name under another owner failed: %v", err)
	}
}

func TestProjectService_List_OwnedAndMemberOf(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "Alice", "alice@example.com")
	bob := createUser(t, db, "Bob", "bob@example.com")
	owned := createProject(t, db, alice, "Owned")
	shared := createProject(t, db, bob, "Shared")
	createProject(t, db, bob, "Private")
	addMember(t, db, alice, shared, models.RoleViewer)

	list, err := NewProjectService(db).List(alice.ID, 1, 20)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("Total = %d, expected 2", list.Total)
	}
	seen := map[uint]bool{}
	for _, p := range list.Items {
		seen[p.ID] = true
	}
	if !seen[owned.ID] || !seen[shared.ID] {
		t.Errorf("listed projects = %v, expected owned and shared", seen)
	}
}

func TestProjectService_Update_OwnerOnly(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	manager := createUser(t, db, "Manager", "manager@example.com")
	project := createProject(t, db, owner, "Checkout")
	addMember(t, db, manager, project, models.RoleManager)
	svc := NewProjectService(db)

	_, err := svc.Update(manager.ID, project.ID, &UpdateProjectRequest{Name: stringPtr("Hijacked")})
	if appStatus(err) != 403 {
		t.Errorf("non-owner update: expected 403, got %v", err)
	}

	updated, err := svc.Update(owner.ID, project.ID, &UpdateProjectRequest{Name: stringPtr("Renamed")})
	if err != nil {
		t.Fatalf("owner update error = %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Name = %q, expected Renamed", updated.Name)
	}
}

func TestProjectService_Delete_Cascades(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	member := createUser(t, db, "Member", "member@example.com")
	project := createProject(t, db, owner, "Checkout")
	addMember(t, db, member, project, models.RoleTester)
	pkg := createPackage(t, db, project, "Pkg")
	scenario := createScenario(t, db, project, pkg, "Scn", []ScenarioStepInput{{Action: "a"}})
	svc := NewProjectService(db)

	if err := svc.Delete(member.ID, project.ID); appStatus(err) != 403 {
		t.Fatalf("non-owner delete: expected 403, got %v", err)
	}

	if err := svc.Delete(owner.ID, project.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := svc.Get(project.ID); appStatus(err) != 404 {
		t.Errorf("expected 404 after delete, got %v", err)
	}
	var packages, scenarios, steps, memberships int64
	db.Model(&models.TestPackage{}).Where("project_id = ?", project.ID).Count(&packages)
	db.Model(&models.TestScenario{}).Where("project_id = ?", project.ID).Count(&scenarios)
	db.Model(&models.TestScenarioStep{}).Where("scenario_id = ?", scenario.ID).Count(&steps)
	db.Model(&models.UserOnProject{}).Where("project_id = ?", project.ID).Count(&memberships)
	if packages != 0 || scenarios != 0 || steps != 0 || memberships != 0 {
		t.Errorf("rows left after project delete: packages=%d scenarios=%d steps=%d memberships=%d",
			packages, scenarios, steps, memberships)
	}
}
