package services

import (
	"testing"

	"github.com/testdeckhq/testdeck/internal/models"
)

func TestBugService_Create(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")
	pkg := createPackage(t, db, project, "Pkg")
	scenario := createScenario(t, db, project, pkg, "Scn", nil)
	svc := NewBugService(db)

	scenarioID := scenario.ID
	bug, err := svc.Create(owner.ID, project.ID, &CreateBugRequest{
		Title:      "Cart total wrong",
		Severity:   models.PriorityHigh,
		ScenarioID: &scenarioID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if bug.Status != models.BugStatusOpen {
		t.Errorf("Status = %q, expected OPEN", bug.Status)
	}
	if bug.ReportedByID != owner.ID {
		t.Errorf("ReportedByID = %d, expected %d", bug.ReportedByID, owner.ID)
	}

	// Linking a scenario from another project is rejected.
	otherProject := createProject(t, db, owner, "Other")
	_, err = svc.Create(owner.ID, otherProject.ID, &CreateBugRequest{
		Title:      "Cross link",
		Severity:   models.PriorityLow,
		ScenarioID: &scenarioID,
	})
	if appStatus(err) != 404 {
		t.Errorf("cross-project scenario link: expected 404, got %v", err)
	}
}

func TestBugService_Create_InvalidSeverity(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")

	_, err := NewBugService(db).Create(owner.ID, project.ID, &CreateBugRequest{
		Title:    "Bad severity",
		Severity: "URGENT",
	})
	if appStatus(err) != 400 {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestBugService_List_Filters(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")
	svc := NewBugService(db)

	seed := []struct {
		severity string
		status   string
	}{
		{models.PriorityHigh, models.BugStatusOpen},
		{models.PriorityHigh, models.BugStatusResolved},
		{models.PriorityLow, models.BugStatusOpen},
	}
	for i, s := range seed {
		bug, err := svc.Create(owner.ID, project.ID, &CreateBugRequest{
			Title:    "Bug",
			Severity: s.severity,
		})
		if err != nil {
			t.Fatalf("seed bug %d: %v", i, err)
		}
		if s.status != models.BugStatusOpen {
			if _, err := svc.Update(project.ID, bug.ID, &UpdateBugRequest{Status: stringPtr(s.status)}); err != nil {
				t.Fatalf("seed status %d: %v", i, err)
			}
		}
	}

	list, err := svc.List(project.ID, "", "", 1, 20)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list.Total != 3 {
		t.Errorf("unfiltered Total = %d, expected 3", list.Total)
	}

	list, err = svc.List(project.ID, models.BugStatusOpen, models.PriorityHigh, 1, 20)
	if err != nil {
		t.Fatalf("List(filtered) error = %v", err)
	}
	if list.Total != 1 {
		t.Errorf("filtered Total = %d, expected 1", list.Total)
	}

	if _, err := svc.List(project.ID, "open", "", 1, 20); appStatus(err) != 400 {
		t.Errorf("lowercase status filter: expected 400, got %v", err)
	}
}

func TestBugService_UpdateAndDelete(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")
	svc := NewBugService(db)

	bug, err := svc.Create(owner.ID, project.ID, &CreateBugRequest{
		Title:    "Flaky login",
		Severity: models.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(project.ID, bug.ID, &UpdateBugRequest{
		Status:   stringPtr(models.BugStatusInProgress),
		Severity: stringPtr(models.PriorityCritical),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != models.BugStatusInProgress || updated.Severity != models.PriorityCritical {
		t.Errorf("updated bug = status %q severity %q", updated.Status, updated.Severity)
	}

	if err := svc.Delete(project.ID, bug.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(project.ID, bug.ID); appStatus(err) != 404 {
		t.Errorf("second delete: expected 404, got %v", err)
	}
}
