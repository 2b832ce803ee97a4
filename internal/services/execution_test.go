package services

import (
	"testing"

	"github.com/testdeckhq/testdeck/internal/models"
)

func TestExecutionService_Execute(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")
	pkg := createPackage(t, db, project, "Pkg")
	svc := NewExecutionService(db)

	tests := []struct {
		result     string
		wantStatus string
	}{
		{models.ExecutionResultPassed, models.ScenarioStatusPassed},
		{models.ExecutionResultFailed, models.ScenarioStatusFailed},
		// A manual BLOCKED result marks the scenario EXECUTED, not
		// BLOQUEADO, which stays reserved for the step derivation.
		{models.ExecutionResultBlocked, models.ScenarioStatusExecuted},
	}
	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			scenario := createScenario(t, db, project, pkg, "Run "+tt.result, []ScenarioStepInput{{Action: "a"}})

			execution, err := svc.Execute(owner.ID, project.ID, pkg.ID, scenario.ID, &CreateExecutionRequest{
				Result: tt.result,
				Notes:  "ran locally",
			})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if execution.Result != tt.result {
				t.Errorf("Result = %q, expected %q", execution.Result, tt.result)
			}
			if execution.ExecutedByID != owner.ID {
				t.Errorf("ExecutedByID = %d, expected %d", execution.ExecutedByID, owner.ID)
			}

			var stored models.TestScenario
			if err := db.First(&stored, scenario.ID).Error; err != nil {
				t.Fatalf("reload scenario: %v", err)
			}
			if stored.Status != tt.wantStatus {
				t.Errorf("scenario status = %q, expected %q", stored.Status, tt.wantStatus)
			}
		})
	}
}

func TestExecutionService_Execute_InvalidResult(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")
	pkg := createPackage(t, db, project, "Pkg")
	scenario := createScenario(t, db, project, pkg, "Scn", nil)

	_, err := NewExecutionService(db).Execute(owner.ID, project.ID, pkg.ID, scenario.ID, &CreateExecutionRequest{
		Result: "passed",
	})
	if appStatus(err) != 400 {
		t.Errorf("expected 400 for lowercase result, got %v", err)
	}
}

func TestExecutionService_Execute_ScenarioScoping(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")
	pkgA := createPackage(t, db, project, "A")
	pkgB := createPackage(t, db, project, "B")
	scenario := createScenario(t, db, project, pkgA, "Scn", nil)

	_, err := NewExecutionService(db).Execute(owner.ID, project.ID, pkgB.ID, scenario.ID, &CreateExecutionRequest{
		Result: models.ExecutionResultPassed,
	})
	if appStatus(err) != 404 {
		t.Errorf("expected 404 for cross-package execution, got %v", err)
	}
}

func TestExecutionService_List(t *testing.T) {
	db := testDB(t)
	owner := createUser(t, db, "Owner", "owner@example.com")
	project := createProject(t, db, owner, "Checkout")
	pkg := createPackage(t, db, project, "Pkg")
	scenario := createScenario(t, db, project, pkg, "Scn", nil)
	svc := NewExecutionService(db)

	for _, result := range []string{models.ExecutionResultFailed, models.ExecutionResultPassed} {
		if _, err := svc.Execute(owner.ID, project.ID, pkg.ID, scenario.ID, &CreateExecutionRequest{Result: result}); err != nil {
			t.Fatalf("Execute(%s) error = %v", result, err)
		}
	}

	list, err := svc.List(project.ID, pkg.ID, scenario.ID, 1, 20)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list.Total != 2 {
		t.Errorf("Total = %d, expected 2", list.Total)
	}

	if _, err := svc.List(project.ID, pkg.ID, 999, 1, 20); appStatus(err) != 404 {
		t.Errorf("List for missing scenario: expected 404, got %v", err)
	}
}
