package services

import (
	"fmt"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/pkg/response"
)

// packageTransitions encodes the workflow axis of a package's status.
// APROVADO and CONCLUIDO have no outgoing edges: immutability of those
// states is enforced before this table is ever consulted.
var packageTransitions = map[string][]string{
	models.PackageStatusCreated:   {models.PackageStatusInTesting, models.PackageStatusConcluded},
	models.PackageStatusInTesting: {models.PackageStatusApproved, models.PackageStatusReproved, models.PackageStatusConcluded},
	models.PackageStatusReproved:  {models.PackageStatusInTesting, models.PackageStatusConcluded},
	models.PackageStatusApproved:  {},
	models.PackageStatusConcluded: {},
}

// isResultStatus reports whether s belongs to the execution-result axis
// (EXECUTED/PASSED/FAILED) rather than the workflow axis.
func isResultStatus(s string) bool {
	switch s {
	case models.ResultStatusExecuted, models.ResultStatusPassed, models.ResultStatusFailed:
		return true
	}
	return false
}

// ValidatePackageTransition checks that moving a package from current to
// next is legal. Result statuses are a separate axis and may be recorded
// from any mutable state; workflow statuses must follow the transition
// table. A package sitting on a result status transitions as if it were
// EM_TESTE.
func ValidatePackageTransition(current, next string) error {
	if next == current {
		return nil
	}
	if isResultStatus(next) {
		return nil
	}

	base := current
	if isResultStatus(base) {
		base = models.PackageStatusInTesting
	}

	for _, allowed := range packageTransitions[base] {
		if next == allowed {
			return nil
		}
	}
	return response.NewBadRequest(fmt.Sprintf("cannot change package status from %s to %s", current, next))
}

// allStepsBlocked reports the derived-block condition: at least one step
// and every step BLOCKED.
func allStepsBlocked(steps []models.TestScenarioStep) bool {
	if len(steps) == 0 {
		return false
	}
	for _, s := range steps {
		if s.Status != models.StepStatusBlocked {
			return false
		}
	}
	return true
}
