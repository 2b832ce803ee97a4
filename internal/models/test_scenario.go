package models

import (
	"time"

	"gorm.io/gorm"
)

// Scenario statuses. BLOQUEADO is derived: it is set, and can only be
// cleared, by the step-status derivation in the scenario service.
const (
	ScenarioStatusCreated  = "CREATED"
	ScenarioStatusExecuted = "EXECUTED"
	ScenarioStatusPassed   = "PASSED"
	ScenarioStatusFailed   = "FAILED"
	ScenarioStatusBlocked  = "BLOQUEADO"
	ScenarioStatusApproved = "APPROVED"
	ScenarioStatusReproved = "REPROVED"
)

// Step statuses.
const (
	StepStatusPending = "PENDING"
	StepStatusPassed  = "PASSED"
	StepStatusFailed  = "FAILED"
	StepStatusBlocked = "BLOCKED"
)

var (
	ScenarioStatuses = []string{
		ScenarioStatusCreated, ScenarioStatusExecuted, ScenarioStatusPassed,
		ScenarioStatusFailed, ScenarioStatusBlocked, ScenarioStatusApproved,
		ScenarioStatusReproved,
	}
	StepStatuses = []string{StepStatusPending, StepStatusPassed, StepStatusFailed, StepStatusBlocked}
)

// TestScenario is a single test case nested under a package. ProjectID is
// denormalized from the package for fast scoping queries.
type TestScenario struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Title         string  `gorm:"size:255;not null" json:"title"`
	Description   string  `gorm:"type:text" json:"description"`
	Type          string  `gorm:"size:20;not null" json:"type"`
	Priority      string  `gorm:"size:20;not null" json:"priority"`
	Tags          string  `gorm:"type:text" json:"-"`
	AssigneeEmail *string `gorm:"size:255" json:"assignee_email"`
	Environment   *string `gorm:"size:20" json:"environment"`
	Status        string  `gorm:"size:20;default:CREATED" json:"status"`
	PackageID     uint    `gorm:"not null;index" json:"package_id"`
	Package       *TestPackage `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	ProjectID     uint    `gorm:"not null;index" json:"project_id"`

	Steps []TestScenarioStep `gorm:"foreignKey:ScenarioID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`

	TagList []string `gorm:"-" json:"tags"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TestScenario) TableName() string { return "test_scenarios" }

// TestScenarioStep is one ordered step inside a scenario, carrying its own
// execution status.
type TestScenarioStep struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ScenarioID uint      `gorm:"not null;index" json:"scenario_id"`
	Action     string    `gorm:"type:text;not null" json:"action"`
	Expected   string    `gorm:"type:text" json:"expected"`
	Status     string    `gorm:"size:20;default:PENDING" json:"status"`
	StepOrder  int       `gorm:"not null" json:"step_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TestScenarioStep) TableName() string { return "test_scenario_steps" }
