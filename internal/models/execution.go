package models

import (
	"time"
)

// Execution results. BLOCKED is a valid manual result: a tester can flag a
// run as blocked without every step being BLOCKED.
const (
	ExecutionResultPassed  = "PASSED"
	ExecutionResultFailed  = "FAILED"
	ExecutionResultBlocked = "BLOCKED"
)

var ExecutionResults = []string{ExecutionResultPassed, ExecutionResultFailed, ExecutionResultBlocked}

// TestExecution records a single run of a scenario.
type TestExecution struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	ScenarioID   uint          `gorm:"not null;index" json:"scenario_id"`
	Scenario     *TestScenario `gorm:"foreignKey:ScenarioID" json:"scenario,omitempty"`
	ProjectID    uint          `gorm:"not null;index" json:"project_id"`
	ExecutedByID uint          `gorm:"not null" json:"executed_by_id"`
	ExecutedBy   *User         `gorm:"foreignKey:ExecutedByID" json:"executed_by,omitempty"`
	Result       string        `gorm:"size:20;not null" json:"result"`
	Notes        string        `gorm:"type:text" json:"notes"`
	ExecutedAt   time.Time     `json:"executed_at"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (TestExecution) TableName() string { return "test_executions" }
