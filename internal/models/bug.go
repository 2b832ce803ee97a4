package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BugStatusOpen       = "OPEN"
	BugStatusInProgress = "IN_PROGRESS"
	BugStatusResolved   = "RESOLVED"
	BugStatusClosed     = "CLOSED"
)

var (
	BugStatuses   = []string{BugStatusOpen, BugStatusInProgress, BugStatusResolved, BugStatusClosed}
	BugSeverities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
)

// Bug is a defect reported against a project, optionally linked to the
// scenario whose execution surfaced it.
type Bug struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Title        string        `gorm:"size:255;not null" json:"title"`
	Description  string        `gorm:"type:text" json:"description"`
	Severity     string        `gorm:"size:20;not null" json:"severity"`
	Status       string        `gorm:"size:20;default:OPEN" json:"status"`
	ProjectID    uint          `gorm:"not null;index" json:"project_id"`
	ScenarioID   *uint         `gorm:"index" json:"scenario_id"`
	Scenario     *TestScenario `gorm:"foreignKey:ScenarioID" json:"scenario,omitempty"`
	ReportedByID uint          `gorm:"not null" json:"reported_by_id"`
	ReportedBy   *User         `gorm:"foreignKey:ReportedByID" json:"reported_by,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Bug) TableName() string { return "bugs" }
