package models

import (
	"time"

	"gorm.io/gorm"
)

// Package workflow statuses. APROVADO and CONCLUIDO are terminal:
// a package in either state can no longer be mutated.
const (
	PackageStatusCreated   = "CREATED"
	PackageStatusInTesting = "EM_TESTE"
	PackageStatusApproved  = "APROVADO"
	PackageStatusReproved  = "REPROVADO"
	PackageStatusConcluded = "CONCLUIDO"
)

// Cross-cutting execution-result statuses, layered on top of the
// workflow axis for both packages and scenarios.
const (
	ResultStatusExecuted = "EXECUTED"
	ResultStatusPassed   = "PASSED"
	ResultStatusFailed   = "FAILED"
)

const (
	PackageTypeFunctional = "FUNCTIONAL"
	PackageTypeRegression = "REGRESSION"
	PackageTypeSmoke      = "SMOKE"
	PackageTypeE2E        = "E2E"
)

const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

const (
	EnvironmentDev     = "DEV"
	EnvironmentQA      = "QA"
	EnvironmentStaging = "STAGING"
	EnvironmentProd    = "PROD"
)

var (
	PackageTypes    = []string{PackageTypeFunctional, PackageTypeRegression, PackageTypeSmoke, PackageTypeE2E}
	Priorities      = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	Environments    = []string{EnvironmentDev, EnvironmentQA, EnvironmentStaging, EnvironmentProd}
	PackageStatuses = []string{
		PackageStatusCreated, PackageStatusInTesting, PackageStatusApproved,
		PackageStatusReproved, PackageStatusConcluded,
		ResultStatusExecuted, ResultStatusPassed, ResultStatusFailed,
	}
)

// TestPackage is a titled container of ordered steps and scenarios,
// scoped to a project and a release.
type TestPackage struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Title         string  `gorm:"size:255;not null" json:"title"`
	Description   string  `gorm:"type:text" json:"description"`
	Type          string  `gorm:"size:20;not null" json:"type"`
	Priority      string  `gorm:"size:20;not null" json:"priority"`
	Tags          string  `gorm:"type:text" json:"-"` // JSON-encoded ordered list
	AssigneeEmail *string `gorm:"size:255" json:"assignee_email"`
	Environment   *string `gorm:"size:20" json:"environment"`
	Release       string  `gorm:"size:10" json:"release"`
	Status        string  `gorm:"size:20;default:CREATED" json:"status"`
	ProjectID     uint    `gorm:"not null;index" json:"project_id"`

	Steps     []TestPackageStep `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	Scenarios []TestScenario    `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE" json:"scenarios,omitempty"`

	// TagList is the deserialized view of Tags, populated on read.
	TagList []string `gorm:"-" json:"tags"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TestPackage) TableName() string { return "test_packages" }

// TestPackageStep is one ordered step inside a package. Step lists are
// replaced wholesale, so steps carry no soft-delete column.
type TestPackageStep struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PackageID uint      `gorm:"not null;index" json:"package_id"`
	Action    string    `gorm:"type:text;not null" json:"action"`
	Expected  string    `gorm:"type:text" json:"expected"`
	StepOrder int       `gorm:"not null" json:"step_order"` // 1-based, contiguous
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TestPackageStep) TableName() string { return "test_package_steps" }
