package services

import (
	"errors"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type ScenarioService struct {
	db *gorm.DB
}

func NewScenarioService(db *gorm.DB) *ScenarioService {
	return &ScenarioService{db: db}
}

// ScenarioStepInput is one step in a scenario step-list replacement.
// Steps carry their own execution status.
type ScenarioStepInput struct {
	Action   string `json:"action" binding:"required"`
	Expected string `json:"expected"`
	Status   string `json:"status"`
}

type CreateScenarioRequest struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description"`
	Type          string              `json:"type" binding:"required"`
	Priority      string              `json:"priority" binding:"required"`
	Tags          []string            `json:"tags"`
	AssigneeID    *AssigneeRef        `json:"assigneeId"`
	AssigneeEmail *string             `json:"assigneeEmail"`
	Environment   *string             `json:"environment"`
	Steps         []ScenarioStepInput `json:"steps"`
}

type UpdateScenarioRequest struct {
	Title         *string             `json:"title"`
	Description   *string             `json:"description"`
	Type          *string             `json:"type"`
	Priority      *string             `json:"priority"`
	Tags          *[]string           `json:"tags"`
	AssigneeID    *AssigneeRef        `json:"assigneeId"`
	AssigneeEmail *string             `json:"assigneeEmail"`
	Environment   *string             `json:"environment"`
	Status        *string             `json:"status"`
	Steps         []ScenarioStepInput `json:"steps"`
}

// PackageSummary is the denormalized parent-package view returned with a
// scenario.
type PackageSummary struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Release string `json:"release"`
}

// ScenarioResponse is a scenario plus its parent package summary. The
// outer Package field shadows the model's preloaded relation in JSON.
type ScenarioResponse struct {
	*models.TestScenario
	Package PackageSummary `json:"package"`
}

type ScenarioListResponse struct {
	Items      []models.TestScenario `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

// Create persists a scenario under a package. The initial status is
// derived from the steps: all BLOCKED means BLOQUEADO from the start.
func (s *ScenarioService) Create(projectID, packageID uint, req *CreateScenarioRequest) (*ScenarioResponse, error) {
	pkg, err := s.loadPackage(projectID, packageID)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateEnum(req.Type, "type", models.PackageTypes); err != nil {
		return nil, err
	}
	if err := utils.ValidateEnum(req.Priority, "priority", models.Priorities); err != nil {
		return nil, err
	}
	if req.Environment != nil {
		if err := utils.ValidateEnum(*req.Environment, "environment", models.Environments); err != nil {
			return nil, err
		}
	}
	for _, step := range req.Steps {
		if step.Status != "" {
			if err := utils.ValidateEnum(step.Status, "step status", models.StepStatuses); err != nil {
				return nil, err
			}
		}
	}

	assigneeEmail, err := resolveAssigneeEmail(s.db, req.AssigneeID, req.AssigneeEmail)
	if err != nil {
		return nil, err
	}

	scenario := models.TestScenario{
		Title:         utils.SanitizeTextOnly(req.Title),
		Description:   utils.SanitizeString(req.Description),
		Type:          req.Type,
		Priority:      req.Priority,
		Tags:          utils.SerializeTags(req.Tags),
		AssigneeEmail: assigneeEmail,
		Environment:   req.Environment,
		Status:        models.ScenarioStatusCreated,
		PackageID:     pkg.ID,
		ProjectID:     projectID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scenario).Error; err != nil {
			return err
		}
		steps := make([]models.TestScenarioStep, 0, len(req.Steps))
		for i, step := range req.Steps {
			status := step.Status
			if status == "" {
				status = models.StepStatusPending
			}
			row := models.TestScenarioStep{
				ScenarioID: scenario.ID,
				Action:     step.Action,
				Expected:   step.Expected,
				Status:     status,
				StepOrder:  i + 1,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			steps = append(steps, row)
		}
		if allStepsBlocked(steps) {
			if err := tx.Model(&scenario).Update("status", models.ScenarioStatusBlocked).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(projectID, packageID, scenario.ID)
}

// Get returns a scenario scoped to both its package and project, with
// ordered steps, tags and the parent package summary.
func (s *ScenarioService) Get(projectID, packageID, scenarioID uint) (*ScenarioResponse, error) {
	var scenario models.TestScenario
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("id = ? AND package_id = ? AND project_id = ?", scenarioID, packageID, projectID).
		First(&scenario).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("test scenario not found")
		}
		return nil, err
	}
	scenario.TagList = utils.DeserializeTags(scenario.Tags)

	pkg, err := s.loadPackage(projectID, packageID)
	if err != nil {
		return nil, err
	}

	return &ScenarioResponse{
		TestScenario: &scenario,
		Package:      PackageSummary{ID: pkg.ID, Title: pkg.Title, Release: pkg.Release},
	}, nil
}

// List returns the package's scenarios, paginated.
func (s *ScenarioService) List(projectID, packageID uint, page, pageSize int) (*ScenarioListResponse, error) {
	if _, err := s.loadPackage(projectID, packageID); err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.TestScenario{}).
		Where("package_id = ? AND project_id = ?", packageID, projectID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var scenarios []models.TestScenario
	offset := (page - 1) * pageSize
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("package_id = ? AND project_id = ?", packageID, projectID).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&scenarios).Error
	if err != nil {
		return nil, err
	}

	for i := range scenarios {
		scenarios[i].TagList = utils.DeserializeTags(scenarios[i].Tags)
	}

	return &ScenarioListResponse{
		Items:      scenarios,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update applies a partial update with the derived-status rules: a status
// change away from BLOQUEADO is rejected while every step is BLOCKED, and
// a step replacement recomputes the derived status in the same
// transaction as a second write so the caller never sees a stale value.
func (s *ScenarioService) Update(projectID, packageID, scenarioID uint, req *UpdateScenarioRequest) (*ScenarioResponse, error) {
	var scenario models.TestScenario
	err := s.db.
		Where("id = ? AND package_id = ? AND project_id = ?", scenarioID, packageID, projectID).
		First(&scenario).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("test scenario not found")
		}
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = utils.SanitizeTextOnly(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}
	if req.Type != nil {
		if err := utils.ValidateEnum(*req.Type, "type", models.PackageTypes); err != nil {
			return nil, err
		}
		updates["type"] = *req.Type
	}
	if req.Priority != nil {
		if err := utils.ValidateEnum(*req.Priority, "priority", models.Priorities); err != nil {
			return nil, err
		}
		updates["priority"] = *req.Priority
	}
	if req.Environment != nil {
		if err := utils.ValidateEnum(*req.Environment, "environment", models.Environments); err != nil {
			return nil, err
		}
		updates["environment"] = *req.Environment
	}
	if req.Tags != nil {
		updates["tags"] = utils.SerializeTags(*req.Tags)
	}
	if req.AssigneeID != nil || req.AssigneeEmail != nil {
		assigneeEmail, err := resolveAssigneeEmail(s.db, req.AssigneeID, req.AssigneeEmail)
		if err != nil {
			return nil, err
		}
		updates["assignee_email"] = assigneeEmail
	}
	for _, step := range req.Steps {
		if step.Status != "" {
			if err := utils.ValidateEnum(step.Status, "step status", models.StepStatuses); err != nil {
				return nil, err
			}
		}
	}

	if req.Status != nil {
		if err := utils.ValidateEnum(*req.Status, "status", models.ScenarioStatuses); err != nil {
			return nil, err
		}
		var currentSteps []models.TestScenarioStep
		if err := s.db.Where("scenario_id = ?", scenario.ID).Find(&currentSteps).Error; err != nil {
			return nil, err
		}
		if allStepsBlocked(currentSteps) &&
			scenario.Status == models.ScenarioStatusBlocked &&
			*req.Status != models.ScenarioStatusBlocked {
			return nil, response.NewBadRequest("unblock the scenario steps before changing its status")
		}
		updates["status"] = *req.Status
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&scenario).Updates(updates).Error; err != nil {
				return err
			}
		}

		if len(req.Steps) == 0 {
			return nil
		}

		if err := tx.Where("scenario_id = ?", scenario.ID).Delete(&models.TestScenarioStep{}).Error; err != nil {
			return err
		}
		newSteps := make([]models.TestScenarioStep, 0, len(req.Steps))
		for i, step := range req.Steps {
			status := step.Status
			if status == "" {
				status = models.StepStatusPending
			}
			row := models.TestScenarioStep{
				ScenarioID: scenario.ID,
				Action:     step.Action,
				Expected:   step.Expected,
				Status:     status,
				StepOrder:  i + 1,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			newSteps = append(newSteps, row)
		}

		// Second-phase write: re-derive the blocked status from the
		// fresh step list.
		var stored models.TestScenario
		if err := tx.First(&stored, scenario.ID).Error; err != nil {
			return err
		}
		if allStepsBlocked(newSteps) && stored.Status != models.ScenarioStatusBlocked {
			return tx.Model(&stored).Update("status", models.ScenarioStatusBlocked).Error
		}
		if !allStepsBlocked(newSteps) && stored.Status == models.ScenarioStatusBlocked {
			return tx.Model(&stored).Update("status", models.ScenarioStatusExecuted).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(projectID, packageID, scenarioID)
}

// Delete removes a scenario with its steps and executions.
func (s *ScenarioService) Delete(projectID, packageID, scenarioID uint) error {
	var scenario models.TestScenario
	err := s.db.
		Where("id = ? AND package_id = ? AND project_id = ?", scenarioID, packageID, projectID).
		First(&scenario).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("test scenario not found")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scenario_id = ?", scenario.ID).Delete(&models.TestScenarioStep{}).Error; err != nil {
			return err
		}
		if err := tx.Where("scenario_id = ?", scenario.ID).Delete(&models.TestExecution{}).Error; err != nil {
			return err
		}
		return tx.Delete(&scenario).Error
	})
}

func (s *ScenarioService) loadPackage(projectID, packageID uint) (*models.TestPackage, error) {
	var pkg models.TestPackage
	err := s.db.Where("id = ? AND project_id = ?", packageID, projectID).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("test package not found")
		}
		return nil, err
	}
	return &pkg, nil
}
