package services

import (
	"errors"
	"time"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type ExecutionService struct {
	db *gorm.DB
}

func NewExecutionService(db *gorm.DB) *ExecutionService {
	return &ExecutionService{db: db}
}

type CreateExecutionRequest struct {
	Result string `json:"result" binding:"required"`
	Notes  string `json:"notes"`
}

type ExecutionListResponse struct {
	Items      []models.TestExecution `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
}

// Execute records a run of a scenario and rolls the result into the
// scenario's status in one transaction. A PASSED or FAILED run sets the
// scenario status to the result; a BLOCKED run marks it EXECUTED, since
// BLOQUEADO is reserved for the step-derived condition.
func (s *ExecutionService) Execute(userID, projectID, packageID, scenarioID uint, req *CreateExecutionRequest) (*models.TestExecution, error) {
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

	if err := utils.ValidateEnum(req.Result, "result", models.ExecutionResults); err != nil {
		return nil, err
	}

	execution := models.TestExecution{
		ScenarioID:   scenario.ID,
		ProjectID:    projectID,
		ExecutedByID: userID,
		Result:       req.Result,
		Notes:        utils.SanitizeString(req.Notes),
		ExecutedAt:   time.Now(),
	}

	newStatus := models.ScenarioStatusExecuted
	switch req.Result {
	case models.ExecutionResultPassed:
		newStatus = models.ScenarioStatusPassed
	case models.ExecutionResultFailed:
		newStatus = models.ScenarioStatusFailed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&execution).Error; err != nil {
			return err
		}
		return tx.Model(&scenario).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	return &execution, nil
}

// List returns the scenario's executions, newest first.
func (s *ExecutionService) List(projectID, packageID, scenarioID uint, page, pageSize int) (*ExecutionListResponse, error) {
	var count int64
	err := s.db.Model(&models.TestScenario{}).
		Where("id = ? AND package_id = ? AND project_id = ?", scenarioID, packageID, projectID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, response.NewNotFound("test scenario not found")
	}

	var total int64
	if err := s.db.Model(&models.TestExecution{}).Where("scenario_id = ?", scenarioID).Count(&total).Error; err != nil {
		return nil, err
	}

	var executions []models.TestExecution
	offset := (page - 1) * pageSize
	err = s.db.
		Preload("ExecutedBy").
		Where("scenario_id = ?", scenarioID).
		Order("executed_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&executions).Error
	if err != nil {
		return nil, err
	}

	return &ExecutionListResponse{
		Items:      executions,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
