package services

import (
	"errors"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type BugService struct {
	db *gorm.DB
}

func NewBugService(db *gorm.DB) *BugService {
	return &BugService{db: db}
}

type CreateBugRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Severity    string `json:"severity" binding:"required"`
	ScenarioID  *uint  `json:"scenarioId"`
}

type UpdateBugRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
	Status      *string `json:"status"`
}

type BugListResponse struct {
	Items      []models.Bug `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}

// Create reports a bug against a project, optionally linked to one of its
// scenarios.
func (s *BugService) Create(reporterID, projectID uint, req *CreateBugRequest) (*models.Bug, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if err := utils.ValidateEnum(req.Severity, "severity", models.BugSeverities); err != nil {
		return nil, err
	}

	if req.ScenarioID != nil {
		var count int64
		err := s.db.Model(&models.TestScenario{}).
			Where("id = ? AND project_id = ?", *req.ScenarioID, projectID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, response.NewNotFound("test scenario not found")
		}
	}

	bug := models.Bug{
		Title:        utils.SanitizeTextOnly(req.Title),
		Description:  utils.SanitizeString(req.Description),
		Severity:     req.Severity,
		Status:       models.BugStatusOpen,
		ProjectID:    projectID,
		ScenarioID:   req.ScenarioID,
		ReportedByID: reporterID,
	}
	if err := s.db.Create(&bug).Error; err != nil {
		return nil, err
	}
	return &bug, nil
}

// List returns the project's bugs, optionally filtered by status and
// severity.
func (s *BugService) List(projectID uint, status, severity string, page, pageSize int) (*BugListResponse, error) {
	if status != "" {
		if err := utils.ValidateEnum(status, "status", models.BugStatuses); err != nil {
			return nil, err
		}
	}
	if severity != "" {
		if err := utils.ValidateEnum(severity, "severity", models.BugSeverities); err != nil {
			return nil, err
		}
	}

	buildQuery := func() *gorm.DB {
		q := s.db.Model(&models.Bug{}).Where("project_id = ?", projectID)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		if severity != "" {
			q = q.Where("severity = ?", severity)
		}
		return q
	}

	var total int64
	if err := buildQuery().Count(&total).Error; err != nil {
		return nil, err
	}

	var bugs []models.Bug
	offset := (page - 1) * pageSize
	err := buildQuery().
		Preload("ReportedBy").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&bugs).Error
	if err != nil {
		return nil, err
	}

	return &BugListResponse{
		Items:      bugs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update applies a partial update to a bug scoped to its project.
func (s *BugService) Update(projectID, bugID uint, req *UpdateBugRequest) (*models.Bug, error) {
	var bug models.Bug
	err := s.db.Where("id = ? AND project_id = ?", bugID, projectID).First(&bug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("bug not found")
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
	if req.Severity != nil {
		if err := utils.ValidateEnum(*req.Severity, "severity", models.BugSeverities); err != nil {
			return nil, err
		}
		updates["severity"] = *req.Severity
	}
	if req.Status != nil {
		if err := utils.ValidateEnum(*req.Status, "status", models.BugStatuses); err != nil {
			return nil, err
		}
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(&bug).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &bug, nil
}

// Delete removes a bug scoped to its project.
func (s *BugService) Delete(projectID, bugID uint) error {
	result := s.db.Where("id = ? AND project_id = ?", bugID, projectID).Delete(&models.Bug{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("bug not found")
	}
	return nil
}
