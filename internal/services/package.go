package services

import (
	"errors"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type PackageService struct {
	db *gorm.DB
}

func NewPackageService(db *gorm.DB) *PackageService {
	return &PackageService{db: db}
}

// StepInput is one step in a wholesale step-list replacement. Order is
// taken from array position, not from the payload.
type StepInput struct {
	Action   string `json:"action" binding:"required"`
	Expected string `json:"expected"`
}

type CreatePackageRequest struct {
	Title         string       `json:"title" binding:"required"`
	Description   string       `json:"description"`
	Type          string       `json:"type" binding:"required"`
	Priority      string       `json:"priority" binding:"required"`
	Tags          []string     `json:"tags"`
	AssigneeID    *AssigneeRef `json:"assigneeId"`
	AssigneeEmail *string      `json:"assigneeEmail"`
	Environment   *string      `json:"environment"`
	Release       string       `json:"release" binding:"required"`
	Steps         []StepInput  `json:"steps"`
}

type UpdatePackageRequest struct {
	Title         *string      `json:"title"`
	Description   *string      `json:"description"`
	Type          *string      `json:"type"`
	Priority      *string      `json:"priority"`
	Tags          *[]string    `json:"tags"`
	AssigneeID    *AssigneeRef `json:"assigneeId"`
	AssigneeEmail *string      `json:"assigneeEmail"`
	Environment   *string      `json:"environment"`
	Release       *string      `json:"release"`
	Status        *string      `json:"status"`
	Steps         []StepInput  `json:"steps"`
}

type PackageListResponse struct {
	Items      []models.TestPackage `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}

// Create validates and persists a new package with its ordered steps in a
// single transaction.
func (s *PackageService) Create(projectID uint, req *CreatePackageRequest) (*models.TestPackage, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
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
	if err := utils.ValidateReleaseCreate(req.Release); err != nil {
		return nil, err
	}

	assigneeEmail, err := resolveAssigneeEmail(s.db, req.AssigneeID, req.AssigneeEmail)
	if err != nil {
		return nil, err
	}

	pkg := models.TestPackage{
		Title:         utils.SanitizeTextOnly(req.Title),
		Description:   utils.SanitizeString(req.Description),
		Type:          req.Type,
		Priority:      req.Priority,
		Tags:          utils.SerializeTags(req.Tags),
		AssigneeEmail: assigneeEmail,
		Environment:   req.Environment,
		Release:       req.Release,
		Status:        models.PackageStatusCreated,
		ProjectID:     projectID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pkg).Error; err != nil {
			return err
		}
		for i, step := range req.Steps {
			row := models.TestPackageStep{
				PackageID: pkg.ID,
				Action:    step.Action,
				Expected:  step.Expected,
				StepOrder: i + 1,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(projectID, pkg.ID)
}

// Get returns a package scoped to its project, with ordered steps and
// deserialized tags.
func (s *PackageService) Get(projectID, packageID uint) (*models.TestPackage, error) {
	var pkg models.TestPackage
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("id = ? AND project_id = ?", packageID, projectID).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("test package not found")
		}
		return nil, err
	}
	pkg.TagList = utils.DeserializeTags(pkg.Tags)
	return &pkg, nil
}

// List returns the project's packages, paginated.
func (s *PackageService) List(projectID uint, page, pageSize int) (*PackageListResponse, error) {
	var count int64
	if err := s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, response.NewNotFound("project not found")
	}

	var total int64
	query := s.db.Model(&models.TestPackage{}).Where("project_id = ?", projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var packages []models.TestPackage
	offset := (page - 1) * pageSize
	err := s.db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&packages).Error
	if err != nil {
		return nil, err
	}

	for i := range packages {
		packages[i].TagList = utils.DeserializeTags(packages[i].Tags)
	}

	return &PackageListResponse{
		Items:      packages,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update applies a partial update. A package in a terminal state rejects
// every change. A non-empty steps array replaces the whole step list; an
// empty array leaves existing steps untouched.
func (s *PackageService) Update(projectID, packageID uint, req *UpdatePackageRequest) (*models.TestPackage, error) {
	var pkg models.TestPackage
	err := s.db.Where("id = ? AND project_id = ?", packageID, projectID).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("test package not found")
		}
		return nil, err
	}

	if pkg.Status == models.PackageStatusConcluded || pkg.Status == models.PackageStatusApproved {
		return nil, response.NewForbidden("package in status " + pkg.Status + " cannot be modified")
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
	if req.Release != nil {
		if err := utils.ValidateReleaseUpdate(*req.Release); err != nil {
			return nil, err
		}
		updates["release"] = *req.Release
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
	if req.Status != nil {
		if err := utils.ValidateEnum(*req.Status, "status", models.PackageStatuses); err != nil {
			return nil, err
		}
		if err := ValidatePackageTransition(pkg.Status, *req.Status); err != nil {
			return nil, err
		}
		if *req.Status == models.PackageStatusApproved {
			if err := s.checkAllScenariosApproved(pkg.ID); err != nil {
				return nil, err
			}
		}
		updates["status"] = *req.Status
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&pkg).Updates(updates).Error; err != nil {
				return err
			}
		}
		if len(req.Steps) > 0 {
			if err := tx.Where("package_id = ?", pkg.ID).Delete(&models.TestPackageStep{}).Error; err != nil {
				return err
			}
			for i, step := range req.Steps {
				row := models.TestPackageStep{
					PackageID: pkg.ID,
					Action:    step.Action,
					Expected:  step.Expected,
					StepOrder: i + 1,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(projectID, packageID)
}

// checkAllScenariosApproved is the precondition for moving a package to
// APROVADO.
func (s *PackageService) checkAllScenariosApproved(packageID uint) error {
	var pending int64
	err := s.db.Model(&models.TestScenario{}).
		Where("package_id = ? AND status != ?", packageID, models.ScenarioStatusApproved).
		Count(&pending).Error
	if err != nil {
		return err
	}
	if pending > 0 {
		return response.NewBadRequest("all scenarios must be approved before the package can be approved")
	}
	return nil
}

// Delete removes a package and everything under it.
func (s *PackageService) Delete(projectID, packageID uint) error {
	var pkg models.TestPackage
	err := s.db.Where("id = ? AND project_id = ?", packageID, projectID).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("test package not found")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var scenarioIDs []uint
		if err := tx.Model(&models.TestScenario{}).Where("package_id = ?", pkg.ID).Pluck("id", &scenarioIDs).Error; err != nil {
			return err
		}
		if len(scenarioIDs) > 0 {
			if err := tx.Where("scenario_id IN ?", scenarioIDs).Delete(&models.TestScenarioStep{}).Error; err != nil {
				return err
			}
			if err := tx.Where("scenario_id IN ?", scenarioIDs).Delete(&models.TestExecution{}).Error; err != nil {
				return err
			}
			if err := tx.Where("package_id = ?", pkg.ID).Delete(&models.TestScenario{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("package_id = ?", pkg.ID).Delete(&models.TestPackageStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(&pkg).Error
	})
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
