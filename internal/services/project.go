package services

import (
	"errors"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProjectListResponse struct {
	Items      []models.Project `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// Create persists a project and the owner's membership row in one
// transaction. Project names are unique per owner, case-insensitively.
func (s *ProjectService) Create(ownerID uint, req *CreateProjectRequest) (*models.Project, error) {
	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	if err := s.checkNameAvailable(ownerID, req.Name, 0); err != nil {
		return nil, err
	}

	project := models.Project{
		Name:        utils.SanitizeTextOnly(req.Name),
		Description: utils.SanitizeString(req.Description),
		OwnerID:     ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		membership := models.UserOnProject{
			UserID:    ownerID,
			ProjectID: project.ID,
			Role:      models.RoleOwner,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// Get returns a project by id.
func (s *ProjectService) Get(projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.Preload("Owner").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

// List returns the projects the user owns or is a member of, paginated.
func (s *ProjectService) List(userID uint, page, pageSize int) (*ProjectListResponse, error) {
	memberOf := s.db.Model(&models.UserOnProject{}).Select("project_id").Where("user_id = ?", userID)
	query := s.db.Model(&models.Project{}).Where("owner_id = ? OR id IN (?)", userID, memberOf)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var projects []models.Project
	offset := (page - 1) * pageSize
	err := s.db.
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Items:      projects,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Update renames or re-describes a project. Owner only.
func (s *ProjectService) Update(userID, projectID uint, req *UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, response.NewForbidden("only the project owner can update the project")
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		if err := s.checkNameAvailable(userID, *req.Name, project.ID); err != nil {
			return nil, err
		}
		updates["name"] = utils.SanitizeTextOnly(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &project, nil
}

// Delete removes a project and everything it owns: packages, scenarios,
// steps, executions, bugs, memberships and invites. Owner only.
func (s *ProjectService) Delete(userID, projectID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("project not found")
		}
		return err
	}
	if project.OwnerID != userID {
		return response.NewForbidden("only the project owner can delete the project")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var scenarioIDs []uint
		if err := tx.Model(&models.TestScenario{}).Where("project_id = ?", project.ID).Pluck("id", &scenarioIDs).Error; err != nil {
			return err
		}
		if len(scenarioIDs) > 0 {
			if err := tx.Where("scenario_id IN ?", scenarioIDs).Delete(&models.TestScenarioStep{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.TestExecution{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.TestScenario{}).Error; err != nil {
			return err
		}

		var packageIDs []uint
		if err := tx.Model(&models.TestPackage{}).Where("project_id = ?", project.ID).Pluck("id", &packageIDs).Error; err != nil {
			return err
		}
		if len(packageIDs) > 0 {
			if err := tx.Where("package_id IN ?", packageIDs).Delete(&models.TestPackageStep{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.TestPackage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Bug{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.UserOnProject{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectInvite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

func (s *ProjectService) checkNameAvailable(ownerID uint, name string, excludeID uint) error {
	query := s.db.Model(&models.Project{}).
		Where("owner_id = ? AND LOWER(name) = LOWER(?)", ownerID, name)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return response.NewConflict("a project with this name already exists")
	}
	return nil
}
