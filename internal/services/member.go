package services

import (
	"errors"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required"`
}

type MemberListResponse struct {
	Items      []models.UserOnProject `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
}

// List returns the project's memberships with their users, paginated.
func (s *MemberService) List(projectID uint, page, pageSize int) (*MemberListResponse, error) {
	var total int64
	if err := s.db.Model(&models.UserOnProject{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, err
	}

	var members []models.UserOnProject
	offset := (page - 1) * pageSize
	err := s.db.
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Offset(offset).Limit(pageSize).
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	return &MemberListResponse{
		Items:      members,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// UpdateRole changes a member's role. Only the project owner may do this,
// the owner's own role is fixed, and OWNER is not assignable.
func (s *MemberService) UpdateRole(actorID, projectID, userID uint, req *UpdateMemberRequest) (*models.UserOnProject, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != actorID {
		return nil, response.NewForbidden("only the project owner can change member roles")
	}
	if userID == project.OwnerID {
		return nil, response.NewBadRequest("the owner's role cannot be changed")
	}

	if err := utils.ValidateEnum(req.Role, "role", models.AssignableRoles); err != nil {
		return nil, err
	}

	var membership models.UserOnProject
	err = s.db.Where("user_id = ? AND project_id = ?", userID, projectID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("membership not found")
		}
		return nil, err
	}

	if err := s.db.Model(&membership).Update("role", req.Role).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// Remove deletes a membership. Only the project owner may remove members,
// and the owner cannot be removed.
func (s *MemberService) Remove(actorID, projectID, userID uint) error {
	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != actorID {
		return response.NewForbidden("only the project owner can remove members")
	}
	if userID == project.OwnerID {
		return response.NewBadRequest("the owner cannot be removed from the project")
	}

	result := s.db.Where("user_id = ? AND project_id = ?", userID, projectID).Delete(&models.UserOnProject{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("membership not found")
	}
	return nil
}

func (s *MemberService) loadProject(projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}
