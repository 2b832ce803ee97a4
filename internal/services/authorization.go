package services

import (
	"errors"

	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

// Permissions gating mutating operations on a project.
const (
	PermViewProject          = "view_project"
	PermCreatePackage        = "create_package"
	PermEditPackage          = "edit_package"
	PermDeletePackage        = "delete_package"
	PermCreateScenario       = "create_scenario"
	PermEditScenario         = "edit_scenario"
	PermDeleteScenario       = "delete_scenario"
	PermExecuteScenario      = "execute_scenario"
	PermCreateBug            = "create_bug"
	PermComment              = "comment"
	PermUploadEvidence       = "upload_evidence"
	PermChangeScenarioStatus = "change_scenario_status"
)

// rolePermissions maps each role to its granted permission set. Built once
// at init and never mutated. OWNER is absent on purpose: it holds the
// wildcard and bypasses the table.
var rolePermissions = map[string]map[string]bool{
	models.RoleManager: permissionSet(
		PermViewProject,
		PermCreatePackage, PermEditPackage, PermDeletePackage,
		PermCreateScenario, PermEditScenario, PermDeleteScenario,
		PermExecuteScenario, PermCreateBug, PermComment,
		PermUploadEvidence, PermChangeScenarioStatus,
	),
	models.RoleTester: permissionSet(
		PermViewProject, PermExecuteScenario, PermCreateBug,
		PermComment, PermUploadEvidence,
	),
	models.RoleApprover: permissionSet(
		PermViewProject, PermComment, PermChangeScenarioStatus,
	),
	models.RoleViewer: permissionSet(
		PermViewProject,
	),
}

func permissionSet(perms ...string) map[string]bool {
	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set
}

type AuthorizationService struct {
	db *gorm.DB
}

func NewAuthorizationService(db *gorm.DB) *AuthorizationService {
	return &AuthorizationService{db: db}
}

// ResolveRole determines the user's effective role on a project. Project
// ownership yields OWNER regardless of any stored membership. A user with
// no membership row falls back to APPROVER; this compatibility quirk is
// load-bearing for existing API consumers.
func (s *AuthorizationService) ResolveRole(userID, projectID uint) (string, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.NewNotFound("project not found")
		}
		return "", err
	}

	if project.OwnerID == userID {
		return models.RoleOwner, nil
	}

	var membership models.UserOnProject
	err := s.db.Where("user_id = ? AND project_id = ?", userID, projectID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RoleApprover, nil
		}
		return "", err
	}
	return membership.Role, nil
}

// HasPermission reports whether the role grants the permission. OWNER holds
// every permission.
func HasPermission(role, permission string) bool {
	if role == models.RoleOwner {
		return true
	}
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[permission]
}

// HasProjectAccess is the coarse gate: owner or any membership row.
func (s *AuthorizationService) HasProjectAccess(userID, projectID uint) (bool, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, response.NewNotFound("project not found")
		}
		return false, err
	}
	if project.OwnerID == userID {
		return true, nil
	}

	var count int64
	if err := s.db.Model(&models.UserOnProject{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
