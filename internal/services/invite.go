package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/testdeckhq/testdeck/internal/models"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

// inviteTTL is how long a pending invite stays acceptable.
const inviteTTL = 7 * 24 * time.Hour

type InviteService struct {
	db *gorm.DB
}

func NewInviteService(db *gorm.DB) *InviteService {
	return &InviteService{db: db}
}

type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type InviteListResponse struct {
	Items      []models.ProjectInvite `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
}

// Create issues a PENDING invite with a fresh token. Only the owner or a
// MANAGER may invite, OWNER is not an assignable role, and a pending
// invite for the same email is a conflict.
func (s *InviteService) Create(inviterID, projectID uint, req *CreateInviteRequest) (*models.ProjectInvite, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if project.OwnerID != inviterID {
		role, err := NewAuthorizationService(s.db).ResolveRole(inviterID, projectID)
		if err != nil {
			return nil, err
		}
		if role != models.RoleManager {
			return nil, response.NewForbidden("only the owner or a manager can invite members")
		}
	}

	if err := utils.ValidateEnum(req.Role, "role", models.AssignableRoles); err != nil {
		return nil, err
	}

	var pending int64
	err := s.db.Model(&models.ProjectInvite{}).
		Where("project_id = ? AND email = ? AND status = ?", projectID, req.Email, models.InviteStatusPending).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, response.NewConflict("a pending invite for this email already exists")
	}

	invite := models.ProjectInvite{
		ProjectID:   projectID,
		Email:       req.Email,
		Role:        req.Role,
		Token:       uuid.NewString(),
		Status:      models.InviteStatusPending,
		ExpiresAt:   time.Now().Add(inviteTTL),
		InvitedByID: inviterID,
	}
	if err := s.db.Create(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListSent returns the invites the user created, transitioning overdue
// PENDING invites to EXPIRED before the read.
func (s *InviteService) ListSent(userID uint, page, pageSize int) (*InviteListResponse, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	if err := s.expireOverdue("invited_by_id = ?", userID); err != nil {
		return nil, err
	}
	return s.list("invited_by_id = ?", userID, page, pageSize)
}

// ListReceived returns the invites addressed to the user's email, with the
// same lazy expiry.
func (s *InviteService) ListReceived(email string, page, pageSize int) (*InviteListResponse, error) {
	if err := s.expireOverdue("email = ?", email); err != nil {
		return nil, err
	}
	return s.list("email = ?", email, page, pageSize)
}

// Accept marks the invite ACCEPTED and creates the membership row in one
// transaction. The invite must be addressed to the caller and still
// pending and unexpired.
func (s *InviteService) Accept(userID uint, userEmail string, inviteID uint) (*models.ProjectInvite, error) {
	invite, err := s.loadForAnswer(userEmail, inviteID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(invite).Update("status", models.InviteStatusAccepted).Error; err != nil {
			return err
		}
		var existing models.UserOnProject
		err := tx.Where("user_id = ? AND project_id = ?", userID, invite.ProjectID).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("role", invite.Role).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		membership := models.UserOnProject{
			UserID:    userID,
			ProjectID: invite.ProjectID,
			Role:      invite.Role,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// Decline marks the invite DECLINED.
func (s *InviteService) Decline(userEmail string, inviteID uint) (*models.ProjectInvite, error) {
	invite, err := s.loadForAnswer(userEmail, inviteID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(invite).Update("status", models.InviteStatusDeclined).Error; err != nil {
		return nil, err
	}
	return invite, nil
}

// loadForAnswer fetches an invite the user may answer: addressed to them,
// still PENDING, not past its expiry. An overdue invite is marked EXPIRED
// on the spot.
func (s *InviteService) loadForAnswer(userEmail string, inviteID uint) (*models.ProjectInvite, error) {
	var invite models.ProjectInvite
	if err := s.db.First(&invite, inviteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("invite not found")
		}
		return nil, err
	}
	if invite.Email != userEmail {
		return nil, response.NewForbidden("this invite is addressed to another user")
	}
	if invite.Status != models.InviteStatusPending {
		return nil, response.NewBadRequest("invite is no longer pending")
	}
	if invite.ExpiresAt.Before(time.Now()) {
		if err := s.db.Model(&invite).Update("status", models.InviteStatusExpired).Error; err != nil {
			return nil, err
		}
		return nil, response.NewBadRequest("invite has expired")
	}
	return &invite, nil
}

// expireOverdue lazily transitions overdue PENDING invites in the given
// scope to EXPIRED. Terminal states are never touched.
func (s *InviteService) expireOverdue(condition string, arg interface{}) error {
	return s.db.Model(&models.ProjectInvite{}).
		Where(condition, arg).
		Where("status = ? AND expires_at < ?", models.InviteStatusPending, time.Now()).
		Update("status", models.InviteStatusExpired).Error
}

func (s *InviteService) list(condition string, arg interface{}, page, pageSize int) (*InviteListResponse, error) {
	var total int64
	if err := s.db.Model(&models.ProjectInvite{}).Where(condition, arg).Count(&total).Error; err != nil {
		return nil, err
	}

	var invites []models.ProjectInvite
	offset := (page - 1) * pageSize
	err := s.db.
		Preload("Project").
		Where(condition, arg).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&invites).Error
	if err != nil {
		return nil, err
	}

	return &InviteListResponse{
		Items:      invites,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
