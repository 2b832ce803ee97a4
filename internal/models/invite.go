package models

import (
	"time"

	"gorm.io/gorm"
)

// Invite statuses. ACCEPTED, DECLINED and EXPIRED are terminal and never
// revert; PENDING invites past their expiry are transitioned lazily on read.
const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusDeclined = "DECLINED"
	InviteStatusExpired  = "EXPIRED"
)

// ProjectInvite invites an email address into a project with a given role.
type ProjectInvite struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   uint           `gorm:"not null;index" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Email       string         `gorm:"size:255;not null;index" json:"email"`
	Role        string         `gorm:"size:20;not null" json:"role"`
	Token       string         `gorm:"uniqueIndex;size:64;not null" json:"-"`
	Status      string         `gorm:"size:20;default:PENDING" json:"status"`
	ExpiresAt   time.Time      `gorm:"not null" json:"expires_at"`
	InvitedByID uint           `gorm:"not null" json:"invited_by_id"`
	InvitedBy   *User          `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectInvite) TableName() string { return "project_invites" }
