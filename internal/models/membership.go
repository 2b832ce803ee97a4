package models

import "time"

// Project roles, from most to least privileged.
const (
	RoleOwner    = "OWNER"
	RoleManager  = "MANAGER"
	RoleTester   = "TESTER"
	RoleApprover = "APPROVER"
	RoleViewer   = "VIEWER"
)

// AssignableRoles lists the roles a member or invitee can be given.
// OWNER is excluded: ownership is derived from Project.OwnerID and is
// never granted through membership or invite.
var AssignableRoles = []string{RoleManager, RoleTester, RoleApprover, RoleViewer}

// UserOnProject represents a user's membership and role within a project.
// Memberships are hard-deleted on removal so the (user, project) unique
// index stays free for a later rejoin.
type UserOnProject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_project;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectID uint      `gorm:"uniqueIndex:idx_user_project;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Role      string    `gorm:"size:20;default:VIEWER" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserOnProject) TableName() string { return "users_on_projects" }
