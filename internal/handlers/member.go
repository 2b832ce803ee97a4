package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/internal/middleware"
	"github.com/testdeckhq/testdeck/internal/services"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type MemberHandler struct {
	memberService *services.MemberService
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{
		memberService: services.NewMemberService(db),
	}
}

// List returns the project's memberships
// GET /api/projects/:projectId/members
func (h *MemberHandler) List(c *gin.Context) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		response.Error(c, err)
		return
	}

	page, pageSize, err := utils.ValidatePagination(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.memberService.List(projectID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}

// UpdateRole changes a member's role (owner only)
// PUT /api/projects/:projectId/members/:userId
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	projectID, userID, err := memberIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req services.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, err := h.memberService.UpdateRole(middleware.GetUserID(c), projectID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "member role updated", "member": membership})
}

// Remove deletes a membership (owner only)
// DELETE /api/projects/:projectId/members/:userId
func (h *MemberHandler) Remove(c *gin.Context) {
	projectID, userID, err := memberIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.memberService.Remove(middleware.GetUserID(c), projectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "member removed"})
}

func memberIDs(c *gin.Context) (uint, uint, error) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		return 0, 0, err
	}
	userID, err := utils.ValidateID(c.Param("userId"), "userId")
	if err != nil {
		return 0, 0, err
	}
	return projectID, userID, nil
}
