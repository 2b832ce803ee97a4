package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/internal/middleware"
	"github.com/testdeckhq/testdeck/internal/services"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type InviteHandler struct {
	inviteService *services.InviteService
}

func NewInviteHandler(db *gorm.DB) *InviteHandler {
	return &InviteHandler{
		inviteService: services.NewInviteService(db),
	}
}

// Create invites an email address into a project
// POST /api/projects/:projectId/invites
func (h *InviteHandler) Create(c *gin.Context) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req services.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invite, err := h.inviteService.Create(middleware.GetUserID(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "invite sent", "invite": invite})
}

// ListSent returns the invites the caller has created
// GET /api/invites
func (h *InviteHandler) ListSent(c *gin.Context) {
	page, pageSize, err := utils.ValidatePagination(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.inviteService.ListSent(middleware.GetUserID(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}

// ListReceived returns the invites addressed to the caller
// GET /api/invites/received
func (h *InviteHandler) ListReceived(c *gin.Context) {
	page, pageSize, err := utils.ValidatePagination(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.inviteService.ListReceived(middleware.GetUserEmail(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}

// Accept joins the caller to the invite's project
// POST /api/invites/:inviteId/accept
func (h *InviteHandler) Accept(c *gin.Context) {
	inviteID, err := utils.ValidateID(c.Param("inviteId"), "inviteId")
	if err != nil {
		response.Error(c, err)
		return
	}

	invite, err := h.inviteService.Accept(middleware.GetUserID(c), middleware.GetUserEmail(c), inviteID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "invite accepted", "invite": invite})
}

// Decline rejects an invite
// POST /api/invites/:inviteId/decline
func (h *InviteHandler) Decline(c *gin.Context) {
	inviteID, err := utils.ValidateID(c.Param("inviteId"), "inviteId")
	if err != nil {
		response.Error(c, err)
		return
	}

	invite, err := h.inviteService.Decline(middleware.GetUserEmail(c), inviteID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "invite declined", "invite": invite})
}
