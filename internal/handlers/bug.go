package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/internal/middleware"
	"github.com/testdeckhq/testdeck/internal/services"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type BugHandler struct {
	bugService *services.BugService
}

func NewBugHandler(db *gorm.DB) *BugHandler {
	return &BugHandler{
		bugService: services.NewBugService(db),
	}
}

// Create reports a bug against a project
// POST /api/projects/:projectId/bugs
func (h *BugHandler) Create(c *gin.Context) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req services.CreateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bug, err := h.bugService.Create(middleware.GetUserID(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "bug reported", "bug": bug})
}

// List returns the project's bugs
// GET /api/projects/:projectId/bugs
func (h *BugHandler) List(c *gin.Context) {
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

	resp, err := h.bugService.List(projectID, c.Query("status"), c.Query("severity"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}

// Update applies a partial update to a bug
// PUT /api/projects/:projectId/bugs/:bugId
func (h *BugHandler) Update(c *gin.Context) {
	projectID, bugID, err := bugIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req services.UpdateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bug, err := h.bugService.Update(projectID, bugID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "bug updated", "bug": bug})
}

// Delete removes a bug
// DELETE /api/projects/:projectId/bugs/:bugId
func (h *BugHandler) Delete(c *gin.Context) {
	projectID, bugID, err := bugIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.bugService.Delete(projectID, bugID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "bug deleted"})
}

func bugIDs(c *gin.Context) (uint, uint, error) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		return 0, 0, err
	}
	bugID, err := utils.ValidateID(c.Param("bugId"), "bugId")
	if err != nil {
		return 0, 0, err
	}
	return projectID, bugID, nil
}
