package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/internal/middleware"
	"github.com/testdeckhq/testdeck/internal/services"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
	}
}

// Create creates a new project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "project created", "project": project})
}

// List returns the caller's projects
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize, err := utils.ValidatePagination(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.projectService.List(middleware.GetUserID(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}

// Get returns a project by id
// GET /api/projects/:projectId
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		response.Error(c, err)
		return
	}

	project, err := h.projectService.Get(projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"project": project})
}

// Update updates a project (owner only)
// PUT /api/projects/:projectId
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(middleware.GetUserID(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "project updated", "project": project})
}

// Delete removes a project and everything under it (owner only)
// DELETE /api/projects/:projectId
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.projectService.Delete(middleware.GetUserID(c), projectID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "project deleted"})
}
