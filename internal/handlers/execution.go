package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/internal/middleware"
	"github.com/testdeckhq/testdeck/internal/services"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type ExecutionHandler struct {
	executionService *services.ExecutionService
}

func NewExecutionHandler(db *gorm.DB) *ExecutionHandler {
	return &ExecutionHandler{
		executionService: services.NewExecutionService(db),
	}
}

// Create records a scenario run
// POST /api/projects/:projectId/packages/:packageId/scenarios/:scenarioId/executions
func (h *ExecutionHandler) Create(c *gin.Context) {
	projectID, packageID, scenarioID, ok := scenarioIDs(c)
	if !ok {
		return
	}

	var req services.CreateExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	execution, err := h.executionService.Execute(middleware.GetUserID(c), projectID, packageID, scenarioID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "execution recorded", "execution": execution})
}

// List returns a scenario's executions, newest first
// GET /api/projects/:projectId/packages/:packageId/scenarios/:scenarioId/executions
func (h *ExecutionHandler) List(c *gin.Context) {
	projectID, packageID, scenarioID, ok := scenarioIDs(c)
	if !ok {
		return
	}

	page, pageSize, err := utils.ValidatePagination(c.Query("page"), c.Query("pageSize"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.executionService.List(projectID, packageID, scenarioID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}
