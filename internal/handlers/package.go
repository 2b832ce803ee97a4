package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/internal/services"
	"github.com/testdeckhq/testdeck/internal/utils"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

type PackageHandler struct {
	packageService *services.PackageService
}

func NewPackageHandler(db *gorm.DB) *PackageHandler {
	return &PackageHandler{
		packageService: services.NewPackageService(db),
	}
}

// Create creates a test package under a project
// POST /api/projects/:projectId/packages
func (h *PackageHandler) Create(c *gin.Context) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req services.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pkg, err := h.packageService.Create(projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": "test package created", "testPackage": pkg})
}

// List returns the project's packages
// GET /api/projects/:projectId/packages
func (h *PackageHandler) List(c *gin.Context) {
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

	resp, err := h.packageService.List(projectID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}

// Get returns a package with its ordered steps
// GET /api/projects/:projectId/packages/:packageId
func (h *PackageHandler) Get(c *gin.Context) {
	projectID, packageID, err := packageIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	pkg, err := h.packageService.Get(projectID, packageID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"testPackage": pkg})
}

// Update applies a partial update to a package
// PUT /api/projects/:projectId/packages/:packageId
func (h *PackageHandler) Update(c *gin.Context) {
	projectID, packageID, err := packageIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req services.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pkg, err := h.packageService.Update(projectID, packageID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "test package updated", "testPackage": pkg})
}

// Delete removes a package with its steps and scenarios
// DELETE /api/projects/:projectId/packages/:packageId
func (h *PackageHandler) Delete(c *gin.Context) {
	projectID, packageID, err := packageIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.packageService.Delete(projectID, packageID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "test package deleted"})
}

func packageIDs(c *gin.Context) (uint, uint, error) {
	projectID, err := utils.ValidateID(c.Param("projectId"), "projectId")
	if err != nil {
		return 0, 0, err
	}
	packageID, err := utils.ValidateID(c.Param("packageId"), "packageId")
	if err != nil {
		return 0, 0, err
	}
	return projectID, packageID, nil
}
