package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lumocms/lumo-backend/internal/common"
	"github.com/lumocms/lumo-backend/internal/middleware"
	"github.com/lumocms/lumo-backend/internal/service"
	"github.com/lumocms/lumo-backend/pkg/ginutil"
)

// VersionHandler handles HTTP requests for content version history
type VersionHandler struct {
	service service.ContentService
}

// NewVersionHandler creates a new VersionHandler
func NewVersionHandler(service service.ContentService) *VersionHandler {
	return &VersionHandler{service: service}
}

// ListVersions godoc
// @Summary      List versions of a record
// @Description  Returns the version history newest first, without snapshot bodies
// @Tags         management
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint  path      string  true  "endpoint slug"
// @Param        id        path      string  true  "record id"
// @Success      200  {object}  common.APIResponse{data=[]domain.VersionSummary}
// @Failure      404  {object}  common.APIResponse
// @Router       /management/contents/{endpoint}/{id}/versions [get]
func (h *VersionHandler) ListVersions(c *gin.Context) {
	data, err := h.service.ListVersions(middleware.TenantID(c), c.Param("endpoint"), c.Param("id"))
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, data)
}

// GetVersion godoc
// @Summary      Get one version of a record
// @Description  Returns a historical version including its snapshot
// @Tags         management
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint    path      string  true  "endpoint slug"
// @Param        id          path      string  true  "record id"
// @Param        version_id  path      int     true  "version id"
// @Success      200  {object}  common.APIResponse{data=domain.ContentVersion}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /management/contents/{endpoint}/{id}/versions/{version_id} [get]
func (h *VersionHandler) GetVersion(c *gin.Context) {
	versionID, err := ginutil.ParamInt64(c, "version_id")
	if err != nil {
		common.ErrorResponse(c, 400, "invalid version ID")
		return
	}

	data, err := h.service.GetVersion(middleware.TenantID(c), c.Param("endpoint"), c.Param("id"), uint64(versionID))
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, data)
}

// Revert godoc
// @Summary      Revert a record to a version
// @Description  Copies the version snapshot into the draft; publishing it again is a separate step
// @Tags         management
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        endpoint    path      string  true  "endpoint slug"
// @Param        id          path      string  true  "record id"
// @Param        version_id  path      int     true  "version id"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /management/contents/{endpoint}/{id}/versions/{version_id}/revert [post]
func (h *VersionHandler) Revert(c *gin.Context) {
	versionID, err := ginutil.ParamInt64(c, "version_id")
	if err != nil {
		common.ErrorResponse(c, 400, "invalid version ID")
		return
	}

	data, err := h.service.RevertToVersion(middleware.TenantID(c), c.Param("endpoint"), c.Param("id"), uint64(versionID))
	if err != nil {
		common.TranslateError(c, err)
		return
	}

	common.SuccessResponse(c, data)
}
