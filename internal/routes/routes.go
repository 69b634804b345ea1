package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lumocms/lumo-backend/internal/domain"
	"github.com/lumocms/lumo-backend/internal/handler"
	"github.com/lumocms/lumo-backend/internal/middleware"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	contentHandler *handler.ContentHandler,
	versionHandler *handler.VersionHandler,
	healthHandler *handler.HealthHandler,
	validator middleware.APIKeyValidator,
) {
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api/v1")

	// Public content delivery (read keys)
	contents := api.Group("/contents", middleware.APIKeyAuth(validator, domain.ScopeRead))
	{
		contents.GET("/:endpoint", contentHandler.List)
		contents.GET("/:endpoint/object", contentHandler.GetObject)
		contents.GET("/:endpoint/:id", contentHandler.Get)
	}

	// Content writes (write keys)
	writes := api.Group("/contents", middleware.APIKeyAuth(validator, domain.ScopeWrite))
	{
		writes.POST("/:endpoint", contentHandler.Create)
		writes.PUT("/:endpoint/:id", contentHandler.Update)
		writes.DELETE("/:endpoint/:id", contentHandler.Delete)
	}

	// Management surface: drafts visible, lifecycle and history operations
	management := api.Group("/management/contents", middleware.APIKeyAuth(validator, domain.ScopeManagement))
	{
		management.GET("/:endpoint", contentHandler.ManagementList)
		management.POST("/:endpoint/:id/publish", contentHandler.Publish)
		management.POST("/:endpoint/:id/unpublish", contentHandler.Unpublish)

		management.GET("/:endpoint/:id/versions", versionHandler.ListVersions)
		management.GET("/:endpoint/:id/versions/:version_id", versionHandler.GetVersion)
		management.POST("/:endpoint/:id/versions/:version_id/revert", versionHandler.Revert)
	}
}
