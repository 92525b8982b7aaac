package api

import (
	v1 "github.com/docflow/docflow/internal/api/v1"
	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/logger"
	"github.com/docflow/docflow/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Document *v1.DocumentHandler
	Stale    *v1.StaleHandler
	Archive  *v1.ArchiveHandler
	Health   *v1.HealthHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.TenantMiddleware,
		middleware.ErrorHandler(),
	)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/health", handlers.Health.Health)

	// Document routes
	documents := router.Group("/documents")
	{
		documents.POST("", handlers.Document.CreateDocument)
		documents.GET("", handlers.Document.ListDocuments)

		// Stale protocol routes precede the id routes so the literal
		// segments are registered first.
		documents.GET("/stale", handlers.Stale.ListStale)
		documents.POST("/stale/sweep", handlers.Stale.Sweep)
		documents.POST("/archive", handlers.Archive.DirectInsert)

		documents.GET("/:id", handlers.Document.GetDocument)
		documents.DELETE("/:id", handlers.Document.DeleteDraft)
		documents.POST("/:id/advance", handlers.Document.AdvanceDocument)
		documents.PUT("/:id/status", handlers.Document.SetDocumentStatus)
		documents.POST("/:id/scan", handlers.Document.AttachScan)
		documents.POST("/:id/resolve", handlers.Stale.ResolveStale)
	}

	// Staff routes
	staff := router.Group("/staff")
	{
		staff.GET("/:id/blocked-dates", handlers.Document.GetBlockedDates)
	}
}
