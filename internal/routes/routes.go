package routes

import (
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/handlers"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	// Wire session store, URL signer, and object store before any handler runs
	handlers.InitDeps()

	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Server Crows Peak Map API is running in Health Check Endpoint",
		})
	})

	// Signed object access: the signature in the URL is the authorization
	ginRouter.GET("/objects/*path", handlers.ServeObject)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", handlers.Register)
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Equipment endpoints
		protectedRoutes.GET("/equipment", handlers.GetEquipment)
		protectedRoutes.GET("/equipment/:id", handlers.GetEquipmentByID)
		protectedRoutes.POST("/equipment", handlers.CreateEquipment)
		protectedRoutes.PUT("/equipment/:id", handlers.UpdateEquipment)
		protectedRoutes.DELETE("/equipment/:id", handlers.DeleteEquipment)

		// Attachment endpoints (images and files)
		protectedRoutes.GET("/equipment/:id/attachments", handlers.GetAttachments)
		protectedRoutes.POST("/equipment/:id/attachments", handlers.UploadAttachment)
		protectedRoutes.PATCH("/equipment/:id/attachments/reorder", handlers.ReorderAttachments)
		protectedRoutes.DELETE("/attachments/:id", handlers.DeleteAttachment)

		// Log endpoints
		protectedRoutes.GET("/equipment/:id/logs", handlers.GetLogs)
		protectedRoutes.POST("/equipment/:id/logs", handlers.CreateLog)

		// Summary endpoints
		protectedRoutes.GET("/equipment/:id/summary", handlers.GetSummary)
		protectedRoutes.PUT("/equipment/:id/summary", handlers.UpdateSummary)

		// Users endpoint
		protectedRoutes.GET("/users", handlers.GetAllUsers)

		// Session end
		protectedRoutes.POST("/logout", handlers.Logout)

		// Realtime equipment events
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
