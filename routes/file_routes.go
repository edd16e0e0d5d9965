package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/middleware"
)

// RegisterFileRoutes sets up the two-step upload routes
func RegisterFileRoutes(e *echo.Echo, db *mongo.Client, fileController *controllers.FileController) {
	r := e.Group("/api/files")
	r.Use(middleware.JWTMiddleware())
	r.POST("/upload-url", fileController.GenerateUploadURL)
	r.GET("/:id/url", fileController.GetFileURL)

	// The upload leg authenticates with its one-time token instead of a JWT
	e.POST("/api/files/upload/:token", fileController.Upload)
}
