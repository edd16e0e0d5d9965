package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/middleware"
)

// RegisterAuthRoutes sets up authentication and session routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController) {
	// Public routes
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/setup-admin", authController.SetupAdmin)

	// Session routes
	r := e.Group("/api/auth")
	r.Use(middleware.JWTMiddleware())
	r.GET("/me", authController.Me)
	r.POST("/logout", authController.Logout)
}
