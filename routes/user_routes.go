package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/middleware"
)

// RegisterUserRoutes sets up account and staff profile routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, userController *controllers.UserController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Account management (admin only)
	admin := r.Group("", middleware.RequireAdmin())
	admin.POST("/users", userController.CreateUser)
	admin.GET("/users", userController.ListUsers)
	admin.PUT("/users/:id", userController.UpdateUser)
	admin.POST("/users/:id/disable", userController.DisableUser)
	admin.GET("/staff", userController.ListAllStaff)
	admin.GET("/staff/active", userController.ListActiveStaff)

	// Profile routes; the controller enforces self-or-admin access
	r.GET("/users/:id/profile", userController.GetStaffProfile)
	r.PUT("/users/:id/profile", userController.UpdateStaffProfile)
	r.POST("/users/:id/profile-picture", userController.UploadProfilePicture)
}
