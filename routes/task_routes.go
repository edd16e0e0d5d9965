package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/middleware"
)

// RegisterTaskRoutes sets up task and assignment routes
func RegisterTaskRoutes(e *echo.Echo, db *mongo.Client, taskController *controllers.TaskController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Staff workspace routes
	r.GET("/tasks/my", taskController.GetStaffTasks)
	r.POST("/tasks/:id/complete", taskController.MarkCompleted)
	r.PATCH("/tasks/:id/status", taskController.UpdateStatus)

	// Task management (admin only)
	admin := r.Group("", middleware.RequireAdmin())
	admin.POST("/tasks", taskController.CreateTask)
	admin.GET("/tasks", taskController.ListTasks)
	admin.GET("/tasks/:id", taskController.GetTask)
	admin.PUT("/tasks/:id", taskController.UpdateTask)
	admin.DELETE("/tasks/:id", taskController.DeleteTask)
	admin.POST("/tasks/:id/assignments", taskController.AssignStaff)
	admin.DELETE("/assignments/:assignmentId", taskController.RemoveAssignment)
}
