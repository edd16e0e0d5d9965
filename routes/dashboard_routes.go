package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/middleware"
)

// RegisterDashboardRoutes sets up the financial overview routes (admin only)
func RegisterDashboardRoutes(e *echo.Echo, db *mongo.Client, dashboardController *controllers.DashboardController) {
	r := e.Group("/api/dashboard")
	r.Use(middleware.JWTMiddleware(), middleware.RequireAdmin())

	r.GET("/metrics", dashboardController.GetMetrics)
	r.GET("/monthly", dashboardController.GetMonthlyData)
	r.GET("/staff-distribution", dashboardController.GetStaffPaymentDistribution)
}
