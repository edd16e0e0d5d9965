package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/middleware"
)

// RegisterTaxRoutes sets up the tax ledger routes (admin only)
func RegisterTaxRoutes(e *echo.Echo, db *mongo.Client, taxController *controllers.TaxController) {
	r := e.Group("/api/taxes")
	r.Use(middleware.JWTMiddleware(), middleware.RequireAdmin())

	r.POST("", taxController.CreateTax)
	r.GET("", taxController.ListTaxes)
	r.GET("/pending", taxController.GetPendingTaxes)
	r.GET("/summary", taxController.GetSummary)
	r.GET("/task/:taskId", taxController.GetTaxesByTask)
	r.PUT("/:id", taxController.UpdateTax)
	r.DELETE("/:id", taxController.DeleteTax)
}
