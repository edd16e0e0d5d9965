package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/middleware"
)

// RegisterExpenseRoutes sets up the expense ledger routes (admin only)
func RegisterExpenseRoutes(e *echo.Echo, db *mongo.Client, expenseController *controllers.ExpenseController) {
	r := e.Group("/api/expenses")
	r.Use(middleware.JWTMiddleware(), middleware.RequireAdmin())

	r.POST("", expenseController.CreateExpense)
	r.GET("", expenseController.ListExpenses)
	r.GET("/summary", expenseController.GetSummary)
	r.PUT("/:id", expenseController.UpdateExpense)
	r.DELETE("/:id", expenseController.DeleteExpense)
}
