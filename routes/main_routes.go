package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/repositories"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client) {
	userRepo := repositories.NewUserRepository(db)

	authController := controllers.NewAuthController(db, userRepo)
	userController := controllers.NewUserController(db, userRepo)
	taskController := controllers.NewTaskController(db, userRepo)
	paymentController := controllers.NewPaymentController(db, userRepo)
	expenseController := controllers.NewExpenseController(db)
	taxController := controllers.NewTaxController(db)
	dashboardController := controllers.NewDashboardController(db)
	fileController := controllers.NewFileController(db)

	RegisterAuthRoutes(e, db, authController)
	RegisterUserRoutes(e, db, userController)
	RegisterTaskRoutes(e, db, taskController)
	RegisterPaymentRoutes(e, db, paymentController)
	RegisterExpenseRoutes(e, db, expenseController)
	RegisterTaxRoutes(e, db, taxController)
	RegisterDashboardRoutes(e, db, dashboardController)
	RegisterFileRoutes(e, db, fileController)
}
