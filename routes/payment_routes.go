package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/controllers"
	"github.com/icrisstudio/studio_backend/middleware"
)

// RegisterPaymentRoutes sets up the payment ledger routes
func RegisterPaymentRoutes(e *echo.Echo, db *mongo.Client, paymentController *controllers.PaymentController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Staff-facing routes; staff see their own ledger, admins may pass ?staff_id=
	r.GET("/payments/staff", paymentController.GetStaffPayments)
	r.GET("/payments/staff/summary", paymentController.GetStaffSummary)
	r.POST("/payments/request-payout", paymentController.RequestPayout)

	// Ledger administration (admin only)
	admin := r.Group("", middleware.RequireAdmin())
	admin.GET("/payments", paymentController.ListPayments)
	admin.GET("/payments/pending", paymentController.GetPendingPayments)
	admin.POST("/payments/:id/process", paymentController.ProcessPayment)
	admin.POST("/payments/:id/reject", paymentController.RejectPayment)
	admin.PATCH("/payments/:id/status", paymentController.PatchStatus)
}
