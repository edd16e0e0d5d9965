// controllers/payment_controller.go
package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/icrisstudio/studio_backend/config"
	"github.com/icrisstudio/studio_backend/middleware"
	"github.com/icrisstudio/studio_backend/models"
	"github.com/icrisstudio/studio_backend/repositories"
	"github.com/icrisstudio/studio_backend/utils"
)

// PaymentController handles the payment ledger: payout consolidation,
// processing, rejection, and the staff-facing summaries.
type PaymentController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
}

func NewPaymentController(db *mongo.Client, userRepo *repositories.UserRepository) *PaymentController {
	return &PaymentController{DB: db, userRepo: userRepo}
}

func (pc *PaymentController) payments() *mongo.Collection {
	return config.GetCollection(pc.DB, config.PaymentsCollection)
}

func (pc *PaymentController) assignments() *mongo.Collection {
	return config.GetCollection(pc.DB, config.AssignmentsCollection)
}

func (pc *PaymentController) expenses() *mongo.Collection {
	return config.GetCollection(pc.DB, config.ExpensesCollection)
}

// ListPayments returns every payment enriched with staff identity and
// payout profile (admin only).
func (pc *PaymentController) ListPayments(c echo.Context) error {
	return pc.listEnriched(c, bson.M{})
}

// GetPendingPayments returns payments awaiting action: pending salary
// records and payout requests.
func (pc *PaymentController) GetPendingPayments(c echo.Context) error {
	return pc.listEnriched(c, bson.M{"status": bson.M{"$in": []string{
		models.PaymentStatusPending,
		models.PaymentStatusPayoutRequested,
	}}})
}

func (pc *PaymentController) listEnriched(c echo.Context, filter bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := pc.payments().Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list payments",
		})
	}
	defer cursor.Close(ctx)

	enriched := []models.EnrichedPayment{}
	for cursor.Next(ctx) {
		var payment models.Payment
		if err := cursor.Decode(&payment); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to decode payment",
			})
		}

		row := models.EnrichedPayment{
			Payment:   payment,
			StaffName: "Unknown Identity",
			StaffProfile: models.PaymentStaffProfile{
				StaffProfile: models.StaffProfile{
					PaymentMethod: "bank_transfer",
					RoleName:      "Staff",
				},
			},
		}

		if staff, err := pc.userRepo.GetUserByID(ctx, payment.StaffID); err == nil {
			row.StaffName = staff.FullName
			row.StaffUsername = staff.Username
			row.StaffProfile.FullName = staff.FullName
			row.StaffProfile.Username = staff.Username
			row.StaffProfile.ProfilePicture = staff.ProfilePicture
		}
		if profile, err := pc.userRepo.GetStaffProfile(ctx, payment.StaffID); err == nil && profile != nil {
			fullName := row.StaffProfile.FullName
			username := row.StaffProfile.Username
			picture := row.StaffProfile.ProfilePicture
			row.StaffProfile.StaffProfile = *profile
			row.StaffProfile.FullName = fullName
			row.StaffProfile.Username = username
			row.StaffProfile.ProfilePicture = picture
			if profile.PaymentMethod == "" {
				row.StaffProfile.PaymentMethod = "bank_transfer"
			}
			if profile.RoleName == "" {
				row.StaffProfile.RoleName = "Staff"
			}
		}

		enriched = append(enriched, row)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payments",
		Data:    enriched,
	})
}

// GetStaffPayments returns the authenticated staff member's payments,
// newest first.
func (pc *PaymentController) GetStaffPayments(c echo.Context) error {
	staffID, err := pc.callerStaffID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := pc.payments().Find(ctx, bson.M{"staff_id": staffID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list payments",
		})
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Staff payments",
		Data:    payments,
	})
}

// GetStaffSummary returns the staff earnings overview.
func (pc *PaymentController) GetStaffSummary(c echo.Context) error {
	staffID, err := pc.callerStaffID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payments []models.Payment
	cursor, err := pc.payments().Find(ctx, bson.M{"staff_id": staffID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list payments",
		})
	}
	if err := cursor.All(ctx, &payments); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payments",
		})
	}

	var assignments []models.TaskAssignment
	cursor, err = pc.assignments().Find(ctx, bson.M{"staff_id": staffID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list assignments",
		})
	}
	if err := cursor.All(ctx, &assignments); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode assignments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Staff summary",
		Data:    utils.SummarizeStaffPayments(payments, assignments),
	})
}

// RequestPayout consolidates the staff member's pending payments into one
// payout_requested record. The individual records are deleted; their
// task-level breakdown is gone once the request exists.
func (pc *PaymentController) RequestPayout(c echo.Context) error {
	staffID, err := pc.callerStaffID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := pc.DB.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start transaction",
		})
	}
	defer session.EndSession(ctx)

	payout, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		cursor, err := pc.payments().Find(sc, bson.M{
			"staff_id": staffID,
			"status":   models.PaymentStatusPending,
		})
		if err != nil {
			return nil, err
		}
		var pending []models.Payment
		if err := cursor.All(sc, &pending); err != nil {
			return nil, err
		}

		total, ids, err := utils.ConsolidatePayout(pending)
		if err != nil {
			return nil, err
		}

		if _, err := pc.payments().DeleteMany(sc, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return nil, err
		}

		payout := models.Payment{
			StaffID:   staffID,
			Amount:    total,
			Status:    models.PaymentStatusPayoutRequested,
			Notes:     "Payout Request",
			CreatedAt: utils.NowMillis(),
		}
		result, err := pc.payments().InsertOne(sc, payout)
		if err != nil {
			return nil, err
		}
		payout.ID = result.InsertedID.(primitive.ObjectID)
		return payout, nil
	})
	if err == utils.ErrNoPendingPayments || err == utils.ErrBelowMinimumPayout {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to request payout",
		})
	}

	requested := payout.(models.Payment)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	if staff, err := pc.userRepo.GetUserByID(ctx2, staffID); err == nil {
		go utils.NotifyPayoutRequested(staff.FullName, requested.Amount)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payout requested",
		Data: map[string]interface{}{
			"payoutId": requested.ID,
			"amount":   requested.Amount,
		},
	})
}

// ProcessPayment completes a payment: proof and notes are stored, all of
// the staff member's unpaid assignments flip to paid, and the payout is
// mirrored into the expense ledger as a staff salary. The assignment flip
// is deliberately not scoped to the tasks behind this payout; the studio
// settles everything outstanding at once.
func (pc *PaymentController) ProcessPayment(c echo.Context) error {
	paymentID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment id",
		})
	}

	var req models.ProcessPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payment models.Payment
	if err := pc.payments().FindOne(ctx, bson.M{"_id": paymentID}).Decode(&payment); err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payment not found",
		})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load payment",
		})
	}

	session, err := pc.DB.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start transaction",
		})
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := utils.NowMillis()

		patch := bson.M{
			"status":  models.PaymentStatusCompleted,
			"paid_at": now,
		}
		if req.Notes != "" {
			patch["notes"] = req.Notes
		}
		if proofID, err := parseObjectID(req.PaymentProof); err == nil {
			patch["payment_proof"] = proofID
		}
		if _, err := pc.payments().UpdateOne(sc, bson.M{"_id": paymentID}, bson.M{"$set": patch}); err != nil {
			return nil, err
		}

		_, err := pc.assignments().UpdateMany(sc,
			bson.M{
				"staff_id": payment.StaffID,
				"payment_status": bson.M{"$in": []string{
					models.AssignmentPaymentPending,
					models.AssignmentPaymentPartial,
				}},
			},
			bson.M{"$set": bson.M{"payment_status": models.AssignmentPaymentPaid}},
		)
		if err != nil {
			return nil, err
		}

		expense := models.Expense{
			Type:        models.ExpenseStaffSalary,
			Amount:      payment.Amount,
			Description: fmt.Sprintf("Staff salary payment for %s", payment.StaffID.Hex()),
			Date:        now,
			CreatedAt:   now,
		}
		if _, err := pc.expenses().InsertOne(sc, expense); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process payment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment processed successfully",
	})
}

// RejectPayment marks a payment rejected. Rejection is terminal: nothing
// is restored to the pending ledger.
func (pc *PaymentController) RejectPayment(c echo.Context) error {
	paymentID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment id",
		})
	}

	var req models.RejectPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	patch := bson.M{"status": models.PaymentStatusRejected}
	if req.Notes != "" {
		patch["notes"] = req.Notes
	}

	result, err := pc.payments().UpdateOne(ctx, bson.M{"_id": paymentID}, bson.M{"$set": patch})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reject payment",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payment not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment rejected",
	})
}

// PatchStatus overwrites a payment's status directly, bypassing every side
// effect. Admin escape hatch for manual corrections.
func (pc *PaymentController) PatchStatus(c echo.Context) error {
	paymentID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment id",
		})
	}

	var req models.PatchPaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := pc.payments().UpdateOne(ctx, bson.M{"_id": paymentID}, bson.M{"$set": bson.M{"status": req.Status}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payment status",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payment not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment status updated",
	})
}

// callerStaffID resolves the staff id a staff-facing endpoint operates on.
// Staff act on themselves; the admin may pass ?staff_id= to inspect anyone.
func (pc *PaymentController) callerStaffID(c echo.Context) (primitive.ObjectID, error) {
	if middleware.ExtractRole(c) == models.RoleSuperAdmin {
		if raw := c.QueryParam("staff_id"); raw != "" {
			id, err := parseObjectID(raw)
			if err != nil {
				return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid staff id")
			}
			return id, nil
		}
	}

	callerID, err := middleware.ExtractUserID(c)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	id, err := parseObjectID(callerID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	return id, nil
}
