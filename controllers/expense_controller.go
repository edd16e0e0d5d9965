// controllers/expense_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/config"
	"github.com/icrisstudio/studio_backend/models"
	"github.com/icrisstudio/studio_backend/utils"
)

// ExpenseController handles the flat expense ledger.
type ExpenseController struct {
	DB *mongo.Client
}

func NewExpenseController(db *mongo.Client) *ExpenseController {
	return &ExpenseController{DB: db}
}

func (ec *ExpenseController) expenses() *mongo.Collection {
	return config.GetCollection(ec.DB, config.ExpensesCollection)
}

// CreateExpense appends one spending record.
func (ec *ExpenseController) CreateExpense(c echo.Context) error {
	var req models.CreateExpenseRequest
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

	expense := models.Expense{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		CreatedAt:   utils.NowMillis(),
	}
	if proofID, err := parseObjectID(req.Proof); err == nil {
		expense.Proof = &proofID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := ec.expenses().InsertOne(ctx, expense)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create expense",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Expense created",
		Data:    map[string]interface{}{"expenseId": result.InsertedID},
	})
}

// UpdateExpense merges only the provided fields.
func (ec *ExpenseController) UpdateExpense(c echo.Context) error {
	expenseID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid expense id",
		})
	}

	var req models.UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	patch := req.Patch()
	if len(patch) == 0 {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Nothing to update",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := ec.expenses().UpdateOne(ctx, bson.M{"_id": expenseID}, bson.M{"$set": patch})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update expense",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Expense not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense updated",
	})
}

// DeleteExpense removes one record.
func (ec *ExpenseController) DeleteExpense(c echo.Context) error {
	expenseID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid expense id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := ec.expenses().DeleteOne(ctx, bson.M{"_id": expenseID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete expense",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Expense not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense deleted",
	})
}

// ListExpenses returns the ledger, optionally filtered by ?type=.
func (ec *ExpenseController) ListExpenses(c echo.Context) error {
	filter := bson.M{}
	if expenseType := c.QueryParam("type"); expenseType != "" {
		filter["type"] = expenseType
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ec.expenses().Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list expenses",
		})
	}
	defer cursor.Close(ctx)

	expenses := []models.Expense{}
	if err := cursor.All(ctx, &expenses); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode expenses",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expenses",
		Data:    expenses,
	})
}

// GetSummary totals the ledger by category.
func (ec *ExpenseController) GetSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ec.expenses().Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list expenses",
		})
	}
	defer cursor.Close(ctx)

	var expenses []models.Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode expenses",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense summary",
		Data:    utils.ExpenseTotals(expenses),
	})
}
