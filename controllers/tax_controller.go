// controllers/tax_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/icrisstudio/studio_backend/config"
	"github.com/icrisstudio/studio_backend/models"
	"github.com/icrisstudio/studio_backend/utils"
)

// TaxController handles per-task tax obligations.
type TaxController struct {
	DB *mongo.Client
}

func NewTaxController(db *mongo.Client) *TaxController {
	return &TaxController{DB: db}
}

func (tc *TaxController) taxes() *mongo.Collection {
	return config.GetCollection(tc.DB, config.TaxesCollection)
}

func (tc *TaxController) tasks() *mongo.Collection {
	return config.GetCollection(tc.DB, config.TasksCollection)
}

// CreateTax records a tax obligation against an existing task. The due date
// defaults to thirty days out when the caller leaves it unset.
func (tc *TaxController) CreateTax(c echo.Context) error {
	var req models.CreateTaxRequest
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

	taskID, err := parseObjectID(req.TaskID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid task id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	if err := tc.tasks().FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Task not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up task",
		})
	}

	now := utils.NowMillis()
	dueDate := req.DueDate
	if dueDate == 0 {
		dueDate = now + 30*24*int64(time.Hour/time.Millisecond)
	}

	tax := models.Tax{
		TaskID:      taskID,
		ProjectName: req.ProjectName,
		TaxType:     req.TaxType,
		TaxAmount:   req.TaxAmount,
		TaxStatus:   models.TaxStatusPending,
		AssignedTo:  parseObjectIDs(req.AssignedTo),
		Description: req.Description,
		DueDate:     dueDate,
		CreatedAt:   now,
	}

	result, err := tc.taxes().InsertOne(ctx, tax)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create tax",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Tax created",
		Data:    map[string]interface{}{"taxId": result.InsertedID},
	})
}

// UpdateTax merges only the provided fields. Marking a tax paid without an
// explicit paid_at stamps the current time.
func (tc *TaxController) UpdateTax(c echo.Context) error {
	taxID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid tax id",
		})
	}

	var req models.UpdateTaxRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	patch := req.Patch()
	if status, ok := patch["tax_status"]; ok && status == models.TaxStatusPaid {
		if _, hasPaidAt := patch["paid_at"]; !hasPaidAt {
			patch["paid_at"] = utils.NowMillis()
		}
	}
	if len(patch) == 0 {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Nothing to update",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := tc.taxes().UpdateOne(ctx, bson.M{"_id": taxID}, bson.M{"$set": patch})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update tax",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Tax not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tax updated",
	})
}

// DeleteTax removes one obligation.
func (tc *TaxController) DeleteTax(c echo.Context) error {
	taxID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid tax id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := tc.taxes().DeleteOne(ctx, bson.M{"_id": taxID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete tax",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Tax not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tax deleted",
	})
}

// ListTaxes returns all obligations, newest first, joined with the owning
// task's project and client names.
func (tc *TaxController) ListTaxes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taxes, err := tc.findTaxes(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list taxes",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Taxes",
		Data:    utils.EnrichTaxes(taxes, tc.taskIndex(ctx, taxes)),
	})
}

// GetPendingTaxes returns unpaid obligations joined the same way, for the
// dashboard widget.
func (tc *TaxController) GetPendingTaxes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taxes, err := tc.findTaxes(ctx, bson.M{"tax_status": models.TaxStatusPending})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list taxes",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending taxes",
		Data:    utils.EnrichTaxes(taxes, tc.taskIndex(ctx, taxes)),
	})
}

// taskIndex loads each distinct owning task once. Taxes whose task has been
// deleted are simply absent from the index.
func (tc *TaxController) taskIndex(ctx context.Context, taxes []models.Tax) map[primitive.ObjectID]models.Task {
	index := map[primitive.ObjectID]models.Task{}
	seen := map[primitive.ObjectID]bool{}
	for _, tax := range taxes {
		if seen[tax.TaskID] {
			continue
		}
		seen[tax.TaskID] = true
		var task models.Task
		if err := tc.tasks().FindOne(ctx, bson.M{"_id": tax.TaskID}).Decode(&task); err == nil {
			index[tax.TaskID] = task
		}
	}
	return index
}

// GetTaxesByTask returns the obligations recorded against one task.
func (tc *TaxController) GetTaxesByTask(c echo.Context) error {
	taskID, err := parseObjectID(c.Param("taskId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid task id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taxes, err := tc.findTaxes(ctx, bson.M{"task_id": taskID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list taxes",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Taxes for task",
		Data:    taxes,
	})
}

// GetSummary totals the tax ledger by status.
func (tc *TaxController) GetSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taxes, err := tc.findTaxes(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list taxes",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tax summary",
		Data:    utils.TaxTotals(taxes),
	})
}

func (tc *TaxController) findTaxes(ctx context.Context, filter bson.M) ([]models.Tax, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := tc.taxes().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	taxes := []models.Tax{}
	if err := cursor.All(ctx, &taxes); err != nil {
		return nil, err
	}
	return taxes, nil
}
