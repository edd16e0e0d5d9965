// controllers/task_controller.go
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
	"github.com/icrisstudio/studio_backend/middleware"
	"github.com/icrisstudio/studio_backend/models"
	"github.com/icrisstudio/studio_backend/repositories"
	"github.com/icrisstudio/studio_backend/utils"
)

// TaskController handles the task and assignment ledgers.
type TaskController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
}

func NewTaskController(db *mongo.Client, userRepo *repositories.UserRepository) *TaskController {
	return &TaskController{DB: db, userRepo: userRepo}
}

func (tc *TaskController) tasks() *mongo.Collection {
	return config.GetCollection(tc.DB, config.TasksCollection)
}

func (tc *TaskController) assignments() *mongo.Collection {
	return config.GetCollection(tc.DB, config.AssignmentsCollection)
}

func (tc *TaskController) payments() *mongo.Collection {
	return config.GetCollection(tc.DB, config.PaymentsCollection)
}

// CreateTask inserts a task. Status always starts at "pending" regardless
// of what the caller sends.
func (tc *TaskController) CreateTask(c echo.Context) error {
	var req models.CreateTaskRequest
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

	referenceFiles := make([]primitive.ObjectID, 0, len(req.ReferenceFiles))
	for _, raw := range req.ReferenceFiles {
		if id, err := parseObjectID(raw); err == nil {
			referenceFiles = append(referenceFiles, id)
		}
	}

	task := models.Task{
		ProjectName:           req.ProjectName,
		ClientName:            req.ClientName,
		TaskType:              req.TaskType,
		Deadline:              req.Deadline,
		ReceivedDate:          req.ReceivedDate,
		TotalBudget:           req.TotalBudget,
		PaymentStatus:         req.PaymentStatus,
		PaymentReceivedAmount: req.PaymentReceivedAmount,
		RemainingAmount:       req.RemainingAmount,
		IncomeStatus:          req.IncomeStatus,
		Status:                models.TaskStatusPending,
		ReferenceFiles:        referenceFiles,
		CreatedAt:             utils.NowMillis(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := tc.tasks().InsertOne(ctx, task)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create task",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Task created",
		Data:    map[string]interface{}{"taskId": result.InsertedID},
	})
}

// UpdateTask merges only the provided fields into the task document.
func (tc *TaskController) UpdateTask(c echo.Context) error {
	taskID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid task id",
		})
	}

	var req models.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := tc.tasks().FindOne(ctx, bson.M{"_id": taskID}).Err(); err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Task not found",
		})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load task",
		})
	}

	patch := req.Patch()
	if len(patch) == 0 {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Nothing to update",
		})
	}

	if _, err := tc.tasks().UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": patch}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update task",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Task updated",
	})
}

// ListTasks returns every task, newest first.
func (tc *TaskController) ListTasks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := tc.tasks().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list tasks",
		})
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode tasks",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Tasks",
		Data:    tasks,
	})
}

// GetTask returns one task with its assignments enriched with staff
// identities.
func (tc *TaskController) GetTask(c echo.Context) error {
	taskID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid task id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	if err := tc.tasks().FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Task not found",
		})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load task",
		})
	}

	cursor, err := tc.assignments().Find(ctx, bson.M{"task_id": taskID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load assignments",
		})
	}
	defer cursor.Close(ctx)

	detail := models.TaskDetail{Task: task, Assignments: []models.EnrichedAssignment{}}
	for cursor.Next(ctx) {
		var assignment models.TaskAssignment
		if err := cursor.Decode(&assignment); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to decode assignment",
			})
		}

		enriched := models.EnrichedAssignment{TaskAssignment: assignment}
		if staff, err := tc.userRepo.GetUserByID(ctx, assignment.StaffID); err == nil {
			enriched.StaffName = staff.FullName
			enriched.StaffUsername = staff.Username
		}
		detail.Assignments = append(detail.Assignments, enriched)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Task",
		Data:    detail,
	})
}

// GetStaffTasks returns the authenticated staff member's tasks, with the
// assignment fields the staff dashboard shows.
func (tc *TaskController) GetStaffTasks(c echo.Context) error {
	callerID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}
	staffID, err := parseObjectID(callerID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := tc.assignments().Find(ctx, bson.M{"staff_id": staffID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load assignments",
		})
	}
	defer cursor.Close(ctx)

	staffTasks := []models.StaffTask{}
	for cursor.Next(ctx) {
		var assignment models.TaskAssignment
		if err := cursor.Decode(&assignment); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to decode assignment",
			})
		}

		var task models.Task
		if err := tc.tasks().FindOne(ctx, bson.M{"_id": assignment.TaskID}).Decode(&task); err != nil {
			// Orphaned assignment; skip it the way the task list page does.
			continue
		}

		staffTasks = append(staffTasks, models.StaffTask{
			Task:                    task,
			AssignmentID:            assignment.ID,
			AssignedRole:            assignment.AssignedRole,
			AssignedSalary:          assignment.AssignedSalary,
			AssignmentPaymentStatus: assignment.PaymentStatus,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Staff tasks",
		Data:    staffTasks,
	})
}

// AssignStaff links a staff member to a task with a salary. A task still
// "pending" flips to "in_progress" on its first assignment. The unique
// (task_id, staff_id) index turns duplicate assignment into an error.
func (tc *TaskController) AssignStaff(c echo.Context) error {
	taskID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid task id",
		})
	}

	var req models.AssignStaffRequest
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

	staffID, err := parseObjectID(req.StaffID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid staff id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var task models.Task
	if err := tc.tasks().FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Task not found",
		})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load task",
		})
	}

	assignment := models.TaskAssignment{
		TaskID:         taskID,
		StaffID:        staffID,
		AssignedRole:   req.AssignedRole,
		AssignedSalary: req.AssignedSalary,
		PaymentStatus:  models.AssignmentPaymentPending,
		AssignedAt:     utils.NowMillis(),
	}

	session, err := tc.DB.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start transaction",
		})
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := tc.assignments().InsertOne(sc, assignment); err != nil {
			return nil, err
		}
		if task.Status == models.TaskStatusPending {
			if _, err := tc.tasks().UpdateOne(sc, bson.M{"_id": taskID}, bson.M{"$set": bson.M{"status": models.TaskStatusInProgress}}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Staff member is already assigned to this task",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to assign staff",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Staff assigned",
	})
}

// RemoveAssignment hard-deletes an assignment. The task status is left as
// is; unassigning everyone does not move a task back to pending.
func (tc *TaskController) RemoveAssignment(c echo.Context) error {
	assignmentID, err := parseObjectID(c.Param("assignmentId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid assignment id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := tc.assignments().DeleteOne(ctx, bson.M{"_id": assignmentID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to remove assignment",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Assignment not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Assignment removed",
	})
}

// MarkCompleted completes a task and generates the salary payments it owes.
func (tc *TaskController) MarkCompleted(c echo.Context) error {
	taskID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid task id",
		})
	}
	if err := tc.requireTaskAccess(c, taskID); err != nil {
		return err
	}
	return tc.completeTask(c, taskID)
}

// UpdateStatus patches the task status. "completed" routes through the
// completion transition; any other value is a plain field patch.
func (tc *TaskController) UpdateStatus(c echo.Context) error {
	taskID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid task id",
		})
	}
	if err := tc.requireTaskAccess(c, taskID); err != nil {
		return err
	}

	var req models.UpdateTaskStatusRequest
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

	if req.Status == models.TaskStatusCompleted {
		return tc.completeTask(c, taskID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := tc.tasks().UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": bson.M{"status": req.Status}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update status",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Task not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Status updated",
	})
}

// requireTaskAccess lets the admin change any task while staff may only
// change tasks they hold an assignment on. Status changes generate payments,
// so an unassigned staff member must never reach the transition.
func (tc *TaskController) requireTaskAccess(c echo.Context, taskID primitive.ObjectID) error {
	if middleware.ExtractRole(c) == models.RoleSuperAdmin {
		return nil
	}

	callerID, err := middleware.ExtractUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	staffID, err := parseObjectID(callerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = tc.assignments().FindOne(ctx, bson.M{"task_id": taskID, "staff_id": staffID}).Err()
	if err == mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check assignment")
	}
	return nil
}

// completeTask runs the completion transition in one transaction: the task
// becomes "completed" and every assignment still awaiting payment gets one
// pending Payment. Assignments already paid are skipped, so calling this
// twice never double-generates; the assignments themselves stay untouched
// until payment processing flips them.
func (tc *TaskController) completeTask(c echo.Context, taskID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := tc.tasks().FindOne(ctx, bson.M{"_id": taskID}).Err(); err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Task not found",
		})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load task",
		})
	}

	session, err := tc.DB.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start transaction",
		})
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := tc.tasks().UpdateOne(sc, bson.M{"_id": taskID}, bson.M{"$set": bson.M{"status": models.TaskStatusCompleted}}); err != nil {
			return nil, err
		}

		cursor, err := tc.assignments().Find(sc, bson.M{"task_id": taskID})
		if err != nil {
			return nil, err
		}
		var assignments []models.TaskAssignment
		if err := cursor.All(sc, &assignments); err != nil {
			return nil, err
		}

		due := utils.PaymentsDue(assignments, utils.NowMillis())
		if len(due) == 0 {
			return nil, nil
		}

		docs := make([]interface{}, len(due))
		for i, p := range due {
			docs[i] = p
		}
		if _, err := tc.payments().InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to complete task",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Task completed",
	})
}

// DeleteTask removes a task and its assignments in one transaction.
// Payments and expenses already generated stay behind as history.
func (tc *TaskController) DeleteTask(c echo.Context) error {
	taskID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid task id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := tc.DB.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start transaction",
		})
	}
	defer session.EndSession(ctx)

	deleted, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := tc.assignments().DeleteMany(sc, bson.M{"task_id": taskID}); err != nil {
			return nil, err
		}
		result, err := tc.tasks().DeleteOne(sc, bson.M{"_id": taskID})
		if err != nil {
			return nil, err
		}
		return result.DeletedCount, nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete task",
		})
	}
	if deleted.(int64) == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Task not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Task deleted",
	})
}
