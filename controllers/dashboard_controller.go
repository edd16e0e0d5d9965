// controllers/dashboard_controller.go
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
	"github.com/icrisstudio/studio_backend/repositories"
	"github.com/icrisstudio/studio_backend/utils"
)

// DashboardController aggregates the financial ledgers for the overview page.
// Each endpoint reads the raw collections and folds them in memory; the
// datasets are small enough that precomputed aggregates are not worth the
// consistency risk.
type DashboardController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
}

func NewDashboardController(db *mongo.Client) *DashboardController {
	return &DashboardController{
		DB:       db,
		userRepo: repositories.NewUserRepository(db),
	}
}

// GetMetrics returns the headline numbers for the requested time range
// (?range=7d|30d|90d|12m|all, default all).
func (dc *DashboardController) GetMetrics(c echo.Context) error {
	minTime := utils.TimeWindowStart(c.QueryParam("range"), utils.NowMillis())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var tasks []models.Task
	if err := dc.loadAll(ctx, config.TasksCollection, &tasks); err != nil {
		return dashboardLoadError(c)
	}
	var assignments []models.TaskAssignment
	if err := dc.loadAll(ctx, config.AssignmentsCollection, &assignments); err != nil {
		return dashboardLoadError(c)
	}
	var expenses []models.Expense
	if err := dc.loadAll(ctx, config.ExpensesCollection, &expenses); err != nil {
		return dashboardLoadError(c)
	}
	var payments []models.Payment
	if err := dc.loadAll(ctx, config.PaymentsCollection, &payments); err != nil {
		return dashboardLoadError(c)
	}

	metrics := utils.ComputeDashboardMetrics(tasks, assignments, expenses, payments, minTime)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard metrics",
		Data:    metrics,
	})
}

// monthlyWindowStart resolves the chart window, defaulting to the trailing
// twelve months when the caller does not pick a range.
func monthlyWindowStart(timeRange string, now int64) int64 {
	if timeRange == "" {
		timeRange = "12m"
	}
	return utils.TimeWindowStart(timeRange, now)
}

// GetMonthlyData returns the income/expense series bucketed by calendar month
// (?range=7d|30d|90d|12m|all, default 12m).
func (dc *DashboardController) GetMonthlyData(c echo.Context) error {
	minTime := monthlyWindowStart(c.QueryParam("range"), utils.NowMillis())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var tasks []models.Task
	if err := dc.loadAll(ctx, config.TasksCollection, &tasks); err != nil {
		return dashboardLoadError(c)
	}
	var expenses []models.Expense
	if err := dc.loadAll(ctx, config.ExpensesCollection, &expenses); err != nil {
		return dashboardLoadError(c)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Monthly data",
		Data:    utils.MonthlySeries(tasks, expenses, minTime),
	})
}

// GetStaffPaymentDistribution returns completed payout totals per staff member.
func (dc *DashboardController) GetStaffPaymentDistribution(c echo.Context) error {
	minTime := utils.TimeWindowStart(c.QueryParam("range"), utils.NowMillis())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payments []models.Payment
	if err := dc.loadAll(ctx, config.PaymentsCollection, &payments); err != nil {
		return dashboardLoadError(c)
	}

	staffNames, err := dc.userRepo.StaffNames(ctx)
	if err != nil {
		return dashboardLoadError(c)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Staff payment distribution",
		Data:    utils.StaffDistribution(payments, staffNames, minTime),
	})
}

func (dc *DashboardController) loadAll(ctx context.Context, collection string, out interface{}) error {
	cursor, err := config.GetCollection(dc.DB, collection).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func dashboardLoadError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Failed to load dashboard data",
	})
}
