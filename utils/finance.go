// utils/finance.go
//
// Pure folds over the financial ledgers. Controllers fetch documents and
// defer every money rule to these functions, which keeps the state-machine
// arithmetic in one place.
package utils

import (
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/icrisstudio/studio_backend/models"
)

// Payout validation failures surfaced to the caller verbatim.
var (
	ErrNoPendingPayments  = errors.New("No pending payments available")
	ErrBelowMinimumPayout = errors.New("Minimum payout amount is 100")
)

// TimeWindowStart maps a dashboard range to the earliest timestamp (epoch
// milliseconds) it covers. Zero means no lower bound.
func TimeWindowStart(timeRange string, now int64) int64 {
	day := int64(24 * time.Hour / time.Millisecond)
	switch timeRange {
	case "7d":
		return now - 7*day
	case "30d":
		return now - 30*day
	case "90d":
		return now - 90*day
	case "12m":
		return now - 365*day
	default:
		return 0
	}
}

// RecognizedIncome maps a task's payment/income state to its contribution to
// reported revenue: full budget once fully paid or received, the received
// amount while partial, otherwise nothing.
func RecognizedIncome(t models.Task) int64 {
	if t.PaymentStatus == models.TaskPaymentPaid || t.IncomeStatus == models.IncomeReceived {
		return t.TotalBudget
	}
	if t.PaymentStatus == models.TaskPaymentPartial || t.IncomeStatus == models.IncomePartial {
		return t.PaymentReceivedAmount
	}
	return 0
}

// outstandingIncome is the still-unreceived counterpart of RecognizedIncome.
func outstandingIncome(t models.Task) int64 {
	if t.PaymentStatus == models.TaskPaymentPending || t.IncomeStatus == models.IncomePending {
		return t.TotalBudget
	}
	if t.PaymentStatus == models.TaskPaymentPartial || t.IncomeStatus == models.IncomePartial {
		return t.RemainingAmount
	}
	return 0
}

// ComputeDashboardMetrics folds the four ledgers into the admin overview.
// minTime filters each ledger on its own clock field: tasks by created_at,
// assignments by assigned_at, expenses by date, payments by created_at.
// Salary expenses recorded by payment processing are already inside the
// expense ledger, so net profit subtracts each payout exactly once.
func ComputeDashboardMetrics(tasks []models.Task, assignments []models.TaskAssignment, expenses []models.Expense, payments []models.Payment, minTime int64) models.DashboardMetrics {
	var m models.DashboardMetrics

	for _, t := range tasks {
		if minTime > 0 && t.CreatedAt < minTime {
			continue
		}
		m.TotalTasks++
		switch t.Status {
		case models.TaskStatusCompleted:
			m.CompletedTasks++
		case models.TaskStatusInProgress:
			m.InProgressTasks++
		case models.TaskStatusPending:
			m.PendingTasks++
		}
		m.TotalIncome += RecognizedIncome(t)
		m.PendingIncome += outstandingIncome(t)
	}

	for _, a := range assignments {
		if minTime > 0 && a.AssignedAt < minTime {
			continue
		}
		switch a.PaymentStatus {
		case models.AssignmentPaymentPaid:
			m.TaskPaymentsPaid += a.AssignedSalary
		case models.AssignmentPaymentPending:
			m.TaskPaymentsPending += a.AssignedSalary
		}
	}

	for _, e := range expenses {
		if minTime > 0 && e.Date < minTime {
			continue
		}
		m.TotalExpenses += e.Amount
	}

	for _, p := range payments {
		if minTime > 0 && p.CreatedAt < minTime {
			continue
		}
		switch p.Status {
		case models.PaymentStatusCompleted:
			m.CompletedStaffPayments += p.Amount
		case models.PaymentStatusPayoutRequested:
			m.RequestedStaffPayments += p.Amount
		case models.PaymentStatusPending:
			m.PendingStaffPayments += p.Amount
		}
	}

	m.NetProfit = m.TotalIncome - m.TotalExpenses

	return m
}

// MonthlySeries buckets recognized task income and expenses by calendar
// month, ascending by month start. Tasks are placed by received date with
// created_at as fallback; expenses by their expense date.
func MonthlySeries(tasks []models.Task, expenses []models.Expense, minTime int64) []models.MonthlyPoint {
	type bucket struct {
		income    int64
		expenses  int64
		timestamp int64
	}
	buckets := make(map[string]*bucket)

	monthOf := func(ms int64) (string, int64) {
		t := time.UnixMilli(ms).UTC()
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start.Format("Jan 2006"), start.UnixMilli()
	}

	get := func(label string, ts int64) *bucket {
		b, ok := buckets[label]
		if !ok {
			b = &bucket{timestamp: ts}
			buckets[label] = b
		}
		return b
	}

	for _, t := range tasks {
		recognitionDate := t.ReceivedDate
		if recognitionDate == 0 {
			recognitionDate = t.CreatedAt
		}
		if minTime > 0 && recognitionDate < minTime && t.CreatedAt < minTime {
			continue
		}
		label, ts := monthOf(recognitionDate)
		get(label, ts).income += RecognizedIncome(t)
	}

	for _, e := range expenses {
		if minTime > 0 && e.Date < minTime {
			continue
		}
		label, ts := monthOf(e.Date)
		get(label, ts).expenses += e.Amount
	}

	points := make([]models.MonthlyPoint, 0, len(buckets))
	for label, b := range buckets {
		points = append(points, models.MonthlyPoint{
			Month:     label,
			Income:    b.income,
			Expenses:  b.expenses,
			Timestamp: b.timestamp,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })

	return points
}

// StaffDistribution sums payment amounts per staff display name, largest
// first. staffNames maps user ids to full names; unknown ids group under
// "Unknown".
func StaffDistribution(payments []models.Payment, staffNames map[primitive.ObjectID]string, minTime int64) []models.StaffPaymentShare {
	totals := make(map[string]int64)
	for _, p := range payments {
		if minTime > 0 && p.CreatedAt < minTime {
			continue
		}
		name, ok := staffNames[p.StaffID]
		if !ok || name == "" {
			name = "Unknown"
		}
		totals[name] += p.Amount
	}

	shares := make([]models.StaffPaymentShare, 0, len(totals))
	for name, amount := range totals {
		shares = append(shares, models.StaffPaymentShare{Name: name, Amount: amount})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount != shares[j].Amount {
			return shares[i].Amount > shares[j].Amount
		}
		return shares[i].Name < shares[j].Name
	})

	return shares
}

// ConsolidatePayout validates a payout request over the staff member's
// pending payments and returns the consolidated sum with the ids to delete.
func ConsolidatePayout(pending []models.Payment) (int64, []primitive.ObjectID, error) {
	if len(pending) == 0 {
		return 0, nil, ErrNoPendingPayments
	}

	var total int64
	ids := make([]primitive.ObjectID, 0, len(pending))
	for _, p := range pending {
		total += p.Amount
		ids = append(ids, p.ID)
	}

	if total < models.MinPayoutAmount {
		return 0, nil, ErrBelowMinimumPayout
	}

	return total, ids, nil
}

// PaymentsDue returns the pending Payment records task completion owes, one
// per assignment still awaiting payment. Assignments already paid are
// skipped, which is what makes a repeated completion call a no-op on the
// payment ledger.
func PaymentsDue(assignments []models.TaskAssignment, now int64) []models.Payment {
	var due []models.Payment
	for _, a := range assignments {
		if a.PaymentStatus != models.AssignmentPaymentPending {
			continue
		}
		due = append(due, models.Payment{
			StaffID:   a.StaffID,
			Amount:    a.AssignedSalary,
			Status:    models.PaymentStatusPending,
			CreatedAt: now,
		})
	}
	return due
}

// SummarizeStaffPayments builds the staff earnings overview. total_earned
// counts every assigned salary regardless of payment state.
func SummarizeStaffPayments(payments []models.Payment, assignments []models.TaskAssignment) models.StaffPaymentSummary {
	var s models.StaffPaymentSummary

	for _, p := range payments {
		switch p.Status {
		case models.PaymentStatusCompleted:
			s.TotalPaid += p.Amount
		case models.PaymentStatusPending:
			s.PendingPayment += p.Amount
		case models.PaymentStatusPayoutRequested:
			s.RequestedPayment += p.Amount
		}
	}

	for _, a := range assignments {
		s.TotalEarned += a.AssignedSalary
	}

	return s
}

// ExpenseTotals sums the expense ledger grouped by category.
func ExpenseTotals(expenses []models.Expense) models.ExpenseSummary {
	summary := models.ExpenseSummary{
		ByType: map[string]int64{
			models.ExpenseStaffSalary:   0,
			models.ExpenseAdvertising:   0,
			models.ExpenseTools:         0,
			models.ExpenseMiscellaneous: 0,
		},
	}

	for _, e := range expenses {
		summary.Total += e.Amount
		if _, ok := summary.ByType[e.Type]; ok {
			summary.ByType[e.Type] += e.Amount
		}
	}

	return summary
}

// TaxTotals sums the tax ledger by status.
func TaxTotals(taxes []models.Tax) models.TaxSummary {
	var s models.TaxSummary
	s.TotalTaxes = len(taxes)

	for _, t := range taxes {
		switch t.TaxStatus {
		case models.TaxStatusPending:
			s.TotalPending += t.TaxAmount
			s.PendingCount++
		case models.TaxStatusPaid:
			s.TotalPaid += t.TaxAmount
			s.PaidCount++
		}
	}

	return s
}

// EnrichTaxes joins each tax with the owning task's current display names.
// When the task is gone the stored project name stands and the client name
// stays empty.
func EnrichTaxes(taxes []models.Tax, tasks map[primitive.ObjectID]models.Task) []models.EnrichedTax {
	enriched := make([]models.EnrichedTax, 0, len(taxes))
	for _, t := range taxes {
		row := models.EnrichedTax{Tax: t}
		if task, ok := tasks[t.TaskID]; ok {
			row.ProjectName = task.ProjectName
			row.ClientName = task.ClientName
		}
		enriched = append(enriched, row)
	}
	return enriched
}

// NowMillis is the ledger clock: epoch milliseconds, matching every
// timestamp field in the store.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
