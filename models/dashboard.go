// models/dashboard.go
package models

// DashboardMetrics is the admin overview, recomputed per request by folding
// the ledgers over the selected time window.
type DashboardMetrics struct {
	TotalIncome            int64 `json:"total_income"`
	PendingIncome          int64 `json:"pending_income"`
	TotalExpenses          int64 `json:"total_expenses"`
	NetProfit              int64 `json:"net_profit"`
	TaskPaymentsPaid       int64 `json:"task_payments_paid"`
	TaskPaymentsPending    int64 `json:"task_payments_pending"`
	PendingStaffPayments   int64 `json:"pending_staff_payments"`
	RequestedStaffPayments int64 `json:"requested_staff_payments"`
	CompletedStaffPayments int64 `json:"completed_staff_payments"`
	TotalTasks             int   `json:"total_tasks"`
	CompletedTasks         int   `json:"completed_tasks"`
	InProgressTasks        int   `json:"in_progress_tasks"`
	PendingTasks           int   `json:"pending_tasks"`
}

// MonthlyPoint is one bar of the income-vs-expenses chart.
type MonthlyPoint struct {
	Month     string `json:"month"`
	Income    int64  `json:"income"`
	Expenses  int64  `json:"expenses"`
	Timestamp int64  `json:"timestamp"`
}

// StaffPaymentShare is one slice of the payment distribution chart.
type StaffPaymentShare struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}
