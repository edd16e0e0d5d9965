package utils

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/icrisstudio/studio_backend/models"
)

func ms(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).UnixMilli()
}

func TestTimeWindowStart(t *testing.T) {
	now := ms(2024, time.June, 15)
	day := int64(24 * time.Hour / time.Millisecond)

	tests := []struct {
		timeRange string
		want      int64
	}{
		{"7d", now - 7*day},
		{"30d", now - 30*day},
		{"90d", now - 90*day},
		{"12m", now - 365*day},
		{"all", 0},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		if got := TimeWindowStart(tt.timeRange, now); got != tt.want {
			t.Errorf("TimeWindowStart(%q) = %d, want %d", tt.timeRange, got, tt.want)
		}
	}
}

func TestRecognizedIncome(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want int64
	}{
		{
			name: "fully paid counts full budget",
			task: models.Task{TotalBudget: 1000, PaymentStatus: models.TaskPaymentPaid, IncomeStatus: models.IncomePending},
			want: 1000,
		},
		{
			name: "income received counts full budget",
			task: models.Task{TotalBudget: 1000, PaymentStatus: models.TaskPaymentPending, IncomeStatus: models.IncomeReceived},
			want: 1000,
		},
		{
			name: "partial counts received amount",
			task: models.Task{TotalBudget: 1000, PaymentStatus: models.TaskPaymentPartial, PaymentReceivedAmount: 400, IncomeStatus: models.IncomePending},
			want: 400,
		},
		{
			name: "pending counts nothing",
			task: models.Task{TotalBudget: 1000, PaymentStatus: models.TaskPaymentPending, IncomeStatus: models.IncomePending},
			want: 0,
		},
		{
			name: "paid wins over partial income",
			task: models.Task{TotalBudget: 1000, PaymentStatus: models.TaskPaymentPaid, PaymentReceivedAmount: 400, IncomeStatus: models.IncomePartial},
			want: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecognizedIncome(tt.task); got != tt.want {
				t.Errorf("RecognizedIncome() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeDashboardMetrics(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskStatusCompleted, TotalBudget: 1000, PaymentStatus: models.TaskPaymentPaid, CreatedAt: ms(2024, time.May, 1)},
		{Status: models.TaskStatusInProgress, TotalBudget: 2000, PaymentStatus: models.TaskPaymentPartial, PaymentReceivedAmount: 500, RemainingAmount: 1500, CreatedAt: ms(2024, time.May, 10)},
		{Status: models.TaskStatusPending, TotalBudget: 700, PaymentStatus: models.TaskPaymentPending, IncomeStatus: models.IncomePending, CreatedAt: ms(2024, time.May, 20)},
	}
	assignments := []models.TaskAssignment{
		{AssignedSalary: 300, PaymentStatus: models.AssignmentPaymentPaid, AssignedAt: ms(2024, time.May, 2)},
		{AssignedSalary: 200, PaymentStatus: models.AssignmentPaymentPending, AssignedAt: ms(2024, time.May, 12)},
		{AssignedSalary: 150, PaymentStatus: models.AssignmentPaymentPartial, AssignedAt: ms(2024, time.May, 13)},
	}
	expenses := []models.Expense{
		{Type: models.ExpenseAdvertising, Amount: 250, Date: ms(2024, time.May, 5)},
		{Type: models.ExpenseStaffSalary, Amount: 300, Date: ms(2024, time.May, 6)},
	}
	payments := []models.Payment{
		{Amount: 300, Status: models.PaymentStatusCompleted, CreatedAt: ms(2024, time.May, 6)},
		{Amount: 200, Status: models.PaymentStatusPending, CreatedAt: ms(2024, time.May, 14)},
		{Amount: 120, Status: models.PaymentStatusPayoutRequested, CreatedAt: ms(2024, time.May, 15)},
		{Amount: 80, Status: models.PaymentStatusRejected, CreatedAt: ms(2024, time.May, 16)},
	}

	m := ComputeDashboardMetrics(tasks, assignments, expenses, payments, 0)

	if m.TotalIncome != 1500 {
		t.Errorf("TotalIncome = %d, want 1500", m.TotalIncome)
	}
	if m.PendingIncome != 2200 {
		t.Errorf("PendingIncome = %d, want 2200", m.PendingIncome)
	}
	if m.TotalExpenses != 550 {
		t.Errorf("TotalExpenses = %d, want 550", m.TotalExpenses)
	}
	if m.NetProfit != m.TotalIncome-m.TotalExpenses {
		t.Errorf("NetProfit = %d, want TotalIncome-TotalExpenses = %d", m.NetProfit, m.TotalIncome-m.TotalExpenses)
	}
	if m.TaskPaymentsPaid != 300 || m.TaskPaymentsPending != 200 {
		t.Errorf("task payments = paid %d pending %d, want 300/200", m.TaskPaymentsPaid, m.TaskPaymentsPending)
	}
	if m.CompletedStaffPayments != 300 || m.PendingStaffPayments != 200 || m.RequestedStaffPayments != 120 {
		t.Errorf("staff payments = completed %d pending %d requested %d", m.CompletedStaffPayments, m.PendingStaffPayments, m.RequestedStaffPayments)
	}
	if m.TotalTasks != 3 || m.CompletedTasks != 1 || m.InProgressTasks != 1 || m.PendingTasks != 1 {
		t.Errorf("task counts = %d/%d/%d/%d", m.TotalTasks, m.CompletedTasks, m.InProgressTasks, m.PendingTasks)
	}
}

func TestComputeDashboardMetricsWindowFiltersEachLedger(t *testing.T) {
	minTime := ms(2024, time.May, 10)

	tasks := []models.Task{
		{Status: models.TaskStatusCompleted, TotalBudget: 1000, PaymentStatus: models.TaskPaymentPaid, CreatedAt: ms(2024, time.April, 1)},
		{Status: models.TaskStatusCompleted, TotalBudget: 500, PaymentStatus: models.TaskPaymentPaid, CreatedAt: ms(2024, time.May, 20)},
	}
	expenses := []models.Expense{
		{Amount: 100, Date: ms(2024, time.April, 1), CreatedAt: ms(2024, time.May, 20)},
		{Amount: 40, Date: ms(2024, time.May, 20)},
	}

	m := ComputeDashboardMetrics(tasks, nil, expenses, nil, minTime)

	if m.TotalTasks != 1 || m.TotalIncome != 500 {
		t.Errorf("tasks in window = %d income %d, want 1/500", m.TotalTasks, m.TotalIncome)
	}
	// Expenses filter on their expense date, not on created_at.
	if m.TotalExpenses != 40 {
		t.Errorf("TotalExpenses = %d, want 40", m.TotalExpenses)
	}
	if m.NetProfit != 460 {
		t.Errorf("NetProfit = %d, want 460", m.NetProfit)
	}
}

func TestMonthlySeries(t *testing.T) {
	tasks := []models.Task{
		{TotalBudget: 1000, PaymentStatus: models.TaskPaymentPaid, ReceivedDate: ms(2024, time.March, 5)},
		{TotalBudget: 600, PaymentStatus: models.TaskPaymentPaid, ReceivedDate: ms(2024, time.March, 20)},
		// No received date: falls back to created_at.
		{TotalBudget: 300, PaymentStatus: models.TaskPaymentPaid, CreatedAt: ms(2024, time.April, 2)},
		// Unpaid: contributes a bucket but no income.
		{TotalBudget: 900, PaymentStatus: models.TaskPaymentPending, ReceivedDate: ms(2024, time.April, 10)},
	}
	expenses := []models.Expense{
		{Amount: 200, Date: ms(2024, time.March, 10)},
		{Amount: 50, Date: ms(2024, time.May, 1)},
	}

	points := MonthlySeries(tasks, expenses, 0)

	if len(points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(points))
	}

	want := []models.MonthlyPoint{
		{Month: "Mar 2024", Income: 1600, Expenses: 200},
		{Month: "Apr 2024", Income: 300, Expenses: 0},
		{Month: "May 2024", Income: 0, Expenses: 50},
	}
	for i, w := range want {
		if points[i].Month != w.Month || points[i].Income != w.Income || points[i].Expenses != w.Expenses {
			t.Errorf("points[%d] = %+v, want %+v", i, points[i], w)
		}
	}

	for i := 1; i < len(points); i++ {
		if points[i-1].Timestamp >= points[i].Timestamp {
			t.Errorf("points not sorted ascending at %d", i)
		}
	}
}

func TestStaffDistribution(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	ghost := primitive.NewObjectID()

	payments := []models.Payment{
		{StaffID: alice, Amount: 300, CreatedAt: 10},
		{StaffID: bob, Amount: 500, CreatedAt: 10},
		{StaffID: alice, Amount: 200, CreatedAt: 10},
		{StaffID: ghost, Amount: 100, CreatedAt: 10},
	}
	names := map[primitive.ObjectID]string{
		alice: "Alice",
		bob:   "Bob",
	}

	shares := StaffDistribution(payments, names, 0)

	want := []models.StaffPaymentShare{
		{Name: "Alice", Amount: 500},
		{Name: "Bob", Amount: 500},
		{Name: "Unknown", Amount: 100},
	}
	if len(shares) != len(want) {
		t.Fatalf("len(shares) = %d, want %d", len(shares), len(want))
	}
	for i, w := range want {
		if shares[i] != w {
			t.Errorf("shares[%d] = %+v, want %+v", i, shares[i], w)
		}
	}
}

func TestConsolidatePayout(t *testing.T) {
	t.Run("no pending payments", func(t *testing.T) {
		_, _, err := ConsolidatePayout(nil)
		if err != ErrNoPendingPayments {
			t.Errorf("err = %v, want ErrNoPendingPayments", err)
		}
	})

	t.Run("below minimum", func(t *testing.T) {
		pending := []models.Payment{
			{ID: primitive.NewObjectID(), Amount: 40},
			{ID: primitive.NewObjectID(), Amount: 59},
		}
		_, _, err := ConsolidatePayout(pending)
		if err != ErrBelowMinimumPayout {
			t.Errorf("err = %v, want ErrBelowMinimumPayout", err)
		}
	})

	t.Run("exactly minimum passes", func(t *testing.T) {
		pending := []models.Payment{
			{ID: primitive.NewObjectID(), Amount: 60},
			{ID: primitive.NewObjectID(), Amount: 40},
		}
		total, ids, err := ConsolidatePayout(pending)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if total != 100 {
			t.Errorf("total = %d, want 100", total)
		}
		if len(ids) != 2 {
			t.Errorf("len(ids) = %d, want 2", len(ids))
		}
	})

	t.Run("sums all pending ids", func(t *testing.T) {
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()
		third := primitive.NewObjectID()
		pending := []models.Payment{
			{ID: first, Amount: 150},
			{ID: second, Amount: 250},
			{ID: third, Amount: 100},
		}
		total, ids, err := ConsolidatePayout(pending)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if total != 500 {
			t.Errorf("total = %d, want 500", total)
		}
		want := []primitive.ObjectID{first, second, third}
		for i, id := range want {
			if ids[i] != id {
				t.Errorf("ids[%d] = %s, want %s", i, ids[i].Hex(), id.Hex())
			}
		}
	})
}

func TestPaymentsDue(t *testing.T) {
	staff := primitive.NewObjectID()
	now := int64(1700000000000)

	assignments := []models.TaskAssignment{
		{StaffID: staff, AssignedSalary: 500, PaymentStatus: models.AssignmentPaymentPending},
		{StaffID: staff, AssignedSalary: 300, PaymentStatus: models.AssignmentPaymentPaid},
		{StaffID: staff, AssignedSalary: 200, PaymentStatus: models.AssignmentPaymentPartial},
	}

	due := PaymentsDue(assignments, now)

	if len(due) != 1 {
		t.Fatalf("len(due) = %d, want 1", len(due))
	}
	p := due[0]
	if p.StaffID != staff || p.Amount != 500 || p.Status != models.PaymentStatusPending || p.CreatedAt != now {
		t.Errorf("due[0] = %+v", p)
	}

	// Once every assignment is paid a repeated completion owes nothing.
	for i := range assignments {
		assignments[i].PaymentStatus = models.AssignmentPaymentPaid
	}
	if again := PaymentsDue(assignments, now); len(again) != 0 {
		t.Errorf("len(due) after all paid = %d, want 0", len(again))
	}
}

// TestPayoutLifecycle walks one salary from task completion through payout
// request to processing, checking the ledger helpers agree at each step.
func TestPayoutLifecycle(t *testing.T) {
	staff := primitive.NewObjectID()
	now := int64(1700000000000)

	assignments := []models.TaskAssignment{
		{StaffID: staff, AssignedSalary: 400, PaymentStatus: models.AssignmentPaymentPending},
		{StaffID: staff, AssignedSalary: 350, PaymentStatus: models.AssignmentPaymentPending},
	}

	// Task completion generates one pending payment per unpaid assignment.
	payments := PaymentsDue(assignments, now)
	if len(payments) != 2 {
		t.Fatalf("len(payments) = %d, want 2", len(payments))
	}
	for i := range payments {
		payments[i].ID = primitive.NewObjectID()
	}

	summary := SummarizeStaffPayments(payments, assignments)
	if summary.PendingPayment != 750 || summary.TotalEarned != 750 || summary.TotalPaid != 0 {
		t.Errorf("after completion: %+v", summary)
	}

	// Payout request consolidates the pending records into one.
	total, ids, err := ConsolidatePayout(payments)
	if err != nil {
		t.Fatalf("ConsolidatePayout: %v", err)
	}
	if total != 750 || len(ids) != 2 {
		t.Fatalf("total = %d ids = %d", total, len(ids))
	}
	payments = []models.Payment{{
		ID:        primitive.NewObjectID(),
		StaffID:   staff,
		Amount:    total,
		Status:    models.PaymentStatusPayoutRequested,
		CreatedAt: now,
	}}

	summary = SummarizeStaffPayments(payments, assignments)
	if summary.RequestedPayment != 750 || summary.PendingPayment != 0 {
		t.Errorf("after payout request: %+v", summary)
	}

	// Processing completes the payout, flips the assignments, and mirrors
	// the amount into the expense ledger.
	payments[0].Status = models.PaymentStatusCompleted
	for i := range assignments {
		assignments[i].PaymentStatus = models.AssignmentPaymentPaid
	}
	expenses := []models.Expense{{
		Type:   models.ExpenseStaffSalary,
		Amount: payments[0].Amount,
		Date:   now,
	}}

	summary = SummarizeStaffPayments(payments, assignments)
	if summary.TotalPaid != 750 || summary.RequestedPayment != 0 {
		t.Errorf("after processing: %+v", summary)
	}
	if ExpenseTotals(expenses).ByType[models.ExpenseStaffSalary] != 750 {
		t.Errorf("salary expense mirror = %d, want 750", ExpenseTotals(expenses).ByType[models.ExpenseStaffSalary])
	}
	if due := PaymentsDue(assignments, now); len(due) != 0 {
		t.Errorf("repeated completion owes %d payments, want 0", len(due))
	}
}

func TestSummarizeStaffPayments(t *testing.T) {
	payments := []models.Payment{
		{Amount: 300, Status: models.PaymentStatusCompleted},
		{Amount: 200, Status: models.PaymentStatusPending},
		{Amount: 150, Status: models.PaymentStatusPayoutRequested},
		{Amount: 90, Status: models.PaymentStatusRejected},
	}
	assignments := []models.TaskAssignment{
		{AssignedSalary: 500, PaymentStatus: models.AssignmentPaymentPaid},
		{AssignedSalary: 400, PaymentStatus: models.AssignmentPaymentPending},
	}

	s := SummarizeStaffPayments(payments, assignments)

	if s.TotalPaid != 300 {
		t.Errorf("TotalPaid = %d, want 300", s.TotalPaid)
	}
	if s.PendingPayment != 200 {
		t.Errorf("PendingPayment = %d, want 200", s.PendingPayment)
	}
	if s.RequestedPayment != 150 {
		t.Errorf("RequestedPayment = %d, want 150", s.RequestedPayment)
	}
	// total_earned counts every assignment regardless of payment state.
	if s.TotalEarned != 900 {
		t.Errorf("TotalEarned = %d, want 900", s.TotalEarned)
	}
}

func TestExpenseTotals(t *testing.T) {
	expenses := []models.Expense{
		{Type: models.ExpenseStaffSalary, Amount: 500},
		{Type: models.ExpenseAdvertising, Amount: 200},
		{Type: models.ExpenseAdvertising, Amount: 100},
		{Type: models.ExpenseTax, Amount: 50},
	}

	s := ExpenseTotals(expenses)

	if s.Total != 850 {
		t.Errorf("Total = %d, want 850", s.Total)
	}
	if s.ByType[models.ExpenseStaffSalary] != 500 {
		t.Errorf("staff_salary = %d, want 500", s.ByType[models.ExpenseStaffSalary])
	}
	if s.ByType[models.ExpenseAdvertising] != 300 {
		t.Errorf("advertising = %d, want 300", s.ByType[models.ExpenseAdvertising])
	}
	// Categories with no spending still appear with zero.
	if v, ok := s.ByType[models.ExpenseTools]; !ok || v != 0 {
		t.Errorf("tools_and_software = %d (present %v), want 0 present", v, ok)
	}
	if v, ok := s.ByType[models.ExpenseMiscellaneous]; !ok || v != 0 {
		t.Errorf("miscellaneous = %d (present %v), want 0 present", v, ok)
	}
}

func TestTaxTotals(t *testing.T) {
	taxes := []models.Tax{
		{TaxAmount: 100, TaxStatus: models.TaxStatusPending},
		{TaxAmount: 250, TaxStatus: models.TaxStatusPending},
		{TaxAmount: 400, TaxStatus: models.TaxStatusPaid},
	}

	s := TaxTotals(taxes)

	if s.TotalPending != 350 || s.PendingCount != 2 {
		t.Errorf("pending = %d/%d, want 350/2", s.TotalPending, s.PendingCount)
	}
	if s.TotalPaid != 400 || s.PaidCount != 1 {
		t.Errorf("paid = %d/%d, want 400/1", s.TotalPaid, s.PaidCount)
	}
	if s.TotalTaxes != 3 {
		t.Errorf("TotalTaxes = %d, want 3", s.TotalTaxes)
	}
}

func TestEnrichTaxes(t *testing.T) {
	liveTask := primitive.NewObjectID()
	goneTask := primitive.NewObjectID()

	taxes := []models.Tax{
		{TaskID: liveTask, ProjectName: "Stale Name", TaxAmount: 100},
		{TaskID: goneTask, ProjectName: "Orphaned", TaxAmount: 200},
	}
	tasks := map[primitive.ObjectID]models.Task{
		liveTask: {ID: liveTask, ProjectName: "Brand Film", ClientName: "Acme"},
	}

	enriched := EnrichTaxes(taxes, tasks)

	if len(enriched) != 2 {
		t.Fatalf("len = %d, want 2", len(enriched))
	}
	if enriched[0].ProjectName != "Brand Film" || enriched[0].ClientName != "Acme" {
		t.Errorf("joined row = %q/%q, want task names", enriched[0].ProjectName, enriched[0].ClientName)
	}
	if enriched[1].ProjectName != "Orphaned" || enriched[1].ClientName != "" {
		t.Errorf("orphan row = %q/%q, want stored name and empty client", enriched[1].ProjectName, enriched[1].ClientName)
	}
	if enriched[0].TaxAmount != 100 || enriched[1].TaxAmount != 200 {
		t.Error("tax fields must carry through unchanged")
	}
}
