// models/task.go
package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Client payment / income statuses on a task
const (
	TaskPaymentPending = "pending"
	TaskPaymentPartial = "partial"
	TaskPaymentPaid    = "paid"

	IncomePending  = "pending"
	IncomePartial  = "partial"
	IncomeReceived = "received"
)

// Task is one client project. remaining_amount is caller-computed as
// total_budget - payment_received_amount; storage never re-derives it.
type Task struct {
	ID                    primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	ProjectName           string               `json:"project_name" bson:"project_name"`
	ClientName            string               `json:"client_name" bson:"client_name"`
	TaskType              string               `json:"task_type" bson:"task_type"`
	Deadline              int64                `json:"deadline" bson:"deadline"`
	ReceivedDate          int64                `json:"received_date" bson:"received_date"`
	TotalBudget           int64                `json:"total_budget" bson:"total_budget"`
	PaymentStatus         string               `json:"payment_status" bson:"payment_status"`
	PaymentReceivedAmount int64                `json:"payment_received_amount" bson:"payment_received_amount"`
	RemainingAmount       int64                `json:"remaining_amount" bson:"remaining_amount"`
	IncomeStatus          string               `json:"income_status" bson:"income_status"`
	Status                string               `json:"status" bson:"status"`
	ReferenceFiles        []primitive.ObjectID `json:"reference_files,omitempty" bson:"reference_files,omitempty"`
	CreatedAt             int64                `json:"created_at" bson:"created_at"`
}

// Assignment statuses
const (
	AssignmentPaymentPending = "pending"
	AssignmentPaymentPartial = "partial"
	AssignmentPaymentPaid    = "paid"
)

// TaskAssignment links a task to a staff member with an agreed salary.
// Assignments are hard-deleted on unassignment.
type TaskAssignment struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TaskID         primitive.ObjectID `json:"task_id" bson:"task_id"`
	StaffID        primitive.ObjectID `json:"staff_id" bson:"staff_id"`
	AssignedRole   string             `json:"assigned_role" bson:"assigned_role"`
	AssignedSalary int64              `json:"assigned_salary" bson:"assigned_salary"`
	PaymentStatus  string             `json:"payment_status" bson:"payment_status"`
	AssignedAt     int64              `json:"assigned_at" bson:"assigned_at"`
}

// EnrichedAssignment adds the staff identity for the task detail view.
type EnrichedAssignment struct {
	TaskAssignment `bson:",inline"`
	StaffName      string `json:"staff_name,omitempty"`
	StaffUsername  string `json:"staff_username,omitempty"`
}

// TaskDetail is a task with its enriched assignments.
type TaskDetail struct {
	Task        `bson:",inline"`
	Assignments []EnrichedAssignment `json:"assignments"`
}

// StaffTask is a task as seen by an assigned staff member.
type StaffTask struct {
	Task           `bson:",inline"`
	AssignmentID   primitive.ObjectID `json:"assignment_id"`
	AssignedRole   string             `json:"assigned_role"`
	AssignedSalary int64              `json:"assigned_salary"`
	// Payment status of the assignment, not of the client invoice.
	AssignmentPaymentStatus string `json:"payment_status"`
}

type CreateTaskRequest struct {
	ProjectName           string   `json:"project_name" validate:"required"`
	ClientName            string   `json:"client_name" validate:"required"`
	TaskType              string   `json:"task_type" validate:"required"`
	Deadline              int64    `json:"deadline" validate:"required"`
	ReceivedDate          int64    `json:"received_date" validate:"required"`
	TotalBudget           int64    `json:"total_budget" validate:"gte=0"`
	PaymentStatus         string   `json:"payment_status" validate:"required,oneof=pending partial paid"`
	PaymentReceivedAmount int64    `json:"payment_received_amount" validate:"gte=0"`
	RemainingAmount       int64    `json:"remaining_amount" validate:"gte=0"`
	IncomeStatus          string   `json:"income_status" validate:"required,oneof=pending partial received"`
	ReferenceFiles        []string `json:"reference_files,omitempty"`
}

// UpdateTaskRequest merges only the provided fields. Cross-field consistency
// of budget/received/remaining is the caller's responsibility.
type UpdateTaskRequest struct {
	ProjectName           *string   `json:"project_name,omitempty"`
	ClientName            *string   `json:"client_name,omitempty"`
	TaskType              *string   `json:"task_type,omitempty"`
	Deadline              *int64    `json:"deadline,omitempty"`
	ReceivedDate          *int64    `json:"received_date,omitempty"`
	TotalBudget           *int64    `json:"total_budget,omitempty"`
	PaymentStatus         *string   `json:"payment_status,omitempty"`
	PaymentReceivedAmount *int64    `json:"payment_received_amount,omitempty"`
	RemainingAmount       *int64    `json:"remaining_amount,omitempty"`
	IncomeStatus          *string   `json:"income_status,omitempty"`
	Status                *string   `json:"status,omitempty"`
	ReferenceFiles        *[]string `json:"reference_files,omitempty"`
}

// Patch builds the $set document for the provided fields.
func (r *UpdateTaskRequest) Patch() bson.M {
	patch := bson.M{}
	if r.ProjectName != nil {
		patch["project_name"] = *r.ProjectName
	}
	if r.ClientName != nil {
		patch["client_name"] = *r.ClientName
	}
	if r.TaskType != nil {
		patch["task_type"] = *r.TaskType
	}
	if r.Deadline != nil {
		patch["deadline"] = *r.Deadline
	}
	if r.ReceivedDate != nil {
		patch["received_date"] = *r.ReceivedDate
	}
	if r.TotalBudget != nil {
		patch["total_budget"] = *r.TotalBudget
	}
	if r.PaymentStatus != nil {
		patch["payment_status"] = *r.PaymentStatus
	}
	if r.PaymentReceivedAmount != nil {
		patch["payment_received_amount"] = *r.PaymentReceivedAmount
	}
	if r.RemainingAmount != nil {
		patch["remaining_amount"] = *r.RemainingAmount
	}
	if r.IncomeStatus != nil {
		patch["income_status"] = *r.IncomeStatus
	}
	if r.Status != nil {
		patch["status"] = *r.Status
	}
	if r.ReferenceFiles != nil {
		ids := make([]primitive.ObjectID, 0, len(*r.ReferenceFiles))
		for _, raw := range *r.ReferenceFiles {
			if id, err := primitive.ObjectIDFromHex(raw); err == nil {
				ids = append(ids, id)
			}
		}
		patch["reference_files"] = ids
	}
	return patch
}

type AssignStaffRequest struct {
	StaffID        string `json:"staff_id" validate:"required"`
	AssignedRole   string `json:"assigned_role" validate:"required"`
	AssignedSalary int64  `json:"assigned_salary" validate:"gt=0"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}
