// models/tax.go
package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tax statuses
const (
	TaxStatusPending = "pending"
	TaxStatusPaid    = "paid"
)

// Tax is a per-task tax obligation with its own lifecycle, independent of
// the task's payment state.
type Tax struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	TaskID      primitive.ObjectID   `json:"task_id" bson:"task_id"`
	ProjectName string               `json:"project_name" bson:"project_name"`
	TaxType     string               `json:"tax_type" bson:"tax_type"` // "vat", "service_tax", "withholding_tax", "other"
	TaxAmount   int64                `json:"tax_amount" bson:"tax_amount"`
	TaxStatus   string               `json:"tax_status" bson:"tax_status"`
	AssignedTo  []primitive.ObjectID `json:"assigned_to" bson:"assigned_to"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	DueDate     int64                `json:"due_date" bson:"due_date"`
	PaidAt      *int64               `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	Proof       *primitive.ObjectID  `json:"proof,omitempty" bson:"proof,omitempty"`
	Notes       string               `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt   int64                `json:"created_at" bson:"created_at"`
}

// EnrichedTax joins the owning task's display fields for listings.
type EnrichedTax struct {
	Tax        `bson:",inline"`
	ClientName string `json:"client_name,omitempty"`
}

// TaxSummary totals the tax ledger by status.
type TaxSummary struct {
	TotalPending int64 `json:"total_pending"`
	TotalPaid    int64 `json:"total_paid"`
	PendingCount int   `json:"pending_count"`
	PaidCount    int   `json:"paid_count"`
	TotalTaxes   int   `json:"total_taxes"`
}

type CreateTaxRequest struct {
	TaskID      string   `json:"task_id" validate:"required"`
	ProjectName string   `json:"project_name" validate:"required"`
	TaxType     string   `json:"tax_type" validate:"required,oneof=vat service_tax withholding_tax other"`
	TaxAmount   int64    `json:"tax_amount" validate:"gt=0"`
	AssignedTo  []string `json:"assigned_to"`
	Description string   `json:"description,omitempty"`
	DueDate     int64    `json:"due_date,omitempty"`
}

type UpdateTaxRequest struct {
	AssignedTo *[]string `json:"assigned_to,omitempty"`
	TaxStatus  *string   `json:"tax_status,omitempty"`
	PaidAt     *int64    `json:"paid_at,omitempty"`
	Proof      *string   `json:"proof,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

// Patch builds the $set document for the provided fields.
func (r *UpdateTaxRequest) Patch() bson.M {
	patch := bson.M{}
	if r.AssignedTo != nil {
		ids := make([]primitive.ObjectID, 0, len(*r.AssignedTo))
		for _, raw := range *r.AssignedTo {
			if id, err := primitive.ObjectIDFromHex(raw); err == nil {
				ids = append(ids, id)
			}
		}
		patch["assigned_to"] = ids
	}
	if r.TaxStatus != nil {
		patch["tax_status"] = *r.TaxStatus
	}
	if r.PaidAt != nil {
		patch["paid_at"] = *r.PaidAt
	}
	if r.Proof != nil {
		if id, err := primitive.ObjectIDFromHex(*r.Proof); err == nil {
			patch["proof"] = id
		}
	}
	if r.Notes != nil {
		patch["notes"] = *r.Notes
	}
	return patch
}
