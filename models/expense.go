// models/expense.go
package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expense types
const (
	ExpenseStaffSalary   = "staff_salary"
	ExpenseAdvertising   = "advertising"
	ExpenseTools         = "tools_and_software"
	ExpenseMiscellaneous = "miscellaneous"
	ExpenseTax           = "tax"
)

// Expense is one categorized spending record. The ledger is append-only in
// the sense that completed staff payments mechanically insert here.
type Expense struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Type        string              `json:"type" bson:"type"`
	Amount      int64               `json:"amount" bson:"amount"`
	Description string              `json:"description" bson:"description"`
	Date        int64               `json:"date" bson:"date"`
	Proof       *primitive.ObjectID `json:"proof,omitempty" bson:"proof,omitempty"`
	CreatedAt   int64               `json:"created_at" bson:"created_at"`
}

// ExpenseSummary totals the ledger by category for the expense page header.
type ExpenseSummary struct {
	Total  int64            `json:"total"`
	ByType map[string]int64 `json:"by_type"`
}

type CreateExpenseRequest struct {
	Type        string `json:"type" validate:"required,oneof=staff_salary advertising tools_and_software miscellaneous tax"`
	Amount      int64  `json:"amount" validate:"gt=0"`
	Description string `json:"description" validate:"required"`
	Date        int64  `json:"date" validate:"required"`
	Proof       string `json:"proof,omitempty"`
}

type UpdateExpenseRequest struct {
	Type        *string `json:"type,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *int64  `json:"date,omitempty"`
	Proof       *string `json:"proof,omitempty"`
}

// Patch builds the $set document for the provided fields.
func (r *UpdateExpenseRequest) Patch() bson.M {
	patch := bson.M{}
	if r.Type != nil {
		patch["type"] = *r.Type
	}
	if r.Amount != nil {
		patch["amount"] = *r.Amount
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.Date != nil {
		patch["date"] = *r.Date
	}
	if r.Proof != nil {
		if id, err := primitive.ObjectIDFromHex(*r.Proof); err == nil {
			patch["proof"] = id
		}
	}
	return patch
}
