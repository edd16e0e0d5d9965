// models/payment.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses
const (
	PaymentStatusPending         = "pending"
	PaymentStatusPayoutRequested = "payout_requested"
	PaymentStatusCompleted       = "completed"
	PaymentStatusRejected        = "rejected"
)

// MinPayoutAmount is the smallest pending-salary sum a staff member can
// consolidate into a payout request.
const MinPayoutAmount int64 = 100

// Payment is one salary payment record. Task completion creates one pending
// Payment per unpaid assignment; requestPayout collapses a staff member's
// pending Payments into a single payout_requested record.
type Payment struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	StaffID      primitive.ObjectID  `json:"staff_id" bson:"staff_id"`
	Amount       int64               `json:"amount" bson:"amount"`
	PaymentProof *primitive.ObjectID `json:"payment_proof,omitempty" bson:"payment_proof,omitempty"`
	Status       string              `json:"status" bson:"status"`
	Notes        string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    int64               `json:"created_at" bson:"created_at"`
	PaidAt       *int64              `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
}

// PaymentStaffProfile is the merged User + StaffProfile view embedded in
// admin payment listings so the payout sheet can show transfer details.
type PaymentStaffProfile struct {
	StaffProfile   `bson:",inline"`
	FullName       string              `json:"full_name,omitempty"`
	Username       string              `json:"username,omitempty"`
	ProfilePicture *primitive.ObjectID `json:"profile_picture,omitempty"`
}

// EnrichedPayment is a payment joined with its staff identity.
type EnrichedPayment struct {
	Payment       `bson:",inline"`
	StaffName     string              `json:"staff_name"`
	StaffUsername string              `json:"staff_username,omitempty"`
	StaffProfile  PaymentStaffProfile `json:"staff_profile"`
}

// StaffPaymentSummary is the staff-facing earnings overview.
type StaffPaymentSummary struct {
	TotalEarned      int64 `json:"total_earned"`
	TotalPaid        int64 `json:"total_paid"`
	PendingPayment   int64 `json:"pending_payment"`
	RequestedPayment int64 `json:"requested_payment"`
}

type ProcessPaymentRequest struct {
	PaymentProof string `json:"payment_proof,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type RejectPaymentRequest struct {
	Notes string `json:"notes,omitempty"`
}

type PatchPaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending payout_requested completed rejected"`
}
