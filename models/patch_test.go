package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func TestUpdateUserRequestPatch(t *testing.T) {
	t.Run("empty request patches nothing", func(t *testing.T) {
		r := UpdateUserRequest{}
		if patch := r.Patch(); len(patch) != 0 {
			t.Errorf("patch = %v, want empty", patch)
		}
	})

	t.Run("only provided fields are set", func(t *testing.T) {
		r := UpdateUserRequest{
			FullName: strPtr("New Name"),
			Status:   strPtr(UserStatusDisabled),
		}
		patch := r.Patch()
		if len(patch) != 2 {
			t.Fatalf("len(patch) = %d, want 2", len(patch))
		}
		if patch["full_name"] != "New Name" || patch["status"] != UserStatusDisabled {
			t.Errorf("patch = %v", patch)
		}
	})

	t.Run("password never enters the patch", func(t *testing.T) {
		r := UpdateUserRequest{Password: strPtr("hunter2")}
		if patch := r.Patch(); len(patch) != 0 {
			t.Errorf("patch = %v, want empty", patch)
		}
	})

	t.Run("profile picture converts to object id", func(t *testing.T) {
		id := primitive.NewObjectID()
		r := UpdateUserRequest{ProfilePicture: strPtr(id.Hex())}
		patch := r.Patch()
		if patch["profile_picture"] != id {
			t.Errorf("profile_picture = %v, want %v", patch["profile_picture"], id)
		}
	})
}

func TestUpdateTaskRequestPatch(t *testing.T) {
	t.Run("zero values are still patched when provided", func(t *testing.T) {
		r := UpdateTaskRequest{
			PaymentReceivedAmount: i64Ptr(0),
			RemainingAmount:       i64Ptr(0),
		}
		patch := r.Patch()
		if len(patch) != 2 {
			t.Fatalf("len(patch) = %d, want 2", len(patch))
		}
		if patch["payment_received_amount"] != int64(0) {
			t.Errorf("payment_received_amount = %v", patch["payment_received_amount"])
		}
	})

	t.Run("absent fields stay untouched", func(t *testing.T) {
		r := UpdateTaskRequest{Status: strPtr(TaskStatusInProgress)}
		patch := r.Patch()
		if len(patch) != 1 || patch["status"] != TaskStatusInProgress {
			t.Errorf("patch = %v", patch)
		}
	})

	t.Run("reference files convert to object ids", func(t *testing.T) {
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()
		files := []string{first.Hex(), "not-a-hex-id", second.Hex()}
		r := UpdateTaskRequest{ReferenceFiles: &files}
		patch := r.Patch()
		ids, ok := patch["reference_files"].([]primitive.ObjectID)
		if !ok {
			t.Fatalf("reference_files has type %T", patch["reference_files"])
		}
		if len(ids) != 2 || ids[0] != first || ids[1] != second {
			t.Errorf("ids = %v", ids)
		}
	})
}

func TestUpdateExpenseRequestPatch(t *testing.T) {
	r := UpdateExpenseRequest{
		Amount:      i64Ptr(250),
		Description: strPtr("ad campaign"),
	}
	patch := r.Patch()
	if len(patch) != 2 {
		t.Fatalf("len(patch) = %d, want 2", len(patch))
	}
	if patch["amount"] != int64(250) || patch["description"] != "ad campaign" {
		t.Errorf("patch = %v", patch)
	}
}

func TestUpdateTaxRequestPatch(t *testing.T) {
	t.Run("status and paid_at", func(t *testing.T) {
		r := UpdateTaxRequest{
			TaxStatus: strPtr(TaxStatusPaid),
			PaidAt:    i64Ptr(1700000000000),
		}
		patch := r.Patch()
		if patch["tax_status"] != TaxStatusPaid || patch["paid_at"] != int64(1700000000000) {
			t.Errorf("patch = %v", patch)
		}
	})

	t.Run("assigned to converts and drops malformed ids", func(t *testing.T) {
		id := primitive.NewObjectID()
		assigned := []string{id.Hex(), "bogus"}
		r := UpdateTaxRequest{AssignedTo: &assigned}
		patch := r.Patch()
		ids, ok := patch["assigned_to"].([]primitive.ObjectID)
		if !ok {
			t.Fatalf("assigned_to has type %T", patch["assigned_to"])
		}
		if len(ids) != 1 || ids[0] != id {
			t.Errorf("ids = %v", ids)
		}
	})
}
