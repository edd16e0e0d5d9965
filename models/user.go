// models/user.go
package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleSuperAdmin = "super_admin"
	RoleStaff      = "staff"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User model. Users are disabled, never hard-deleted.
type User struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Username       string              `json:"username" bson:"username"`
	PasswordHash   string              `json:"-" bson:"password_hash"`
	Role           string              `json:"role" bson:"role"`
	FullName       string              `json:"full_name,omitempty" bson:"full_name,omitempty"`
	ProfilePicture *primitive.ObjectID `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	Status         string              `json:"status" bson:"status"`
	CreatedAt      int64               `json:"created_at" bson:"created_at"`
}

// StaffProfile holds payout details for a staff user, 1:1 with User.
type StaffProfile struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID            primitive.ObjectID  `json:"user_id" bson:"user_id"`
	RoleName          string              `json:"role_name" bson:"role_name"`
	PaymentMethod     string              `json:"payment_method" bson:"payment_method"` // "bank_transfer" or "digital_wallet"
	BankName          string              `json:"bank_name,omitempty" bson:"bank_name,omitempty"`
	AccountHolderName string              `json:"account_holder_name,omitempty" bson:"account_holder_name,omitempty"`
	AccountNumber     string              `json:"account_number,omitempty" bson:"account_number,omitempty"`
	BankQRCode        *primitive.ObjectID `json:"bank_qr_code,omitempty" bson:"bank_qr_code,omitempty"`
	WalletName        string              `json:"wallet_name,omitempty" bson:"wallet_name,omitempty"`
	WalletNumber      string              `json:"wallet_number,omitempty" bson:"wallet_number,omitempty"`
	WalletQRCode      *primitive.ObjectID `json:"wallet_qr_code,omitempty" bson:"wallet_qr_code,omitempty"`
	FirstLoginDone    bool                `json:"first_login_completed" bson:"first_login_completed"`
}

// StaffListing is the profile-enriched row returned by the staff list queries.
type StaffListing struct {
	ID             primitive.ObjectID  `json:"_id"`
	Username       string              `json:"username"`
	FullName       string              `json:"full_name,omitempty"`
	ProfilePicture *primitive.ObjectID `json:"profile_picture,omitempty"`
	RoleName       string              `json:"role_name"`
	PaymentMethod  string              `json:"payment_method"`
	Status         string              `json:"status"`
}

// LoginRequest model
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token plus the profile payload the
// dashboard needs to route the user after login.
type LoginResponse struct {
	Token              string        `json:"token"`
	User               User          `json:"user"`
	StaffProfile       *StaffProfile `json:"staffProfile,omitempty"`
	FirstLoginRequired bool          `json:"firstLoginRequired"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=super_admin staff"`
}

// UpdateUserRequest patches only the fields present in the request body.
type UpdateUserRequest struct {
	Username       *string `json:"username,omitempty"`
	Password       *string `json:"password,omitempty"`
	FullName       *string `json:"full_name,omitempty"`
	Status         *string `json:"status,omitempty"`
	Role           *string `json:"role,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// Patch builds the $set document for the provided fields. The password is
// handled separately by the controller because it needs rehashing.
func (r *UpdateUserRequest) Patch() bson.M {
	patch := bson.M{}
	if r.Username != nil {
		patch["username"] = *r.Username
	}
	if r.FullName != nil {
		patch["full_name"] = *r.FullName
	}
	if r.Status != nil {
		patch["status"] = *r.Status
	}
	if r.Role != nil {
		patch["role"] = *r.Role
	}
	if r.ProfilePicture != nil {
		if id, err := primitive.ObjectIDFromHex(*r.ProfilePicture); err == nil {
			patch["profile_picture"] = id
		}
	}
	return patch
}

type UpdateStaffProfileRequest struct {
	UserID            string `json:"user_id" validate:"required"`
	RoleName          string `json:"role_name" validate:"required"`
	PaymentMethod     string `json:"payment_method" validate:"required,oneof=bank_transfer digital_wallet"`
	BankName          string `json:"bank_name,omitempty"`
	AccountHolderName string `json:"account_holder_name,omitempty"`
	AccountNumber     string `json:"account_number,omitempty"`
	BankQRCode        string `json:"bank_qr_code,omitempty"`
	WalletName        string `json:"wallet_name,omitempty"`
	WalletNumber      string `json:"wallet_number,omitempty"`
	WalletQRCode      string `json:"wallet_qr_code,omitempty"`
}

// Response is the JSON envelope for every endpoint.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
