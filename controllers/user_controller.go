// controllers/user_controller.go
package controllers

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/icrisstudio/studio_backend/config"
	"github.com/icrisstudio/studio_backend/middleware"
	"github.com/icrisstudio/studio_backend/models"
	"github.com/icrisstudio/studio_backend/repositories"
	"github.com/icrisstudio/studio_backend/utils"
)

// UserController handles account and staff-profile management.
type UserController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
}

func NewUserController(db *mongo.Client, userRepo *repositories.UserRepository) *UserController {
	return &UserController{DB: db, userRepo: userRepo}
}

func (uc *UserController) users() *mongo.Collection {
	return config.GetCollection(uc.DB, config.UsersCollection)
}

func (uc *UserController) profiles() *mongo.Collection {
	return config.GetCollection(uc.DB, config.StaffProfilesCollection)
}

// CreateUser registers a new account (admin only).
func (uc *UserController) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.users().FindOne(ctx, bson.M{"username": req.Username}).Err(); err == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Username already exists",
		})
	} else if err != mongo.ErrNoDocuments {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check username",
		})
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.FullName,
		Status:       models.UserStatusActive,
		CreatedAt:    utils.NowMillis(),
	}

	result, err := uc.users().InsertOne(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created",
		Data:    map[string]interface{}{"userId": result.InsertedID},
	})
}

// UpdateUser patches only the provided fields. A username change re-checks
// uniqueness; a password change rehashes.
func (uc *UserController) UpdateUser(c echo.Context) error {
	userID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load user",
		})
	}

	if req.Username != nil && *req.Username != user.Username {
		if err := uc.users().FindOne(ctx, bson.M{"username": *req.Username}).Err(); err == nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Username already taken",
			})
		} else if err != mongo.ErrNoDocuments {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to check username",
			})
		}
	}

	patch := req.Patch()
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to hash password",
			})
		}
		patch["password_hash"] = hash
	}

	if len(patch) == 0 {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Nothing to update",
		})
	}

	if _, err := uc.users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": patch}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated",
	})
}

// DisableUser deactivates an account. Super admins can never be disabled,
// and nothing is ever hard-deleted.
func (uc *UserController) DisableUser(c echo.Context) error {
	userID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load user",
		})
	}

	if user.Role == models.RoleSuperAdmin {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Cannot disable super admin",
		})
	}

	if _, err := uc.users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"status": models.UserStatusDisabled}}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to disable user",
		})
	}

	// A disabled account must lose access now, not at its next login.
	if err := middleware.RevokeUserSessions(userID.Hex()); err != nil {
		log.Printf("failed to revoke sessions for disabled user %s: %v", userID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User disabled",
	})
}

// ListUsers returns every account without password hashes.
func (uc *UserController) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := uc.users().Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users",
		Data:    users,
	})
}

// ListAllStaff returns every staff member, active or disabled.
func (uc *UserController) ListAllStaff(c echo.Context) error {
	return uc.listStaff(c, false)
}

// ListActiveStaff returns the staff available for task assignment.
func (uc *UserController) ListActiveStaff(c echo.Context) error {
	return uc.listStaff(c, true)
}

func (uc *UserController) listStaff(c echo.Context, activeOnly bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listings, err := uc.userRepo.ListStaff(ctx, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list staff",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Staff members",
		Data:    listings,
	})
}

// GetStaffProfile returns the staff profile for a user, or null when the
// profile was never completed.
func (uc *UserController) GetStaffProfile(c echo.Context) error {
	userID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	if err := uc.requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := uc.userRepo.GetStaffProfile(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load staff profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Staff profile",
		Data:    profile,
	})
}

// UpdateStaffProfile upserts the payout profile and completes first login.
func (uc *UserController) UpdateStaffProfile(c echo.Context) error {
	var req models.UpdateStaffProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	userID, err := parseObjectID(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	if err := uc.requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	profileDoc := bson.M{
		"user_id":               userID,
		"role_name":             req.RoleName,
		"payment_method":        req.PaymentMethod,
		"bank_name":             req.BankName,
		"account_holder_name":   req.AccountHolderName,
		"account_number":        req.AccountNumber,
		"wallet_name":           req.WalletName,
		"wallet_number":         req.WalletNumber,
		"first_login_completed": true,
	}
	if id, err := parseObjectID(req.BankQRCode); err == nil {
		profileDoc["bank_qr_code"] = id
	}
	if id, err := parseObjectID(req.WalletQRCode); err == nil {
		profileDoc["wallet_qr_code"] = id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = uc.profiles().UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": profileDoc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save staff profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Staff profile saved",
	})
}

// UploadProfilePicture stores a profile image, generates its thumbnail, and
// points the user record at the new storage reference.
func (uc *UserController) UploadProfilePicture(c echo.Context) error {
	userID, err := parseObjectID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	if err := uc.requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A file is required",
		})
	}
	if !utils.IsImageFilename(fileHeader.Filename) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unsupported image format. Allowed formats: jpg, jpeg, png, gif",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to open upload",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, utils.MaxFileSize+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read upload",
		})
	}

	storedName, err := utils.SaveUploadedFile(data, fileHeader.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	thumbName, err := utils.GenerateThumbnail(storedName)
	if err != nil {
		// The original remains usable without its thumbnail.
		thumbName = ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	file := models.StoredFile{
		ID:          primitive.NewObjectID(),
		Filename:    fileHeader.Filename,
		Path:        storedName,
		Thumbnail:   thumbName,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		UploadedBy:  userID,
		CreatedAt:   utils.NowMillis(),
	}
	if _, err := config.GetCollection(uc.DB, config.FilesCollection).InsertOne(ctx, file); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record upload",
		})
	}

	if _, err := uc.users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"profile_picture": file.ID}}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile picture",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile picture updated",
		Data:    models.UploadResponse{StorageID: file.ID.Hex()},
	})
}

// requireSelfOrAdmin lets staff touch only their own records while the
// admin can touch anyone's.
func (uc *UserController) requireSelfOrAdmin(c echo.Context, userID primitive.ObjectID) error {
	if middleware.ExtractRole(c) == models.RoleSuperAdmin {
		return nil
	}
	callerID, err := middleware.ExtractUserID(c)
	if err != nil || callerID != userID.Hex() {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}
	return nil
}
