// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icrisstudio/studio_backend/config"
	"github.com/icrisstudio/studio_backend/middleware"
	"github.com/icrisstudio/studio_backend/models"
	"github.com/icrisstudio/studio_backend/repositories"
	"github.com/icrisstudio/studio_backend/utils"
)

// Default root admin created at first deployment.
const (
	DefaultAdminUsername = "admin@icrisstudio.com"
	DefaultAdminPassword = "admin"
)

// AuthController contains authentication logic
type AuthController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
	logger   *log.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, userRepo *repositories.UserRepository) *AuthController {
	return &AuthController{
		DB:       db,
		userRepo: userRepo,
		logger:   log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Login authenticates a username/password pair and issues a session token.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Username and password are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ac.userRepo.GetUserByUsername(ctx, req.Username)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid username or password",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up user",
		})
	}

	if user.Status == models.UserStatusDisabled {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account is disabled",
		})
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid username or password",
		})
	}

	var staffProfile *models.StaffProfile
	if user.Role == models.RoleStaff {
		staffProfile, err = ac.userRepo.GetStaffProfile(ctx, user.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to load staff profile",
			})
		}
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		ac.logger.Printf("token generation failed for %s: %v", user.Username, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create session",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token:              token,
			User:               *user,
			StaffProfile:       staffProfile,
			FirstLoginRequired: firstLoginRequired(user, staffProfile),
		},
	})
}

// firstLoginRequired gates the forced profile-completion redirect for staff.
func firstLoginRequired(user *models.User, profile *models.StaffProfile) bool {
	return user.Role == models.RoleStaff && (profile == nil || !profile.FirstLoginDone)
}

// Logout revokes the current session.
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	if err := middleware.RevokeSession(claims.SessionID); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to revoke session",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}

// Me returns the authenticated user with its staff profile.
func (ac *AuthController) Me(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	userID, err := parseObjectID(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ac.userRepo.GetUserByID(ctx, userID)
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

	var staffProfile *models.StaffProfile
	if user.Role == models.RoleStaff {
		staffProfile, err = ac.userRepo.GetStaffProfile(ctx, user.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to load staff profile",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Current user",
		Data: map[string]interface{}{
			"user":               user,
			"staffProfile":       staffProfile,
			"firstLoginRequired": firstLoginRequired(user, staffProfile),
		},
	})
}

// SetupAdmin is the idempotent bootstrap endpoint for the root admin.
func (ac *AuthController) SetupAdmin(c echo.Context) error {
	created, err := EnsureDefaultAdmin(ac.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create default admin",
		})
	}

	if !created {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Admin already exists",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Default admin created",
	})
}

// EnsureDefaultAdmin inserts the root super admin unless one already exists.
// Also called at startup so a fresh deployment is immediately usable.
func EnsureDefaultAdmin(db *mongo.Client) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := config.GetCollection(db, config.UsersCollection)

	err := users.FindOne(ctx, bson.M{"username": DefaultAdminUsername}).Err()
	if err == nil {
		return false, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, err
	}

	hash, err := utils.HashPassword(DefaultAdminPassword)
	if err != nil {
		return false, err
	}

	_, err = users.InsertOne(ctx, models.User{
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		FullName:     "Super Admin",
		Status:       models.UserStatusActive,
		CreatedAt:    utils.NowMillis(),
	})
	if err != nil {
		return false, err
	}

	log.Println("Default admin account created")
	return true, nil
}
