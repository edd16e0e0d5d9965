// controllers/task_controller_test.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/icrisstudio/studio_backend/models"
)

func newAuthedContext(role, userID string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}
	if userID != "" {
		c.Set("userId", userID)
	}
	return c
}

func TestRequireTaskAccess(t *testing.T) {
	tc := &TaskController{}
	taskID := primitive.NewObjectID()

	t.Run("admin may act on any task", func(t *testing.T) {
		c := newAuthedContext(models.RoleSuperAdmin, primitive.NewObjectID().Hex())
		if err := tc.requireTaskAccess(c, taskID); err != nil {
			t.Errorf("requireTaskAccess() = %v, want nil", err)
		}
	})

	t.Run("missing caller identity is rejected", func(t *testing.T) {
		c := newAuthedContext("", "")
		err := tc.requireTaskAccess(c, taskID)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Errorf("requireTaskAccess() = %v, want 401", err)
		}
	})

	t.Run("staff with malformed id is denied before any lookup", func(t *testing.T) {
		c := newAuthedContext(models.RoleStaff, "not-a-hex-id")
		err := tc.requireTaskAccess(c, taskID)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusForbidden {
			t.Errorf("requireTaskAccess() = %v, want 403", err)
		}
	})
}
