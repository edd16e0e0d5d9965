// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"errors"
	"log"
	"os"
	"sort"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/icrisstudio/studio_backend/config"
)

const (
	// SessionTTL bounds how long an issued session stays valid.
	SessionTTL = 7 * 24 * time.Hour

	sessionKeyPrefix = "session:"
)

// JwtCustomClaims for the session token. Authorization decisions use the
// server-side session record, never a client-stored role claim alone: a token
// whose session has been revoked is rejected even though its signature is
// still valid.
type JwtCustomClaims struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId"`
	jwt.StandardClaims
}

// Valid implements the Claims interface for Echo's JWT middleware.
func (c JwtCustomClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return errors.New("token is expired")
	}
	if c.NotBefore > 0 && time.Now().Unix() < c.NotBefore {
		return errors.New("token used before valid")
	}
	return nil
}

// GetJWTSecret returns the JWT secret from environment variables
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
	return secret
}

// GenerateJWT signs a new session token and registers the session in Redis.
func GenerateJWT(userID, username, role string) (string, error) {
	sessionID := uuid.NewString()

	claims := &JwtCustomClaims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		SessionID: sessionID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(SessionTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(GetJWTSecret()))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := config.GetRedisClient().Set(ctx, sessionKeyPrefix+sessionID, userID, SessionTTL).Err(); err != nil {
		return "", err
	}

	return signed, nil
}

// RevokeSession removes the session so the token stops working immediately.
func RevokeSession(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return config.GetRedisClient().Del(ctx, sessionKeyPrefix+sessionID).Err()
}

// sessionsOwnedBy filters scanned session keys down to the ones whose stored
// value is the given user id. Sorted so revocation order is deterministic.
func sessionsOwnedBy(owners map[string]string, userID string) []string {
	keys := make([]string, 0, len(owners))
	for key, owner := range owners {
		if owner == userID {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// RevokeUserSessions deletes every live session belonging to the user.
// Session keys are indexed by session id, not user, so this scans the
// session keyspace and matches on the stored owner.
func RevokeUserSessions(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := config.GetRedisClient()
	owners := map[string]string{}
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		for _, key := range keys {
			owner, err := client.Get(ctx, key).Result()
			if err != nil {
				continue
			}
			owners[key] = owner
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	matched := sessionsOwnedBy(owners, userID)
	if len(matched) == 0 {
		return nil
	}
	return client.Del(ctx, matched...).Err()
}

// isSessionLive reports whether the session record still exists in Redis.
func isSessionLive(sessionID string) bool {
	if sessionID == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := config.GetRedisClient().Exists(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		log.Printf("session lookup error: %v", err)
		return false
	}
	return n == 1
}

// JWTMiddleware validates the bearer token and the server-side session. The
// session check runs between signature validation and the handler, so a
// revoked token never reaches the handler at all.
func JWTMiddleware() echo.MiddlewareFunc {
	verify := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: []byte(GetJWTSecret()),
		Claims:     &JwtCustomClaims{},
		ErrorHandler: func(err error) error {
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Invalid or expired token")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			user := c.Get("user").(*jwt.Token)
			claims := user.Claims.(*JwtCustomClaims)

			if !isSessionLive(claims.SessionID) {
				return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Session has been revoked")
			}

			c.Set("userId", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			return next(c)
		})
	}
}

// GetUserFromToken extracts the claims of the authenticated user.
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	user := c.Get("user")
	if user == nil {
		return nil
	}

	token, ok := user.(*jwt.Token)
	if !ok {
		return nil
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}

	return claims
}

// ExtractUserID returns the authenticated user's id.
func ExtractUserID(c echo.Context) (string, error) {
	if userID, ok := c.Get("userId").(string); ok && userID != "" {
		return userID, nil
	}
	claims := GetUserFromToken(c)
	if claims == nil {
		return "", errors.New("invalid token")
	}
	return claims.UserID, nil
}

// ExtractRole returns the authenticated user's role.
func ExtractRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok && role != "" {
		return role
	}
	claims := GetUserFromToken(c)
	if claims != nil {
		return claims.Role
	}
	return ""
}
