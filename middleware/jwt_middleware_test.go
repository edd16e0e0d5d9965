package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestJwtCustomClaimsValid(t *testing.T) {
	now := time.Now().Unix()

	tests := []struct {
		name    string
		claims  JwtCustomClaims
		wantErr bool
	}{
		{
			name: "live token",
			claims: JwtCustomClaims{
				StandardClaims: jwt.StandardClaims{
					IssuedAt:  now,
					ExpiresAt: now + 3600,
				},
			},
			wantErr: false,
		},
		{
			name: "expired token",
			claims: JwtCustomClaims{
				StandardClaims: jwt.StandardClaims{
					IssuedAt:  now - 7200,
					ExpiresAt: now - 3600,
				},
			},
			wantErr: true,
		},
		{
			name: "not yet valid",
			claims: JwtCustomClaims{
				StandardClaims: jwt.StandardClaims{
					NotBefore: now + 3600,
					ExpiresAt: now + 7200,
				},
			},
			wantErr: true,
		},
		{
			name:    "no expiry set",
			claims:  JwtCustomClaims{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.claims.Valid()
			if (err != nil) != tt.wantErr {
				t.Errorf("Valid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := &JwtCustomClaims{
		UserID:    "abc123",
		Username:  "alice@example.com",
		Role:      "staff",
		SessionID: "sess-1",
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(GetJWTSecret()))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(signed, &JwtCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(GetJWTSecret()), nil
	})
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}

	got, ok := parsed.Claims.(*JwtCustomClaims)
	if !ok || !parsed.Valid {
		t.Fatal("parsed token is not valid")
	}
	if got.UserID != "abc123" || got.Role != "staff" || got.SessionID != "sess-1" {
		t.Errorf("claims = %+v", got)
	}
}

func TestSessionsOwnedBy(t *testing.T) {
	owners := map[string]string{
		"session:a": "user-1",
		"session:b": "user-2",
		"session:c": "user-1",
		"session:d": "user-3",
	}

	tests := []struct {
		name   string
		userID string
		want   []string
	}{
		{"multiple sessions", "user-1", []string{"session:a", "session:c"}},
		{"single session", "user-2", []string{"session:b"}},
		{"no sessions", "user-9", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sessionsOwnedBy(owners, tt.userID)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("keys[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
