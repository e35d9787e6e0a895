package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
)

var testJWTKey = []byte("test-secret")

func contextWithUser(r *http.Request, user *models.User) context.Context {
	return context.WithValue(r.Context(), UserContextKey, user)
}

func signTestToken(t *testing.T, userID uint, key []byte) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "cinescorebackend",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", false)
	userRepo := repository.NewGormUserRepository(db)

	var sawUser *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUser = CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	})
	protected := AuthMiddleware(userRepo, testJWTKey, next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong key", "Bearer " + signTestToken(t, user.ID, []byte("other-secret")), http.StatusUnauthorized},
		{"deleted user", "Bearer " + signTestToken(t, user.ID+100, testJWTKey), http.StatusUnauthorized},
		{"valid token", "Bearer " + signTestToken(t, user.ID, testJWTKey), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawUser = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, sawUser)
				assert.Equal(t, user.ID, sawUser.ID)
			} else {
				assert.Nil(t, sawUser)
			}
		})
	}
}

func TestRequireGlobalPermission(t *testing.T) {
	db := newTestDB(t)

	holder := createTestUser(t, db, "holder", false)
	holder.GlobalPermissions = []string{"movie.create"}

	bystander := createTestUser(t, db, "bystander", false)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gated := RequireGlobalPermission("movie.create", next)

	tests := []struct {
		name       string
		actor      *models.User
		wantStatus int
	}{
		{"holder passes", holder, http.StatusOK},
		{"bystander forbidden", bystander, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req = req.WithContext(contextWithUser(req, tt.actor))
			rec := httptest.NewRecorder()
			gated.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAdminGroupMemberPassesPermissionGate(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin", true)
	admin.Groups[0].Permissions = []string{"movie.create", "movie.delete"}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gated := RequireGlobalPermission("movie.delete", next)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = req.WithContext(contextWithUser(req, admin))
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
