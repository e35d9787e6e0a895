package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// CurrentUser extracts the authenticated user placed in the request context by
// AuthMiddleware. Returns nil when no user is present.
func CurrentUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// AuthMiddleware creates a middleware handler for JWT authentication.
// It verifies the token and, if valid, fetches the user and adds them to the request context.
func AuthMiddleware(userRepo repository.UserRepository, jwtKey []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})

		if err != nil || !token.Valid {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
			return
		}

		var userID uint
		if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid user ID in token")
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			// the user may have been deleted after the token was issued
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "User not found")
			return
		}

		// Add user to context
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireGlobalPermission is a middleware that checks if the authenticated user has
// a specific global permission. It should be used after AuthMiddleware.
func RequireGlobalPermission(requiredPermission string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			// This should not happen if AuthMiddleware ran successfully
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
			return
		}

		if !user.HasGlobalPermission(requiredPermission) {
			WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("Requires global permission '%s'", requiredPermission))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAnyGlobalPermission is a middleware that checks if the authenticated user has
// at least one of the specified global permissions. It should be used after AuthMiddleware.
func RequireAnyGlobalPermission(permissions []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "User not found in context")
			return
		}

		hasAtLeastOne := false
		for _, p := range permissions {
			if user.HasGlobalPermission(p) {
				hasAtLeastOne = true
				break
			}
		}

		if !hasAtLeastOne {
			WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("Requires at least one of the following global permissions: %s", strings.Join(permissions, ", ")))
			return
		}
		next.ServeHTTP(w, r)
	})
}
