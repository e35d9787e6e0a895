package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinescore/cinescorebackend/config"
	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/repository"
)

type AuthHandler struct {
	UserRepo       repository.UserRepository
	InviteCodeRepo repository.InviteCodeRepository
	Cfg            config.Config
}

func NewAuthHandler(userRepo repository.UserRepository, inviteCodeRepo repository.InviteCodeRepository, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, InviteCodeRepo: inviteCodeRepo, Cfg: cfg}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	if !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	expirationTime := time.Now().Add(time.Duration(h.Cfg.TokenTTLHours) * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "cinescorebackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.AuthSecret))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to generate token")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = "" // ensure it's not sent, though the "-" tag should handle it

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tokenString,
		User:      userForResponse,
		ExpiresAt: expirationTime,
	})
}

type RegisterPayload struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

// Register handles new user registration using an invite code.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if payload.Username == "" || payload.Password == "" || payload.InviteCode == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Username, password, and invite code are required")
		return
	}

	inviteCode, err := h.InviteCodeRepo.GetByCode(payload.InviteCode)
	if err != nil {
		WriteAPIError(w, http.StatusForbidden, "invalid_invite", "Invalid or expired invite code")
		return
	}

	if !inviteCode.IsValid() {
		WriteAPIError(w, http.StatusForbidden, "invalid_invite", "Invite code is not valid (expired, inactive, or max uses reached)")
		return
	}

	// new users start with no groups and no direct permissions; they can
	// review movies but administer nothing
	newUser := &models.User{
		Username:          payload.Username,
		GlobalPermissions: []string{},
	}
	if err := newUser.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to hash password")
		return
	}

	if err := h.UserRepo.Create(newUser); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create user: "+err.Error())
		return
	}

	if err := h.InviteCodeRepo.IncrementUses(inviteCode.ID); err != nil {
		// user exists but the invite counter is now behind; log and continue
		fmt.Printf("CRITICAL: User %s created but failed to increment uses for invite code %s (ID: %d): %v\n", newUser.Username, inviteCode.Code, inviteCode.ID, err)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully. Please log in."})
}

// Logout is primarily client-side with JWTs (discarding the token).
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully. Please discard your token."})
}

// Me returns the authenticated user from the request context.
// This handler should be protected by the AuthMiddleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if user == nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Could not retrieve user from context")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""

	writeJSON(w, http.StatusOK, userForResponse)
}
