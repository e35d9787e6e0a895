package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/permissions"
	"github.com/cinescore/cinescorebackend/repository"
	"github.com/cinescore/cinescorebackend/services"
)

type AdminUserHandler struct {
	UserRepo      repository.UserRepository
	GroupRepo     repository.GroupRepository // for validating group IDs during user creation/update
	ReviewService *services.ReviewService
}

func NewAdminUserHandler(userRepo repository.UserRepository, groupRepo repository.GroupRepository, reviewService *services.ReviewService) *AdminUserHandler {
	return &AdminUserHandler{UserRepo: userRepo, GroupRepo: groupRepo, ReviewService: reviewService}
}

// --- DTOs for User Management ---

type UserCreatePayload struct {
	Username          string   `json:"username"`
	Password          string   `json:"password"`
	GroupIDs          []uint   `json:"group_ids"`
	GlobalPermissions []string `json:"global_permissions"`
}

type UserUpdatePayload struct {
	Username          *string   `json:"username,omitempty"`
	Password          *string   `json:"password,omitempty"`
	GroupIDs          *[]uint   `json:"group_ids,omitempty"` // full set of group IDs to assign
	GlobalPermissions *[]string `json:"global_permissions,omitempty"`
}

// UserResponseDTO is a simplified User model for API responses, excluding sensitive data.
type UserResponseDTO struct {
	ID                uint           `json:"id"`
	Username          string         `json:"username"`
	Groups            []models.Group `json:"groups"`
	GlobalPermissions []string       `json:"global_permissions"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
}

func toUserResponseDTO(user *models.User) UserResponseDTO {
	groups := []models.Group{}
	if user.Groups != nil {
		for _, g := range user.Groups {
			if g != nil {
				groups = append(groups, *g)
			}
		}
	}

	return UserResponseDTO{
		ID:                user.ID,
		Username:          user.Username,
		Groups:            groups,
		GlobalPermissions: user.GlobalPermissions,
		CreatedAt:         user.CreatedAt.Format(http.TimeFormat),
		UpdatedAt:         user.UpdatedAt.Format(http.TimeFormat),
	}
}

func toUserListResponseDTO(users []models.User) []UserResponseDTO {
	dtos := make([]UserResponseDTO, len(users))
	for i, user := range users {
		dtos[i] = toUserResponseDTO(&user)
	}
	return dtos
}

// --- Handler Methods ---

func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve users")
		return
	}
	writeJSON(w, http.StatusOK, toUserListResponseDTO(users))
}

func (h *AdminUserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUintParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid user ID format")
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "User not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve user")
		}
		return
	}
	writeJSON(w, http.StatusOK, toUserResponseDTO(user))
}

func (h *AdminUserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var payload UserCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if payload.Username == "" || payload.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "Username and password are required")
		return
	}

	for _, pKey := range payload.GlobalPermissions {
		if !permissions.IsValidPermissionKey(pKey) {
			WriteAPIError(w, http.StatusBadRequest, "invalid_permission", fmt.Sprintf("Invalid global permission key: %s", pKey))
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to hash password")
		return
	}

	user := &models.User{
		Username:          payload.Username,
		PasswordHash:      string(hashedPassword),
		GlobalPermissions: payload.GlobalPermissions,
	}

	// Validate and fetch groups
	if len(payload.GroupIDs) > 0 {
		user.Groups = make([]*models.Group, 0, len(payload.GroupIDs))
		for _, groupID := range payload.GroupIDs {
			group, err := h.GroupRepo.GetByID(groupID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					WriteAPIError(w, http.StatusBadRequest, "invalid_group", fmt.Sprintf("Group with ID %d not found", groupID))
				} else {
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("Failed to retrieve group %d", groupID))
				}
				return
			}
			user.Groups = append(user.Groups, group)
		}
	}

	if err := h.UserRepo.Create(user); err != nil {
		// could be a unique constraint violation for username
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create user: "+err.Error())
		return
	}

	// Reload to get populated fields and preloaded groups
	createdUser, err := h.UserRepo.GetByUsername(user.Username)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve newly created user")
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponseDTO(createdUser))
}

func (h *AdminUserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUintParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid user ID format")
		return
	}

	var payload UserUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "User not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve user for update")
		}
		return
	}

	if payload.Username != nil {
		user.Username = *payload.Username
	}
	if payload.Password != nil && *payload.Password != "" {
		if err := user.SetPassword(*payload.Password); err != nil {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to set new password")
			return
		}
	}
	if payload.GlobalPermissions != nil {
		for _, pKey := range *payload.GlobalPermissions {
			if !permissions.IsValidPermissionKey(pKey) {
				WriteAPIError(w, http.StatusBadRequest, "invalid_permission", fmt.Sprintf("Invalid global permission key: %s", pKey))
				return
			}
		}
		user.GlobalPermissions = *payload.GlobalPermissions
	}

	// Handle GroupIDs update: replace all existing groups with the new set
	if payload.GroupIDs != nil {
		newGroups := make([]*models.Group, 0, len(*payload.GroupIDs))
		for _, groupID := range *payload.GroupIDs {
			group, err := h.GroupRepo.GetByID(groupID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					WriteAPIError(w, http.StatusBadRequest, "invalid_group", fmt.Sprintf("Group with ID %d not found for update", groupID))
				} else {
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", fmt.Sprintf("Failed to retrieve group %d for update", groupID))
				}
				return
			}
			newGroups = append(newGroups, group)
		}
		user.Groups = newGroups // triggers GORM to update the associations
	}

	if err := h.UserRepo.Update(user); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update user: "+err.Error())
		return
	}

	updatedUser, err := h.UserRepo.GetByID(user.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve updated user")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponseDTO(updatedUser))
}

func (h *AdminUserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUintParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid user ID format")
		return
	}

	if _, err := h.UserRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to check user before delete")
		return
	}

	// Purge the user's reviews first so the affected movies get their
	// average ratings recomputed before the owner row disappears.
	if err := h.ReviewService.PurgeUserReviews(userID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to remove user's reviews: "+err.Error())
		return
	}

	if err := h.UserRepo.Delete(userID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete user: "+err.Error())
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
