package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/permissions"
	"github.com/cinescore/cinescorebackend/repository"
)

type AdminGroupHandler struct {
	GroupRepo repository.GroupRepository
	UserRepo  repository.UserRepository
}

func NewAdminGroupHandler(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *AdminGroupHandler {
	return &AdminGroupHandler{GroupRepo: groupRepo, UserRepo: userRepo}
}

// --- DTOs for Group Management ---

type GroupCreatePayload struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type GroupUpdatePayload struct {
	Name        *string   `json:"name,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}

// GroupResponseDTO is a simplified Group model for API responses.
type GroupResponseDTO struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Permissions []string         `json:"permissions"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Users       []UserSummaryDTO `json:"users,omitempty"`
}

// UserSummaryDTO is a very minimal user representation for embedding in other responses.
type UserSummaryDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func toUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

func toUserSummaryListDTO(users []models.User) []UserSummaryDTO {
	dtos := make([]UserSummaryDTO, len(users))
	for i, user := range users {
		dtos[i] = toUserSummaryDTO(user)
	}
	return dtos
}

func toGroupResponseDTO(group *models.Group) GroupResponseDTO {
	return GroupResponseDTO{
		ID:          group.ID,
		Name:        group.Name,
		Permissions: group.Permissions,
		CreatedAt:   group.CreatedAt.Format(http.TimeFormat),
		UpdatedAt:   group.UpdatedAt.Format(http.TimeFormat),
		// Users are not populated by default, only on specific requests
	}
}

func toGroupListResponseDTO(groups []models.Group) []GroupResponseDTO {
	dtos := make([]GroupResponseDTO, len(groups))
	for i, group := range groups {
		dtos[i] = toGroupResponseDTO(&group)
	}
	return dtos
}

func validatePermissionKeys(keys []string) error {
	for _, pKey := range keys {
		if _, ok := permissions.GetPermissionDefinition(pKey); !ok {
			return fmt.Errorf("invalid permission key: %s", pKey)
		}
	}
	return nil
}

// --- Handler Methods ---

func (h *AdminGroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.GroupRepo.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve groups")
		return
	}
	writeJSON(w, http.StatusOK, toGroupListResponseDTO(groups))
}

func (h *AdminGroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseUintParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid group ID format")
		return
	}

	group, err := h.GroupRepo.GetByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Group not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve group")
		}
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponseDTO(group))
}

func (h *AdminGroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var payload GroupCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if payload.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "Group name is required")
		return
	}
	// Prevent creating another group with the reserved admin name
	if payload.Name == models.MoviesAdminGroupName {
		WriteAPIError(w, http.StatusBadRequest, "reserved_name", fmt.Sprintf("Group name '%s' is reserved.", models.MoviesAdminGroupName))
		return
	}

	if err := validatePermissionKeys(payload.Permissions); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_permission", err.Error())
		return
	}

	group := &models.Group{
		Name:        payload.Name,
		Permissions: payload.Permissions,
	}

	if err := h.GroupRepo.Create(group); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create group: "+err.Error())
		return
	}

	reloadedGroup, err := h.GroupRepo.GetByID(group.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve newly created group")
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponseDTO(reloadedGroup))
}

func (h *AdminGroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseUintParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid group ID format")
		return
	}

	var payload GroupUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	group, err := h.GroupRepo.GetByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Group not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve group for update")
		}
		return
	}

	// The admin group's name must stay stable since review authorization
	// resolves membership by name. Its permission set may still be edited.
	if group.Name == models.MoviesAdminGroupName && payload.Name != nil && *payload.Name != models.MoviesAdminGroupName {
		WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("The '%s' group cannot be renamed.", models.MoviesAdminGroupName))
		return
	}

	if payload.Name != nil {
		// Prevent renaming another group to the reserved admin name
		if *payload.Name == models.MoviesAdminGroupName && group.Name != models.MoviesAdminGroupName {
			WriteAPIError(w, http.StatusBadRequest, "reserved_name", fmt.Sprintf("Group name '%s' is reserved.", models.MoviesAdminGroupName))
			return
		}
		group.Name = *payload.Name
	}

	if payload.Permissions != nil {
		if err := validatePermissionKeys(*payload.Permissions); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_permission", err.Error())
			return
		}
		group.Permissions = *payload.Permissions
	}

	if err := h.GroupRepo.Update(group); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to update group: "+err.Error())
		return
	}

	updatedGroup, err := h.GroupRepo.GetByID(group.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve updated group")
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponseDTO(updatedGroup))
}

func (h *AdminGroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseUintParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid group ID format")
		return
	}

	group, err := h.GroupRepo.GetByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Group not found")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to check group before delete")
		return
	}

	if group.Name == models.MoviesAdminGroupName {
		WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("The '%s' group cannot be deleted.", models.MoviesAdminGroupName))
		return
	}

	if err := h.GroupRepo.Delete(groupID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to delete group: "+err.Error())
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// --- User-Group Association Handlers ---

func (h *AdminGroupHandler) GetGroupUsers(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseUintParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid group ID format")
		return
	}

	if _, err := h.GroupRepo.GetByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Group not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to verify group existence")
		}
		return
	}

	users, err := h.GroupRepo.FindUsersByGroupID(groupID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve users for group")
		return
	}

	writeJSON(w, http.StatusOK, toUserSummaryListDTO(users))
}

type AddUserToGroupPayload struct {
	UserID uint `json:"user_id"`
}

func (h *AdminGroupHandler) AddUserToGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseUintParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid group ID format")
		return
	}

	var payload AddUserToGroupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if payload.UserID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "User ID is required")
		return
	}

	if _, err := h.GroupRepo.GetByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Group not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve group")
		}
		return
	}

	if _, err := h.UserRepo.GetByID(payload.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusBadRequest, "invalid_user", fmt.Sprintf("User with ID %d not found", payload.UserID))
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to verify user existence")
		}
		return
	}

	if err := h.GroupRepo.AddUserToGroup(payload.UserID, groupID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to add user to group: "+err.Error())
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AdminGroupHandler) RemoveUserFromGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseUintParam(r, "groupID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid group ID format")
		return
	}

	userID, err := parseUintParam(r, "userID")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid user ID format")
		return
	}

	if _, err := h.GroupRepo.GetByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Group not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to retrieve group")
		}
		return
	}

	if err := h.GroupRepo.RemoveUserFromGroup(userID, groupID); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to remove user from group: "+err.Error())
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
