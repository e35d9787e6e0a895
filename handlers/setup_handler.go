package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"sort"

	"gorm.io/gorm"

	"github.com/cinescore/cinescorebackend/models"
	"github.com/cinescore/cinescorebackend/permissions"
	"github.com/cinescore/cinescorebackend/repository"
)

type SetupHandler struct {
	UserRepo  repository.UserRepository
	GroupRepo repository.GroupRepository
	DB        *gorm.DB
}

func NewSetupHandler(db *gorm.DB, userRepo repository.UserRepository, groupRepo repository.GroupRepository) *SetupHandler {
	return &SetupHandler{UserRepo: userRepo, GroupRepo: groupRepo, DB: db}
}

type FirstAdminPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SyncMoviesAdminGroup ensures the Movies Administrators group exists and
// carries every defined permission key. It is idempotent and safe to run on
// every application startup.
func SyncMoviesAdminGroup(groupRepo repository.GroupRepository) error {
	log.Printf("syncing '%s' group...", models.MoviesAdminGroupName)

	allPerms := permissions.GetAllPermissionKeys()
	sort.Strings(allPerms)

	group, err := groupRepo.GetByName(models.MoviesAdminGroupName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			newGroup := &models.Group{
				Name:        models.MoviesAdminGroupName,
				Permissions: allPerms,
			}
			if err := groupRepo.Create(newGroup); err != nil {
				return fmt.Errorf("failed to create '%s' group: %w", models.MoviesAdminGroupName, err)
			}
			log.Printf("'%s' group created with all permissions", models.MoviesAdminGroupName)
			return nil
		}
		return fmt.Errorf("failed to query for '%s' group: %w", models.MoviesAdminGroupName, err)
	}

	current := append([]string(nil), group.Permissions...)
	sort.Strings(current)

	if !reflect.DeepEqual(current, allPerms) {
		group.Permissions = allPerms
		if err := groupRepo.Update(group); err != nil {
			return fmt.Errorf("failed to update '%s' group permissions: %w", models.MoviesAdminGroupName, err)
		}
		log.Printf("'%s' group permissions updated", models.MoviesAdminGroupName)
	}

	return nil
}

// CreateFirstAdmin creates the initial administrator user and places them in
// the Movies Administrators group. It is only usable while no users exist.
func (h *SetupHandler) CreateFirstAdmin(w http.ResponseWriter, r *http.Request) {
	var count int64
	if err := h.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Database error while checking for existing users")
		return
	}
	if count > 0 {
		WriteAPIError(w, http.StatusForbidden, "setup_complete", "Setup has already been completed: users exist.")
		return
	}

	var payload FirstAdminPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload: "+err.Error())
		return
	}

	if payload.Username == "" || payload.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "Username and password are required")
		return
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var innerCount int64
		if err := tx.Model(&models.User{}).Count(&innerCount).Error; err != nil {
			return fmt.Errorf("failed to count existing users in transaction: %w", err)
		}
		if innerCount > 0 {
			return errors.New("setup already completed")
		}

		var adminGroup models.Group
		if err := tx.Where("name = ?", models.MoviesAdminGroupName).First(&adminGroup).Error; err != nil {
			return fmt.Errorf("could not find the '%s' group, which should have been created at startup: %w", models.MoviesAdminGroupName, err)
		}

		adminUser := &models.User{
			Username: payload.Username,
		}
		if err := adminUser.SetPassword(payload.Password); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		if err := tx.Create(adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		membership := models.UserGroup{UserID: adminUser.ID, GroupID: adminGroup.ID}
		if err := tx.Create(&membership).Error; err != nil {
			return fmt.Errorf("failed to add admin user to '%s': %w", models.MoviesAdminGroupName, err)
		}

		log.Printf("created initial admin user %q in '%s'", adminUser.Username, models.MoviesAdminGroupName)
		return nil
	})

	if txErr != nil {
		if txErr.Error() == "setup already completed" {
			WriteAPIError(w, http.StatusForbidden, "setup_complete", "Setup has already been completed.")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to create first admin user: "+txErr.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Initial admin user created successfully. Please log in."})
}
